package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-registration/config"
	"github.com/oksasatya/go-otp-registration/internal/application"
	"github.com/oksasatya/go-otp-registration/internal/domain/repository"
	"github.com/oksasatya/go-otp-registration/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-otp-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/go-otp-registration/internal/infrastructure/redislock"
	"github.com/oksasatya/go-otp-registration/internal/infrastructure/search"
	"github.com/oksasatya/go-otp-registration/pkg/helpers"
	"github.com/oksasatya/go-otp-registration/pkg/mailer"
	"github.com/oksasatya/go-otp-registration/pkg/mailer/templates"
)

// Container holds the process-wide singletons, built once at startup and
// passed by reference to the router. Infrastructure fields may be nil when
// the matching feature is not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client

	Users     repository.UserRepository
	Transport mailer.Transport

	Renderer     *templates.Renderer
	Dispatcher   *mailer.OTPDispatcher
	Registration *application.Service
}

// Build opens every configured backend and wires the application on top.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.openRedis(ctx)
	c.openSearch()
	if err := c.openTransport(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.Wire(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Wire builds the template renderer, OTP dispatcher and registration service
// from Config, Logger, Users and Transport, plus Redis and ES when set.
func (c *Container) Wire() error {
	if c.Users == nil || c.Transport == nil {
		return fmt.Errorf("container: users store and mail transport are required")
	}
	if c.Logger == nil {
		c.Logger = helpers.NewDiscardLogger()
	}
	cfg := c.Config

	r, err := templates.NewRenderer(cfg.MailTemplateDir, cfg.MailTemplateSuffix, cfg.MailTemplateEncoding)
	if err != nil {
		return fmt.Errorf("mail templates: %w", err)
	}
	c.Renderer = r
	c.Dispatcher = mailer.NewOTPDispatcher(r, c.Transport, cfg.MailFrom, cfg.OTPExpiryMinutes, cfg.BrandName, cfg.MailTemplateEncoding)

	svc := application.NewService(c.Users, helpers.BcryptHasher{}, helpers.GenOTPCode, c.Dispatcher, c.Logger)
	svc.DispatchTimeout = cfg.MailDispatchTimeout
	if c.Redis != nil {
		svc.Lock = redislock.NewRegistrationLock(c.Redis, cfg.RegistrationLockTTL)
	}
	if c.ES != nil {
		svc.Indexer = search.NewUserIndexer(c.ES, cfg.ESUsersIndex)
	}
	c.Registration = svc
	return nil
}

func (c *Container) openStore(ctx context.Context) error {
	switch c.Config.StoreDriver {
	case "memory":
		c.Logger.Warn("using in-memory user store; data is lost on restart")
		c.Users = memory.NewUserRepository()
		return nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, c.Config)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.Users = pginfra.NewUserRepository(pool)
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Config.StoreDriver)
	}
}

func (c *Container) openRedis(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		c.Logger.Info("redis not configured; registration lock disabled")
		return
	}
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		c.Logger.WithError(err).Warn("redis unreachable at startup; lock will fail open until it recovers")
	}
	c.Redis = rdb
}

func (c *Container) openSearch() {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return
	}
	es, err := helpers.NewESClient(addrs, c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		c.Logger.WithError(err).Warn("elasticsearch client init failed; user indexing disabled")
		return
	}
	c.ES = es
}

// openTransport picks the mail transport: log only when sending is disabled,
// RabbitMQ when async, Mailgun otherwise.
func (c *Container) openTransport() error {
	cfg := c.Config
	switch {
	case !cfg.MailSendEnabled:
		c.Transport = mailer.LogTransport{Logger: c.Logger}
	case cfg.MailAsync:
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.RabbitPub = pub
		c.Transport = mailer.QueueTransport{Pub: pub}
	case cfg.MailgunConfigured():
		c.Transport = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	default:
		c.Logger.Warn("mailgun not configured; OTP emails will only be logged")
		c.Transport = mailer.LogTransport{Logger: c.Logger}
	}
	return nil
}

// Close releases every opened backend. Safe on a partially built container.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
