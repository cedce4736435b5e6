package mailer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/oksasatya/go-otp-registration/pkg/mailer/templates"
)

// TemplateRenderer renders a named template with a variable mapping.
type TemplateRenderer interface {
	Render(name string, vars map[string]any) (string, error)
}

// OTPDispatcher renders the branded passcode email and hands it to a Transport.
type OTPDispatcher struct {
	Renderer             TemplateRenderer
	Transport            Transport
	From                 string
	DefaultExpiryMinutes int
	DefaultBrand         string
	Charset              string
	Now                  func() time.Time
}

func NewOTPDispatcher(r TemplateRenderer, t Transport, from string, expiryMinutes int, brand, charset string) *OTPDispatcher {
	return &OTPDispatcher{
		Renderer:             r,
		Transport:            t,
		From:                 from,
		DefaultExpiryMinutes: expiryMinutes,
		DefaultBrand:         brand,
		Charset:              charset,
		Now:                  time.Now,
	}
}

// SendOTPDefault sends with the configured expiry and brand.
func (d *OTPDispatcher) SendOTPDefault(ctx context.Context, to, name, otp string) error {
	return d.SendOTP(ctx, to, name, otp, d.DefaultExpiryMinutes, d.DefaultBrand)
}

// SendOTP renders the OTP email and sends it. Every failure is returned as
// a *SendError.
func (d *OTPDispatcher) SendOTP(ctx context.Context, to, name, otp string, expiryMinutes int, brand string) error {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	html, err := d.Renderer.Render(templates.OTPEmail, map[string]any{
		"name":      name,
		"otp":       otp,
		"expiresIn": expiryMinutes,
		"brand":     brand,
		"year":      strconv.Itoa(now().Year()),
	})
	if err != nil {
		return sendFailure("render", err)
	}

	msg := Message{
		From:    d.From,
		To:      to,
		Subject: "Your " + brand + " OTP Code",
		Text:    fmt.Sprintf("Hi %s,\n\nYour %s verification code is %s. It expires in %d minutes.\n", name, brand, otp, expiryMinutes),
		HTML:    html,
		Charset: d.Charset,
	}
	if err := d.Transport.Send(ctx, msg); err != nil {
		return sendFailure("transport", err)
	}
	return nil
}
