package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-otp-registration/internal/domain/entity"
)

// UserIndexer mirrors registered users into an Elasticsearch index for
// back-office search. Credentials and passcodes are never indexed.
type UserIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndexer(es *elasticsearch.Client, index string) *UserIndexer {
	return &UserIndexer{ES: es, Index: index}
}

type userDocument struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Verification string `json:"verification_status"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func (ix *UserIndexer) IndexUser(ctx context.Context, u entity.User) error {
	if ix == nil || ix.ES == nil || ix.Index == "" {
		return nil
	}
	b, err := json.Marshal(userDocument{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Verification: string(u.Verification),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req := esapi.IndexRequest{
		Index:      ix.Index,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	res, err := req.Do(c, ix.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", ix.Index, res.Status())
	}
	return nil
}
