// Package store persists per-user JSON documents and user accounts.
//
// Documents are grouped by collection and owned by exactly one user. The
// service layer only ever lists a whole collection, reads one document, or
// writes documents by id; PutMany writes several documents atomically.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/LovationAdmin/finance-api/models"
)

const (
	CollectionAccounts      = "accounts"
	CollectionTransactions  = "transactions"
	CollectionBonuses       = "bonuses"
	CollectionIncomeSources = "income_sources"
	CollectionPolicies      = "insurance_policies"
	CollectionClaims        = "insurance_claims"
	CollectionBudgets       = "budgets"
	CollectionGoals         = "goals"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
}

type DocumentStore interface {
	List(ctx context.Context, userID, collection string) ([]json.RawMessage, error)
	Get(ctx context.Context, userID, collection, id string) (json.RawMessage, error)
	Put(ctx context.Context, userID string, doc Document) error
	// PutMany writes every document or none of them.
	PutMany(ctx context.Context, userID string, docs []Document) error
	Delete(ctx context.Context, userID, collection, id string) error
}

// UserIDs lists every user owning at least one document in a collection.
// Background jobs use it to sweep all users.
type UserLister interface {
	UserIDs(ctx context.Context, collection string) ([]string, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateTOTP(ctx context.Context, userID, secret string, enabled bool) error
}

// ListAs decodes every document of a collection into T.
func ListAs[T any](ctx context.Context, s DocumentStore, userID, collection string) ([]T, error) {
	raws, err := s.List(ctx, userID, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs decodes one document into T.
func GetAs[T any](ctx context.Context, s DocumentStore, userID, collection, id string) (*T, error) {
	raw, err := s.Get(ctx, userID, collection, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// NewDocument encodes v for collection/id.
func NewDocument(collection, id string, v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}
	return Document{Collection: collection, ID: id, Data: data}, nil
}

// PutAs encodes and writes a single document.
func PutAs(ctx context.Context, s DocumentStore, userID, collection, id string, v any) error {
	doc, err := NewDocument(collection, id, v)
	if err != nil {
		return err
	}
	return s.Put(ctx, userID, doc)
}
