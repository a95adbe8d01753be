package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
)

// storeErr translates store sentinels into service sentinels.
func storeErr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func loadAccounts(ctx context.Context, docs store.DocumentStore, userID string) ([]models.Account, error) {
	accounts, err := store.ListAs[models.Account](ctx, docs, userID, store.CollectionAccounts)
	if err != nil {
		return nil, storeErr(err, "list accounts")
	}
	return accounts, nil
}

func loadAccount(ctx context.Context, docs store.DocumentStore, userID, id string) (*models.Account, error) {
	acct, err := store.GetAs[models.Account](ctx, docs, userID, store.CollectionAccounts, id)
	if err != nil {
		return nil, storeErr(err, "account "+id)
	}
	return acct, nil
}

func loadTransactions(ctx context.Context, docs store.DocumentStore, userID string) ([]models.Transaction, error) {
	txs, err := store.ListAs[models.Transaction](ctx, docs, userID, store.CollectionTransactions)
	if err != nil {
		return nil, storeErr(err, "list transactions")
	}
	return txs, nil
}
