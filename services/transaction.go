package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/google/uuid"
)

type TransactionService struct {
	docs    store.DocumentStore
	income  *IncomeService
	bonuses *BonusService
	now     func() time.Time
}

func NewTransactionService(docs store.DocumentStore, income *IncomeService, bonuses *BonusService) *TransactionService {
	return &TransactionService{docs: docs, income: income, bonuses: bonuses, now: time.Now}
}

// TransactionFilter narrows List. Zero values match everything.
type TransactionFilter struct {
	AccountID     string
	Category      string
	Type          models.TransactionType
	From, To      time.Time
	IncludeHidden bool
}

func (f TransactionFilter) match(tx models.Transaction) bool {
	if tx.Hidden && !f.IncludeHidden {
		return false
	}
	if f.AccountID != "" && tx.AccountID != f.AccountID && tx.ToAccountID != f.AccountID {
		return false
	}
	if f.Category != "" && normalizeCategory(tx.Category) != normalizeCategory(f.Category) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	return true
}

func (s *TransactionService) List(ctx context.Context, sess models.Session, filter TransactionFilter) ([]models.Transaction, error) {
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.match(tx) {
			out = append(out, tx)
		}
	}
	SortTransactions(out)
	return out, nil
}

func (s *TransactionService) build(sess models.Session, req models.CreateTransactionRequest, source models.TransactionSource) (models.Transaction, error) {
	if !req.Amount.IsPositive() {
		return models.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if req.Type != models.TxIncome && req.Type != models.TxExpense {
		return models.Transaction{}, fmt.Errorf("%w: use transfers for %q", ErrInvalidInput, req.Type)
	}

	status := req.Status
	switch status {
	case "":
		status = models.StatusCleared
		if source == models.SourceSync {
			status = models.StatusPending
		}
	case models.StatusPending, models.StatusCleared, models.StatusReconciled:
	default:
		return models.Transaction{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	category := strings.TrimSpace(req.Category)
	if category == "" && req.Type == models.TxExpense {
		category = Categorize(req.Description)
	}

	return models.Transaction{
		ID:          uuid.New().String(),
		UserID:      sess.UserID,
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    category,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Notes:       req.Notes,
		Status:      status,
		Source:      source,
		ExternalID:  req.ExternalID,
		CreatedAt:   now,
	}, nil
}

// Create records a manual income or expense entry.
func (s *TransactionService) Create(ctx context.Context, sess models.Session, req models.CreateTransactionRequest) (*models.Transaction, error) {
	acct, err := loadAccount(ctx, s.docs, sess.UserID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive {
		return nil, ErrInactiveAccount
	}

	tx, err := s.build(sess, req, models.SourceManual)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sess, *acct, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Import ingests a batch from an aggregation sync. Entries whose external
// id was already imported are skipped.
func (s *TransactionService) Import(ctx context.Context, sess models.Session, reqs []models.CreateTransactionRequest) (*models.ImportResult, error) {
	existing, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, tx := range existing {
		if tx.ExternalID != "" {
			seen[tx.AccountID+"/"+tx.ExternalID] = true
		}
	}

	accounts, err := loadAccounts(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	result := &models.ImportResult{Imported: []models.Transaction{}}
	for i, req := range reqs {
		acct, ok := byID[req.AccountID]
		if !ok {
			return result, fmt.Errorf("entry %d: account %s: %w", i, req.AccountID, ErrNotFound)
		}
		if req.ExternalID != "" && seen[req.AccountID+"/"+req.ExternalID] {
			result.Skipped++
			continue
		}
		tx, err := s.build(sess, req, models.SourceSync)
		if err != nil {
			return result, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := s.persist(ctx, sess, acct, &tx); err != nil {
			return result, err
		}
		if tx.ExternalID != "" {
			seen[tx.AccountID+"/"+tx.ExternalID] = true
		}
		result.Imported = append(result.Imported, tx)
	}
	return result, nil
}

// persist writes tx and runs the ingestion hooks: income detection for
// income and bonus accrual for card charges.
func (s *TransactionService) persist(ctx context.Context, sess models.Session, acct models.Account, tx *models.Transaction) error {
	if tx.Type == models.TxIncome && s.income != nil {
		match, err := s.income.Detect(ctx, sess, *tx)
		if err != nil {
			utils.SafeWarn("income detection failed for %s: %v", tx.ID, err)
		} else if match != nil {
			tx.IncomeSourceID = match.SourceID
		}
	}

	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionTransactions, tx.ID, tx); err != nil {
		return storeErr(err, "create transaction")
	}
	utils.LogLedgerAction("create_transaction", store.CollectionTransactions, tx.ID, sess.UserID)

	if tx.Type == models.TxIncome && s.income != nil {
		if err := s.income.Record(ctx, sess, *tx); err != nil {
			utils.SafeWarn("recording income %s failed: %v", tx.ID, err)
		}
	}

	if tx.Type == models.TxExpense && acct.Kind() == models.AccountKindCredit && s.bonuses != nil {
		if _, err := s.bonuses.Accrue(ctx, sess, acct.ID, *tx); err != nil {
			utils.SafeWarn("bonus accrual failed for %s: %v", tx.ID, err)
		}
	}
	return nil
}

// Update changes category or visibility; everything else is immutable.
func (s *TransactionService) Update(ctx context.Context, sess models.Session, id string, req models.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := store.GetAs[models.Transaction](ctx, s.docs, sess.UserID, store.CollectionTransactions, id)
	if err != nil {
		return nil, storeErr(err, "transaction "+id)
	}
	if req.Category == nil && req.Hidden == nil {
		return nil, fmt.Errorf("%w: only category and hidden can be changed", ErrInvalidInput)
	}
	if req.Category != nil {
		tx.Category = strings.TrimSpace(*req.Category)
	}
	if req.Hidden != nil {
		tx.Hidden = *req.Hidden
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionTransactions, tx.ID, tx); err != nil {
		return nil, storeErr(err, "update transaction")
	}
	utils.LogLedgerAction("update_transaction", store.CollectionTransactions, tx.ID, sess.UserID)
	return tx, nil
}
