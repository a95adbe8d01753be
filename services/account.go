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

type AccountService struct {
	docs store.DocumentStore
	now  func() time.Time
}

func NewAccountService(docs store.DocumentStore) *AccountService {
	return &AccountService{docs: docs, now: time.Now}
}

func validateCredit(d models.CreditDetails) error {
	if d.Limit.IsNegative() {
		return fmt.Errorf("%w: credit limit cannot be negative", ErrInvalidInput)
	}
	if d.Rewards.DefaultType != "" && !d.Rewards.DefaultType.Valid() {
		return fmt.Errorf("%w: unknown reward type %q", ErrInvalidInput, d.Rewards.DefaultType)
	}
	for category, r := range d.Rewards.Categories {
		if !r.Type.Valid() {
			return fmt.Errorf("%w: unknown reward type %q for %s", ErrInvalidInput, r.Type, category)
		}
		if r.Rate.IsNegative() {
			return fmt.Errorf("%w: negative reward rate for %s", ErrInvalidInput, category)
		}
	}
	return nil
}

// normalizeRewards lower-cases category keys so lookups ignore case.
func normalizeRewards(d *models.CreditDetails) {
	if d.Rewards.DefaultType == "" {
		d.Rewards.DefaultType = models.RewardCashback
	}
	if len(d.Rewards.Categories) == 0 {
		return
	}
	normalized := make(map[string]models.CategoryReward, len(d.Rewards.Categories))
	for k, v := range d.Rewards.Categories {
		normalized[normalizeCategory(k)] = v
	}
	d.Rewards.Categories = normalized
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// Create stores a new bank account or credit card.
func (s *AccountService) Create(ctx context.Context, sess models.Session, req models.CreateAccountRequest) (*models.Account, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := s.now()
	acct := &models.Account{
		ID:             uuid.New().String(),
		UserID:         sess.UserID,
		Name:           strings.TrimSpace(req.Name),
		InitialBalance: req.InitialBalance,
		IsActive:       true,
		OpenedAt:       req.OpenedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch req.Kind {
	case models.AccountKindBank:
		d := models.BankDetails{AccountType: "checking"}
		if req.Bank != nil {
			d = *req.Bank
		}
		acct.Details = d
	case models.AccountKindCredit:
		var d models.CreditDetails
		if req.Credit != nil {
			d = *req.Credit
		}
		if err := validateCredit(d); err != nil {
			return nil, err
		}
		normalizeRewards(&d)
		acct.Details = d
	default:
		return nil, fmt.Errorf("%w: unknown account kind %q", ErrInvalidInput, req.Kind)
	}

	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionAccounts, acct.ID, acct); err != nil {
		return nil, storeErr(err, "create account")
	}
	utils.LogLedgerAction("create_account", store.CollectionAccounts, acct.ID, sess.UserID)
	return acct, nil
}

func (s *AccountService) List(ctx context.Context, sess models.Session, includeInactive bool) ([]models.Account, error) {
	accounts, err := loadAccounts(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	if includeInactive {
		return accounts, nil
	}
	active := accounts[:0]
	for _, a := range accounts {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (s *AccountService) Get(ctx context.Context, sess models.Session, id string) (*models.Account, error) {
	return loadAccount(ctx, s.docs, sess.UserID, id)
}

// Update edits the mutable fields. The kind of an account never changes.
func (s *AccountService) Update(ctx context.Context, sess models.Session, id string, req models.UpdateAccountRequest) (*models.Account, error) {
	acct, err := loadAccount(ctx, s.docs, sess.UserID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		acct.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}
	if req.ClosedAt != nil {
		acct.ClosedAt = req.ClosedAt
	}

	switch acct.Details.(type) {
	case models.BankDetails, *models.BankDetails:
		if req.Credit != nil {
			return nil, fmt.Errorf("%w: bank account has no credit details", ErrInvalidInput)
		}
		if req.Bank != nil {
			acct.Details = *req.Bank
		}
	case models.CreditDetails, *models.CreditDetails:
		if req.Bank != nil {
			return nil, fmt.Errorf("%w: credit card has no bank details", ErrInvalidInput)
		}
		if req.Credit != nil {
			d := *req.Credit
			if err := validateCredit(d); err != nil {
				return nil, err
			}
			normalizeRewards(&d)
			acct.Details = d
		}
	}

	acct.UpdatedAt = s.now()
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionAccounts, acct.ID, acct); err != nil {
		return nil, storeErr(err, "update account")
	}
	utils.LogLedgerAction("update_account", store.CollectionAccounts, acct.ID, sess.UserID)
	return acct, nil
}

// Deactivate soft-deletes an account; its history is kept.
func (s *AccountService) Deactivate(ctx context.Context, sess models.Session, id string) (*models.Account, error) {
	inactive := false
	closed := s.now()
	return s.Update(ctx, sess, id, models.UpdateAccountRequest{IsActive: &inactive, ClosedAt: &closed})
}

func (s *AccountService) Summary(ctx context.Context, sess models.Session, id string) (*models.AccountSummary, error) {
	acct, err := loadAccount(ctx, s.docs, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(*acct, txs)
	return &summary, nil
}

func (s *AccountService) History(ctx context.Context, sess models.Session, id string) (*models.Account, []models.LedgerEntry, error) {
	acct, err := loadAccount(ctx, s.docs, sess.UserID, id)
	if err != nil {
		return nil, nil, err
	}
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, nil, err
	}
	return acct, RunningBalance(*acct, txs), nil
}

func (s *AccountService) Overview(ctx context.Context, sess models.Session) (*models.Overview, error) {
	accounts, err := loadAccounts(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	overview := BuildOverview(accounts, txs, s.now())
	return &overview, nil
}
