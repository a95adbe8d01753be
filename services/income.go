package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ruleRank orders payer rules from most to least specific.
var ruleRank = map[models.PayerRuleType]int{
	models.RuleExactPayer:         4,
	models.RulePartialDescription: 3,
	models.RuleAmountRange:        2,
	models.RuleAccount:            1,
}

func ruleMatches(rule models.PayerRule, tx models.Transaction) bool {
	switch rule.Type {
	case models.RuleExactPayer:
		return rule.Value != "" && strings.EqualFold(strings.TrimSpace(tx.Description), strings.TrimSpace(rule.Value))
	case models.RulePartialDescription:
		needle := strings.ToLower(strings.TrimSpace(rule.Value))
		return needle != "" && strings.Contains(strings.ToLower(tx.Description), needle)
	case models.RuleAmountRange:
		if rule.Min == nil && rule.Max == nil {
			return false
		}
		if rule.Min != nil && tx.Amount.LessThan(*rule.Min) {
			return false
		}
		if rule.Max != nil && tx.Amount.GreaterThan(*rule.Max) {
			return false
		}
		return true
	case models.RuleAccount:
		return rule.Value != "" && tx.AccountID == rule.Value
	}
	return false
}

// MatchIncomeSource picks the source whose best matching rule is the most
// specific. Sources earlier in the slice win ties. Only income
// transactions are matched.
func MatchIncomeSource(tx models.Transaction, sources []models.IncomeSource) *models.IncomeMatch {
	if tx.Type != models.TxIncome {
		return nil
	}
	var best *models.IncomeMatch
	bestRank := 0
	for _, src := range sources {
		for _, rule := range src.Rules {
			rank := ruleRank[rule.Type]
			if rank <= bestRank || !ruleMatches(rule, tx) {
				continue
			}
			bestRank = rank
			best = &models.IncomeMatch{
				SourceID:   src.ID,
				SourceName: src.Name,
				Rule:       rule,
				RuleType:   rule.Type,
			}
		}
	}
	return best
}

// IncomeSummary totals what a source paid in the calendar month of month.
func IncomeSummary(source models.IncomeSource, txs []models.Transaction, month time.Time) models.IncomeSummary {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, 0)

	summary := models.IncomeSummary{
		SourceID: source.ID,
		Month:    start.Format("2006-01"),
		Received: decimal.Zero,
		Expected: source.ExpectedMonthlyAmount,
	}
	for _, tx := range txs {
		if tx.Hidden || tx.Type != models.TxIncome {
			continue
		}
		if tx.IncomeSourceID != source.ID && !slices.Contains(source.TransactionIDs, tx.ID) {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		summary.Received = summary.Received.Add(tx.Amount)
		summary.Count++
	}
	if source.ExpectedMonthlyAmount != nil && summary.Received.LessThan(*source.ExpectedMonthlyAmount) {
		shortfall := source.ExpectedMonthlyAmount.Sub(summary.Received)
		summary.Shortfall = &shortfall
	}
	return summary
}

type IncomeService struct {
	docs     store.DocumentStore
	notifier Notifier
	now      func() time.Time
}

func NewIncomeService(docs store.DocumentStore, notifier Notifier) *IncomeService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &IncomeService{docs: docs, notifier: notifier, now: time.Now}
}

func validateRules(rules []models.PayerRule) error {
	for i, r := range rules {
		switch r.Type {
		case models.RuleExactPayer, models.RulePartialDescription, models.RuleAccount:
			if strings.TrimSpace(r.Value) == "" {
				return fmt.Errorf("%w: rule %d needs a value", ErrInvalidInput, i)
			}
		case models.RuleAmountRange:
			if r.Min == nil && r.Max == nil {
				return fmt.Errorf("%w: rule %d needs min or max", ErrInvalidInput, i)
			}
			if r.Min != nil && r.Max != nil && r.Min.GreaterThan(*r.Max) {
				return fmt.Errorf("%w: rule %d has min above max", ErrInvalidInput, i)
			}
		default:
			return fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, r.Type)
		}
	}
	return nil
}

func (s *IncomeService) List(ctx context.Context, sess models.Session) ([]models.IncomeSource, error) {
	sources, err := store.ListAs[models.IncomeSource](ctx, s.docs, sess.UserID, store.CollectionIncomeSources)
	if err != nil {
		return nil, storeErr(err, "list income sources")
	}
	return sources, nil
}

func (s *IncomeService) Get(ctx context.Context, sess models.Session, id string) (*models.IncomeSource, error) {
	src, err := store.GetAs[models.IncomeSource](ctx, s.docs, sess.UserID, store.CollectionIncomeSources, id)
	if err != nil {
		return nil, storeErr(err, "income source "+id)
	}
	return src, nil
}

func (s *IncomeService) Create(ctx context.Context, sess models.Session, req models.IncomeSourceRequest) (*models.IncomeSource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateRules(req.Rules); err != nil {
		return nil, err
	}
	now := s.now()
	src := &models.IncomeSource{
		ID:                    uuid.New().String(),
		UserID:                sess.UserID,
		Name:                  strings.TrimSpace(req.Name),
		ExpectedMonthlyAmount: req.ExpectedMonthlyAmount,
		TransactionIDs:        []string{},
		Rules:                 req.Rules,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if src.Rules == nil {
		src.Rules = []models.PayerRule{}
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionIncomeSources, src.ID, src); err != nil {
		return nil, storeErr(err, "create income source")
	}
	utils.LogLedgerAction("create_income_source", store.CollectionIncomeSources, src.ID, sess.UserID)
	return src, nil
}

func (s *IncomeService) Update(ctx context.Context, sess models.Session, id string, req models.IncomeSourceRequest) (*models.IncomeSource, error) {
	src, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateRules(req.Rules); err != nil {
		return nil, err
	}
	src.Name = strings.TrimSpace(req.Name)
	src.ExpectedMonthlyAmount = req.ExpectedMonthlyAmount
	if req.Rules != nil {
		src.Rules = req.Rules
	}
	src.UpdatedAt = s.now()
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionIncomeSources, src.ID, src); err != nil {
		return nil, storeErr(err, "update income source")
	}
	utils.LogLedgerAction("update_income_source", store.CollectionIncomeSources, src.ID, sess.UserID)
	return src, nil
}

func (s *IncomeService) Delete(ctx context.Context, sess models.Session, id string) error {
	if err := s.docs.Delete(ctx, sess.UserID, store.CollectionIncomeSources, id); err != nil {
		return storeErr(err, "delete income source")
	}
	utils.LogLedgerAction("delete_income_source", store.CollectionIncomeSources, id, sess.UserID)
	return nil
}

// Detect runs the matcher against the user's sources without writing.
func (s *IncomeService) Detect(ctx context.Context, sess models.Session, tx models.Transaction) (*models.IncomeMatch, error) {
	sources, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return MatchIncomeSource(tx, sources), nil
}

// Record links a stored income transaction to its source and pushes an
// income_detected event. Transactions without a source are ignored.
func (s *IncomeService) Record(ctx context.Context, sess models.Session, tx models.Transaction) error {
	if tx.IncomeSourceID == "" {
		return nil
	}
	src, err := s.Get(ctx, sess, tx.IncomeSourceID)
	if err != nil {
		return err
	}
	if !slices.Contains(src.TransactionIDs, tx.ID) {
		src.TransactionIDs = append(src.TransactionIDs, tx.ID)
		src.UpdatedAt = s.now()
		if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionIncomeSources, src.ID, src); err != nil {
			return storeErr(err, "link income transaction")
		}
	}

	s.notifier.Notify(sess.UserID, models.Notification{
		Type:    models.NotifyIncomeDetected,
		Message: fmt.Sprintf("Income from %s: %s", src.Name, tx.Amount.StringFixed(2)),
		Data: map[string]any{
			"source_id":      src.ID,
			"source_name":    src.Name,
			"transaction_id": tx.ID,
			"amount":         tx.Amount,
		},
		CreatedAt: s.now(),
	})
	return nil
}

func (s *IncomeService) Summary(ctx context.Context, sess models.Session, id string, month time.Time) (*models.IncomeSummary, error) {
	src, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	if month.IsZero() {
		month = s.now()
	}
	summary := IncomeSummary(*src, txs, month)
	return &summary, nil
}
