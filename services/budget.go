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
	"github.com/shopspring/decimal"
)

const defaultAlertThreshold = 0.8

func monthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// BudgetUsage measures spending against a budget for the calendar month
// containing month. Only visible expenses in the budget category count.
func BudgetUsage(b models.Budget, txs []models.Transaction, month time.Time) models.BudgetUsage {
	start, end := monthBounds(month)
	usage := models.BudgetUsage{
		BudgetID: b.ID,
		Category: b.Category,
		Month:    start.Format("2006-01"),
		Limit:    b.MonthlyLimit,
		Spent:    decimal.Zero,
	}

	category := normalizeCategory(b.Category)
	for _, tx := range txs {
		if tx.Hidden || tx.Type != models.TxExpense || normalizeCategory(tx.Category) != category {
			continue
		}
		if tx.Date.Before(start) || !tx.Date.Before(end) {
			continue
		}
		usage.Spent = usage.Spent.Add(tx.Amount)
		usage.Count++
	}

	usage.Remaining = b.MonthlyLimit.Sub(usage.Spent)
	usage.OverLimit = usage.Spent.GreaterThan(b.MonthlyLimit)
	if b.MonthlyLimit.IsPositive() {
		ratio := usage.Spent.Div(b.MonthlyLimit)
		usage.Percent = ratio.Mul(hundred).Round(2).InexactFloat64()
		threshold := b.AlertThreshold
		if threshold <= 0 {
			threshold = defaultAlertThreshold
		}
		usage.NearLimit = !usage.OverLimit && ratio.InexactFloat64() >= threshold
	}
	return usage
}

// monthsUntil counts calendar months to deadline, rounding a partial
// month up. Past deadlines give zero.
func monthsUntil(now, deadline time.Time) int {
	months := (deadline.Year()-now.Year())*12 + int(deadline.Month()-now.Month())
	if deadline.Day() > now.Day() {
		months++
	}
	if months < 0 {
		return 0
	}
	return months
}

// GoalProgress reports how far a savings goal is and what it takes per
// month to reach it by the deadline.
func GoalProgress(g models.SavingsGoal, now time.Time) models.GoalProgress {
	p := models.GoalProgress{
		GoalID:    g.ID,
		Remaining: g.TargetAmount.Sub(g.CurrentAmount),
		Achieved:  g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount),
	}
	if p.Remaining.IsNegative() {
		p.Remaining = decimal.Zero
	}
	if g.TargetAmount.IsPositive() {
		ratio := decimal.Min(g.CurrentAmount.Div(g.TargetAmount), decimal.NewFromInt(1))
		if ratio.IsNegative() {
			ratio = decimal.Zero
		}
		p.Percent = ratio.Mul(hundred).Round(2).InexactFloat64()
	}

	if g.Deadline != nil {
		months := monthsUntil(now, *g.Deadline)
		p.MonthsLeft = &months
		if !p.Achieved {
			contribution := p.Remaining
			if months > 0 {
				contribution = p.Remaining.Div(decimal.NewFromInt(int64(months))).Round(2)
			}
			p.MonthlyContribution = &contribution
		}
	}
	return p
}

type BudgetService struct {
	docs store.DocumentStore
	now  func() time.Time
}

func NewBudgetService(docs store.DocumentStore) *BudgetService {
	return &BudgetService{docs: docs, now: time.Now}
}

func validateBudget(req models.BudgetRequest) error {
	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !req.MonthlyLimit.IsPositive() {
		return fmt.Errorf("%w: monthly limit must be positive", ErrInvalidInput)
	}
	if req.AlertThreshold < 0 || req.AlertThreshold > 1 {
		return fmt.Errorf("%w: alert threshold must be between 0 and 1", ErrInvalidInput)
	}
	return nil
}

func (s *BudgetService) ListBudgets(ctx context.Context, sess models.Session) ([]models.Budget, error) {
	budgets, err := store.ListAs[models.Budget](ctx, s.docs, sess.UserID, store.CollectionBudgets)
	if err != nil {
		return nil, storeErr(err, "list budgets")
	}
	return budgets, nil
}

// CreateBudget adds a budget. A category has at most one budget.
func (s *BudgetService) CreateBudget(ctx context.Context, sess models.Session, req models.BudgetRequest) (*models.Budget, error) {
	if err := validateBudget(req); err != nil {
		return nil, err
	}
	existing, err := s.ListBudgets(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, b := range existing {
		if normalizeCategory(b.Category) == normalizeCategory(req.Category) {
			return nil, fmt.Errorf("%w: budget for %s already exists", ErrConflict, b.Category)
		}
	}

	now := s.now()
	b := &models.Budget{
		ID:             uuid.New().String(),
		UserID:         sess.UserID,
		Category:       strings.TrimSpace(req.Category),
		MonthlyLimit:   req.MonthlyLimit,
		AlertThreshold: req.AlertThreshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if b.AlertThreshold == 0 {
		b.AlertThreshold = defaultAlertThreshold
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionBudgets, b.ID, b); err != nil {
		return nil, storeErr(err, "create budget")
	}
	utils.LogLedgerAction("create_budget", store.CollectionBudgets, b.ID, sess.UserID)
	return b, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, sess models.Session, id string, req models.BudgetRequest) (*models.Budget, error) {
	b, err := store.GetAs[models.Budget](ctx, s.docs, sess.UserID, store.CollectionBudgets, id)
	if err != nil {
		return nil, storeErr(err, "budget "+id)
	}
	if err := validateBudget(req); err != nil {
		return nil, err
	}
	b.Category = strings.TrimSpace(req.Category)
	b.MonthlyLimit = req.MonthlyLimit
	if req.AlertThreshold > 0 {
		b.AlertThreshold = req.AlertThreshold
	}
	b.UpdatedAt = s.now()
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionBudgets, b.ID, b); err != nil {
		return nil, storeErr(err, "update budget")
	}
	utils.LogLedgerAction("update_budget", store.CollectionBudgets, b.ID, sess.UserID)
	return b, nil
}

func (s *BudgetService) DeleteBudget(ctx context.Context, sess models.Session, id string) error {
	if err := s.docs.Delete(ctx, sess.UserID, store.CollectionBudgets, id); err != nil {
		return storeErr(err, "delete budget")
	}
	utils.LogLedgerAction("delete_budget", store.CollectionBudgets, id, sess.UserID)
	return nil
}

// Usage reports every budget for the month containing month.
func (s *BudgetService) Usage(ctx context.Context, sess models.Session, month time.Time) ([]models.BudgetUsage, error) {
	budgets, err := s.ListBudgets(ctx, sess)
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
	out := make([]models.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetUsage(b, txs, month))
	}
	return out, nil
}

func validateGoal(req models.GoalRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !req.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target must be positive", ErrInvalidInput)
	}
	if req.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", ErrInvalidInput)
	}
	return nil
}

// ListGoals returns the user's goals. Goals linked to an account take
// their current amount from that account's balance.
func (s *BudgetService) ListGoals(ctx context.Context, sess models.Session) ([]models.SavingsGoal, error) {
	goals, err := store.ListAs[models.SavingsGoal](ctx, s.docs, sess.UserID, store.CollectionGoals)
	if err != nil {
		return nil, storeErr(err, "list goals")
	}

	linked := false
	for _, g := range goals {
		if g.AccountID != "" {
			linked = true
			break
		}
	}
	if !linked {
		return goals, nil
	}

	accounts, err := loadAccounts(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	txs, err := loadTransactions(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	for i, g := range goals {
		if acct, ok := byID[g.AccountID]; ok && acct.Kind() == models.AccountKindBank {
			goals[i].CurrentAmount = Balance(acct, txs)
		}
	}
	return goals, nil
}

func (s *BudgetService) CreateGoal(ctx context.Context, sess models.Session, req models.GoalRequest) (*models.SavingsGoal, error) {
	if err := validateGoal(req); err != nil {
		return nil, err
	}
	if req.AccountID != "" {
		acct, err := loadAccount(ctx, s.docs, sess.UserID, req.AccountID)
		if err != nil {
			return nil, err
		}
		if acct.Kind() != models.AccountKindBank {
			return nil, fmt.Errorf("%w: goals can only track bank accounts", ErrInvalidInput)
		}
	}

	now := s.now()
	g := &models.SavingsGoal{
		ID:            uuid.New().String(),
		UserID:        sess.UserID,
		Name:          strings.TrimSpace(req.Name),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		AccountID:     req.AccountID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionGoals, g.ID, g); err != nil {
		return nil, storeErr(err, "create goal")
	}
	utils.LogLedgerAction("create_goal", store.CollectionGoals, g.ID, sess.UserID)
	return g, nil
}

func (s *BudgetService) UpdateGoal(ctx context.Context, sess models.Session, id string, req models.GoalRequest) (*models.SavingsGoal, error) {
	g, err := store.GetAs[models.SavingsGoal](ctx, s.docs, sess.UserID, store.CollectionGoals, id)
	if err != nil {
		return nil, storeErr(err, "goal "+id)
	}
	if err := validateGoal(req); err != nil {
		return nil, err
	}
	g.Name = strings.TrimSpace(req.Name)
	g.TargetAmount = req.TargetAmount
	g.CurrentAmount = req.CurrentAmount
	g.Deadline = req.Deadline
	g.AccountID = req.AccountID
	g.UpdatedAt = s.now()
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionGoals, g.ID, g); err != nil {
		return nil, storeErr(err, "update goal")
	}
	utils.LogLedgerAction("update_goal", store.CollectionGoals, g.ID, sess.UserID)
	return g, nil
}

func (s *BudgetService) DeleteGoal(ctx context.Context, sess models.Session, id string) error {
	if err := s.docs.Delete(ctx, sess.UserID, store.CollectionGoals, id); err != nil {
		return storeErr(err, "delete goal")
	}
	utils.LogLedgerAction("delete_goal", store.CollectionGoals, id, sess.UserID)
	return nil
}

func (s *BudgetService) GoalsProgress(ctx context.Context, sess models.Session) ([]models.GoalProgress, error) {
	goals, err := s.ListGoals(ctx, sess)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]models.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress(g, now))
	}
	return out, nil
}
