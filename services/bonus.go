package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	nearCompletionThreshold = 0.8
	deadlineWindowDays      = 30
	urgentDays              = 7
)

// daysLeft counts whole or partial days until end. Past deadlines give
// zero or a negative count.
func daysLeft(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// EvaluateBonus reports progress on a single bonus. ok is false unless the
// bonus is still in progress. It never changes the bonus status.
func EvaluateBonus(b models.CreditCardBonus, now time.Time) (models.BonusProgress, bool) {
	if b.Status != models.BonusInProgress {
		return models.BonusProgress{}, false
	}

	progress := 1.0
	if b.SpendingRequired.IsPositive() {
		progress = b.CurrentSpending.Div(b.SpendingRequired).InexactFloat64()
	}
	remaining := b.SpendingRequired.Sub(b.CurrentSpending)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	percent := decimal.NewFromFloat(math.Min(progress, 1)).Mul(hundred).Round(2).InexactFloat64()

	p := models.BonusProgress{
		BonusID:         b.ID,
		CardID:          b.CardID,
		Progress:        progress,
		PercentComplete: percent,
		Remaining:       remaining,
		DaysLeft:        daysLeft(b.EndDate, now),
		NearCompletion:  progress >= nearCompletionThreshold && progress < 1,
	}
	if p.DaysLeft > 0 && p.DaysLeft <= deadlineWindowDays {
		p.DeadlineApproaching = true
		p.Priority = models.PriorityMedium
		if p.DaysLeft <= urgentDays {
			p.Priority = models.PriorityHigh
		}
	}
	return p, true
}

// EvaluateBonuses evaluates the in-progress bonuses of list in order.
func EvaluateBonuses(list []models.CreditCardBonus, now time.Time) []models.BonusProgress {
	out := make([]models.BonusProgress, 0, len(list))
	for _, b := range list {
		if p, ok := EvaluateBonus(b, now); ok {
			out = append(out, p)
		}
	}
	return out
}

// BonusAlerts turns progress flags into banner messages.
func BonusAlerts(progress []models.BonusProgress) []models.BonusAlert {
	var alerts []models.BonusAlert
	for _, p := range progress {
		if p.NearCompletion {
			alerts = append(alerts, models.BonusAlert{
				BonusID:  p.BonusID,
				CardID:   p.CardID,
				Kind:     models.AlertNearCompletion,
				Priority: models.PriorityMedium,
				Message:  fmt.Sprintf("%.0f%% complete, %s left to spend", p.PercentComplete, p.Remaining.StringFixed(2)),
			})
		}
		if p.DeadlineApproaching {
			alerts = append(alerts, models.BonusAlert{
				BonusID:  p.BonusID,
				CardID:   p.CardID,
				Kind:     models.AlertDeadlineApproaching,
				Priority: p.Priority,
				Message:  fmt.Sprintf("%d days left, %s to go", p.DaysLeft, p.Remaining.StringFixed(2)),
			})
		}
	}
	return alerts
}

var bonusTransitions = map[models.BonusStatus][]models.BonusStatus{
	models.BonusInProgress: {models.BonusCompleted, models.BonusExpired},
	models.BonusCompleted:  {models.BonusPaidOut},
}

func canTransitionBonus(from, to models.BonusStatus) bool {
	for _, next := range bonusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BonusService stores sign-up bonuses and moves them through their
// lifecycle. The read-only evaluation above never does.
type BonusService struct {
	docs     store.DocumentStore
	notifier Notifier
	now      func() time.Time
}

func NewBonusService(docs store.DocumentStore, notifier Notifier) *BonusService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &BonusService{docs: docs, notifier: notifier, now: time.Now}
}

func (s *BonusService) List(ctx context.Context, sess models.Session) ([]models.CreditCardBonus, error) {
	bonuses, err := store.ListAs[models.CreditCardBonus](ctx, s.docs, sess.UserID, store.CollectionBonuses)
	if err != nil {
		return nil, storeErr(err, "list bonuses")
	}
	return bonuses, nil
}

func (s *BonusService) Create(ctx context.Context, sess models.Session, req models.CreateBonusRequest) (*models.CreditCardBonus, error) {
	card, err := loadAccount(ctx, s.docs, sess.UserID, req.CardID)
	if err != nil {
		return nil, err
	}
	if card.Kind() != models.AccountKindCredit {
		return nil, fmt.Errorf("%w: bonuses belong to credit cards", ErrInvalidInput)
	}
	if !req.SpendingRequired.IsPositive() {
		return nil, fmt.Errorf("%w: spending requirement must be positive", ErrInvalidInput)
	}
	if req.CurrentSpending.IsNegative() || req.RewardAmount.IsNegative() {
		return nil, fmt.Errorf("%w: amounts cannot be negative", ErrInvalidInput)
	}
	if req.EndDate.IsZero() || !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must follow start date", ErrInvalidInput)
	}
	rewardType := req.RewardType
	if rewardType == "" {
		rewardType = models.RewardPoints
	}
	if !rewardType.Valid() {
		return nil, fmt.Errorf("%w: unknown reward type %q", ErrInvalidInput, rewardType)
	}

	now := s.now()
	bonus := &models.CreditCardBonus{
		ID:               uuid.New().String(),
		UserID:           sess.UserID,
		CardID:           card.ID,
		Description:      strings.TrimSpace(req.Description),
		SpendingRequired: req.SpendingRequired,
		CurrentSpending:  req.CurrentSpending,
		RewardAmount:     req.RewardAmount,
		RewardType:       rewardType,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Status:           models.BonusInProgress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionBonuses, bonus.ID, bonus); err != nil {
		return nil, storeErr(err, "create bonus")
	}
	utils.LogLedgerAction("create_bonus", store.CollectionBonuses, bonus.ID, sess.UserID)
	return bonus, nil
}

func (s *BonusService) Progress(ctx context.Context, sess models.Session) ([]models.BonusProgress, error) {
	bonuses, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return EvaluateBonuses(bonuses, s.now()), nil
}

func (s *BonusService) Alerts(ctx context.Context, sess models.Session) ([]models.BonusAlert, error) {
	progress, err := s.Progress(ctx, sess)
	if err != nil {
		return nil, err
	}
	alerts := BonusAlerts(progress)
	if alerts == nil {
		alerts = []models.BonusAlert{}
	}
	return alerts, nil
}

// Accrue adds a card charge to every in-progress bonus on that card whose
// window contains the charge date. Bonuses that reach their requirement
// become completed. It returns the bonuses it changed.
func (s *BonusService) Accrue(ctx context.Context, sess models.Session, cardID string, tx models.Transaction) ([]models.CreditCardBonus, error) {
	if tx.Type != models.TxExpense || tx.Hidden {
		return nil, nil
	}
	bonuses, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var changed []models.CreditCardBonus
	for _, b := range bonuses {
		if b.CardID != cardID || b.Status != models.BonusInProgress {
			continue
		}
		if tx.Date.Before(b.StartDate) || !tx.Date.Before(windowClose(b.EndDate)) {
			continue
		}
		b.CurrentSpending = b.CurrentSpending.Add(tx.Amount)
		b.UpdatedAt = now
		if b.CurrentSpending.GreaterThanOrEqual(b.SpendingRequired) {
			b.Status = models.BonusCompleted
			completed := now
			b.CompletedAt = &completed
		}
		changed = append(changed, b)
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := s.putAll(ctx, sess.UserID, changed); err != nil {
		return nil, err
	}

	for _, b := range changed {
		utils.LogLedgerAction("accrue_bonus", store.CollectionBonuses, b.ID, sess.UserID)
		if b.Status == models.BonusCompleted {
			s.notifier.Notify(sess.UserID, models.Notification{
				Type:      models.NotifyBonusCompleted,
				Message:   fmt.Sprintf("Spending requirement met: %s", b.Description),
				Data:      b,
				CreatedAt: now,
			})
		}
	}
	return changed, nil
}

func (s *BonusService) UpdateStatus(ctx context.Context, sess models.Session, id string, status models.BonusStatus) (*models.CreditCardBonus, error) {
	b, err := store.GetAs[models.CreditCardBonus](ctx, s.docs, sess.UserID, store.CollectionBonuses, id)
	if err != nil {
		return nil, storeErr(err, "bonus "+id)
	}
	if !canTransitionBonus(b.Status, status) {
		return nil, fmt.Errorf("%w: bonus %s -> %s", ErrInvalidTransition, b.Status, status)
	}
	now := s.now()
	b.Status = status
	b.UpdatedAt = now
	if status == models.BonusCompleted && b.CompletedAt == nil {
		b.CompletedAt = &now
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionBonuses, b.ID, b); err != nil {
		return nil, storeErr(err, "update bonus")
	}
	utils.LogLedgerAction("bonus_"+string(status), store.CollectionBonuses, b.ID, sess.UserID)
	return b, nil
}

// windowClose is the instant a bonus window shuts: the end date counts
// through the end of its calendar day.
func windowClose(end time.Time) time.Time {
	y, m, d := end.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, end.Location())
}

// Sweep expires in-progress bonuses whose window has closed and pushes
// the remaining alerts to each user. It returns how many bonuses expired.
func (s *BonusService) Sweep(ctx context.Context, users store.UserLister) (int, error) {
	ids, err := users.UserIDs(ctx, store.CollectionBonuses)
	if err != nil {
		return 0, fmt.Errorf("list bonus owners: %w", err)
	}

	now := s.now()
	expired := 0
	for _, userID := range ids {
		sess := models.Session{UserID: userID}
		bonuses, err := s.List(ctx, sess)
		if err != nil {
			return expired, err
		}

		var stale, live []models.CreditCardBonus
		for _, b := range bonuses {
			if b.Status != models.BonusInProgress {
				continue
			}
			if !now.Before(windowClose(b.EndDate)) {
				b.Status = models.BonusExpired
				b.UpdatedAt = now
				stale = append(stale, b)
				continue
			}
			live = append(live, b)
		}
		if len(stale) > 0 {
			if err := s.putAll(ctx, userID, stale); err != nil {
				return expired, err
			}
			expired += len(stale)
		}

		for _, alert := range BonusAlerts(EvaluateBonuses(live, now)) {
			s.notifier.Notify(userID, models.Notification{
				Type:      models.NotifyBonusAlert,
				Message:   alert.Message,
				Data:      alert,
				CreatedAt: now,
			})
		}
	}
	return expired, nil
}

func (s *BonusService) putAll(ctx context.Context, userID string, bonuses []models.CreditCardBonus) error {
	docs := make([]store.Document, 0, len(bonuses))
	for _, b := range bonuses {
		doc, err := store.NewDocument(store.CollectionBonuses, b.ID, b)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if err := s.docs.PutMany(ctx, userID, docs); err != nil {
		return storeErr(err, "save bonuses")
	}
	return nil
}
