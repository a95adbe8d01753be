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

var premiumMonths = map[models.PremiumFrequency]int{
	models.PremiumMonthly:    1,
	models.PremiumQuarterly:  3,
	models.PremiumSemiannual: 6,
	models.PremiumAnnual:     12,
}

// AnnualPremium is the premium paid over twelve months.
func AnnualPremium(p models.InsurancePolicy) decimal.Decimal {
	months, ok := premiumMonths[p.PremiumFrequency]
	if !ok {
		return decimal.Zero
	}
	return p.PremiumAmount.Mul(decimal.NewFromInt(int64(12 / months)))
}

// NextPremiumDue returns the first premium date on or after now, counted
// from the policy start. Inactive or ended policies have none.
func NextPremiumDue(p models.InsurancePolicy, now time.Time) *time.Time {
	months, ok := premiumMonths[p.PremiumFrequency]
	if !ok || !p.IsActive || p.StartDate.IsZero() {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	due := p.StartDate
	for k := 1; due.Before(today); k++ {
		due = addMonthsClamped(p.StartDate, k*months)
	}
	if p.EndDate != nil && due.After(*p.EndDate) {
		return nil
	}
	return &due
}

// addMonthsClamped moves t forward n months, keeping the day of month but
// clamping it to the last day of a shorter target month (Jan 31 -> Feb 28).
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return first.AddDate(0, 0, day-1)
}

func viewPolicy(p models.InsurancePolicy, now time.Time) models.PolicyView {
	return models.PolicyView{
		InsurancePolicy: p,
		NextPremiumDue:  NextPremiumDue(p, now),
		AnnualPremium:   AnnualPremium(p),
	}
}

var claimTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimSubmitted:   {models.ClaimUnderReview},
	models.ClaimUnderReview: {models.ClaimApproved, models.ClaimDenied},
	models.ClaimApproved:    {models.ClaimPaid},
	models.ClaimPaid:        {models.ClaimClosed},
	models.ClaimDenied:      {models.ClaimClosed},
}

// CanTransitionClaim reports whether a claim may move from one status to
// another.
func CanTransitionClaim(from, to models.ClaimStatus) bool {
	for _, next := range claimTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type InsuranceService struct {
	docs store.DocumentStore
	now  func() time.Time
}

func NewInsuranceService(docs store.DocumentStore) *InsuranceService {
	return &InsuranceService{docs: docs, now: time.Now}
}

func validatePolicy(req models.PolicyRequest) error {
	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.PolicyType) == "" {
		return fmt.Errorf("%w: provider and policy type are required", ErrInvalidInput)
	}
	if _, ok := premiumMonths[req.PremiumFrequency]; !ok {
		return fmt.Errorf("%w: unknown premium frequency %q", ErrInvalidInput, req.PremiumFrequency)
	}
	if req.PremiumAmount.IsNegative() || req.CoverageAmount.IsNegative() || req.Deductible.IsNegative() {
		return fmt.Errorf("%w: amounts cannot be negative", ErrInvalidInput)
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}
	return nil
}

func applyPolicy(p *models.InsurancePolicy, req models.PolicyRequest) {
	p.Provider = strings.TrimSpace(req.Provider)
	p.PolicyType = strings.ToLower(strings.TrimSpace(req.PolicyType))
	p.PolicyNumber = strings.TrimSpace(req.PolicyNumber)
	p.PremiumAmount = req.PremiumAmount
	p.PremiumFrequency = req.PremiumFrequency
	p.CoverageAmount = req.CoverageAmount
	p.Deductible = req.Deductible
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
}

func (s *InsuranceService) CreatePolicy(ctx context.Context, sess models.Session, req models.PolicyRequest) (*models.PolicyView, error) {
	if err := validatePolicy(req); err != nil {
		return nil, err
	}
	now := s.now()
	p := models.InsurancePolicy{
		ID:        uuid.New().String(),
		UserID:    sess.UserID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyPolicy(&p, req)
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionPolicies, p.ID, p); err != nil {
		return nil, storeErr(err, "create policy")
	}
	utils.LogLedgerAction("create_policy", store.CollectionPolicies, p.ID, sess.UserID)
	view := viewPolicy(p, now)
	return &view, nil
}

func (s *InsuranceService) ListPolicies(ctx context.Context, sess models.Session) ([]models.PolicyView, error) {
	policies, err := store.ListAs[models.InsurancePolicy](ctx, s.docs, sess.UserID, store.CollectionPolicies)
	if err != nil {
		return nil, storeErr(err, "list policies")
	}
	now := s.now()
	views := make([]models.PolicyView, 0, len(policies))
	for _, p := range policies {
		views = append(views, viewPolicy(p, now))
	}
	return views, nil
}

func (s *InsuranceService) getPolicy(ctx context.Context, sess models.Session, id string) (*models.InsurancePolicy, error) {
	p, err := store.GetAs[models.InsurancePolicy](ctx, s.docs, sess.UserID, store.CollectionPolicies, id)
	if err != nil {
		return nil, storeErr(err, "policy "+id)
	}
	return p, nil
}

func (s *InsuranceService) GetPolicy(ctx context.Context, sess models.Session, id string) (*models.PolicyView, error) {
	p, err := s.getPolicy(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	view := viewPolicy(*p, s.now())
	return &view, nil
}

func (s *InsuranceService) UpdatePolicy(ctx context.Context, sess models.Session, id string, req models.PolicyRequest) (*models.PolicyView, error) {
	p, err := s.getPolicy(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := validatePolicy(req); err != nil {
		return nil, err
	}
	applyPolicy(p, req)
	p.UpdatedAt = s.now()
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionPolicies, p.ID, p); err != nil {
		return nil, storeErr(err, "update policy")
	}
	utils.LogLedgerAction("update_policy", store.CollectionPolicies, p.ID, sess.UserID)
	view := viewPolicy(*p, p.UpdatedAt)
	return &view, nil
}

// CancelPolicy deactivates a policy. Its claims stay readable.
func (s *InsuranceService) CancelPolicy(ctx context.Context, sess models.Session, id string) (*models.PolicyView, error) {
	p, err := s.getPolicy(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p.IsActive = false
	if p.EndDate == nil || p.EndDate.After(now) {
		p.EndDate = &now
	}
	p.UpdatedAt = now
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionPolicies, p.ID, p); err != nil {
		return nil, storeErr(err, "cancel policy")
	}
	utils.LogLedgerAction("cancel_policy", store.CollectionPolicies, p.ID, sess.UserID)
	view := viewPolicy(*p, now)
	return &view, nil
}

func (s *InsuranceService) CreateClaim(ctx context.Context, sess models.Session, req models.ClaimRequest) (*models.InsuranceClaim, error) {
	policy, err := s.getPolicy(ctx, sess, req.PolicyID)
	if err != nil {
		return nil, err
	}
	if !policy.IsActive {
		return nil, fmt.Errorf("%w: policy is cancelled", ErrInvalidInput)
	}
	if !req.AmountClaimed.IsPositive() {
		return nil, fmt.Errorf("%w: claimed amount must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	now := s.now()
	incident := req.IncidentDate
	if incident.IsZero() {
		incident = now
	}
	claim := &models.InsuranceClaim{
		ID:            uuid.New().String(),
		UserID:        sess.UserID,
		PolicyID:      policy.ID,
		Description:   strings.TrimSpace(req.Description),
		IncidentDate:  incident,
		AmountClaimed: req.AmountClaimed,
		Status:        models.ClaimSubmitted,
		History:       []models.ClaimEvent{{To: models.ClaimSubmitted, At: now}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionClaims, claim.ID, claim); err != nil {
		return nil, storeErr(err, "create claim")
	}
	utils.LogLedgerAction("create_claim", store.CollectionClaims, claim.ID, sess.UserID)
	return claim, nil
}

// ListClaims returns the user's claims, optionally for one policy.
func (s *InsuranceService) ListClaims(ctx context.Context, sess models.Session, policyID string) ([]models.InsuranceClaim, error) {
	claims, err := store.ListAs[models.InsuranceClaim](ctx, s.docs, sess.UserID, store.CollectionClaims)
	if err != nil {
		return nil, storeErr(err, "list claims")
	}
	if policyID == "" {
		return claims, nil
	}
	out := claims[:0]
	for _, c := range claims {
		if c.PolicyID == policyID {
			out = append(out, c)
		}
	}
	return out, nil
}

// TransitionClaim moves a claim along its lifecycle. Approval records the
// approved amount (default: the claimed amount); payment records the paid
// amount (default: the approved amount).
func (s *InsuranceService) TransitionClaim(ctx context.Context, sess models.Session, id string, req models.ClaimTransitionRequest) (*models.InsuranceClaim, error) {
	claim, err := store.GetAs[models.InsuranceClaim](ctx, s.docs, sess.UserID, store.CollectionClaims, id)
	if err != nil {
		return nil, storeErr(err, "claim "+id)
	}
	if !CanTransitionClaim(claim.Status, req.Status) {
		return nil, fmt.Errorf("%w: claim %s -> %s", ErrInvalidTransition, claim.Status, req.Status)
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	}

	switch req.Status {
	case models.ClaimApproved:
		approved := claim.AmountClaimed
		if req.Amount != nil {
			approved = *req.Amount
		}
		if approved.GreaterThan(claim.AmountClaimed) {
			return nil, fmt.Errorf("%w: approved amount exceeds claim", ErrInvalidInput)
		}
		claim.AmountApproved = &approved
	case models.ClaimPaid:
		paid := claim.AmountClaimed
		if claim.AmountApproved != nil {
			paid = *claim.AmountApproved
		}
		if req.Amount != nil {
			paid = *req.Amount
		}
		claim.AmountPaid = &paid
	}

	now := s.now()
	claim.History = append(claim.History, models.ClaimEvent{
		From: claim.Status,
		To:   req.Status,
		At:   now,
		Note: strings.TrimSpace(req.Note),
	})
	claim.Status = req.Status
	claim.UpdatedAt = now

	if err := store.PutAs(ctx, s.docs, sess.UserID, store.CollectionClaims, claim.ID, claim); err != nil {
		return nil, storeErr(err, "update claim")
	}
	utils.LogLedgerAction("claim_"+string(req.Status), store.CollectionClaims, claim.ID, sess.UserID)
	return claim, nil
}
