package services

import (
	"context"
	"testing"
	"time"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func policy(freq models.PremiumFrequency, premium string) models.InsurancePolicy {
	return models.InsurancePolicy{
		ID:               "pol-1",
		Provider:         "Acme Mutual",
		PolicyType:       "auto",
		PremiumAmount:    dec(premium),
		PremiumFrequency: freq,
		StartDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:         true,
	}
}

func TestAnnualPremium(t *testing.T) {
	assertDecimal(t, "1200", AnnualPremium(policy(models.PremiumMonthly, "100")))
	assertDecimal(t, "1000", AnnualPremium(policy(models.PremiumQuarterly, "250")))
	assertDecimal(t, "900", AnnualPremium(policy(models.PremiumSemiannual, "450")))
	assertDecimal(t, "800", AnnualPremium(policy(models.PremiumAnnual, "800")))
	assertDecimal(t, "0", AnnualPremium(policy("weekly", "800")))
}

func TestNextPremiumDue(t *testing.T) {
	tests := []struct {
		name string
		freq models.PremiumFrequency
		want time.Time
	}{
		{"monthly", models.PremiumMonthly, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"quarterly", models.PremiumQuarterly, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"semiannual", models.PremiumSemiannual, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"annual", models.PremiumAnnual, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := NextPremiumDue(policy(tt.freq, "100"), day0)
			require.NotNil(t, due)
			assert.True(t, tt.want.Equal(*due), "got %s", due)
		})
	}
}

func TestNextPremiumDueEdges(t *testing.T) {
	p := policy(models.PremiumMonthly, "100")
	sameDay := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	due := NextPremiumDue(p, sameDay)
	require.NotNil(t, due)
	assert.Equal(t, 15, due.Day())
	assert.Equal(t, time.March, due.Month())

	ended := p
	end := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	ended.EndDate = &end
	assert.Nil(t, NextPremiumDue(ended, day0))

	inactive := p
	inactive.IsActive = false
	assert.Nil(t, NextPremiumDue(inactive, day0))
}

func TestClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewInsuranceService(store.NewMemory())
	svc.now = func() time.Time { return day0 }

	pol, err := svc.CreatePolicy(ctx, session(), models.PolicyRequest{
		Provider:         "Acme Mutual",
		PolicyType:       "Home",
		PremiumAmount:    dec("120"),
		PremiumFrequency: models.PremiumMonthly,
		CoverageAmount:   dec("300000"),
		Deductible:       dec("1000"),
		StartDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "home", pol.PolicyType)
	assertDecimal(t, "1440", pol.AnnualPremium)

	claim, err := svc.CreateClaim(ctx, session(), models.ClaimRequest{
		PolicyID:      pol.ID,
		Description:   "Hail damage",
		AmountClaimed: dec("4200"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimSubmitted, claim.Status)

	_, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimApproved})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimUnderReview})
	require.NoError(t, err)

	over := dec("5000")
	_, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimApproved, Amount: &over})
	assert.ErrorIs(t, err, ErrInvalidInput)

	approved := dec("3800")
	claim, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimApproved, Amount: &approved})
	require.NoError(t, err)
	require.NotNil(t, claim.AmountApproved)
	assertDecimal(t, "3800", *claim.AmountApproved)

	claim, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimPaid})
	require.NoError(t, err)
	require.NotNil(t, claim.AmountPaid)
	assertDecimal(t, "3800", *claim.AmountPaid)

	claim, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimClosed, Note: "settled"})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimClosed, claim.Status)
	require.Len(t, claim.History, 5)
	assert.Equal(t, "settled", claim.History[4].Note)

	_, err = svc.TransitionClaim(ctx, session(), claim.ID, models.ClaimTransitionRequest{Status: models.ClaimUnderReview})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeniedClaimCanOnlyClose(t *testing.T) {
	assert.True(t, CanTransitionClaim(models.ClaimUnderReview, models.ClaimDenied))
	assert.True(t, CanTransitionClaim(models.ClaimDenied, models.ClaimClosed))
	assert.False(t, CanTransitionClaim(models.ClaimDenied, models.ClaimPaid))
	assert.False(t, CanTransitionClaim(models.ClaimSubmitted, models.ClaimClosed))
	assert.False(t, CanTransitionClaim(models.ClaimClosed, models.ClaimSubmitted))
}

func TestClaimsRequireActivePolicy(t *testing.T) {
	ctx := context.Background()
	svc := NewInsuranceService(store.NewMemory())

	_, err := svc.CreateClaim(ctx, session(), models.ClaimRequest{PolicyID: "missing", Description: "x", AmountClaimed: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	pol, err := svc.CreatePolicy(ctx, session(), models.PolicyRequest{
		Provider:         "Acme",
		PolicyType:       "auto",
		PremiumFrequency: models.PremiumAnnual,
		StartDate:        day0,
	})
	require.NoError(t, err)
	_, err = svc.CancelPolicy(ctx, session(), pol.ID)
	require.NoError(t, err)

	_, err = svc.CreateClaim(ctx, session(), models.ClaimRequest{PolicyID: pol.ID, Description: "x", AmountClaimed: dec("1")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreatePolicy(ctx, session(), models.PolicyRequest{Provider: "Acme", PolicyType: "auto", PremiumFrequency: "weekly", StartDate: day0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNextPremiumDueClampsToMonthEnd(t *testing.T) {
	p := policy(models.PremiumMonthly, "100")
	p.StartDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"short month", time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"after short month", day0, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"thirty day month", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := NextPremiumDue(p, tt.now)
			require.NotNil(t, due)
			assert.True(t, tt.want.Equal(*due), "got %s", due)
		})
	}

	leap := p
	leap.StartDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	due := NextPremiumDue(leap, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, due)
	assert.True(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC).Equal(*due), "got %s", due)
}
