package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rewardCard(id string, rate string, categories map[string]models.CategoryReward) models.Account {
	a := creditAccount(id, "0", "5000")
	a.Details = models.CreditDetails{
		Limit: dec("5000"),
		Rewards: models.RewardProfile{
			DefaultType: models.RewardCashback,
			DefaultRate: dec(rate),
			Categories:  categories,
		},
	}
	return a
}

func TestBestCardPicksHighestReward(t *testing.T) {
	cards := []models.Account{
		rewardCard("card-b", "1", nil),
		rewardCard("card-a", "2", nil),
	}
	best, err := BestCard(dec("100"), "dining", cards)
	require.NoError(t, err)
	assert.Equal(t, "card-a", best.CardID)
	assertDecimal(t, "2.00", best.Reward)
	assert.False(t, best.CategoryMatch)
}

func TestBestCardCategoryOverride(t *testing.T) {
	cards := []models.Account{
		rewardCard("flat", "2", nil),
		rewardCard("grocer", "1", map[string]models.CategoryReward{
			"groceries": {Type: models.RewardCashback, Rate: dec("6")},
		}),
	}
	best, err := BestCard(dec("50"), "Groceries", cards)
	require.NoError(t, err)
	assert.Equal(t, "grocer", best.CardID)
	assertDecimal(t, "3", best.Reward)
	assert.True(t, best.CategoryMatch)

	best, err = BestCard(dec("50"), "gas", cards)
	require.NoError(t, err)
	assert.Equal(t, "flat", best.CardID)
}

func TestBestCardRanksOnUnroundedReward(t *testing.T) {
	cards := []models.Account{
		rewardCard("card-a", "1.5", nil),
		rewardCard("card-b", "1.9", nil),
	}
	best, err := BestCard(dec("1.00"), "", cards)
	require.NoError(t, err)
	assert.Equal(t, "card-b", best.CardID)
	assertDecimal(t, "0.02", best.Reward)

	ranked := CompareCards(dec("1.00"), "", cards)
	require.Len(t, ranked, 2)
	assert.Equal(t, "card-a", ranked[1].CardID)
	assertDecimal(t, "0.02", ranked[1].Reward)
}

func TestBestCardTieGoesToLowestID(t *testing.T) {
	cards := []models.Account{
		rewardCard("zeta", "1.5", nil),
		rewardCard("alpha", "1.5", nil),
		rewardCard("mid", "1.5", nil),
	}
	best, err := BestCard(dec("80"), "", cards)
	require.NoError(t, err)
	assert.Equal(t, "alpha", best.CardID)

	quotes := CompareCards(dec("80"), "", cards)
	require.Len(t, quotes, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{quotes[0].CardID, quotes[1].CardID, quotes[2].CardID})
}

func TestBestCardSkipsInactiveAndBank(t *testing.T) {
	closed := rewardCard("closed", "5", nil)
	closed.IsActive = false

	_, err := BestCard(dec("10"), "", []models.Account{closed, bankAccount("chk", "0")})
	assert.ErrorIs(t, err, ErrNoEligibleCard)

	_, err = BestCard(dec("10"), "", nil)
	assert.ErrorIs(t, err, ErrNoEligibleCard)
}

func TestComputeRewardPointsAndMiles(t *testing.T) {
	assertDecimal(t, "300", ComputeReward(dec("100"), models.CategoryReward{Type: models.RewardPoints, Rate: dec("3")}))
	assertDecimal(t, "150", ComputeReward(dec("75"), models.CategoryReward{Type: models.RewardMiles, Rate: dec("2")}))
	assertDecimal(t, "1.5", ComputeReward(dec("100"), models.CategoryReward{Type: models.RewardCashback, Rate: dec("1.5")}))
}

func TestEstimatedValueFromPointRatio(t *testing.T) {
	r := models.CategoryReward{Type: models.RewardPoints, Rate: dec("3"), PointRatio: "100:1"}
	v := EstimatedValue(dec("300"), r)
	require.NotNil(t, v)
	assertDecimal(t, "3", *v)

	r.PointRatio = "garbage"
	assert.Nil(t, EstimatedValue(dec("300"), r))

	r.PointRatio = ""
	assert.Nil(t, EstimatedValue(dec("300"), r))

	_, err := ParsePointRatio("0:1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRewardServiceFiltersCards(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedAccounts(t, mem, rewardCard("a", "2", nil), rewardCard("b", "1", nil))
	svc := NewRewardService(mem)

	best, err := svc.Best(ctx, session(), models.RewardRequest{Amount: dec("100"), CardIDs: []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, "b", best.CardID)

	quotes, err := svc.Compare(ctx, session(), models.RewardRequest{Amount: dec("100")})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "a", quotes[0].CardID)

	_, err = svc.Best(ctx, session(), models.RewardRequest{Amount: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Best(ctx, session(), models.RewardRequest{Amount: dec("5"), CardIDs: []string{"nope"}})
	assert.ErrorIs(t, err, ErrNoEligibleCard)
}
