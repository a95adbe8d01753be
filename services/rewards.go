package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/store"

	"github.com/shopspring/decimal"
)

// ResolveRate returns the card's reward for a category, falling back to
// the card default. matched reports whether a category override applied.
func ResolveRate(card models.CreditDetails, category string) (reward models.CategoryReward, matched bool) {
	key := normalizeCategory(category)
	for k, r := range card.Rewards.Categories {
		if normalizeCategory(k) == key && key != "" {
			if r.Type == "" {
				r.Type = card.Rewards.DefaultType
			}
			return r, true
		}
	}
	return models.CategoryReward{
		Type:       card.Rewards.DefaultType,
		Rate:       card.Rewards.DefaultRate,
		PointRatio: card.Rewards.DefaultPointRatio,
	}, false
}

// ComputeReward applies a rate to an amount. Cashback rates are
// percentages; points and miles rates are per currency unit. The result is
// unrounded.
func ComputeReward(amount decimal.Decimal, reward models.CategoryReward) decimal.Decimal {
	if reward.Type == models.RewardPoints || reward.Type == models.RewardMiles {
		return amount.Mul(reward.Rate)
	}
	return amount.Mul(reward.Rate).Div(hundred)
}

// ParsePointRatio reads "<points>:<dollars>" into the cash value of one
// point.
func ParsePointRatio(ratio string) (decimal.Decimal, error) {
	pointsPart, dollarsPart, ok := strings.Cut(strings.TrimSpace(ratio), ":")
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: point ratio %q", ErrInvalidInput, ratio)
	}
	points, err := decimal.NewFromString(strings.TrimSpace(pointsPart))
	if err != nil || !points.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: point ratio %q", ErrInvalidInput, ratio)
	}
	dollars, err := decimal.NewFromString(strings.TrimSpace(dollarsPart))
	if err != nil || dollars.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: point ratio %q", ErrInvalidInput, ratio)
	}
	return dollars.Div(points), nil
}

// EstimatedValue converts a reward into cash. Cashback is already cash;
// points and miles need a parseable ratio, otherwise nil.
func EstimatedValue(reward decimal.Decimal, r models.CategoryReward) *decimal.Decimal {
	if r.Type == models.RewardCashback || r.Type == "" {
		v := reward.Round(2)
		return &v
	}
	if r.PointRatio == "" {
		return nil
	}
	perPoint, err := ParsePointRatio(r.PointRatio)
	if err != nil {
		return nil
	}
	v := reward.Mul(perPoint).Round(2)
	return &v
}

// rankedQuote keeps the unrounded reward next to the displayed quote.
type rankedQuote struct {
	quote models.RewardQuote
	raw   decimal.Decimal
}

func quoteCard(card models.Account, amount decimal.Decimal, category string) (rankedQuote, bool) {
	details, ok := card.Credit()
	if !ok {
		return rankedQuote{}, false
	}
	r, matched := ResolveRate(details, category)
	raw := ComputeReward(amount, r)
	return rankedQuote{
		quote: models.RewardQuote{
			CardID:         card.ID,
			CardName:       card.Name,
			Category:       category,
			Type:           r.Type,
			Rate:           r.Rate,
			Reward:         raw.Round(2),
			EstimatedValue: EstimatedValue(raw, r),
			CategoryMatch:  matched,
		},
		raw: raw,
	}, true
}

// QuoteCard prices a purchase on one card. Reward is rounded to cents.
func QuoteCard(card models.Account, amount decimal.Decimal, category string) (models.RewardQuote, bool) {
	rq, ok := quoteCard(card, amount, category)
	return rq.quote, ok
}

// CompareCards quotes every active credit card, highest reward first.
// Cards are ranked on the unrounded reward; exact ties are ordered by id.
func CompareCards(amount decimal.Decimal, category string, cards []models.Account) []models.RewardQuote {
	ranked := make([]rankedQuote, 0, len(cards))
	for _, c := range cards {
		if !c.IsActive {
			continue
		}
		if rq, ok := quoteCard(c, amount, category); ok {
			ranked = append(ranked, rq)
		}
	}
	slices.SortStableFunc(ranked, func(a, b rankedQuote) int {
		if c := b.raw.Cmp(a.raw); c != 0 {
			return c
		}
		return strings.Compare(a.quote.CardID, b.quote.CardID)
	})

	quotes := make([]models.RewardQuote, len(ranked))
	for i, rq := range ranked {
		quotes[i] = rq.quote
	}
	return quotes
}

// BestCard picks the card earning the most on a purchase.
func BestCard(amount decimal.Decimal, category string, cards []models.Account) (models.RewardQuote, error) {
	quotes := CompareCards(amount, category, cards)
	if len(quotes) == 0 {
		return models.RewardQuote{}, ErrNoEligibleCard
	}
	return quotes[0], nil
}

type RewardService struct {
	docs store.DocumentStore
}

func NewRewardService(docs store.DocumentStore) *RewardService {
	return &RewardService{docs: docs}
}

func (s *RewardService) cards(ctx context.Context, sess models.Session, req models.RewardRequest) ([]models.Account, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	accounts, err := loadAccounts(ctx, s.docs, sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(req.CardIDs) == 0 {
		return accounts, nil
	}
	picked := accounts[:0]
	for _, a := range accounts {
		if slices.Contains(req.CardIDs, a.ID) {
			picked = append(picked, a)
		}
	}
	return picked, nil
}

func (s *RewardService) Best(ctx context.Context, sess models.Session, req models.RewardRequest) (*models.RewardQuote, error) {
	cards, err := s.cards(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	q, err := BestCard(req.Amount, req.Category, cards)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *RewardService) Compare(ctx context.Context, sess models.Session, req models.RewardRequest) ([]models.RewardQuote, error) {
	cards, err := s.cards(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	return CompareCards(req.Amount, req.Category, cards), nil
}
