package dto

import "time"

type AccountResponse struct {
	AccountID          string `json:"accountId"`
	Status             string `json:"status"`
	BalanceCents       int64  `json:"balance_cents"`
	PendingCents       int64  `json:"pending_cents"`
	TotalWinningsCents int64  `json:"total_winnings_cents"`
}

type LegResponse struct {
	EventID   string `json:"eventId"`
	Selection string `json:"selection"`
	Odds      string `json:"odds"`
	Outcome   string `json:"outcome,omitempty"`
}

type BetResponse struct {
	BetID                string        `json:"betId"`
	AccountID            string        `json:"accountId"`
	Type                 string        `json:"type"`
	Status               string        `json:"status"`
	StakeCents           int64         `json:"stake_cents"`
	PotentialPayoutCents int64         `json:"potential_payout_cents"`
	RealizedPayoutCents  int64         `json:"realized_payout_cents"`
	Legs                 []LegResponse `json:"legs"`
	TeaserPoints         string        `json:"teaser_points,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	SettledAt            *time.Time    `json:"settledAt,omitempty"`
}

type LedgerEntryResponse struct {
	EntryID           string    `json:"entryId"`
	BetID             string    `json:"betId,omitempty"`
	Kind              string    `json:"kind"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	PendingAfterCents int64     `json:"pending_after_cents"`
	CreatedAt         time.Time `json:"createdAt"`
}

type LedgerResponse struct {
	AccountID string                `json:"accountId"`
	Entries   []LedgerEntryResponse `json:"entries"`
}
