package dto

type DepositRequest struct {
	AccountID   string `json:"accountId"`
	AmountCents int64  `json:"amount_cents"`
}

type WithdrawRequest struct {
	AccountID   string `json:"accountId"`
	AmountCents int64  `json:"amount_cents"`
}

type SuspendRequest struct {
	AccountID string `json:"accountId"`
}

type LegRequest struct {
	EventID   string `json:"eventId"`
	Selection string `json:"selection"`
	Odds      string `json:"odds"` // decimal em string, ex: "2.50"
}

type PlaceBetRequest struct {
	AccountID    string       `json:"accountId"`
	Type         string       `json:"type"` // STRAIGHT | PARLAY | TEASER | IF_BET | REVERSE
	StakeCents   int64        `json:"stake_cents"`
	Legs         []LegRequest `json:"legs"`
	TeaserPoints string       `json:"teaser_points,omitempty"` // "6" | "6.5" | "7"
}

type SettleEventRequest struct {
	EventID          string `json:"eventId"`
	WinningSelection string `json:"winning_selection,omitempty"`
	Void             bool   `json:"void,omitempty"`
}
