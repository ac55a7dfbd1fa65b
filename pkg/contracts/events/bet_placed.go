package events

// BetPlaced é emitido pelo ledger-service após criar a aposta e reservar
// o stake na mesma transação.
type BetPlaced struct {
	BetID                string   `json:"bet_id"`
	AccountID            string   `json:"account_id"`
	Type                 string   `json:"type"` // STRAIGHT | PARLAY | TEASER | IF_BET | REVERSE
	StakeCents           int64    `json:"stake_cents"`
	PotentialPayoutCents int64    `json:"potential_payout_cents"`
	EventIDs             []string `json:"event_ids"`
	TsUnixMs             int64    `json:"ts_unix_ms"`
}
