package events

import "time"

// BetSettled é emitido após a transição terminal de uma aposta, uma
// mensagem por aposta liquidada.
type BetSettled struct {
	BetID               string    `json:"betId"`
	AccountID           string    `json:"accountId"`
	EventID             string    `json:"eventId"`
	Status              string    `json:"status"` // WON | LOST | VOID
	RealizedPayoutCents int64     `json:"realized_payout_cents"`
	Ts                  time.Time `json:"ts"`
}
