package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/sportsbook-ledger/pkg/money"
)

type BetType string

const (
	BetStraight BetType = "STRAIGHT"
	BetParlay   BetType = "PARLAY"
	BetTeaser   BetType = "TEASER"
	BetIf       BetType = "IF_BET"
	BetReverse  BetType = "REVERSE"
)

type BetStatus string

const (
	BetPending BetStatus = "PENDING"
	BetWon     BetStatus = "WON"
	BetLost    BetStatus = "LOST"
	BetVoid    BetStatus = "VOID"
)

// Terminal indica se o status encerra o ciclo de vida da aposta.
func (s BetStatus) Terminal() bool { return s != BetPending }

type LegOutcome string

const (
	// OutcomeUnset: perna ainda sem resultado (evento não liquidado).
	OutcomeUnset LegOutcome = ""
	OutcomeWin   LegOutcome = "WIN"
	OutcomeLose  LegOutcome = "LOSE"
	OutcomePush  LegOutcome = "PUSH"
)

// Leg é uma seleção dentro de uma aposta, amarrada a um evento.
type Leg struct {
	EventID   string
	Selection string
	Odds      decimal.Decimal // decimal, sempre > 1.0
	Outcome   LegOutcome
}

// MaxParlayLegs limita o tamanho de um parlay.
const MaxParlayLegs = 12

// legCountOK valida a quantidade de pernas permitida por tipo.
func legCountOK(t BetType, n int) bool {
	switch t {
	case BetStraight:
		return n == 1
	case BetParlay:
		return n >= 2 && n <= MaxParlayLegs
	case BetTeaser:
		return n >= 2 && n <= 6
	case BetIf, BetReverse:
		return n == 2
	default:
		return false
	}
}

// Bet é o registro persistido de uma aposta. PotentialPayout é imutável
// após a criação; RealizedPayout só é definido na liquidação.
type Bet struct {
	ID              string
	AccountID       string
	Type            BetType
	Stake           money.Money
	Legs            []Leg // ordem importa para IF_BET e REVERSE
	TeaserPoints    decimal.Decimal
	PotentialPayout money.Money
	RealizedPayout  money.Money
	Status          BetStatus
	CreatedAt       time.Time
	SettledAt       *time.Time
}

// NewBet valida e monta uma aposta PENDING. Não toca em saldo: a reserva
// do stake acontece na mesma transação que persiste a aposta.
func NewBet(accountID string, t BetType, stake money.Money, legs []Leg, teaserPoints decimal.Decimal) (*Bet, error) {
	switch t {
	case BetStraight, BetParlay, BetTeaser, BetIf, BetReverse:
	default:
		return nil, ErrInvalidBetType
	}
	if !stake.IsPositive() {
		return nil, ErrInvalidStake
	}
	if !legCountOK(t, len(legs)) {
		return nil, ErrInvalidLegCount
	}
	// pontos de teaser só fazem sentido em teaser
	if t != BetTeaser && !teaserPoints.IsZero() {
		return nil, ErrInvalidTeaserPoints
	}
	one := decimal.NewFromInt(1)
	for _, l := range legs {
		if l.EventID == "" || l.Selection == "" {
			return nil, ErrInvalidLegCount
		}
		if l.Odds.Cmp(one) <= 0 {
			return nil, ErrInvalidOdds
		}
	}

	return &Bet{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Type:         t,
		Stake:        stake,
		Legs:         legs,
		TeaserPoints: teaserPoints,
		Status:       BetPending,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// FullyResolved informa se todas as pernas já têm resultado.
func (b *Bet) FullyResolved() bool {
	for _, l := range b.Legs {
		if l.Outcome == OutcomeUnset {
			return false
		}
	}
	return true
}

// ReferencesEvent informa se alguma perna aponta para o evento.
func (b *Bet) ReferencesEvent(eventID string) bool {
	for _, l := range b.Legs {
		if l.EventID == eventID {
			return true
		}
	}
	return false
}

// Settle aplica a transição única PENDING -> terminal. Uma segunda
// transição é violação de invariante, não erro de usuário.
func (b *Bet) Settle(status BetStatus, realized money.Money, at time.Time) error {
	if b.Status != BetPending {
		return ErrBetSettled
	}
	if !status.Terminal() {
		return ErrInvariantViolation
	}
	b.Status = status
	b.RealizedPayout = realized
	t := at.UTC()
	b.SettledAt = &t
	return nil
}
