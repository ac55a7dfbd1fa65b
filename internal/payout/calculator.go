// Package payout calcula pagamentos de apostas. Puro e determinístico:
// nenhuma E/S, nenhum acesso a banco; recebe a aposta e devolve valores.
package payout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// Result é o desfecho financeiro de uma aposta totalmente resolvida.
// Payout é o valor que volta ao saldo (inclui devoluções parciais de um
// reverse com metade anulada); zero para aposta perdida sem devolução.
type Result struct {
	Status domain.BetStatus
	Payout money.Money
}

// Calculator aplica as fórmulas de pagamento por tipo de aposta.
// Convenção de odds decimais: o pagamento inclui o stake devolvido.
type Calculator struct {
	Teasers TeaserTable
}

func NewCalculator(t TeaserTable) *Calculator {
	if t == nil {
		t = DefaultTeaserTable()
	}
	return &Calculator{Teasers: t}
}

// Potential calcula o pagamento máximo no momento da criação da aposta.
func (c *Calculator) Potential(t domain.BetType, stake money.Money, legs []domain.Leg, teaserPoints decimal.Decimal) (money.Money, error) {
	switch t {
	case domain.BetStraight:
		return stake.Mul(legs[0].Odds), nil

	case domain.BetParlay:
		return stake.Mul(oddsProduct(legs)), nil

	case domain.BetTeaser:
		m, err := c.Teasers.Multiplier(teaserPoints, len(legs))
		if err != nil {
			return money.Zero, err
		}
		return stake.Mul(m), nil

	case domain.BetIf:
		// No if bet o stake inteiro carrega para a segunda perna; a primeira
		// só funciona como portão. O pagamento é sobre a odd da perna 2.
		return stake.Mul(legs[1].Odds), nil

	case domain.BetReverse:
		halfA, halfB := splitStake(stake)
		ab := halfA.Mul(legs[1].Odds) // direção A->B paga na perna B
		ba := halfB.Mul(legs[0].Odds) // direção B->A paga na perna A
		return ab.Add(ba), nil

	default:
		return money.Zero, domain.ErrInvalidBetType
	}
}

// Realized calcula status final e pagamento de uma aposta com todas as
// pernas resolvidas.
func (c *Calculator) Realized(b *domain.Bet) (Result, error) {
	if !b.FullyResolved() {
		return Result{}, fmt.Errorf("bet %s: %w", b.ID, errUnresolved)
	}

	switch b.Type {
	case domain.BetStraight:
		switch b.Legs[0].Outcome {
		case domain.OutcomeWin:
			return Result{Status: domain.BetWon, Payout: b.Stake.Mul(b.Legs[0].Odds)}, nil
		case domain.OutcomePush:
			return Result{Status: domain.BetVoid, Payout: b.Stake}, nil
		default:
			return Result{Status: domain.BetLost, Payout: money.Zero}, nil
		}

	case domain.BetParlay:
		return realizeParlay(b.Stake, b.Legs), nil

	case domain.BetTeaser:
		return c.realizeTeaser(b)

	case domain.BetIf:
		return realizeIf(b.Stake, b.Legs[0], b.Legs[1]), nil

	case domain.BetReverse:
		return realizeReverse(b.Stake, b.Legs[0], b.Legs[1]), nil

	default:
		return Result{}, domain.ErrInvalidBetType
	}
}

var errUnresolved = fmt.Errorf("legs not fully resolved")

// oddsProduct multiplica as odds de todas as pernas.
func oddsProduct(legs []domain.Leg) decimal.Decimal {
	p := decimal.NewFromInt(1)
	for _, l := range legs {
		p = p.Mul(l.Odds)
	}
	return p
}

// realizeParlay: qualquer derrota perde tudo; pushes saem do produto
// (odd efetiva 1.0); todas push anula a aposta com devolução do stake.
func realizeParlay(stake money.Money, legs []domain.Leg) Result {
	product := decimal.NewFromInt(1)
	wins := 0
	for _, l := range legs {
		switch l.Outcome {
		case domain.OutcomeLose:
			return Result{Status: domain.BetLost, Payout: money.Zero}
		case domain.OutcomeWin:
			product = product.Mul(l.Odds)
			wins++
		}
	}
	if wins == 0 {
		return Result{Status: domain.BetVoid, Payout: stake}
	}
	return Result{Status: domain.BetWon, Payout: stake.Mul(product)}
}

// realizeTeaser espelha o parlay, mas o multiplicador é tabelado pela
// quantidade de pernas com ação. Pernas push reduzem o teaser; abaixo de
// duas pernas com ação a aposta é anulada.
func (c *Calculator) realizeTeaser(b *domain.Bet) (Result, error) {
	wins := 0
	for _, l := range b.Legs {
		switch l.Outcome {
		case domain.OutcomeLose:
			return Result{Status: domain.BetLost, Payout: money.Zero}, nil
		case domain.OutcomeWin:
			wins++
		}
	}
	if wins < 2 {
		return Result{Status: domain.BetVoid, Payout: b.Stake}, nil
	}
	m, err := c.Teasers.Multiplier(b.TeaserPoints, wins)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: domain.BetWon, Payout: b.Stake.Mul(m)}, nil
}

// realizeIf aplica a regra do if bet em pernas ordenadas: a primeira é
// portão (push conta como vitória para seguir adiante), a segunda define
// o pagamento. Push na segunda depois do portão aberto devolve o stake.
func realizeIf(stake money.Money, first, second domain.Leg) Result {
	if first.Outcome == domain.OutcomeLose {
		return Result{Status: domain.BetLost, Payout: money.Zero}
	}
	switch second.Outcome {
	case domain.OutcomeWin:
		return Result{Status: domain.BetWon, Payout: stake.Mul(second.Odds)}
	case domain.OutcomePush:
		return Result{Status: domain.BetVoid, Payout: stake}
	default:
		return Result{Status: domain.BetLost, Payout: money.Zero}
	}
}

// realizeReverse decompõe em dois if bets com metade do stake cada, em
// ordens opostas, e soma os desfechos. Pode pagar parcialmente: uma
// direção vence ou anula enquanto a outra perde.
func realizeReverse(stake money.Money, a, b domain.Leg) Result {
	halfA, halfB := splitStake(stake)
	ab := realizeIf(halfA, a, b)
	ba := realizeIf(halfB, b, a)

	total := ab.Payout.Add(ba.Payout)
	switch {
	case ab.Status == domain.BetWon || ba.Status == domain.BetWon:
		return Result{Status: domain.BetWon, Payout: total}
	case ab.Status == domain.BetVoid && ba.Status == domain.BetVoid:
		return Result{Status: domain.BetVoid, Payout: total}
	default:
		// perdida; total ainda pode carregar a devolução de uma metade anulada
		return Result{Status: domain.BetLost, Payout: total}
	}
}

// splitStake divide o stake em duas metades que somam o total exato;
// centavo ímpar fica na segunda metade.
func splitStake(stake money.Money) (money.Money, money.Money) {
	half := money.FromCents(stake.Cents() / 2)
	return half, stake.Sub(half)
}
