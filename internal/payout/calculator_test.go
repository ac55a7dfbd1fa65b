package payout_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/payout"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

func leg(event, odds string, outcome domain.LegOutcome) domain.Leg {
	return domain.Leg{
		EventID:   event,
		Selection: "home",
		Odds:      decimal.RequireFromString(odds),
		Outcome:   outcome,
	}
}

func bet(t domain.BetType, stakeCents int64, legs ...domain.Leg) *domain.Bet {
	return &domain.Bet{
		ID:        "bet-test",
		AccountID: "acc-test",
		Type:      t,
		Stake:     money.FromCents(stakeCents),
		Legs:      legs,
		Status:    domain.BetPending,
	}
}

func TestPotentialStraight(t *testing.T) {
	c := payout.NewCalculator(nil)
	p, err := c.Potential(domain.BetStraight, money.FromCents(1000),
		[]domain.Leg{leg("E1", "2.00", domain.OutcomeUnset)}, decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, "20.00", p.String())
}

func TestPotentialParlay(t *testing.T) {
	c := payout.NewCalculator(nil)
	p, err := c.Potential(domain.BetParlay, money.FromCents(1000), []domain.Leg{
		leg("E1", "1.50", domain.OutcomeUnset),
		leg("E2", "2.00", domain.OutcomeUnset),
		leg("E3", "1.80", domain.OutcomeUnset),
	}, decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, "54.00", p.String())
}

func TestPotentialTeaser(t *testing.T) {
	c := payout.NewCalculator(nil)

	p, err := c.Potential(domain.BetTeaser, money.FromCents(2000), []domain.Leg{
		leg("E1", "1.91", domain.OutcomeUnset),
		leg("E2", "1.91", domain.OutcomeUnset),
	}, decimal.RequireFromString("6"))
	require.NoError(t, err)
	assert.Equal(t, "36.00", p.String())

	// pontos fora da tabela
	_, err = c.Potential(domain.BetTeaser, money.FromCents(2000), []domain.Leg{
		leg("E1", "1.91", domain.OutcomeUnset),
		leg("E2", "1.91", domain.OutcomeUnset),
	}, decimal.RequireFromString("5.5"))
	assert.ErrorIs(t, err, domain.ErrInvalidTeaserPoints)
}

func TestPotentialIfAndReverse(t *testing.T) {
	c := payout.NewCalculator(nil)
	legs := []domain.Leg{
		leg("E1", "2.00", domain.OutcomeUnset),
		leg("E2", "3.00", domain.OutcomeUnset),
	}

	// if bet paga sobre a odd da segunda perna
	p, err := c.Potential(domain.BetIf, money.FromCents(1000), legs, decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, "30.00", p.String())

	// reverse: 5.00*3.00 (A->B) + 5.00*2.00 (B->A) = 25.00
	p, err = c.Potential(domain.BetReverse, money.FromCents(1000), legs, decimal.Decimal{})
	require.NoError(t, err)
	assert.Equal(t, "25.00", p.String())
}

func TestRealizedStraight(t *testing.T) {
	c := payout.NewCalculator(nil)

	r, err := c.Realized(bet(domain.BetStraight, 1000, leg("E1", "2.00", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "20.00", r.Payout.String())

	r, err = c.Realized(bet(domain.BetStraight, 1000, leg("E1", "2.00", domain.OutcomeLose)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetLost, r.Status)
	assert.True(t, r.Payout.IsZero())

	// push devolve o stake
	r, err = c.Realized(bet(domain.BetStraight, 1000, leg("E1", "2.00", domain.OutcomePush)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetVoid, r.Status)
	assert.Equal(t, "10.00", r.Payout.String())
}

func TestRealizedParlay(t *testing.T) {
	c := payout.NewCalculator(nil)

	// todas vencem: produto cheio
	r, err := c.Realized(bet(domain.BetParlay, 1000,
		leg("E1", "1.50", domain.OutcomeWin),
		leg("E2", "2.00", domain.OutcomeWin),
		leg("E3", "1.80", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "54.00", r.Payout.String())

	// uma derrota perde tudo
	r, err = c.Realized(bet(domain.BetParlay, 1000,
		leg("E1", "1.50", domain.OutcomeWin),
		leg("E2", "2.00", domain.OutcomeLose),
		leg("E3", "1.80", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetLost, r.Status)
	assert.True(t, r.Payout.IsZero())

	// push sai do produto: 10.00 * 1.50 * 1.80 = 27.00
	r, err = c.Realized(bet(domain.BetParlay, 1000,
		leg("E1", "1.50", domain.OutcomeWin),
		leg("E2", "2.00", domain.OutcomePush),
		leg("E3", "1.80", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "27.00", r.Payout.String())

	// todas push: anulada com devolução
	r, err = c.Realized(bet(domain.BetParlay, 1000,
		leg("E1", "1.50", domain.OutcomePush),
		leg("E2", "2.00", domain.OutcomePush)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetVoid, r.Status)
	assert.Equal(t, "10.00", r.Payout.String())
}

func TestRealizedTeaser(t *testing.T) {
	c := payout.NewCalculator(nil)
	pts := decimal.RequireFromString("6")

	b := bet(domain.BetTeaser, 2000,
		leg("E1", "1.91", domain.OutcomeWin),
		leg("E2", "1.91", domain.OutcomeWin))
	b.TeaserPoints = pts
	r, err := c.Realized(b)
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "36.00", r.Payout.String())

	// derrota em qualquer perna perde o teaser inteiro
	b = bet(domain.BetTeaser, 2000,
		leg("E1", "1.91", domain.OutcomeWin),
		leg("E2", "1.91", domain.OutcomeLose),
		leg("E3", "1.91", domain.OutcomeWin))
	b.TeaserPoints = pts
	r, err = c.Realized(b)
	require.NoError(t, err)
	assert.Equal(t, domain.BetLost, r.Status)

	// push reduz o teaser: 3 pernas com uma push paga como teaser de 2
	b = bet(domain.BetTeaser, 2000,
		leg("E1", "1.91", domain.OutcomeWin),
		leg("E2", "1.91", domain.OutcomePush),
		leg("E3", "1.91", domain.OutcomeWin))
	b.TeaserPoints = pts
	r, err = c.Realized(b)
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "36.00", r.Payout.String())

	// com menos de duas pernas com ação a aposta é anulada
	b = bet(domain.BetTeaser, 2000,
		leg("E1", "1.91", domain.OutcomeWin),
		leg("E2", "1.91", domain.OutcomePush))
	b.TeaserPoints = pts
	r, err = c.Realized(b)
	require.NoError(t, err)
	assert.Equal(t, domain.BetVoid, r.Status)
	assert.Equal(t, "20.00", r.Payout.String())
}

func TestRealizedIfBet(t *testing.T) {
	c := payout.NewCalculator(nil)

	cases := []struct {
		name       string
		first, sec domain.LegOutcome
		status     domain.BetStatus
		payout     string
	}{
		{"primeira perde, segunda nem conta", domain.OutcomeLose, domain.OutcomeWin, domain.BetLost, "0.00"},
		{"ambas vencem", domain.OutcomeWin, domain.OutcomeWin, domain.BetWon, "30.00"},
		{"primeira vence, segunda perde", domain.OutcomeWin, domain.OutcomeLose, domain.BetLost, "0.00"},
		{"push na primeira abre o portão", domain.OutcomePush, domain.OutcomeWin, domain.BetWon, "30.00"},
		{"push na segunda devolve o stake", domain.OutcomeWin, domain.OutcomePush, domain.BetVoid, "10.00"},
		{"push nas duas devolve o stake", domain.OutcomePush, domain.OutcomePush, domain.BetVoid, "10.00"},
		{"push na primeira e derrota na segunda", domain.OutcomePush, domain.OutcomeLose, domain.BetLost, "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := c.Realized(bet(domain.BetIf, 1000,
				leg("E1", "2.00", tc.first),
				leg("E2", "3.00", tc.sec)))
			require.NoError(t, err)
			assert.Equal(t, tc.status, r.Status)
			assert.Equal(t, tc.payout, r.Payout.String())
		})
	}
}

func TestRealizedReverse(t *testing.T) {
	c := payout.NewCalculator(nil)

	// A (2.0) perde, B (3.0) vence. Decompondo:
	//   A->B com 5.00: perna A perde -> 0
	//   B->A com 5.00: perna B vence, perna A perde -> 0
	// resultado literal: nada a pagar, aposta perdida.
	r, err := c.Realized(bet(domain.BetReverse, 1000,
		leg("EA", "2.00", domain.OutcomeLose),
		leg("EB", "3.00", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetLost, r.Status)
	assert.Equal(t, "0.00", r.Payout.String())

	// ambas vencem: 5.00*3.00 + 5.00*2.00 = 25.00
	r, err = c.Realized(bet(domain.BetReverse, 1000,
		leg("EA", "2.00", domain.OutcomeWin),
		leg("EB", "3.00", domain.OutcomeWin)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "25.00", r.Payout.String())

	// A vence, B push: A->B devolve 5.00; B->A (push abre portão, A vence)
	// paga 5.00*2.00 = 10.00. Total 15.00, aposta vencedora.
	r, err = c.Realized(bet(domain.BetReverse, 1000,
		leg("EA", "2.00", domain.OutcomeWin),
		leg("EB", "3.00", domain.OutcomePush)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, r.Status)
	assert.Equal(t, "15.00", r.Payout.String())

	// ambas push: anulada, stake inteiro de volta
	r, err = c.Realized(bet(domain.BetReverse, 1000,
		leg("EA", "2.00", domain.OutcomePush),
		leg("EB", "3.00", domain.OutcomePush)))
	require.NoError(t, err)
	assert.Equal(t, domain.BetVoid, r.Status)
	assert.Equal(t, "10.00", r.Payout.String())

	// stake ímpar: metades 5.00 e 5.01 somam o total exato
	r, err = c.Realized(bet(domain.BetReverse, 1001,
		leg("EA", "2.00", domain.OutcomePush),
		leg("EB", "3.00", domain.OutcomePush)))
	require.NoError(t, err)
	assert.Equal(t, "10.01", r.Payout.String())
}

func TestRealizedRequiresResolution(t *testing.T) {
	c := payout.NewCalculator(nil)
	_, err := c.Realized(bet(domain.BetParlay, 1000,
		leg("E1", "1.50", domain.OutcomeWin),
		leg("E2", "2.00", domain.OutcomeUnset)))
	assert.Error(t, err)
}
