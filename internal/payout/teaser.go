package payout

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/sportsbook-ledger/internal/domain"
)

// TeaserTable mapeia pontos de teaser -> quantidade de pernas -> multiplicador
// fixo de pagamento. A chave externa é a representação decimal dos pontos
// ("6", "6.5", "7").
type TeaserTable map[string]map[int]decimal.Decimal

// DefaultTeaserTable é a tabela padrão da casa. Teasers pagam multiplicador
// fixo por quantidade de pernas, não o produto das odds.
func DefaultTeaserTable() TeaserTable {
	mk := func(pairs map[int]string) map[int]decimal.Decimal {
		out := make(map[int]decimal.Decimal, len(pairs))
		for n, v := range pairs {
			out[n] = decimal.RequireFromString(v)
		}
		return out
	}
	return TeaserTable{
		"6":   mk(map[int]string{2: "1.80", 3: "2.60", 4: "3.50", 5: "4.50", 6: "6.00"}),
		"6.5": mk(map[int]string{2: "1.72", 3: "2.45", 4: "3.20", 5: "4.00", 6: "5.50"}),
		"7":   mk(map[int]string{2: "1.65", 3: "2.30", 4: "3.00", 5: "3.75", 6: "5.00"}),
	}
}

// Multiplier retorna o multiplicador para (pontos, pernas) ou
// ErrInvalidTeaserPoints se os pontos não estão na tabela.
func (t TeaserTable) Multiplier(points decimal.Decimal, legCount int) (decimal.Decimal, error) {
	byCount, ok := t[points.String()]
	if !ok {
		return decimal.Decimal{}, domain.ErrInvalidTeaserPoints
	}
	m, ok := byCount[legCount]
	if !ok {
		return decimal.Decimal{}, domain.ErrInvalidLegCount
	}
	return m, nil
}
