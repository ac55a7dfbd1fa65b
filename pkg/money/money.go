// Package money implementa valor monetário em ponto fixo com dois dígitos
// decimais, armazenado internamente como centavos (int64) para evitar
// erro de arredondamento binário.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// Money representa um valor em centavos. O zero value é 0.00.
type Money struct {
	cents int64
}

var Zero = Money{}

// FromCents cria um Money a partir de centavos.
func FromCents(c int64) Money { return Money{cents: c} }

// FromString interpreta valores como "10.00" ou "-3.50".
// Rejeita mais de dois dígitos fracionários.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Exponent() < -2 {
		return Money{}, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, s)
	}
	return Money{cents: d.Shift(2).IntPart()}, nil
}

// MustFromString é FromString com pânico em valor inválido. Uso em
// testes e fixtures, nunca em entrada de usuário.
func MustFromString(s string) Money {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal arredonda para duas casas (half-even) e converte.
func FromDecimal(d decimal.Decimal) Money {
	return Money{cents: d.RoundBank(2).Shift(2).IntPart()}
}

func (m Money) Cents() int64 { return m.cents }

// Decimal retorna o valor exato como decimal com escala 2.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.cents, -2) }

func (m Money) Add(o Money) Money { return Money{cents: m.cents + o.cents} }
func (m Money) Sub(o Money) Money { return Money{cents: m.cents - o.cents} }
func (m Money) Neg() Money        { return Money{cents: -m.cents} }

// Mul multiplica pelo fator decimal (odd, multiplicador de teaser) e
// arredonda half-even para duas casas. Toda aplicação de odd sobre stake
// passa por aqui.
func (m Money) Mul(factor decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(factor))
}

func (m Money) Cmp(o Money) int {
	switch {
	case m.cents < o.cents:
		return -1
	case m.cents > o.cents:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool    { return m.cents == o.cents }
func (m Money) LessThan(o Money) bool { return m.cents < o.cents }
func (m Money) IsZero() bool          { return m.cents == 0 }
func (m Money) IsPositive() bool      { return m.cents > 0 }
func (m Money) IsNegative() bool      { return m.cents < 0 }

// String formata sempre com duas casas, ex: "10.00".
func (m Money) String() string {
	return decimal.New(m.cents, -2).StringFixed(2)
}
