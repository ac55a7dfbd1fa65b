package domain

import (
	"time"

	"github.com/radieske/sportsbook-ledger/pkg/money"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// Account é o modelo canônico de conta. Os três campos monetários só são
// mutados pelas operações do ledger; nunca por escrita direta de campo.
type Account struct {
	ID             string
	Balance        money.Money // saldo disponível para apostar
	PendingBalance money.Money // soma dos stakes de apostas PENDING
	TotalWinnings  money.Money // lucro líquido acumulado
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Account) IsSuspended() bool { return a.Status == AccountSuspended }
