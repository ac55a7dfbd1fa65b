// Package service orquestra o ciclo de vida da aposta: criação com reserva
// de stake e liquidação contra resultados de eventos.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/payout"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// Store é o contrato de persistência do ledger. Cada método que mexe em
// saldo é atômico contra a linha da conta que toca.
type Store interface {
	CreateAccount(ctx context.Context, acc *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) error
	Deposit(ctx context.Context, id string, amount money.Money) (*domain.Account, error)
	Withdraw(ctx context.Context, id string, amount money.Money) (*domain.Account, error)

	PlaceBet(ctx context.Context, b *domain.Bet) error
	GetBet(ctx context.Context, id string) (*domain.Bet, error)
	PendingBetsByEvent(ctx context.Context, eventID string) ([]*domain.Bet, error)
	SaveLegOutcomes(ctx context.Context, b *domain.Bet) error
	SettleBet(ctx context.Context, b *domain.Bet, status domain.BetStatus, payoutAmt money.Money) error

	EntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
}

// EventStatus é o colaborador externo que sabe se um evento aceita apostas
// e qual a odd corrente de uma seleção, e que registra o estado terminal
// após a liquidação.
type EventStatus interface {
	IsOpen(ctx context.Context, eventID string) (bool, error)
	CurrentOdds(ctx context.Context, eventID, selection string) (string, error)
	MarkSettled(ctx context.Context, eventID string) error
}

// Publisher emite os eventos de domínio no broker. Implementação Kafka em
// producer; nula nos testes.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Service reúne as operações do núcleo: contas, apostas e liquidação.
type Service struct {
	log   *zap.Logger
	store Store
	calc  *payout.Calculator
	evs   EventStatus
	publ  Publisher
}

func New(log *zap.Logger, store Store, calc *payout.Calculator, evs EventStatus, publ Publisher) *Service {
	if calc == nil {
		calc = payout.NewCalculator(nil)
	}
	return &Service{log: log, store: store, calc: calc, evs: evs, publ: publ}
}
