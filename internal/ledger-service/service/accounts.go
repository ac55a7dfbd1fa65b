package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// CreateAccount registra uma conta nova com saldos zerados.
func (s *Service) CreateAccount(ctx context.Context) (*domain.Account, error) {
	acc := &domain.Account{
		ID:        uuid.NewString(),
		Status:    domain.AccountActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// SuspendAccount bloqueia novas apostas; a conta nunca é apagada.
func (s *Service) SuspendAccount(ctx context.Context, id string) error {
	return s.store.SetAccountStatus(ctx, id, domain.AccountSuspended)
}

func (s *Service) ReactivateAccount(ctx context.Context, id string) error {
	return s.store.SetAccountStatus(ctx, id, domain.AccountActive)
}

func (s *Service) Deposit(ctx context.Context, id string, amount money.Money) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	return s.store.Deposit(ctx, id, amount)
}

func (s *Service) Withdraw(ctx context.Context, id string, amount money.Money) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	return s.store.Withdraw(ctx, id, amount)
}

// Ledger devolve o log de auditoria da conta em ordem de aplicação.
func (s *Service) Ledger(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	return s.store.EntriesByAccount(ctx, accountID)
}
