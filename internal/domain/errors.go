package domain

import "errors"

// Erros de validação: rejeitados antes de qualquer mutação.
var (
	ErrInvalidBetType      = errors.New("invalid bet type")
	ErrInvalidLegCount     = errors.New("invalid leg count for bet type")
	ErrInvalidStake        = errors.New("stake must be positive")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidOdds         = errors.New("odds must be greater than 1.0")
	ErrInvalidTeaserPoints = errors.New("teaser points not in configured set")
)

// Erros de estado: rejeitados após leitura, sem mutação.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountSuspended = errors.New("account suspended")
	ErrBetNotFound      = errors.New("bet not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotOpen     = errors.New("event not open for betting")
	ErrOddsChanged      = errors.New("odds changed since quote")
)

// Erros de recurso.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Violações de invariante são defeito interno, nunca erro de usuário:
// saldo pendente negativo, segunda transição terminal de uma aposta, etc.
var (
	ErrBetSettled         = errors.New("bet already settled")
	ErrInvariantViolation = errors.New("ledger invariant violation")
)
