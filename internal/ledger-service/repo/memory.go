package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// Memory implementa o mesmo contrato do repositório Postgres em memória,
// com exclusão mútua por conta. Usado nos testes de serviço e de API.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*memAccount
	bets     map[string]*domain.Bet
	entries  map[string][]domain.LedgerEntry // por conta, append-only
}

// memAccount protege a linha da conta: toda leitura-modificação-escrita
// segura o mutex da própria conta, espelhando o FOR UPDATE do Postgres.
type memAccount struct {
	mu  sync.Mutex
	acc domain.Account
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*memAccount),
		bets:     make(map[string]*domain.Bet),
		entries:  make(map[string][]domain.LedgerEntry),
	}
}

func (m *Memory) account(id string) (*memAccount, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	return a, ok
}

// appendEntry registra a entrada de auditoria. Chamado com o mutex da
// conta já em posse.
func (m *Memory) appendEntry(acc *domain.Account, betID string, kind domain.EntryKind, amount money.Money) {
	e := domain.LedgerEntry{
		ID:           uuid.NewString(),
		AccountID:    acc.ID,
		BetID:        betID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: acc.Balance,
		PendingAfter: acc.PendingBalance,
		CreatedAt:    time.Now().UTC(),
	}
	m.mu.Lock()
	m.entries[acc.ID] = append(m.entries[acc.ID], e)
	m.mu.Unlock()
}

func (m *Memory) CreateAccount(_ context.Context, acc *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[acc.ID]; ok {
		return domain.ErrInvariantViolation
	}
	cp := *acc
	m.accounts[acc.ID] = &memAccount{acc: cp}
	return nil
}

func (m *Memory) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	a, ok := m.account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := a.acc
	return &cp, nil
}

func (m *Memory) SetAccountStatus(_ context.Context, id string, status domain.AccountStatus) error {
	a, ok := m.account(id)
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc.Status = status
	a.acc.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) Deposit(_ context.Context, id string, amount money.Money) (*domain.Account, error) {
	a, ok := m.account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acc.Balance = a.acc.Balance.Add(amount)
	a.acc.UpdatedAt = time.Now().UTC()
	m.appendEntry(&a.acc, "", domain.EntryDeposit, amount)
	cp := a.acc
	return &cp, nil
}

func (m *Memory) Withdraw(_ context.Context, id string, amount money.Money) (*domain.Account, error) {
	a, ok := m.account(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.acc.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	a.acc.Balance = a.acc.Balance.Sub(amount)
	a.acc.UpdatedAt = time.Now().UTC()
	m.appendEntry(&a.acc, "", domain.EntryWithdrawal, amount)
	cp := a.acc
	return &cp, nil
}

// PlaceBet reserva o stake e persiste a aposta como uma unidade: ou tudo
// acontece, ou nada.
func (m *Memory) PlaceBet(_ context.Context, b *domain.Bet) error {
	a, ok := m.account(b.AccountID)
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.acc.IsSuspended() {
		return domain.ErrAccountSuspended
	}
	if a.acc.Balance.LessThan(b.Stake) {
		return domain.ErrInsufficientFunds
	}

	a.acc.Balance = a.acc.Balance.Sub(b.Stake)
	a.acc.PendingBalance = a.acc.PendingBalance.Add(b.Stake)
	a.acc.UpdatedAt = time.Now().UTC()
	m.appendEntry(&a.acc, b.ID, domain.EntryReserve, b.Stake)

	cp := cloneBet(b)
	m.mu.Lock()
	m.bets[b.ID] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetBet(_ context.Context, id string) (*domain.Bet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bets[id]
	if !ok {
		return nil, domain.ErrBetNotFound
	}
	return cloneBet(b), nil
}

// PendingBetsByEvent retorna as apostas PENDING com alguma perna no evento,
// em ordem estável (accountId, betId) para a disciplina de locks do batch.
func (m *Memory) PendingBetsByEvent(_ context.Context, eventID string) ([]*domain.Bet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bet
	for _, b := range m.bets {
		if b.Status == domain.BetPending && b.ReferencesEvent(eventID) {
			out = append(out, cloneBet(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveLegOutcomes persiste resultados parciais de pernas de uma aposta que
// continua PENDING (outras pernas aguardam eventos ainda abertos).
func (m *Memory) SaveLegOutcomes(_ context.Context, b *domain.Bet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.bets[b.ID]
	if !ok {
		return domain.ErrBetNotFound
	}
	if cur.Status != domain.BetPending {
		return domain.ErrBetSettled
	}
	cur.Legs = append([]domain.Leg(nil), b.Legs...)
	return nil
}

// SettleBet aplica a transição terminal e a mutação de saldo correspondente
// como uma unidade atômica por conta:
//   - sempre RELEASE(stake): o stake sai do saldo pendente;
//   - payout > 0 vira CREDIT_WIN (vitória) ou REFUND (devolução), creditado
//     no saldo; vitórias também acumulam o lucro líquido em TotalWinnings.
func (m *Memory) SettleBet(_ context.Context, b *domain.Bet, status domain.BetStatus, payoutAmt money.Money) error {
	a, ok := m.account(b.AccountID)
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	m.mu.Lock()
	cur, ok := m.bets[b.ID]
	if !ok {
		m.mu.Unlock()
		return domain.ErrBetNotFound
	}
	if cur.Status != domain.BetPending {
		m.mu.Unlock()
		return domain.ErrBetSettled
	}
	stake := cur.Stake
	m.mu.Unlock()

	if a.acc.PendingBalance.LessThan(stake) {
		return domain.ErrInvariantViolation
	}

	now := time.Now().UTC()
	a.acc.PendingBalance = a.acc.PendingBalance.Sub(stake)
	a.acc.UpdatedAt = now
	m.appendEntry(&a.acc, b.ID, domain.EntryRelease, stake)

	if payoutAmt.IsPositive() {
		kind := domain.EntryRefund
		if status == domain.BetWon {
			kind = domain.EntryCreditWin
			a.acc.TotalWinnings = a.acc.TotalWinnings.Add(payoutAmt.Sub(stake))
		}
		a.acc.Balance = a.acc.Balance.Add(payoutAmt)
		m.appendEntry(&a.acc, b.ID, kind, payoutAmt)
	}

	// a escrita na aposta segue a mesma disciplina de SaveLegOutcomes:
	// m.mu protege o registro compartilhado contra leitores concorrentes
	m.mu.Lock()
	cur.Legs = append([]domain.Leg(nil), b.Legs...)
	err := cur.Settle(status, payoutAmt, now)
	m.mu.Unlock()
	return err
}

func (m *Memory) EntriesByAccount(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	if _, ok := m.account(accountID); !ok {
		return nil, domain.ErrAccountNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.LedgerEntry(nil), m.entries[accountID]...), nil
}

func cloneBet(b *domain.Bet) *domain.Bet {
	cp := *b
	cp.Legs = append([]domain.Leg(nil), b.Legs...)
	if b.SettledAt != nil {
		t := *b.SettledAt
		cp.SettledAt = &t
	}
	return &cp
}
