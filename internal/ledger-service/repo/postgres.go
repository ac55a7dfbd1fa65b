package repo

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// Postgres implementa o repositório do ledger em banco. Toda operação que
// mexe em saldo roda numa transação própria com lock pessimista
// (SELECT ... FOR UPDATE) na linha da conta.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// lockAccount carrega a conta com FOR UPDATE dentro da transação.
func lockAccount(ctx context.Context, tx *sql.Tx, id string) (*domain.Account, error) {
	var (
		acc                       domain.Account
		balance, pending, winning int64
		status                    string
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, balance_cents, pending_cents, winnings_cents, status
		FROM accounts WHERE id=$1 FOR UPDATE`, id).
		Scan(&acc.ID, &balance, &pending, &winning, &status)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	acc.Balance = money.FromCents(balance)
	acc.PendingBalance = money.FromCents(pending)
	acc.TotalWinnings = money.FromCents(winning)
	acc.Status = domain.AccountStatus(status)
	return &acc, nil
}

func updateAccount(ctx context.Context, tx *sql.Tx, acc *domain.Account) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents=$1, pending_cents=$2, winnings_cents=$3, updated_at=NOW()
		WHERE id=$4`,
		acc.Balance.Cents(), acc.PendingBalance.Cents(), acc.TotalWinnings.Cents(), acc.ID)
	return err
}

// insertEntry grava a entrada de auditoria na mesma transação da mutação.
func insertEntry(ctx context.Context, tx *sql.Tx, acc *domain.Account, betID string, kind domain.EntryKind, amount money.Money) error {
	var bet any
	if betID != "" {
		bet = betID
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, bet_id, kind, amount_cents, balance_after_cents, pending_after_cents)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		uuid.NewString(), acc.ID, bet, string(kind), amount.Cents(),
		acc.Balance.Cents(), acc.PendingBalance.Cents())
	return err
}

func (p *Postgres) CreateAccount(ctx context.Context, acc *domain.Account) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO accounts (id, balance_cents, pending_cents, winnings_cents, status)
		VALUES ($1,0,0,0,$2)`, acc.ID, string(acc.Status))
	return err
}

func (p *Postgres) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	var (
		acc                       domain.Account
		balance, pending, winning int64
		status                    string
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, balance_cents, pending_cents, winnings_cents, status
		FROM accounts WHERE id=$1`, id).
		Scan(&acc.ID, &balance, &pending, &winning, &status)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	acc.Balance = money.FromCents(balance)
	acc.PendingBalance = money.FromCents(pending)
	acc.TotalWinnings = money.FromCents(winning)
	acc.Status = domain.AccountStatus(status)
	return &acc, nil
}

func (p *Postgres) SetAccountStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE accounts SET status=$1, updated_at=NOW() WHERE id=$2`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (p *Postgres) Deposit(ctx context.Context, id string, amount money.Money) (*domain.Account, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acc, err := lockAccount(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	acc.Balance = acc.Balance.Add(amount)
	if err := updateAccount(ctx, tx, acc); err != nil {
		return nil, err
	}
	if err := insertEntry(ctx, tx, acc, "", domain.EntryDeposit, amount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return acc, nil
}

func (p *Postgres) Withdraw(ctx context.Context, id string, amount money.Money) (*domain.Account, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acc, err := lockAccount(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if acc.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	acc.Balance = acc.Balance.Sub(amount)
	if err := updateAccount(ctx, tx, acc); err != nil {
		return nil, err
	}
	if err := insertEntry(ctx, tx, acc, "", domain.EntryWithdrawal, amount); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return acc, nil
}

// PlaceBet insere a aposta, reserva o stake e grava a entrada RESERVE na
// mesma transação: se a reserva falha, a aposta nunca existiu.
func (p *Postgres) PlaceBet(ctx context.Context, b *domain.Bet) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	acc, err := lockAccount(ctx, tx, b.AccountID)
	if err != nil {
		return err
	}
	if acc.IsSuspended() {
		return domain.ErrAccountSuspended
	}
	if acc.Balance.LessThan(b.Stake) {
		return domain.ErrInsufficientFunds
	}

	acc.Balance = acc.Balance.Sub(b.Stake)
	acc.PendingBalance = acc.PendingBalance.Add(b.Stake)
	if err := updateAccount(ctx, tx, acc); err != nil {
		return err
	}

	var teaser any
	if !b.TeaserPoints.IsZero() {
		teaser = b.TeaserPoints.String()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bets (id, account_id, type, stake_cents, teaser_points, potential_cents, realized_cents, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,0,$7,$8)`,
		b.ID, b.AccountID, string(b.Type), b.Stake.Cents(), teaser,
		b.PotentialPayout.Cents(), string(b.Status), b.CreatedAt); err != nil {
		return err
	}
	for i, l := range b.Legs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bet_legs (bet_id, idx, event_id, selection, odds, outcome)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			b.ID, i, l.EventID, l.Selection, l.Odds.String(), string(l.Outcome)); err != nil {
			return err
		}
	}

	if err := insertEntry(ctx, tx, acc, b.ID, domain.EntryReserve, b.Stake); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) GetBet(ctx context.Context, id string) (*domain.Bet, error) {
	b, err := p.scanBet(ctx, id)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Postgres) scanBet(ctx context.Context, id string) (*domain.Bet, error) {
	var (
		b                          domain.Bet
		stake, potential, realized int64
		typ, status                string
		teaser                     sql.NullString
		settledAt                  sql.NullTime
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, account_id, type, stake_cents, teaser_points, potential_cents, realized_cents, status, created_at, settled_at
		FROM bets WHERE id=$1`, id).
		Scan(&b.ID, &b.AccountID, &typ, &stake, &teaser, &potential, &realized, &status, &b.CreatedAt, &settledAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrBetNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Type = domain.BetType(typ)
	b.Status = domain.BetStatus(status)
	b.Stake = money.FromCents(stake)
	b.PotentialPayout = money.FromCents(potential)
	b.RealizedPayout = money.FromCents(realized)
	if teaser.Valid {
		d, derr := decimal.NewFromString(teaser.String)
		if derr != nil {
			return nil, derr
		}
		b.TeaserPoints = d
	}
	if settledAt.Valid {
		t := settledAt.Time
		b.SettledAt = &t
	}
	if err := p.loadLegs(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *Postgres) loadLegs(ctx context.Context, b *domain.Bet) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT event_id, selection, odds, outcome
		FROM bet_legs WHERE bet_id=$1 ORDER BY idx`, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	b.Legs = b.Legs[:0]
	for rows.Next() {
		var l domain.Leg
		var odds, outcome string
		if err := rows.Scan(&l.EventID, &l.Selection, &odds, &outcome); err != nil {
			return err
		}
		d, derr := decimal.NewFromString(odds)
		if derr != nil {
			return derr
		}
		l.Odds = d
		l.Outcome = domain.LegOutcome(outcome)
		b.Legs = append(b.Legs, l)
	}
	return rows.Err()
}

// PendingBetsByEvent carrega as apostas PENDING com perna no evento, em
// ordem (account_id, id) para a disciplina de locks do batch de liquidação.
func (p *Postgres) PendingBetsByEvent(ctx context.Context, eventID string) ([]*domain.Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT b.id
		FROM bets b JOIN bet_legs l ON l.bet_id = b.id
		WHERE l.event_id=$1 AND b.status=$2
		ORDER BY b.id`, eventID, string(domain.BetPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Bet, 0, len(ids))
	for _, id := range ids {
		b, err := p.scanBet(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	// ordena por conta antes do batch tocar nos saldos
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveLegOutcomes persiste resultados parciais de uma aposta multi-evento
// que continua PENDING.
func (p *Postgres) SaveLegOutcomes(ctx context.Context, b *domain.Bet) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM bets WHERE id=$1 FOR UPDATE`, b.ID).
		Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrBetNotFound
		}
		return err
	}
	if domain.BetStatus(status) != domain.BetPending {
		return domain.ErrBetSettled
	}
	for i, l := range b.Legs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE bet_legs SET outcome=$1 WHERE bet_id=$2 AND idx=$3`,
			string(l.Outcome), b.ID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SettleBet aplica status terminal, pagamento realizado e a mutação de
// saldo numa transação só. O stake sai do pendente (RELEASE); pagamento
// positivo vira CREDIT_WIN (vitória, acumula lucro líquido) ou REFUND.
func (p *Postgres) SettleBet(ctx context.Context, b *domain.Bet, status domain.BetStatus, payoutAmt money.Money) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	acc, err := lockAccount(ctx, tx, b.AccountID)
	if err != nil {
		return err
	}

	// Guarda de idempotência: só liquida quem ainda está PENDING.
	var curStatus string
	var stakeCents int64
	if err := tx.QueryRowContext(ctx,
		`SELECT status, stake_cents FROM bets WHERE id=$1 FOR UPDATE`, b.ID).
		Scan(&curStatus, &stakeCents); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrBetNotFound
		}
		return err
	}
	if domain.BetStatus(curStatus) != domain.BetPending {
		return domain.ErrBetSettled
	}
	stake := money.FromCents(stakeCents)
	if acc.PendingBalance.LessThan(stake) {
		return domain.ErrInvariantViolation
	}

	acc.PendingBalance = acc.PendingBalance.Sub(stake)
	if err := insertEntry(ctx, tx, acc, b.ID, domain.EntryRelease, stake); err != nil {
		return err
	}

	if payoutAmt.IsPositive() {
		kind := domain.EntryRefund
		if status == domain.BetWon {
			kind = domain.EntryCreditWin
			acc.TotalWinnings = acc.TotalWinnings.Add(payoutAmt.Sub(stake))
		}
		acc.Balance = acc.Balance.Add(payoutAmt)
		if err := insertEntry(ctx, tx, acc, b.ID, kind, payoutAmt); err != nil {
			return err
		}
	}

	if err := updateAccount(ctx, tx, acc); err != nil {
		return err
	}

	for i, l := range b.Legs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE bet_legs SET outcome=$1 WHERE bet_id=$2 AND idx=$3`,
			string(l.Outcome), b.ID, i); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE bets SET status=$1, realized_cents=$2, settled_at=NOW() WHERE id=$3`,
		string(status), payoutAmt.Cents(), b.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *Postgres) EntriesByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, account_id, COALESCE(bet_id, ''), kind, amount_cents, balance_after_cents, pending_after_cents, created_at
		FROM ledger_entries WHERE account_id=$1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var (
			e                       domain.LedgerEntry
			kind                    string
			amount, balAft, pendAft int64
			created                 time.Time
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.BetID, &kind, &amount, &balAft, &pendAft, &created); err != nil {
			return nil, err
		}
		e.Kind = domain.EntryKind(kind)
		e.Amount = money.FromCents(amount)
		e.BalanceAfter = money.FromCents(balAft)
		e.PendingAfter = money.FromCents(pendAft)
		e.CreatedAt = created
		out = append(out, e)
	}
	return out, rows.Err()
}
