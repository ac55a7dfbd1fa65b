package domain

import (
	"time"

	"github.com/radieske/sportsbook-ledger/pkg/money"
)

type EntryKind string

const (
	EntryReserve    EntryKind = "RESERVE"    // stake sai do saldo e entra em risco
	EntryRelease    EntryKind = "RELEASE"    // liquidação: stake sai do risco
	EntryCreditWin  EntryKind = "CREDIT_WIN" // pagamento de aposta vencedora
	EntryRefund     EntryKind = "REFUND"     // devolução de stake (void/push)
	EntryDeposit    EntryKind = "DEPOSIT"
	EntryWithdrawal EntryKind = "WITHDRAWAL"
)

// LedgerEntry é o registro de auditoria append-only de toda mutação de
// saldo. BetID fica vazio em movimentos que não vêm de aposta.
type LedgerEntry struct {
	ID           string
	AccountID    string
	BetID        string
	Kind         EntryKind
	Amount       money.Money
	BalanceAfter money.Money
	PendingAfter money.Money
	CreatedAt    time.Time
}

// ReplayEntries reconstrói (balance, pendingBalance) aplicando as entradas
// em ordem a partir do zero. É o mecanismo de reconciliação: o resultado
// deve bater com os campos atuais da conta. A liquidação de aposta com
// pagamento grava sempre RELEASE(stake) + CREDIT_WIN/REFUND(valor) na mesma
// transação, então cada tipo de entrada tem efeito único e o replay fecha.
func ReplayEntries(entries []LedgerEntry) (balance, pending money.Money) {
	for _, e := range entries {
		switch e.Kind {
		case EntryDeposit:
			balance = balance.Add(e.Amount)
		case EntryWithdrawal:
			balance = balance.Sub(e.Amount)
		case EntryReserve:
			balance = balance.Sub(e.Amount)
			pending = pending.Add(e.Amount)
		case EntryRelease:
			pending = pending.Sub(e.Amount)
		case EntryCreditWin, EntryRefund:
			balance = balance.Add(e.Amount)
		}
	}
	return balance, pending
}
