package repo

import (
	"context"
	"database/sql"
)

// Schema do núcleo: contas, apostas, pernas e o log append-only do ledger.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id             TEXT PRIMARY KEY,
	balance_cents  BIGINT NOT NULL DEFAULT 0 CHECK (balance_cents >= 0),
	pending_cents  BIGINT NOT NULL DEFAULT 0 CHECK (pending_cents >= 0),
	winnings_cents BIGINT NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bets (
	id              TEXT PRIMARY KEY,
	account_id      TEXT NOT NULL REFERENCES accounts(id),
	type            TEXT NOT NULL,
	stake_cents     BIGINT NOT NULL CHECK (stake_cents > 0),
	teaser_points   TEXT,
	potential_cents BIGINT NOT NULL,
	realized_cents  BIGINT NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'PENDING',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	settled_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS bet_legs (
	bet_id    TEXT NOT NULL REFERENCES bets(id),
	idx       INT NOT NULL,
	event_id  TEXT NOT NULL,
	selection TEXT NOT NULL,
	odds      TEXT NOT NULL,
	outcome   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (bet_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_bet_legs_event ON bet_legs(event_id);
CREATE INDEX IF NOT EXISTS idx_bets_status ON bets(status);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id                  TEXT PRIMARY KEY,
	account_id          TEXT NOT NULL REFERENCES accounts(id),
	bet_id              TEXT,
	kind                TEXT NOT NULL,
	amount_cents        BIGINT NOT NULL,
	balance_after_cents BIGINT NOT NULL,
	pending_after_cents BIGINT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_account ON ledger_entries(account_id, created_at);
`

// EnsureSchema cria as tabelas se não existirem. Roda no seeder e na
// subida do ledger-service.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
