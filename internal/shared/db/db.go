package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Schema cria a tabela de histórico de apostas, se ainda não existir.
const Schema = `
CREATE TABLE IF NOT EXISTS bets (
	id             UUID PRIMARY KEY,
	user_id        TEXT NOT NULL,
	name           TEXT NOT NULL,
	amount         NUMERIC(14,2) NOT NULL,
	comment        TEXT,
	profit_or_loss NUMERIC(14,2) NOT NULL,
	date_info      TEXT,
	location       TEXT,
	race_number    TEXT,
	round          TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS bets_user_created_idx ON bets (user_id, created_at);
`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
