package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS ticket_events (
	ticket_id          TEXT PRIMARY KEY,
	combinations       JSONB NOT NULL,
	total_combinations INTEGER NOT NULL,
	total_cost         BIGINT NOT NULL,
	version            TEXT NOT NULL DEFAULT '',
	source             TEXT NOT NULL DEFAULT '',
	generated_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS ticket_daily_totals (
	day          DATE PRIMARY KEY,
	tickets      INTEGER NOT NULL,
	combinations BIGINT NOT NULL,
	cost         BIGINT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRepo implementa o arquivo de eventos de bilhete e o agregado diário
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// Migrate cria as tabelas do arquivo se ainda não existirem
func (r *PostgresRepo) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}
	return nil
}

// Archive insere o evento no histórico e soma no agregado do dia numa única transação.
// Idempotente por ticket_id: reentrega do mesmo evento retorna false sem tocar no agregado.
func (r *PostgresRepo) Archive(ctx context.Context, e events.TicketGenerated) (bool, error) {
	combos, err := json.Marshal(e.Combinations)
	if err != nil {
		return false, fmt.Errorf("marshal combinations: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO ticket_events
		  (ticket_id, combinations, total_combinations, total_cost, version, source, generated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (ticket_id) DO NOTHING`,
		e.TicketID, combos, e.TotalCombinations, e.TotalCost, e.Version, e.Source, e.GeneratedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert ticket event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil // já arquivado
	}

	const q = `
		INSERT INTO ticket_daily_totals (day, tickets, combinations, cost, updated_at)
		VALUES ($1::date, 1, $2, $3, NOW())
		ON CONFLICT (day) DO UPDATE SET
		  tickets      = ticket_daily_totals.tickets + 1,
		  combinations = ticket_daily_totals.combinations + EXCLUDED.combinations,
		  cost         = ticket_daily_totals.cost + EXCLUDED.cost,
		  updated_at   = NOW()`
	if _, err := tx.ExecContext(ctx, q, e.GeneratedAt.UTC().Format("2006-01-02"), e.TotalCombinations, e.TotalCost); err != nil {
		return false, fmt.Errorf("upsert daily totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
