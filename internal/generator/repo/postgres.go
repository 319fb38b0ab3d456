package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("ticket not found")

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id                 UUID PRIMARY KEY,
	combinations       JSONB NOT NULL,
	output             TEXT NOT NULL,
	total_combinations INTEGER NOT NULL,
	total_cost         BIGINT NOT NULL,
	version            TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Postgres implementa a persistência dos bilhetes gerados
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de bilhetes
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Migrate cria a tabela de bilhetes se ainda não existir
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate tickets: %w", err)
	}
	return nil
}

// Create insere o bilhete e retorna o id gerado
func (p *Postgres) Create(ctx context.Context, t *Ticket) (string, error) {
	combos, err := json.Marshal(t.Combinations)
	if err != nil {
		return "", fmt.Errorf("marshal combinations: %w", err)
	}

	id := uuid.NewString()
	err = p.db.QueryRowContext(ctx, `
		INSERT INTO tickets (id, combinations, output, total_combinations, total_cost, version)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		id, combos, t.Output, t.TotalCombinations, t.TotalCost, t.Version,
	).Scan(&t.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert ticket: %w", err)
	}
	t.ID = id
	return id, nil
}

// Get busca um bilhete pelo id
func (p *Postgres) Get(ctx context.Context, id string) (*Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var (
		t      Ticket
		combos []byte
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, combinations, output, total_combinations, total_cost, version, created_at
		FROM tickets WHERE id=$1`, id,
	).Scan(&t.ID, &combos, &t.Output, &t.TotalCombinations, &t.TotalCost, &t.Version, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select ticket: %w", err)
	}
	if err := json.Unmarshal(combos, &t.Combinations); err != nil {
		return nil, fmt.Errorf("decode combinations: %w", err)
	}
	return &t, nil
}
