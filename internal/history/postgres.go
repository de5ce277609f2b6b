package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock so gateway and archiver starting together do not race
	// the schema setup.
	const lockID = 774420831

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS query_records (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			question TEXT NOT NULL,
			parent_id UUID,
			providers TEXT[],
			bundle JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS query_records_user_created_idx
			ON query_records (user_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, userID string, rec Record) error {
	if rec.ID == uuid.Nil {
		return fmt.Errorf("record id required")
	}
	var parent any
	if rec.ParentID != uuid.Nil {
		parent = rec.ParentID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_records(id, user_id, question, parent_id, providers, bundle, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, userID, rec.Question, parent, pq.Array(rec.Providers), []byte(rec.Bundle), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid),
		       providers, bundle, created_at
		FROM query_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var bundle []byte
		var providers []string
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.ParentID, pq.Array(&providers), &bundle, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Providers = providers
		rec.Bundle = bundle
		out = append(out, rec)
	}
	return out, rows.Err()
}
