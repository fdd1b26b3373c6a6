package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS storage_slots (
	slot       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// PostgresSlotStore stores slots in PostgreSQL
type PostgresSlotStore struct {
	db *sql.DB
}

func NewPostgresSlotStore(db *sql.DB) *PostgresSlotStore {
	return &PostgresSlotStore{db: db}
}

// EnsureSchema creates the slots table if it does not exist
func (s *PostgresSlotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create storage_slots table: %w", err)
	}
	return nil
}

func (s *PostgresSlotStore) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM storage_slots WHERE slot = $1",
		slot,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return []byte(data), true, nil
}

func (s *PostgresSlotStore) Save(ctx context.Context, slot string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO storage_slots (slot, data, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		slot,
		string(data),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

func (s *PostgresSlotStore) Close() error {
	return s.db.Close()
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
