package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"gamelib-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    payload JSONB NOT NULL,
    position BIGSERIAL
);`

// PostgresStore persists library entries in PostgreSQL. Each game is stored
// as a JSONB payload keyed by ID; listing orders by insertion position so
// results match the memory backend's stability guarantee.
type PostgresStore struct {
	conn *sql.DB
}

// OpenPostgres connects to PostgreSQL and ensures the schema exists.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &PostgresStore{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.conn.Close()
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// ListGames returns all games in insertion order.
func (s *PostgresStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT payload FROM games ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := make([]domain.Game, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		var g domain.Game
		if err := json.Unmarshal(payload, &g); err != nil {
			return nil, fmt.Errorf("decoding game payload: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return games, nil
}

// GetGame retrieves a game by ID.
func (s *PostgresStore) GetGame(ctx context.Context, id string) (domain.Game, bool, error) {
	var payload []byte
	err := s.conn.QueryRowContext(ctx, `SELECT payload FROM games WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, false, nil
	}
	if err != nil {
		return domain.Game{}, false, fmt.Errorf("getting game %s: %w", id, err)
	}
	var g domain.Game
	if err := json.Unmarshal(payload, &g); err != nil {
		return domain.Game{}, false, fmt.Errorf("decoding game payload: %w", err)
	}
	return g, true, nil
}

// PutGame inserts or updates a game, keeping its original position on update.
func (s *PostgresStore) PutGame(ctx context.Context, game domain.Game) error {
	payload, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encoding game payload: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO games (id, payload) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		game.ID, payload)
	if err != nil {
		return fmt.Errorf("upserting game %s: %w", game.ID, err)
	}
	return nil
}

// DeleteGame removes a game, reporting whether it existed.
func (s *PostgresStore) DeleteGame(ctx context.Context, id string) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting game %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting game %s: %w", id, err)
	}
	return affected > 0, nil
}

// ReplaceGames swaps the full library in one transaction.
func (s *PostgresStore) ReplaceGames(ctx context.Context, games []domain.Game) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE games RESTART IDENTITY`); err != nil {
		return fmt.Errorf("clearing games: %w", err)
	}
	for _, g := range games {
		payload, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encoding game payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO games (id, payload) VALUES ($1, $2)`, g.ID, payload); err != nil {
			return fmt.Errorf("inserting game %s: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace transaction: %w", err)
	}
	return nil
}
