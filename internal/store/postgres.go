package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"captable/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists scenarios as JSONB rows.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresStore connects, runs migrations, and returns a ready store.
func NewPostgresStore(ctx context.Context, log *slog.Logger, databaseURL string) (*PostgresStore, error) {
	if err := Migrate(ctx, log, databaseURL); err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (p *PostgresStore) Get(ctx context.Context, userID, id string) (*Record, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT content, user_id, created_at, updated_at
		FROM scenarios WHERE id = $1 AND user_id = $2`, id, userID)
	return scanRecord(row)
}

func (p *PostgresStore) List(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, CASE WHEN jsonb_typeof(content->'rounds') = 'array'
			THEN jsonb_array_length(content->'rounds') ELSE 0 END, created_at, updated_at
		FROM scenarios WHERE user_id = $1
		ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Rounds, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Save(ctx context.Context, userID string, s model.Scenario) (*Record, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	content, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}

	rec := Record{Scenario: s, UserID: userID}
	err = p.pool.QueryRow(ctx, `
		INSERT INTO scenarios (id, user_id, name, content)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, content = EXCLUDED.content, updated_at = now()
		WHERE scenarios.user_id = EXCLUDED.user_id
		RETURNING created_at, updated_at`,
		s.ID, userID, s.Name, content,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOwnership
	}
	if err != nil {
		return nil, fmt.Errorf("save scenario %s: %w", s.ID, err)
	}
	p.log.Debug("saved scenario", "scenario_id", s.ID, "user_id", userID)
	return &rec, nil
}

func (p *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete scenario %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) CreateShareLink(ctx context.Context, userID, id string, ttl time.Duration) (*ShareLink, error) {
	link := ShareLink{
		Token:      uuid.NewString(),
		ScenarioID: id,
		ExpiresAt:  time.Now().UTC().Add(ttl),
	}
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO share_links (token, scenario_id, expires_at)
		SELECT $1::text, id, $3::timestamptz FROM scenarios WHERE id = $2 AND user_id = $4`,
		link.Token, id, link.ExpiresAt, userID)
	if err != nil {
		return nil, fmt.Errorf("create share link for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return &link, nil
}

func (p *PostgresStore) GetShared(ctx context.Context, token string) (*Record, error) {
	var expiresAt time.Time
	var content []byte
	rec := Record{}
	err := p.pool.QueryRow(ctx, `
		SELECT l.expires_at, s.content, s.user_id, s.created_at, s.updated_at
		FROM share_links l JOIN scenarios s ON s.id = l.scenario_id
		WHERE l.token = $1`, token,
	).Scan(&expiresAt, &content, &rec.UserID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shared scenario: %w", err)
	}
	if !time.Now().Before(expiresAt) {
		return nil, ErrShareExpired
	}
	if err := json.Unmarshal(content, &rec.Scenario); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &rec, nil
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}

func scanRecord(row pgx.Row) (*Record, error) {
	var content []byte
	rec := Record{}
	err := row.Scan(&content, &rec.UserID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	if err := json.Unmarshal(content, &rec.Scenario); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &rec, nil
}
