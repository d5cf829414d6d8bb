package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"slack-translate-bot/internal/domain"
	"slack-translate-bot/internal/domain/model"
	"slack-translate-bot/internal/domain/ports/repository"
	"slack-translate-bot/internal/infra/metrics"
)

var _ repository.PreferenceRepository = (*PostgresPreferenceRepo)(nil)

// executor is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS user_preferences (
  user_id              TEXT PRIMARY KEY,
  username             TEXT NULL,
  language             TEXT NULL,
  waiting_for_language BOOLEAN NOT NULL DEFAULT FALSE,
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

type PostgresPreferenceRepo struct {
	db executor
}

func NewPostgresPreferenceRepo(db executor) *PostgresPreferenceRepo {
	return &PostgresPreferenceRepo{db: db}
}

// EnsureSchema creates the preferences table when it does not exist.
func (r *PostgresPreferenceRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure user_preferences schema: %w", err)
	}
	return nil
}

func (r *PostgresPreferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	const q = `
SELECT user_id, username, language, waiting_for_language
  FROM user_preferences WHERE user_id=$1;`
	p, err := scanPref(r.db.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncStoreError("postgres", "get")
		return nil, err
	}
	return p, nil
}

func (r *PostgresPreferenceRepo) Put(ctx context.Context, pref *model.UserPreference) error {
	if pref == nil || pref.UserID == "" {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO user_preferences (user_id, username, language, waiting_for_language, updated_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE SET
  username=$2, language=$3, waiting_for_language=$4, updated_at=NOW();`
	tag, err := r.db.Exec(ctx, q, pref.UserID, nullable(pref.DisplayName), nullable(pref.Language), pref.AwaitingLanguageSelection)
	if err != nil {
		metrics.IncStoreError("postgres", "put")
		return fmt.Errorf("upsert preference %s: %w", pref.UserID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("upsert preference %s: %d rows affected", pref.UserID, tag.RowsAffected())
	}
	return nil
}

func (r *PostgresPreferenceRepo) List(ctx context.Context) ([]*model.UserPreference, error) {
	const q = `
SELECT user_id, username, language, waiting_for_language
  FROM user_preferences ORDER BY user_id;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		metrics.IncStoreError("postgres", "list")
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []*model.UserPreference
	for rows.Next() {
		p, err := scanPref(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPref(row pgx.Row) (*model.UserPreference, error) {
	var (
		p        model.UserPreference
		username sql.NullString
		language sql.NullString
	)
	if err := row.Scan(&p.UserID, &username, &language, &p.AwaitingLanguageSelection); err != nil {
		return nil, err
	}
	p.DisplayName = username.String
	p.Language = language.String
	return &p, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
