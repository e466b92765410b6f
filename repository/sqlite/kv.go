package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/nijaru/vod-highlights/errors"
)

const (
	getValueQuery = `SELECT value FROM preferences WHERE key = ?`

	upsertValueQuery = `
        INSERT INTO preferences (key, value, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at
    `
)

type Repository struct {
	db     *sql.DB
	config DBConfig
}

func NewRepository(db *sql.DB, config DBConfig) *Repository {
	return &Repository{db: db, config: config}
}

func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "SQLiteRepository.Get"

	var value string
	err := r.db.QueryRowContext(ctx, getValueQuery, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Internal(op, err, "Failed to query preference")
	}
	return value, true, nil
}

func (r *Repository) SetMany(ctx context.Context, values map[string]string) error {
	const op = "SQLiteRepository.SetMany"

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attempts := r.config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = WithTransaction(ctx, r.db, func(tx Executor) error {
			now := time.Now().UTC()
			for _, k := range keys {
				if _, err := tx.ExecContext(ctx, upsertValueQuery, k, values[k], now); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save preferences")
		}

		select {
		case <-ctx.Done():
			return errors.Internal(op, ctx.Err(), "context cancelled")
		case <-time.After(r.config.RetryDelay * time.Duration(i+1)):
		}
	}
	return errors.Internal(op, err, "Failed after retries")
}
