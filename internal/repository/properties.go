package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipts-renamer/internal/common"
)

const dbTimeout = 5 * time.Second

// PropertyRepository persists scoped string key/value pairs.
type PropertyRepository interface {
	// Get returns common.ErrNotFound when the key is absent in scope.
	Get(ctx context.Context, scope, key string) (string, error)
	Upsert(ctx context.Context, scope, key, value string) error
}

type propertyRepository struct {
	db     *DB
	logger *slog.Logger

	getQuery    string
	upsertQuery string
}

func NewPropertyRepository(db *DB, logger *slog.Logger) PropertyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	r := &propertyRepository{db: db, logger: logger}
	r.getQuery = r.rebind(`SELECT value FROM properties WHERE scope = ? AND key = ?`)
	r.upsertQuery = r.rebind(`INSERT INTO properties (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	return r
}

func (r *propertyRepository) Get(ctx context.Context, scope, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var value string
	err := r.db.SQL.QueryRowContext(ctx, r.getQuery, scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to read property", "scope", scope, "key", key, "error", err)
		return "", fmt.Errorf("%w: get property: %v", common.ErrDatabase, err)
	}
	return value, nil
}

func (r *propertyRepository) Upsert(ctx context.Context, scope, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := r.db.SQL.ExecContext(ctx, r.upsertQuery, scope, key, value, time.Now().UTC()); err != nil {
		r.logger.Error("failed to write property", "scope", scope, "key", key, "error", err)
		return fmt.Errorf("%w: upsert property: %v", common.ErrDatabase, err)
	}
	return nil
}

// rebind rewrites ? placeholders as $1..$n for postgres.
func (r *propertyRepository) rebind(query string) string {
	if r.db.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
