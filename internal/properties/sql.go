package properties

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/receipts-renamer/internal/common"
	"github.com/joseph-ayodele/receipts-renamer/internal/repository"
)

// SQLBackend stores properties in the relational properties table.
type SQLBackend struct {
	repo repository.PropertyRepository
	// closer is nil when the caller owns the DB.
	closer func() error
}

func NewSQLBackend(repo repository.PropertyRepository, closer func() error) *SQLBackend {
	return &SQLBackend{repo: repo, closer: closer}
}

func (b *SQLBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := b.repo.Get(ctx, scope, key)
	if errors.Is(err, common.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (b *SQLBackend) Set(ctx context.Context, scope, key, value string) error {
	return b.repo.Upsert(ctx, scope, key, value)
}

func (b *SQLBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}
