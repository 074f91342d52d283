package properties

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreBackend keeps one collection per scope, one document per key with a "value" field.
type FirestoreBackend struct {
	client *firestore.Client
	prefix string
	logger *slog.Logger
}

type propertyDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// NewFirestoreClient creates a Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

func NewFirestoreBackend(client *firestore.Client, collectionPrefix string, logger *slog.Logger) *FirestoreBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &FirestoreBackend{client: client, prefix: collectionPrefix, logger: logger}
}

func (b *FirestoreBackend) doc(scope, key string) *firestore.DocumentRef {
	return b.client.Collection(b.prefix + scope).Doc(key)
}

func (b *FirestoreBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	snap, err := b.doc(scope, key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		b.logger.Error("firestore get failed", "scope", scope, "key", key, "error", err)
		return "", false, fmt.Errorf("firestore get %s: %w", key, err)
	}

	var d propertyDoc
	if err := snap.DataTo(&d); err != nil {
		return "", false, fmt.Errorf("decode property %s: %w", key, err)
	}
	return d.Value, true, nil
}

func (b *FirestoreBackend) Set(ctx context.Context, scope, key, value string) error {
	_, err := b.doc(scope, key).Set(ctx, propertyDoc{Value: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		b.logger.Error("firestore set failed", "scope", scope, "key", key, "error", err)
		return fmt.Errorf("firestore set %s: %w", key, err)
	}
	return nil
}

func (b *FirestoreBackend) Close() error {
	return b.client.Close()
}
