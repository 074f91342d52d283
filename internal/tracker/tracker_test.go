package tracker

import (
	"context"
	"errors"
	"testing"
)

type mapStore struct {
	values map[string]string
	setErr error
}

func (m *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func TestMarkThenIsProcessed(t *testing.T) {
	ctx := context.Background()
	tr := New(&mapStore{values: map[string]string{}}, nil)

	done, err := tr.IsProcessed(ctx, "doc-1")
	if err != nil || done {
		t.Fatalf("fresh id: done=%v err=%v", done, err)
	}
	if err := tr.MarkProcessed(ctx, "doc-1"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := tr.MarkProcessed(ctx, "doc-1"); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	done, err = tr.IsProcessed(ctx, "doc-1")
	if err != nil || !done {
		t.Fatalf("after mark: done=%v err=%v", done, err)
	}
}

func TestOnlyDoneCountsAsProcessed(t *testing.T) {
	tr := New(&mapStore{values: map[string]string{"doc-1": "pending"}}, nil)
	done, err := tr.IsProcessed(context.Background(), "doc-1")
	if err != nil || done {
		t.Fatalf("done=%v err=%v, want false", done, err)
	}
}

func TestMarkPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	tr := New(&mapStore{values: map[string]string{}, setErr: boom}, nil)
	if err := tr.MarkProcessed(context.Background(), "doc-1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}
