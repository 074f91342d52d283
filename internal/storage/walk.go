package storage

import (
	"context"
	"fmt"
	"iter"

	"github.com/joseph-ayodele/receipts-renamer/constants"
)

// Walk lazily yields every PDF under root in depth-first pre-order: a folder's
// documents first, then each subfolder in enumeration order. Enumeration errors
// are yielded as (nil, err) and the walk moves on to the next sibling.
// The walk ends when the consumer stops or ctx is done. Walk itself never
// renames or marks; providers may still assign ids on first listing (see GCSProvider).
func Walk(ctx context.Context, root Folder) iter.Seq2[Document, error] {
	return func(yield func(Document, error) bool) {
		walkFolder(ctx, root, yield)
	}
}

// walkFolder returns false once the consumer has stopped.
func walkFolder(ctx context.Context, folder Folder, yield func(Document, error) bool) bool {
	if ctx.Err() != nil {
		return false
	}

	docs, err := folder.Documents(ctx, constants.MimeTypePDF)
	for _, doc := range docs {
		if ctx.Err() != nil || !yield(doc, nil) {
			return false
		}
	}
	if err != nil {
		if !yield(nil, fmt.Errorf("list documents in %s: %w", folder.ID(), err)) {
			return false
		}
	}

	subs, err := folder.Folders(ctx)
	if err != nil {
		if !yield(nil, fmt.Errorf("list folders in %s: %w", folder.ID(), err)) {
			return false
		}
	}
	for _, sub := range subs {
		if !walkFolder(ctx, sub, yield) {
			return false
		}
	}
	return true
}
