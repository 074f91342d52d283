// Package storage abstracts the hierarchical document store the renamer walks.
package storage

import (
	"context"
	"errors"
)

// Document is a file in the store. ID is stable across renames.
type Document interface {
	ID() string
	Name() string
	MimeType() string
	Blob(ctx context.Context) ([]byte, error)
	Rename(ctx context.Context, newName string) error
}

// Folder is a node of the folder tree.
type Folder interface {
	ID() string
	Name() string
	// Documents lists the folder's direct children of the given mime type. A non-nil
	// error may accompany a partial list.
	Documents(ctx context.Context, mimeType string) ([]Document, error)
	Folders(ctx context.Context) ([]Folder, error)
}

// Provider resolves folders by id.
type Provider interface {
	FolderByID(ctx context.Context, id string) (Folder, error)
}

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrInvalidName    = errors.New("invalid document name")
)
