package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/receipts-renamer/constants"
)

// LocalProvider serves folders from the local filesystem. Folder ids are
// directory paths; document ids are the sha256 of the file contents so they
// survive renames.
type LocalProvider struct {
	logger *slog.Logger
}

func NewLocalProvider(logger *slog.Logger) *LocalProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalProvider{logger: logger}
}

func (p *LocalProvider) FolderByID(_ context.Context, id string) (Folder, error) {
	abs, err := filepath.Abs(id)
	if err != nil {
		return nil, fmt.Errorf("abs path %q: %w", id, err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrFolderNotFound, id)
	}
	return &localFolder{path: abs, logger: p.logger}, nil
}

type localFolder struct {
	path   string
	logger *slog.Logger
}

func (f *localFolder) ID() string   { return f.path }
func (f *localFolder) Name() string { return filepath.Base(f.path) }

func (f *localFolder) Documents(_ context.Context, mimeType string) ([]Document, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, err
	}

	var docs []Document
	var errs []error
	for _, e := range entries {
		if e.IsDir() || IsHidden(e.Name()) || !e.Type().IsRegular() {
			continue
		}
		if constants.MimeTypeForExt(filepath.Ext(e.Name())) != mimeType {
			continue
		}
		p := filepath.Join(f.path, e.Name())
		sum, err := hashFile(p)
		if err != nil {
			f.logger.Warn("storage.local.hash_failed", "path", p, "error", err)
			errs = append(errs, fmt.Errorf("hash %s: %w", p, err))
			continue
		}
		docs = append(docs, &localDocument{path: p, id: sum, mimeType: mimeType})
	}
	return docs, errors.Join(errs...)
}

func (f *localFolder) Folders(_ context.Context) ([]Folder, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, err
	}
	var out []Folder
	for _, e := range entries {
		if !e.IsDir() || IsHidden(e.Name()) {
			continue
		}
		out = append(out, &localFolder{path: filepath.Join(f.path, e.Name()), logger: f.logger})
	}
	return out, nil
}

type localDocument struct {
	path     string
	id       string
	mimeType string
}

func (d *localDocument) ID() string       { return d.id }
func (d *localDocument) Name() string     { return filepath.Base(d.path) }
func (d *localDocument) MimeType() string { return d.mimeType }

func (d *localDocument) Blob(_ context.Context) ([]byte, error) {
	return os.ReadFile(d.path)
}

// Rename moves the file within its directory. An occupied target name is
// disambiguated with -2, -3, ... before the extension.
func (d *localDocument) Rename(_ context.Context, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if newName == d.Name() {
		return nil
	}

	dir := filepath.Dir(d.path)
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		candidate := filepath.Join(dir, Disambiguate(newName, attempt))
		if candidate == d.path {
			return nil
		}
		if _, err := os.Lstat(candidate); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", candidate, err)
		}
		if err := os.Rename(d.path, candidate); err != nil {
			return fmt.Errorf("rename %s: %w", d.path, err)
		}
		d.path = candidate
		return nil
	}
	return fmt.Errorf("rename %s: no free name for %q", d.path, newName)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsHidden checks if a file or directory name starts with '.'.
func IsHidden(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".")
}
