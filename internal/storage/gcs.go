package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/joseph-ayodele/receipts-renamer/constants"
)

// MetadataDocumentID is the object metadata key holding a document's stable id.
const MetadataDocumentID = "document-id"

// GCSProvider treats "/"-delimited object prefixes of one bucket as folders.
// Folder ids are prefixes ("" is the bucket root). Listing documents is not
// read-only: an object seen for the first time gets a uuid stored under
// MetadataDocumentID, which is the id it keeps across renames.
type GCSProvider struct {
	bucket *gcs.BucketHandle
	name   string
	logger *slog.Logger
}

func NewGCSProvider(client *gcs.Client, bucket string, logger *slog.Logger) *GCSProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &GCSProvider{bucket: client.Bucket(bucket), name: bucket, logger: logger}
}

func (p *GCSProvider) FolderByID(ctx context.Context, id string) (Folder, error) {
	prefix := strings.TrimPrefix(id, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	f := &gcsFolder{provider: p, prefix: prefix}
	if prefix == "" {
		return f, nil
	}

	// A prefix exists when at least one object lives under it.
	it := p.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	if _, err := it.Next(); errors.Is(err, iterator.Done) {
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrFolderNotFound, p.name, prefix)
	} else if err != nil {
		return nil, fmt.Errorf("stat prefix gs://%s/%s: %w", p.name, prefix, err)
	}
	return f, nil
}

type gcsFolder struct {
	provider *GCSProvider
	prefix   string
}

func (f *gcsFolder) ID() string { return f.prefix }

func (f *gcsFolder) Name() string {
	if f.prefix == "" {
		return f.provider.name
	}
	return path.Base(strings.TrimSuffix(f.prefix, "/"))
}

func (f *gcsFolder) list(ctx context.Context, each func(*gcs.ObjectAttrs) error) error {
	it := f.provider.bucket.Objects(ctx, &gcs.Query{Prefix: f.prefix, Delimiter: "/"})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := each(attrs); err != nil {
			return err
		}
	}
}

func (f *gcsFolder) Documents(ctx context.Context, mimeType string) ([]Document, error) {
	var docs []Document
	var errs []error
	err := f.list(ctx, func(attrs *gcs.ObjectAttrs) error {
		if attrs.Prefix != "" || attrs.Name == f.prefix || IsHidden(attrs.Name) {
			return nil
		}
		if !matchesMime(attrs, mimeType) {
			return nil
		}
		id, err := f.provider.ensureDocumentID(ctx, attrs)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		docs = append(docs, &gcsDocument{provider: f.provider, attrs: attrs, id: id, mimeType: mimeType})
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return docs, errors.Join(errs...)
}

func (f *gcsFolder) Folders(ctx context.Context) ([]Folder, error) {
	var out []Folder
	err := f.list(ctx, func(attrs *gcs.ObjectAttrs) error {
		if attrs.Prefix != "" {
			out = append(out, &gcsFolder{provider: f.provider, prefix: attrs.Prefix})
		}
		return nil
	})
	return out, err
}

func matchesMime(attrs *gcs.ObjectAttrs, mimeType string) bool {
	if ct := strings.TrimSpace(strings.SplitN(attrs.ContentType, ";", 2)[0]); ct != "" && ct != "application/octet-stream" {
		return strings.EqualFold(ct, mimeType)
	}
	return constants.MimeTypeForExt(path.Ext(attrs.Name)) == mimeType
}

// ensureDocumentID returns the object's stable id, assigning a new uuid on first sight.
func (p *GCSProvider) ensureDocumentID(ctx context.Context, attrs *gcs.ObjectAttrs) (string, error) {
	if id := attrs.Metadata[MetadataDocumentID]; id != "" {
		return id, nil
	}

	id := uuid.NewString()
	meta := make(map[string]string, len(attrs.Metadata)+1)
	for k, v := range attrs.Metadata {
		meta[k] = v
	}
	meta[MetadataDocumentID] = id

	obj := p.bucket.Object(attrs.Name).If(gcs.Conditions{MetagenerationMatch: attrs.Metageneration})
	updated, err := obj.Update(ctx, gcs.ObjectAttrsToUpdate{Metadata: meta})
	if isPreconditionFailed(err) {
		// Someone else tagged it first; use theirs.
		fresh, err := p.bucket.Object(attrs.Name).Attrs(ctx)
		if err != nil {
			return "", fmt.Errorf("reload attrs %s: %w", attrs.Name, err)
		}
		if fid := fresh.Metadata[MetadataDocumentID]; fid != "" {
			*attrs = *fresh
			return fid, nil
		}
		return "", fmt.Errorf("assign document id %s: concurrent update", attrs.Name)
	}
	if err != nil {
		return "", fmt.Errorf("assign document id %s: %w", attrs.Name, err)
	}
	*attrs = *updated
	p.logger.Debug("storage.gcs.id_assigned", "object", attrs.Name, "document_id", id)
	return id, nil
}

type gcsDocument struct {
	provider *GCSProvider
	attrs    *gcs.ObjectAttrs
	id       string
	mimeType string
}

func (d *gcsDocument) ID() string       { return d.id }
func (d *gcsDocument) Name() string     { return path.Base(d.attrs.Name) }
func (d *gcsDocument) MimeType() string { return d.mimeType }

func (d *gcsDocument) Blob(ctx context.Context) ([]byte, error) {
	r, err := d.provider.bucket.Object(d.attrs.Name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.attrs.Name, err)
	}
	defer r.Close()

	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.attrs.Name, err)
	}
	return blob, nil
}

// Rename copies the object under the new name (never overwriting) and deletes the source.
func (d *gcsDocument) Rename(ctx context.Context, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if newName == d.Name() {
		return nil
	}

	dir := strings.TrimSuffix(d.attrs.Name, d.Name())
	src := d.provider.bucket.Object(d.attrs.Name)
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		target := dir + Disambiguate(newName, attempt)
		if target == d.attrs.Name {
			return nil
		}
		dst := d.provider.bucket.Object(target).If(gcs.Conditions{DoesNotExist: true})
		copier := dst.CopierFrom(src)
		copier.ContentType = d.attrs.ContentType
		copier.Metadata = d.attrs.Metadata
		attrs, err := copier.Run(ctx)
		if isPreconditionFailed(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("copy %s to %s: %w", d.attrs.Name, target, err)
		}
		if err := src.Delete(ctx); err != nil {
			return fmt.Errorf("delete %s after copy: %w", d.attrs.Name, err)
		}
		d.attrs = attrs
		return nil
	}
	return fmt.Errorf("rename %s: no free name for %q", d.attrs.Name, newName)
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
