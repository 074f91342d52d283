package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeDoc struct {
	id, name, mime string
}

func (d *fakeDoc) ID() string                               { return d.id }
func (d *fakeDoc) Name() string                             { return d.name }
func (d *fakeDoc) MimeType() string                         { return d.mime }
func (d *fakeDoc) Blob(context.Context) ([]byte, error)     { return nil, nil }
func (d *fakeDoc) Rename(_ context.Context, n string) error { d.name = n; return nil }

type fakeFolder struct {
	id      string
	docs    []*fakeDoc
	subs    []*fakeFolder
	docsErr error
	subsErr error
}

func (f *fakeFolder) ID() string   { return f.id }
func (f *fakeFolder) Name() string { return f.id }

func (f *fakeFolder) Documents(_ context.Context, mime string) ([]Document, error) {
	var out []Document
	for _, d := range f.docs {
		if d.mime == mime {
			out = append(out, d)
		}
	}
	return out, f.docsErr
}

func (f *fakeFolder) Folders(context.Context) ([]Folder, error) {
	var out []Folder
	for _, s := range f.subs {
		out = append(out, s)
	}
	return out, f.subsErr
}

func pdf(id string) *fakeDoc { return &fakeDoc{id: id, name: id + ".pdf", mime: "application/pdf"} }

func collect(t *testing.T, ctx context.Context, root Folder) (ids []string, errs []error) {
	t.Helper()
	for doc, err := range Walk(ctx, root) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, doc.ID())
	}
	return ids, errs
}

func TestWalkPreOrderDocumentsBeforeSubfolders(t *testing.T) {
	root := &fakeFolder{
		id:   "root",
		docs: []*fakeDoc{pdf("r1"), {id: "img", name: "img.png", mime: "image/png"}, pdf("r2")},
		subs: []*fakeFolder{
			{id: "a", docs: []*fakeDoc{pdf("a1")}, subs: []*fakeFolder{{id: "a/x", docs: []*fakeDoc{pdf("ax1")}}}},
			{id: "b", docs: []*fakeDoc{pdf("b1"), pdf("b2")}},
		},
	}

	ids, errs := collect(t, context.Background(), root)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"r1", "r2", "a1", "ax1", "b1", "b2"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
}

func TestWalkContinuesAfterEnumerationError(t *testing.T) {
	boom := errors.New("permission denied")
	root := &fakeFolder{
		id: "root",
		subs: []*fakeFolder{
			{id: "broken", docsErr: boom, subsErr: boom},
			{id: "ok", docs: []*fakeDoc{pdf("ok1")}},
		},
	}

	ids, errs := collect(t, context.Background(), root)
	if !reflect.DeepEqual(ids, []string{"ok1"}) {
		t.Fatalf("ids = %v", ids)
	}
	if len(errs) != 2 || !errors.Is(errs[0], boom) {
		t.Fatalf("errs = %v", errs)
	}
}

func TestWalkStopsWhenConsumerBreaks(t *testing.T) {
	root := &fakeFolder{id: "root", docs: []*fakeDoc{pdf("1"), pdf("2")}, subs: []*fakeFolder{{id: "s", docs: []*fakeDoc{pdf("3")}}}}

	var seen []string
	for doc, err := range Walk(context.Background(), root) {
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, doc.ID())
		if len(seen) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(seen, []string{"1", "2"}) {
		t.Fatalf("seen = %v", seen)
	}
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ids, errs := collect(t, ctx, &fakeFolder{id: "root", docs: []*fakeDoc{pdf("1")}})
	if len(ids) != 0 || len(errs) != 0 {
		t.Fatalf("cancelled walk yielded ids=%v errs=%v", ids, errs)
	}
}
