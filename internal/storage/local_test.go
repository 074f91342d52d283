package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalProviderWalk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"), "b")
	writeFile(t, filepath.Join(dir, "a.PDF"), "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.pdf"), "h")
	writeFile(t, filepath.Join(dir, "sub", "c.pdf"), "c")
	writeFile(t, filepath.Join(dir, ".git", "d.pdf"), "d")

	p := NewLocalProvider(nil)
	root, err := p.FolderByID(context.Background(), dir)
	if err != nil {
		t.Fatalf("FolderByID: %v", err)
	}

	var names []string
	for doc, err := range Walk(context.Background(), root) {
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
		names = append(names, doc.Name())
	}
	want := []string{"a.PDF", "b.pdf", "c.pdf"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestLocalProviderMissingFolder(t *testing.T) {
	_, err := NewLocalProvider(nil).FolderByID(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("err = %v, want ErrFolderNotFound", err)
	}
}

func firstDoc(t *testing.T, dir string) Document {
	t.Helper()
	f, err := NewLocalProvider(nil).FolderByID(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := f.Documents(context.Background(), "application/pdf")
	if err != nil || len(docs) == 0 {
		t.Fatalf("documents: %v %v", docs, err)
	}
	return docs[0]
}

func TestLocalDocumentIDSurvivesRename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "scan.pdf"), "invoice body")

	doc := firstDoc(t, dir)
	before := doc.ID()
	if err := doc.Rename(context.Background(), "240501-1200-ACME-consulting.pdf"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "240501-1200-ACME-consulting.pdf")); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
	if after := firstDoc(t, dir).ID(); after != before {
		t.Fatalf("id changed across rename: %s -> %s", before, after)
	}
}

func TestLocalRenameDisambiguatesCollisions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-scan.pdf"), "first")
	writeFile(t, filepath.Join(dir, "target.pdf"), "occupied")

	doc := firstDoc(t, dir)
	if doc.Name() != "a-scan.pdf" {
		t.Fatalf("unexpected first doc %s", doc.Name())
	}
	if err := doc.Rename(context.Background(), "target.pdf"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if doc.Name() != "target-2.pdf" {
		t.Fatalf("name = %s, want target-2.pdf", doc.Name())
	}
	got, _ := os.ReadFile(filepath.Join(dir, "target.pdf"))
	if string(got) != "occupied" {
		t.Fatalf("existing file overwritten: %q", got)
	}
}

func TestLocalRenameSameNameIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "same.pdf"), "x")
	doc := firstDoc(t, dir)
	if err := doc.Rename(context.Background(), "same.pdf"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if doc.Name() != "same.pdf" {
		t.Fatalf("name = %s", doc.Name())
	}
}

func TestRenameRejectsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.pdf"), "x")
	doc := firstDoc(t, dir)
	if err := doc.Rename(context.Background(), "../escape.pdf"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("err = %v, want ErrInvalidName", err)
	}
}

func TestDisambiguate(t *testing.T) {
	cases := map[int]string{1: "a.pdf", 2: "a-2.pdf", 3: "a-3.pdf"}
	for attempt, want := range cases {
		if got := Disambiguate("a.pdf", attempt); got != want {
			t.Errorf("Disambiguate(a.pdf, %d) = %s, want %s", attempt, got, want)
		}
	}
}
