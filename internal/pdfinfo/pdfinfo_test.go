package pdfinfo

import (
	"errors"
	"testing"
)

func TestInspectRejectsNonPDF(t *testing.T) {
	info, err := Inspect([]byte("hello"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("err = %v, want ErrNotPDF", err)
	}
	if info.Bytes != 5 {
		t.Fatalf("bytes = %d", info.Bytes)
	}
}

func TestInspectTruncatedPDF(t *testing.T) {
	if _, err := Inspect([]byte("%PDF-1.4\n%broken")); err == nil {
		t.Fatal("truncated PDF should fail page counting")
	}
}
