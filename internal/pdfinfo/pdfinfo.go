// Package pdfinfo inspects PDF blobs before they are sent for extraction.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var ErrNotPDF = errors.New("not a PDF")

func init() {
	// Keep pdfcpu from writing its config directory under $HOME.
	model.ConfigPath = "disable"
}

// Info is what the preflight learns about a document.
type Info struct {
	Pages int
	Bytes int
}

// Inspect counts pages with relaxed validation. Unreadable PDFs return an error;
// the caller decides whether to continue.
func Inspect(blob []byte) (info Info, err error) {
	info.Bytes = len(blob)
	if !bytes.HasPrefix(bytes.TrimLeft(blob, "\x00\t\r\n "), []byte("%PDF-")) {
		return info, ErrNotPDF
	}

	// pdfcpu can panic on badly broken cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("count pages: %v", r)
		}
	}()

	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	pages, err := api.PageCount(bytes.NewReader(blob), cfg)
	if err != nil {
		return info, fmt.Errorf("count pages: %w", err)
	}
	info.Pages = pages
	return info, nil
}
