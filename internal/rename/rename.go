// Package rename derives the canonical file name from extracted invoice fields.
package rename

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
	"github.com/joseph-ayodele/receipts-renamer/internal/storage"
)

const (
	MaxComponentRunes = 50
	MaxComponentBytes = 100
	// MaxNameBytes keeps room for a "-100" collision suffix under the 255-byte file name limit.
	MaxNameBytes  = 240
	UnknownIssuer = "unknown"
	Extension     = ".pdf"
)

// BuildName returns {date}-{total}-{issuer}-{item}.pdf. Equal fields always give the same name.
func BuildName(f llm.InvoiceFields) string {
	issuer := Sanitize(f.Issuer)
	if issuer == "" {
		issuer = UnknownIssuer
	}
	date := Sanitize(f.InvoiceDate)
	total := strconv.FormatInt(f.TotalAmount, 10)
	item := Sanitize(f.Item)

	// Item gives way first, then issuer.
	budget := MaxNameBytes - len(date) - len(total) - len("---") - len(Extension)
	if len(issuer)+len(item) > budget {
		item = truncateBytes(item, max(budget-len(issuer), 0))
		issuer = truncateBytes(issuer, max(budget-len(item), 0))
	}
	return strings.Join([]string{date, total, issuer, item}, "-") + Extension
}

// Sanitize drops path separators and control characters, trims surrounding
// whitespace and caps the result at MaxComponentRunes and MaxComponentBytes.
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > MaxComponentRunes {
		cleaned = string(runes[:MaxComponentRunes])
	}
	return truncateBytes(cleaned, MaxComponentBytes)
}

// truncateBytes cuts s to at most n bytes on a rune boundary.
func truncateBytes(s string, n int) string {
	for len(s) > n {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return strings.TrimSpace(s)
}

// Apply renames doc to name through its provider. An unchanged name is a no-op.
func Apply(ctx context.Context, doc storage.Document, name string) error {
	if doc.Name() == name {
		return nil
	}
	if err := doc.Rename(ctx, name); err != nil {
		return fmt.Errorf("rename %s to %q: %w", doc.ID(), name, err)
	}
	return nil
}
