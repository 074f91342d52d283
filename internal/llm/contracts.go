package llm

import "context"

// JSON keys the model is asked to return.
const (
	KeyInvoiceDate = "請求日"
	KeyTotalAmount = "合計金額"
	KeyIssuer      = "発行者"
	KeyItem        = "取引物"
)

// InvoiceFields is the normalized shape we want from the model.
type InvoiceFields struct {
	InvoiceDate string // YYMMDD
	TotalAmount int64  // tax-inclusive
	Issuer      string // "unknown" when the model could not tell
	Item        string
}

// Extractor sends one document to the inference service and returns the raw
// response body, whatever its HTTP status. Only transport failures are errors.
type Extractor interface {
	Extract(ctx context.Context, blob []byte) ([]byte, error)
}
