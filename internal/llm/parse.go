package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
)

var (
	// ErrNoJSONObject: the model text contains no {...} span.
	ErrNoJSONObject = errors.New("no JSON object in model response")
	// ErrMalformedJSON: the {...} span is not valid JSON or lacks a required field.
	ErrMalformedJSON = errors.New("malformed invoice JSON")
)

// Greedy on purpose: first '{' through last '}'.
var reJSONObject = regexp.MustCompile(`(?s)\{.*\}`)

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ResponseText returns candidates[0].content.parts[0].text, or "" when the
// body is not a generateContent envelope or the path is absent.
func ResponseText(raw []byte) string {
	var env generateContentResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if len(env.Candidates) == 0 || len(env.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return env.Candidates[0].Content.Parts[0].Text
}

// ExtractJSONObject returns the span from the first '{' to the last '}' in text.
func ExtractJSONObject(text string) (string, error) {
	m := reJSONObject.FindString(text)
	if m == "" {
		return "", ErrNoJSONObject
	}
	return m, nil
}

// ParseResponse turns a raw inference body into InvoiceFields.
func ParseResponse(raw []byte) (InvoiceFields, error) {
	obj, err := ExtractJSONObject(ResponseText(raw))
	if err != nil {
		return InvoiceFields{}, err
	}
	return ParseInvoiceJSON([]byte(obj))
}

// ParseInvoiceJSON validates a JSON object against the invoice schema and decodes it.
func ParseInvoiceJSON(obj []byte) (InvoiceFields, error) {
	schema, err := compiledInvoiceSchema()
	if err != nil {
		return InvoiceFields{}, err
	}
	if err := validate(schema, obj); err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(obj, &doc); err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var out InvoiceFields
	if err := json.Unmarshal(doc[KeyInvoiceDate], &out.InvoiceDate); err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, KeyInvoiceDate, err)
	}
	if err := json.Unmarshal(doc[KeyIssuer], &out.Issuer); err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, KeyIssuer, err)
	}
	if err := json.Unmarshal(doc[KeyItem], &out.Item); err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, KeyItem, err)
	}
	total, err := decodeWholeNumber(doc[KeyTotalAmount])
	if err != nil {
		return InvoiceFields{}, fmt.Errorf("%w: %s: %v", ErrMalformedJSON, KeyTotalAmount, err)
	}
	out.TotalAmount = total
	return out, nil
}

// decodeWholeNumber accepts 1200 and 1200.0 but not 1200.5.
func decodeWholeNumber(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("not a whole number: %s", n)
	}
	return int64(f), nil
}
