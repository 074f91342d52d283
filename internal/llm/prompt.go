package llm

import (
	"strings"
)

// BuildInvoicePrompt composes the instruction sent alongside the PDF.
func BuildInvoicePrompt() string {
	parts := []string{
		"You are an invoice and receipt reader. Read the attached PDF and return ONLY a JSON object with exactly these keys:",
		`"` + KeyInvoiceDate + `": the invoice date as YYMMDD. If a payment due date or shipment date is printed, use it; otherwise use the document date.`,
		`"` + KeyTotalAmount + `": the total amount including tax, as an integer with no currency symbol or separators.`,
		`"` + KeyIssuer + `": the issuing company or person. If it cannot be determined, use "unknown".`,
		`"` + KeyItem + `": a short description of what was purchased.`,
		"Do not add explanations, markdown or any text outside the JSON object.",
	}
	return strings.Join(parts, "\n")
}
