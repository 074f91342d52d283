package gemini

import (
	"context"
	"encoding/base64"
	"net/url"

	"github.com/joseph-ayodele/receipts-renamer/constants"
	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
)

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

// Endpoint returns the generateContent URL for the configured model, key included.
func (c *Client) Endpoint() string {
	return c.cfg.BaseURL + "/models/" + url.PathEscape(c.cfg.Model) + ":generateContent?key=" + url.QueryEscape(c.cfg.APIKey)
}

// Extract implements llm.Extractor. The body is returned for every HTTP status;
// callers parse it and treat error payloads as parse failures.
func (c *Client) Extract(ctx context.Context, blob []byte) ([]byte, error) {
	body := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{Text: c.prompt},
				{InlineData: &inlineData{
					MimeType: constants.MimeTypePDF,
					Data:     base64.StdEncoding.EncodeToString(blob),
				}},
			},
		}},
	}

	c.logger.Debug("llm.extract.start", "model", c.cfg.Model, "blob_bytes", len(blob))
	raw, status, err := llm.SendJSON(ctx, c.http, c.Endpoint(), body, nil, c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("llm.extract.done", "model", c.cfg.Model, "status", status, "bytes", len(raw))
	return raw, nil
}
