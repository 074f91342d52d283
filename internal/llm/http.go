package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipts-renamer/internal/common"
)

// SendJSON POSTs body as JSON and returns the raw response body and status code.
// A non-2xx status is not an error; only encoding and transport failures are.
// Callers decide the URL and headers.
func SendJSON(ctx context.Context, client *http.Client, url string, body any, headers map[string]string, logger *slog.Logger) ([]byte, int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}

	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		logger.Error("llm.http.encode_error", "req_id", reqID, "error", err)
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		logger.Error("llm.http.build_request_error", "req_id", reqID, "error", RedactURL(err.Error()))
		return nil, 0, fmt.Errorf("build request: %s", RedactURL(err.Error()))
	}

	// Default headers; allow caller overrides.
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Info("llm.http.request",
		"req_id", reqID,
		"run_id", common.RunIDFromContext(ctx),
		"url", RedactURL(url),
		"content_length", len(bs),
	)

	resp, err := client.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, api key included.
		msg := RedactURL(err.Error())
		logger.Error("llm.http.send_error", "req_id", reqID, "error", msg, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, 0, &TransportError{Err: unwrapURLError(err), Message: msg}
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn("llm.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("llm.http.read_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, resp.StatusCode, &TransportError{Err: err, Message: "read response body: " + err.Error()}
	}

	logger.Info("llm.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		logger.Warn("llm.http.non_2xx", "req_id", reqID, "status", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

// TransportError means the endpoint could not be reached or the body could not be read.
type TransportError struct {
	Err     error
	Message string
}

func (e *TransportError) Error() string { return "transport: " + e.Message }
func (e *TransportError) Unwrap() error { return e.Err }

func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}

var reKeyParam = regexp.MustCompile(`([?&]key=)[^&\s"]*`)

// RedactURL masks the value of any key= query parameter in s.
func RedactURL(s string) string {
	return reKeyParam.ReplaceAllString(s, "${1}REDACTED")
}
