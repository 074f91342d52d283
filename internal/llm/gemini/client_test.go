package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
)

func TestExtractRequestShape(t *testing.T) {
	blob := []byte("%PDF-1.4 fake")
	var gotPath, gotKey string
	var got generateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", BaseURL: srv.URL + "/v1/", Model: "gemini-2.5-flash"}, nil)
	raw, err := c.Extract(context.Background(), blob)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if string(raw) != `{"candidates":[]}` {
		t.Fatalf("raw = %s", raw)
	}
	if gotPath != "/v1/models/gemini-2.5-flash:generateContent" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("key = %q", gotKey)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected body %+v", got)
	}
	parts := got.Contents[0].Parts
	if parts[0].Text != llm.BuildInvoicePrompt() {
		t.Fatalf("first part is not the prompt: %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "application/pdf" {
		t.Fatalf("second part = %+v", parts[1])
	}
	if parts[1].InlineData.Data != base64.StdEncoding.EncodeToString(blob) {
		t.Fatalf("blob not base64 encoded as expected")
	}
}

func TestExtractReturnsBodyOnErrorStatus(t *testing.T) {
	const body = `{"error":{"code":500,"message":"internal"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "m"}, nil)
	raw, err := c.Extract(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("non-2xx should not be an error: %v", err)
	}
	if string(raw) != body {
		t.Fatalf("raw = %s", raw)
	}
	if _, err := llm.ParseResponse(raw); !errors.Is(err, llm.ErrNoJSONObject) {
		t.Fatalf("error payload parse err = %v, want ErrNoJSONObject", err)
	}
}

func TestExtractTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(Config{APIKey: "top-secret", BaseURL: base, Model: "m"}, nil)
	_, err := c.Extract(context.Background(), []byte("x"))
	var te *llm.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if strings.Contains(err.Error(), "top-secret") {
		t.Fatalf("api key leaked in error: %v", err)
	}
}
