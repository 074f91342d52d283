package gemini

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipts-renamer/internal/llm"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"

// Config for the Gemini generateContent client.
type Config struct {
	APIKey  string
	BaseURL string        // default DefaultBaseURL
	Model   string        // e.g. "gemini-2.5-flash"
	Timeout time.Duration // 0 means no client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	prompt string
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		prompt: llm.BuildInvoicePrompt(),
		logger: logger,
	}
}
