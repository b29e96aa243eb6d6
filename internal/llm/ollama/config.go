package ollama

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the Ollama-compatible generate client.
type Config struct {
	Endpoint  string        // default http://localhost:11434
	Model     string        // e.g. "qwen3:4b"
	MaxTokens int           // default 1500
	Timeout   time.Duration // http client timeout

	// Temperature is sent as options.temperature when set.
	Temperature *float32
}

// Client calls <Endpoint>/api/generate. It implements llm.Completer.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen3:4b"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }
