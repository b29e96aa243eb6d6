package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/llm"
)

// Complete sends prompt to the generate endpoint and returns the completion
// text, buffering streamed chunks until the end marker. The request id in ctx
// is reused for every log line of the call; one is created when absent.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	c.logger.Info("llm.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
	)

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"
	body := llm.GenerateRequest{
		Model:     c.cfg.Model,
		Prompt:    prompt,
		MaxTokens: c.cfg.MaxTokens,
	}
	if c.cfg.Temperature != nil {
		body.Options = &llm.GenerateOptions{Temperature: *c.cfg.Temperature}
	}

	resp, err := llm.PostJSON(ctx, c.http, url, body, nil, c.logger)
	if err != nil {
		c.logger.Error("llm.complete.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("llm.complete.response_body_close_error", "req_id", rid, "error", err)
		}
	}(resp.Body)

	var text string
	streamed := strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "ndjson")
	if streamed {
		text, err = llm.DecodeStream(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read stream: %w", err)
		}
	} else {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}
		if streamed = llm.LooksStreamed(raw); streamed {
			text, err = llm.DecodeStream(bytes.NewReader(raw))
			if err != nil {
				return "", fmt.Errorf("read stream: %w", err)
			}
		} else {
			text = llm.SingleResponseText(raw)
		}
	}

	c.logger.Info("llm.complete.ok",
		"req_id", rid,
		"streamed", streamed,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
