package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/llm"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompleteStreamed(t *testing.T) {
	var got llm.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = io.WriteString(w, `{"response":"{\"supplierName\":"}`+"\n")
		_, _ = io.WriteString(w, `{"thinking":"","response":"\"ACME\"}"}`+"\n")
		_, _ = io.WriteString(w, `{"done":true}`+"\n")
		_, _ = io.WriteString(w, `{"response":"ignored"}`+"\n")
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL + "/", Model: "m"}, quietLogger())
	text, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"supplierName":"ACME"}`, text)
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, "hello", got.Prompt)
	assert.Equal(t, 1500, got.MaxTokens)
	assert.Nil(t, got.Options)
}

func TestCompleteSendsTemperature(t *testing.T) {
	var got llm.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"response":"{}"}`)
	}))
	defer srv.Close()

	temp := float32(0.2)
	_, err := NewClient(Config{Endpoint: srv.URL, Temperature: &temp}, quietLogger()).Complete(context.Background(), "p")
	require.NoError(t, err)
	require.NotNil(t, got.Options)
	assert.InDelta(t, 0.2, got.Options.Temperature, 1e-6)
}

func TestCompleteSingleResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"text":"{}"}]}`)
	}))
	defer srv.Close()

	text, err := NewClient(Config{Endpoint: srv.URL}, quietLogger()).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(Config{Endpoint: srv.URL}, quietLogger()).Complete(context.Background(), "p")
	require.Error(t, err)
	var se *llm.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Contains(t, se.Body, "model not loaded")
}

func TestCompleteLogsOneRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"{\"a\":1}"}`+"\n"+`{"response":"","done":true}`+"\n")
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := common.WithRequestID(context.Background(), "req-42")

	text, err := NewClient(Config{Endpoint: srv.URL}, logger).Complete(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	var lines int
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		assert.Equal(t, "req-42", entry["req_id"], "event %v", entry["msg"])
		if entry["msg"] == "llm.complete.ok" {
			assert.Equal(t, true, entry["streamed"])
		}
		lines++
	}
	assert.GreaterOrEqual(t, lines, 4)
}

func TestCompleteDetectedStreamReadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"{"}`+"\n"+`{"response":"}"}`+"\n")
		_, _ = io.WriteString(w, strings.Repeat("x", 9<<20)+"\n")
	}))
	defer srv.Close()

	_, err := NewClient(Config{Endpoint: srv.URL}, quietLogger()).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}
