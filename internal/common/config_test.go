package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"LLM_ENDPOINT", "LLM_MODEL", "EXTRACT_MAX_RETRIES", "EXTRACT_BACKOFF_BASE", "PDF_BACKEND", "BATCH_WORKERS"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
	assert.Equal(t, 2, cfg.Extract.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Extract.BackoffBase)
	assert.Equal(t, PDFBackendNative, cfg.Extract.PDFBackend)
	assert.Equal(t, 4, cfg.Batch.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("EXTRACT_MAX_RETRIES", "5")
	t.Setenv("EXTRACT_BACKOFF_BASE", "2s")
	t.Setenv("PDF_BACKEND", "FITZ")
	t.Setenv("LLM_TIMEOUT", "not-a-duration")

	cfg := LoadConfig()
	assert.Equal(t, 5, cfg.Extract.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Extract.BackoffBase)
	assert.Equal(t, PDFBackendFitz, cfg.Extract.PDFBackend)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := LoadConfig()
	cfg.Extract.PDFBackend = "tesseract"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
