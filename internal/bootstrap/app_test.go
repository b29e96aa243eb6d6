package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/internal/common"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info").Info("pipeline.run.start", "run_id", "r1")
	assert.Contains(t, buf.String(), `"msg":"pipeline.run.start"`)
	assert.Contains(t, buf.String(), `"run_id":"r1"`)
}

func TestNewWiresSQLiteHistory(t *testing.T) {
	t.Setenv("DB_URL", "sqlite://"+filepath.Join(t.TempDir(), "nested", "jobs.db"))
	cfg := common.LoadConfig()

	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.DB)
	require.NotNil(t, app.Jobs)
	assert.Equal(t, app.Jobs, app.Service.Jobs)
	assert.Equal(t, "qwen3:4b", app.Model.Model())
}

func TestNewWithoutDatabase(t *testing.T) {
	t.Setenv("DB_URL", "")
	app, err := New(context.Background(), common.LoadConfig(), nil)
	require.NoError(t, err)
	defer app.Close()
	assert.Nil(t, app.DB)
	assert.Nil(t, app.Service.Jobs)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Setenv("PDF_BACKEND", "tesseract")
	_, err := New(context.Background(), common.LoadConfig(), nil)
	assert.Error(t, err)
}
