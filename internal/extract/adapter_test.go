package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
)

type fakePDF struct {
	text string
	err  error
}

func (fakePDF) Name() string { return "fake" }

func (f fakePDF) ExtractPDF(context.Context, []byte) (string, int, error) {
	return f.text, 2, f.err
}

func newTestAdapter(pdf PDFTextExtractor, maxLen int) *Adapter {
	return NewAdapter(pdf, maxLen, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestExtractText(t *testing.T) {
	a := newTestAdapter(nil, 0)

	res, err := a.Extract(context.Background(), b64("Invoice  F-1\r\nTotal\t10.00\n\n\n\nEnd"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, res.SourceType)
	assert.Equal(t, "Invoice F-1\nTotal 10.00\n\nEnd", res.Text)
}

func TestExtractEmptyMimeIsText(t *testing.T) {
	res, err := newTestAdapter(nil, 0).Extract(context.Background(), b64("hello"), "")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Empty(t, res.Warnings)
}

func TestExtractUnknownMimeFallsBackToText(t *testing.T) {
	res, err := newTestAdapter(nil, 0).Extract(context.Background(), b64("hello"), "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Len(t, res.Warnings, 1)
}

func TestExtractImageIsUnsupported(t *testing.T) {
	_, err := newTestAdapter(nil, 0).Extract(context.Background(), b64("\x89PNG"), "image/png")
	require.Error(t, err)
	assert.Equal(t, common.FailureUnsupportedInput, common.FailureKindOf(err))
}

func TestExtractInvalidBase64(t *testing.T) {
	_, err := newTestAdapter(nil, 0).Extract(context.Background(), "%%%not base64%%%", "text/plain")
	assert.Equal(t, common.FailureUnsupportedInput, common.FailureKindOf(err))
}

func TestExtractPDFUsesBackend(t *testing.T) {
	a := newTestAdapter(fakePDF{text: "page one\fpage two"}, 0)
	res, err := a.Extract(context.Background(), b64("%PDF-1.4"), constants.MimePDF)
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "fake", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, "page one\n\npage two", res.Text)
}

func TestExtractPDFBackendFailure(t *testing.T) {
	a := newTestAdapter(fakePDF{err: errors.New("corrupt xref")}, 0)
	_, err := a.Extract(context.Background(), b64("%PDF-1.4"), constants.MimePDF)
	assert.Equal(t, common.FailureUnsupportedInput, common.FailureKindOf(err))
}

func TestExtractTruncates(t *testing.T) {
	a := newTestAdapter(nil, 4)
	res, err := a.Extract(context.Background(), b64("abcdefgh"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "abcd", res.Text)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "inv.txt")
	require.NoError(t, os.WriteFile(p, []byte("Facture 42"), 0o644))

	res, err := newTestAdapter(nil, 0).ExtractFile(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Facture 42", res.Text)
}

type stubRunner struct {
	name string
	args []string
	out  string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name, s.args = name, args
	return []byte(s.out), nil, nil
}

func TestPdftotextBackend(t *testing.T) {
	r := &stubRunner{out: "one\ftwo\f"}
	text, pages, err := PdftotextPDF{Runner: r}.ExtractPDF(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", r.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix"}, r.args[:5])
	assert.Equal(t, "one\ftwo\f", text)
	assert.Equal(t, 2, pages)
}

func TestNewPDFBackend(t *testing.T) {
	b, err := NewPDFBackend("FITZ", nil)
	require.NoError(t, err)
	assert.Equal(t, "pdf-fitz", b.Name())

	_, err = NewPDFBackend("tesseract", nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Facture F-1\nTotal 12,00", Normalize("\uFEFFFacture F-1\r\nTotal\t 12,00  "))
	assert.Equal(t, "a\n\nb", Normalize("a\n\n\n\nb"))
	assert.Equal(t, "", Normalize(""))
}

func TestExtractTextStripsByteOrderMark(t *testing.T) {
	res, err := newTestAdapter(fakePDF{}, 0).Extract(context.Background(), b64("\uFEFFInvoice 7"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Invoice 7", res.Text)
}
