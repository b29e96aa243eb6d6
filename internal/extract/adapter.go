package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
)

// Adapter converts base64 documents into text. Images are rejected: there
// is no OCR stage.
type Adapter struct {
	pdf    PDFTextExtractor
	maxLen int
	logger *slog.Logger
}

func NewAdapter(pdf PDFTextExtractor, maxLen int, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	if pdf == nil {
		pdf = NativePDF{}
	}
	return &Adapter{pdf: pdf, maxLen: maxLen, logger: logger}
}

// Extract decodes fileBase64 and converts it according to mimeType.
func (a *Adapter) Extract(ctx context.Context, fileBase64, mimeType string) (Result, error) {
	data, err := decodeBase64(fileBase64)
	if err != nil {
		return Result{}, &common.ExtractionError{
			Kind:   common.FailureUnsupportedInput,
			Detail: "fileBase64 is not valid base64",
			Cause:  err,
		}
	}
	return a.ExtractBytes(ctx, data, mimeType)
}

// ExtractFile reads path and converts it using the MIME type of its extension.
func (a *Adapter) ExtractFile(ctx context.Context, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return a.ExtractBytes(ctx, data, constants.MimeForExt(filepath.Ext(path)))
}

// ExtractBytes converts raw document bytes.
func (a *Adapter) ExtractBytes(ctx context.Context, data []byte, mimeType string) (Result, error) {
	start := time.Now()
	format := constants.MapMimeToFormat(mimeType)
	a.logger.Debug("extract.start", "mime_type", mimeType, "format", format, "bytes", len(data))

	var res Result
	switch format {
	case constants.PDF:
		text, pages, err := a.pdf.ExtractPDF(ctx, data)
		if err != nil {
			a.logger.Error("extract.pdf_failed", "backend", a.pdf.Name(), "error", err)
			return Result{SourceType: constants.PDF}, &common.ExtractionError{
				Kind:   common.FailureUnsupportedInput,
				Detail: "could not read PDF text",
				Cause:  err,
			}
		}
		res = Result{Text: text, Pages: pages, SourceType: constants.PDF, Method: a.pdf.Name()}
		if strings.TrimSpace(text) == "" {
			res.Warnings = append(res.Warnings, "pdf has no text layer")
		}
	case constants.IMAGE:
		a.logger.Warn("extract.image_rejected", "mime_type", mimeType)
		return Result{SourceType: constants.IMAGE}, &common.ExtractionError{
			Kind:   common.FailureUnsupportedInput,
			Detail: "image OCR is not enabled; provide text or PDF",
		}
	default:
		// text/* and unrecognised types are read as UTF-8
		res = Result{Text: toUTF8(data), Pages: 1, SourceType: constants.TEXT, Method: "plain"}
		if format == constants.UNKNOWN {
			res.Warnings = append(res.Warnings, "unknown mime type "+mimeType+" read as text")
		}
	}

	res.Text = Normalize(res.Text)
	if a.maxLen > 0 && len(res.Text) > a.maxLen {
		res.Text = truncateUTF8(res.Text, a.maxLen)
		res.Warnings = append(res.Warnings, fmt.Sprintf("text truncated to %d bytes", a.maxLen))
	}
	res.Duration = time.Since(start)

	a.logger.Info("extract.ok",
		"source_type", res.SourceType,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	// accept data URLs
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

func truncateUTF8(s string, max int) string {
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
