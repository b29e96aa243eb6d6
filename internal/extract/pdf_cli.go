package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// PdftotextPDF shells out to poppler's pdftotext.
type PdftotextPDF struct {
	Bin    string // binary name or absolute path; if empty -> "pdftotext"
	Runner Runner
	Logger *slog.Logger
}

func (PdftotextPDF) Name() string { return "pdftotext" }

func (p PdftotextPDF) ExtractPDF(ctx context.Context, data []byte) (string, int, error) {
	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	runner := p.Runner
	if runner == nil {
		runner = execRunner{}
	}

	tmp, err := os.CreateTemp("", "einvoice-*.pdf")
	if err != nil {
		return "", 0, err
	}
	defer func(path string) {
		if err := os.Remove(path); err != nil && p.Logger != nil {
			p.Logger.Warn("extract.tmp_remove_failed", "path", path, "error", err)
		}
	}(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := runner.Run(ctx, bin, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	text := string(out)
	// form feed separates pages
	pages := 1 + strings.Count(strings.TrimRight(text, "\f"), "\f")
	return text, pages, nil
}
