// Package extract turns submitted documents into plain text for the model.
package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/einvoice/constants"
)

// PDFTextExtractor pulls the text layer out of a PDF held in memory.
type PDFTextExtractor interface {
	Name() string
	ExtractPDF(ctx context.Context, data []byte) (text string, pages int, err error)
}

// Result is the outcome of adapting one document.
type Result struct {
	Text       string
	Pages      int
	SourceType constants.Format
	Method     string // "pdf-native" | "pdf-fitz" | "pdftotext" | "plain"
	Duration   time.Duration
	Warnings   []string
}
