package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzPDF reads the text layer through MuPDF.
type FitzPDF struct{}

func (FitzPDF) Name() string { return "pdf-fitz" }

func (FitzPDF) ExtractPDF(ctx context.Context, data []byte) (string, int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	var b strings.Builder
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return "", 0, ctx.Err()
		default:
		}
		txt, err := doc.Text(i)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i+1, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}
	return b.String(), n, nil
}
