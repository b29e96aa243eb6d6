package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/export"
	"github.com/joseph-ayodele/einvoice/internal/pipeline"
	"github.com/joseph-ayodele/einvoice/internal/ubl"
)

// ReportName is the summary workbook written next to the XML files.
const ReportName = "report.xlsx"

// FileExtractor runs the pipeline for a file on disk.
type FileExtractor interface {
	ExtractFile(ctx context.Context, path string) (pipeline.Response, error)
}

// Runner extracts files and writes one UBL document per accepted record.
type Runner struct {
	Extractor FileExtractor
	OutDir    string
	Workers   int
	Logger    *slog.Logger
	Now       func() time.Time

	mu    sync.Mutex
	names map[string]string   // source path -> output file name
	taken map[string]struct{} // lower-cased output file names in use
}

func NewRunner(extractor FileExtractor, outDir string, workers int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Runner{Extractor: extractor, OutDir: outDir, Workers: workers, Logger: logger, Now: time.Now}
}

// ProcessFile extracts one file and writes <name>.xml on success. Sources
// sharing a stem get distinct names, see outputName. Extraction failures are
// reported in the row, only output errors are returned.
func (r *Runner) ProcessFile(ctx context.Context, path string) (export.ReportRow, error) {
	row := export.ReportRow{Source: path}
	resp, err := r.Extractor.ExtractFile(ctx, path)
	if err != nil {
		row.Status = string(constants.JobStatusFailed)
		row.FailureKind = string(common.FailureKindOf(err))
		var ee *common.ExtractionError
		if errors.As(err, &ee) {
			row.Attempts = ee.Attempts
			row.Missing = ee.Missing
			if ee.Last != "" {
				row.FailureKind = fmt.Sprintf("%s (%s)", ee.Kind, ee.Last)
			}
		}
		if row.FailureKind == "" {
			row.FailureKind = err.Error()
		}
		r.Logger.Warn("batch.file.failed", "path", path, "err", err)
		return row, nil
	}

	rec := resp.Record
	fillRow(&row, &rec)
	row.Attempts = resp.Attempts
	row.Status = string(constants.JobStatusSucceeded)

	xml, err := ubl.Serialize(&rec, r.Now())
	if err != nil {
		return row, fmt.Errorf("serialize %s: %w", path, err)
	}
	target := filepath.Join(r.OutDir, r.outputName(path))
	if err := os.WriteFile(target, xml, 0o644); err != nil {
		return row, fmt.Errorf("write %s: %w", target, err)
	}
	row.XMLPath = target
	r.Logger.Info("batch.file.ok", "path", path, "xml", target, "attempts", resp.Attempts)
	return row, nil
}

// Run processes paths with a bounded worker pool and returns one row per
// path in input order.
func (r *Runner) Run(ctx context.Context, paths []string) ([]export.ReportRow, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	rows := make([]export.ReportRow, len(paths))
	start := time.Now()

	// claim names up front so suffixes follow input order, not scheduling
	for _, p := range paths {
		r.outputName(p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				rows[i] = export.ReportRow{Source: p, Status: "SKIPPED", FailureKind: err.Error()}
				return nil
			}
			row, err := r.ProcessFile(gctx, p)
			rows[i] = row
			return err
		})
	}
	err := g.Wait()

	r.Logger.Info("batch.done",
		"files", len(paths),
		"succeeded", countStatus(rows, string(constants.JobStatusSucceeded)),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows, err
}

// WriteReport writes the XLSX summary into the output directory.
func (r *Runner) WriteReport(rows []export.ReportRow) (string, error) {
	data, err := export.WriteReport(rows)
	if err != nil {
		return "", err
	}
	target := filepath.Join(r.OutDir, ReportName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return target, nil
}

// XMLName maps a source file to its output file name.
func XMLName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".xml"
}

// outputName returns the XML file name reserved for path. The first source
// to claim a stem keeps <stem>.xml; later ones get <stem>-2.xml, <stem>-3.xml
// and so on. A source keeps its name for the lifetime of the Runner.
func (r *Runner) outputName(path string) string {
	key := filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = map[string]string{}
		r.taken = map[string]struct{}{}
	}
	if name, ok := r.names[key]; ok {
		return name
	}

	name := XMLName(key)
	stem := strings.TrimSuffix(name, ".xml")
	for i := 2; ; i++ {
		if _, used := r.taken[strings.ToLower(name)]; !used {
			break
		}
		name = fmt.Sprintf("%s-%d.xml", stem, i)
	}
	r.taken[strings.ToLower(name)] = struct{}{}
	r.names[key] = name
	return name
}

func fillRow(row *export.ReportRow, rec *entity.InvoiceRecord) {
	row.UseCase = string(rec.UseCase)
	row.UseCaseLabel = rec.UseCase.Label()
	row.Supplier = entity.StringValue(rec.SupplierName)
	row.InvoiceNumber = entity.StringValue(rec.InvoiceNumber)
	row.InvoiceDate = entity.StringValue(rec.InvoiceDate)
	row.Currency = rec.Currency
	row.TotalNet = rec.TotalNet
	row.TotalTax = rec.TotalTax
	row.TotalAmount = rec.TotalAmount
}

func countStatus(rows []export.ReportRow, status string) int {
	n := 0
	for _, r := range rows {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Collector accumulates rows from concurrent watch-mode workers.
type Collector struct {
	mu   sync.Mutex
	rows []export.ReportRow
}

func (c *Collector) Add(row export.ReportRow) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
}

func (c *Collector) Rows() []export.ReportRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]export.ReportRow, len(c.rows))
	copy(out, c.rows)
	return out
}
