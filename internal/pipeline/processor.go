package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/extract"
)

// DocumentAdapter converts submitted documents into text.
type DocumentAdapter interface {
	Extract(ctx context.Context, fileBase64, mimeType string) (extract.Result, error)
	ExtractFile(ctx context.Context, path string) (extract.Result, error)
}

// JobStore records extraction runs. A nil JobStore disables history.
type JobStore interface {
	Start(ctx context.Context, sourceName, mimeType string) (uuid.UUID, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, attempts int, rec *entity.InvoiceRecord) error
	FinishFailure(ctx context.Context, id uuid.UUID, f entity.JobFailure) error
}

// Request is one extraction request as exposed to callers.
type Request struct {
	FileBase64 string
	MimeType   string
	SourceName string
}

// Response is a successful extraction.
type Response struct {
	JobID    uuid.UUID
	Record   entity.InvoiceRecord
	Attempts int
	Text     extract.Result
}

// Service coordinates document adaptation then the repair loop, recording
// each run in the job store.
type Service struct {
	Logger     *slog.Logger
	Adapter    DocumentAdapter
	Controller *Controller
	Jobs       JobStore
}

func NewService(logger *slog.Logger, adapter DocumentAdapter, controller *Controller, jobs JobStore) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Logger: logger, Adapter: adapter, Controller: controller, Jobs: jobs}
}

// ExtractDocument runs one request to completion.
func (s *Service) ExtractDocument(ctx context.Context, req Request) (Response, error) {
	return s.run(ctx, req.SourceName, req.MimeType, func(ctx context.Context) (extract.Result, error) {
		return s.Adapter.Extract(ctx, req.FileBase64, req.MimeType)
	})
}

// ExtractFile runs the pipeline on a file from disk.
func (s *Service) ExtractFile(ctx context.Context, path string) (Response, error) {
	mime := constants.MimeForExt(filepath.Ext(path))
	return s.run(ctx, filepath.Base(path), mime, func(ctx context.Context) (extract.Result, error) {
		return s.Adapter.ExtractFile(ctx, path)
	})
}

func (s *Service) run(ctx context.Context, source, mime string, adapt func(context.Context) (extract.Result, error)) (Response, error) {
	runID := uuid.New().String()
	ctx = common.WithRunID(ctx, runID)
	start := time.Now()

	jobID := s.startJob(ctx, source, mime)
	s.Logger.Info("processor.start", "run_id", runID, "job_id", jobID, "source", source, "mime_type", mime)

	text, err := adapt(ctx)
	if err != nil {
		s.Logger.Error("processor.extract.failed", "run_id", runID, "job_id", jobID, "err", err)
		s.finishFailure(ctx, jobID, 0, err)
		return Response{JobID: jobID, Text: text}, err
	}
	s.Logger.Info("processor.extract.ok",
		"run_id", runID,
		"job_id", jobID,
		"method", text.Method,
		"pages", text.Pages,
		"text_len", len(text.Text),
	)

	res, err := s.Controller.Run(ctx, text.Text)
	if err != nil {
		s.Logger.Error("processor.run.failed", "run_id", runID, "job_id", jobID, "err", err)
		attempts := 0
		var ee *common.ExtractionError
		if errors.As(err, &ee) {
			attempts = ee.Attempts
		}
		s.finishFailure(ctx, jobID, attempts, err)
		return Response{JobID: jobID, Text: text}, err
	}

	if s.Jobs != nil && jobID != uuid.Nil {
		if err := s.Jobs.FinishSuccess(context.WithoutCancel(ctx), jobID, res.Attempts, &res.Record); err != nil {
			s.Logger.Warn("processor.job.finish_failed", "job_id", jobID, "err", err)
		}
	}

	s.Logger.Info("processor.ok",
		"run_id", runID,
		"job_id", jobID,
		"attempts", res.Attempts,
		"use_case", res.Record.UseCase,
		"supplier", entity.StringValue(res.Record.SupplierName),
		"invoice_number", entity.StringValue(res.Record.InvoiceNumber),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Response{JobID: jobID, Record: res.Record, Attempts: res.Attempts, Text: text}, nil
}

func (s *Service) startJob(ctx context.Context, source, mime string) uuid.UUID {
	if s.Jobs == nil {
		return uuid.Nil
	}
	id, err := s.Jobs.Start(ctx, source, mime)
	if err != nil {
		// history is best effort
		s.Logger.Warn("processor.job.start_failed", "source", source, "err", err)
		return uuid.Nil
	}
	return id
}

func (s *Service) finishFailure(ctx context.Context, jobID uuid.UUID, attempts int, err error) {
	if s.Jobs == nil || jobID == uuid.Nil {
		return
	}
	f := entity.JobFailure{Attempts: attempts, Message: err.Error()}
	var ee *common.ExtractionError
	if errors.As(err, &ee) {
		f.Kind, f.Last = string(ee.Kind), string(ee.Last)
	}
	if ferr := s.Jobs.FinishFailure(context.WithoutCancel(ctx), jobID, f); ferr != nil {
		s.Logger.Warn("processor.job.finish_failed", "job_id", jobID, "err", fmt.Errorf("record failure: %w", ferr))
	}
}
