package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/pipeline"
	"github.com/joseph-ayodele/einvoice/internal/policy"
	"github.com/joseph-ayodele/einvoice/internal/ubl"
)

// Extractor runs one extraction request to completion.
type Extractor interface {
	ExtractDocument(ctx context.Context, req pipeline.Request) (pipeline.Response, error)
}

// JobReader exposes recorded extraction runs.
type JobReader interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.ExtractionJob, error)
	List(ctx context.Context, limit int) ([]*entity.ExtractionJob, error)
}

type InvoiceService struct {
	extractor Extractor
	table     *policy.Table
	jobs      JobReader
	logger    *slog.Logger
	now       func() time.Time
}

func NewInvoiceService(extractor Extractor, table *policy.Table, jobs JobReader, logger *slog.Logger) *InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = policy.NewTable()
	}
	return &InvoiceService{extractor: extractor, table: table, jobs: jobs, logger: logger, now: time.Now}
}

// Extract implements InvoiceServiceServer. Request: {fileBase64, mimeType, sourceName?}.
func (s *InvoiceService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := pipeline.Request{
		FileBase64: stringField(req, "fileBase64"),
		MimeType:   strings.TrimSpace(stringField(req, "mimeType")),
		SourceName: strings.TrimSpace(stringField(req, "sourceName")),
	}
	v := common.NewValidator().
		Field("fileBase64", in.FileBase64, common.Required).
		Field("mimeType", in.MimeType, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("invalid extract request", "error", v.ErrorMessage())
		return nil, err
	}
	if in.SourceName == "" {
		in.SourceName = "upload"
	}

	s.logger.Info("extract request", "source", in.SourceName, "mime_type", in.MimeType, "b64_len", len(in.FileBase64))
	resp, err := s.extractor.ExtractDocument(ctx, in)
	if err != nil {
		s.logger.Error("extract failed", "source", in.SourceName, "kind", common.FailureKindOf(err), "error", err)
		return nil, common.StatusFromError(err)
	}

	record, err := recordToValue(&resp.Record)
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"record":   record,
		"attempts": structpb.NewNumberValue(float64(resp.Attempts)),
	}}
	if resp.JobID != uuid.Nil {
		out.Fields["jobId"] = structpb.NewStringValue(resp.JobID.String())
	}
	if resp.Text.Method != "" {
		text, err := structpb.NewStruct(map[string]any{
			"method":     resp.Text.Method,
			"sourceType": string(resp.Text.SourceType),
			"pages":      resp.Text.Pages,
			"warnings":   stringList(resp.Text.Warnings),
		})
		if err == nil {
			out.Fields["extraction"] = structpb.NewStructValue(text)
		}
	}
	return out, nil
}

// Serialize implements InvoiceServiceServer. Request: {record}. Response: {xml}.
func (s *InvoiceService) Serialize(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, ok := req.GetFields()["record"]
	if !ok || v.GetStructValue() == nil {
		return nil, status.Error(codes.InvalidArgument, "record is required")
	}
	rec, err := recordFromStruct(v.GetStructValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "record: %v", err)
	}
	check := common.NewValidator().
		Field("currency", rec.Currency, common.CurrencyCode).
		Field("useCase", string(rec.UseCase), common.OneOf(func(s string) bool { return constants.UseCase(s).Known() }, "a known use case")).
		Field("invoiceType", string(rec.InvoiceType), common.OneOf(knownInvoiceType, "INVOICE, CREDIT_NOTE or UNKNOWN"))
	if err := common.ValidateAndReturnError(check); err != nil {
		return nil, err
	}
	xml, err := ubl.Serialize(&rec, s.now())
	if err != nil {
		return nil, common.InternalErrorf("serialize: %v", err)
	}
	s.logger.Info("serialize ok", "invoice_number", entity.StringValue(rec.InvoiceNumber), "bytes", len(xml))
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"xml": structpb.NewStringValue(string(xml)),
	}}, nil
}

// Requirements implements InvoiceServiceServer. Request: {useCase?}.
func (s *InvoiceService) Requirements(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	uc, known := constants.ParseUseCase(stringField(req, "useCase"))
	out, err := structpb.NewStruct(map[string]any{
		"useCase": string(uc),
		"label":   uc.Label(),
		"known":   known,
		"fields":  stringList(s.table.Effective(uc)),
	})
	if err != nil {
		return nil, common.InternalErrorf("encode requirements: %v", err)
	}
	return out, nil
}

// GetJob implements InvoiceServiceServer. Request: {id}.
func (s *InvoiceService) GetJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.jobs == nil {
		return nil, status.Error(codes.Unimplemented, "job history is disabled")
	}
	id, err := uuid.Parse(strings.TrimSpace(stringField(req, "id")))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "id must be a UUID")
	}
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error("get job failed", "job_id", id, "error", err)
		}
		return nil, common.StatusFromError(err)
	}
	m, err := jobToMap(job)
	if err != nil {
		return nil, common.InternalErrorf("encode job: %v", err)
	}
	return structpb.NewStruct(m)
}

// ListJobs implements InvoiceServiceServer. Request: {limit?}.
func (s *InvoiceService) ListJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.jobs == nil {
		return nil, status.Error(codes.Unimplemented, "job history is disabled")
	}
	limit := int(req.GetFields()["limit"].GetNumberValue())
	jobs, err := s.jobs.List(ctx, limit)
	if err != nil {
		s.logger.Error("list jobs failed", "error", err)
		return nil, common.StatusFromError(err)
	}
	items := make([]any, 0, len(jobs))
	for _, j := range jobs {
		m, err := jobToMap(j)
		if err != nil {
			return nil, common.InternalErrorf("encode job: %v", err)
		}
		items = append(items, m)
	}
	return structpb.NewStruct(map[string]any{"jobs": items})
}

func knownInvoiceType(s string) bool {
	switch entity.InvoiceType(s) {
	case entity.InvoiceTypeInvoice, entity.InvoiceTypeCreditNote, entity.InvoiceTypeUnknown:
		return true
	}
	return false
}
