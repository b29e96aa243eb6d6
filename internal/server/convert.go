package server

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/einvoice/internal/entity"
)

func recordToValue(rec *entity.InvoiceRecord) (*structpb.Value, error) {
	m, err := rec.AsMap()
	if err != nil {
		return nil, err
	}
	return structpb.NewValue(m)
}

func recordFromStruct(s *structpb.Struct) (entity.InvoiceRecord, error) {
	if s == nil {
		return entity.InvoiceRecord{}, fmt.Errorf("record is required")
	}
	return entity.RecordFromMap(s.AsMap())
}

func stringList(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func jobToMap(j *entity.ExtractionJob) (map[string]any, error) {
	m := map[string]any{
		"id":           j.ID.String(),
		"sourceName":   j.SourceName,
		"mimeType":     j.MimeType,
		"status":       j.Status,
		"attempts":     j.Attempts,
		"failureKind":  j.FailureKind,
		"lastFailure":  j.LastFailure,
		"useCase":      j.UseCase,
		"errorMessage": j.ErrorMessage,
		"startedAt":    j.StartedAt.Format(time.RFC3339Nano),
	}
	if j.FinishedAt != nil {
		m["finishedAt"] = j.FinishedAt.Format(time.RFC3339Nano)
	}
	rec, err := j.Record()
	if err != nil {
		return nil, err
	}
	if rec != nil {
		rm, err := rec.AsMap()
		if err != nil {
			return nil, err
		}
		m["record"] = rm
	}
	return m, nil
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}
