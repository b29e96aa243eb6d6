package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExtractionJob is one recorded extraction run, for data transfer between layers.
type ExtractionJob struct {
	ID           uuid.UUID       `json:"id"`
	SourceName   string          `json:"source_name"`
	MimeType     string          `json:"mime_type"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	FailureKind  string          `json:"failure_kind,omitempty"`
	LastFailure  string          `json:"last_failure,omitempty"`
	UseCase      string          `json:"use_case,omitempty"`
	RecordJSON   json.RawMessage `json:"record_json,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

// Record decodes the stored record, if any.
func (j *ExtractionJob) Record() (*InvoiceRecord, error) {
	if len(j.RecordJSON) == 0 {
		return nil, nil
	}
	var rec InvoiceRecord
	if err := json.Unmarshal(j.RecordJSON, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// JobFailure is what gets recorded for a failed run.
type JobFailure struct {
	Attempts int
	Kind     string
	Last     string
	Message  string
}
