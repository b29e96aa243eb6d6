package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
)

const jobsTable = "extraction_jobs"

var jobColumns = []string{
	"id", "source_name", "mime_type", "status", "attempts", "failure_kind", "last_failure",
	"use_case", "record_json", "error_message", "started_at", "finished_at",
}

// ExtractionJobRepository records one row per extraction run.
type ExtractionJobRepository interface {
	Start(ctx context.Context, sourceName, mimeType string) (uuid.UUID, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, attempts int, rec *entity.InvoiceRecord) error
	FinishFailure(ctx context.Context, id uuid.UUID, f entity.JobFailure) error
	Get(ctx context.Context, id uuid.UUID) (*entity.ExtractionJob, error)
	List(ctx context.Context, limit int) ([]*entity.ExtractionJob, error)
}

type extractionJobRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewExtractionJobRepository(db *DB, log *slog.Logger) ExtractionJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &extractionJobRepo{db: db, log: log, now: time.Now}
}

func (r *extractionJobRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect)
}

func (r *extractionJobRepo) Start(ctx context.Context, sourceName, mimeType string) (uuid.UUID, error) {
	id := uuid.New()
	query, args := r.builder().Insert(jobsTable).
		Columns("id", "source_name", "mime_type", "status", "started_at").
		Values(id.String(), sourceName, mimeType, string(constants.JobStatusRunning), r.now().UnixMilli()).
		Query()
	if _, err := r.db.SQL.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("extraction_job start failed", "source", sourceName, "err", err)
		return uuid.Nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.log.Info("extraction_job started", "job_id", id, "source", sourceName, "mime_type", mimeType)
	return id, nil
}

func (r *extractionJobRepo) FinishSuccess(ctx context.Context, id uuid.UUID, attempts int, rec *entity.InvoiceRecord) error {
	var recordJSON any
	useCase := ""
	if rec != nil {
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		recordJSON = string(b)
		useCase = string(rec.UseCase)
	}
	query, args := r.builder().Update(jobsTable).
		Set("status", string(constants.JobStatusSucceeded)).
		Set("attempts", attempts).
		Set("use_case", useCase).
		Set("record_json", recordJSON).
		Set("finished_at", r.now().UnixMilli()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.execOne(ctx, id, query, args); err != nil {
		r.log.Error("extraction_job finish(SUCCEEDED) failed", "job_id", id, "err", err)
		return err
	}
	r.log.Info("extraction_job finished (SUCCEEDED)", "job_id", id, "attempts", attempts, "use_case", useCase)
	return nil
}

func (r *extractionJobRepo) FinishFailure(ctx context.Context, id uuid.UUID, f entity.JobFailure) error {
	query, args := r.builder().Update(jobsTable).
		Set("status", string(constants.JobStatusFailed)).
		Set("attempts", f.Attempts).
		Set("failure_kind", f.Kind).
		Set("last_failure", f.Last).
		Set("error_message", f.Message).
		Set("finished_at", r.now().UnixMilli()).
		Where(entsql.EQ("id", id.String())).
		Query()
	if err := r.execOne(ctx, id, query, args); err != nil {
		r.log.Error("extraction_job finish(FAILED) failed", "job_id", id, "err", err)
		return err
	}
	r.log.Warn("extraction_job finished (FAILED)", "job_id", id, "kind", f.Kind, "error", f.Message)
	return nil
}

func (r *extractionJobRepo) execOne(ctx context.Context, id uuid.UUID, query string, args []any) error {
	res, err := r.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("extraction job %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *extractionJobRepo) Get(ctx context.Context, id uuid.UUID) (*entity.ExtractionJob, error) {
	b := r.builder()
	query, args := b.Select(jobColumns...).
		From(b.Table(jobsTable)).
		Where(entsql.EQ("id", id.String())).
		Query()
	row := r.db.SQL.QueryRowContext(ctx, query, args...)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("extraction job %s: %w", id, common.ErrNotFound)
	}
	return job, err
}

func (r *extractionJobRepo) List(ctx context.Context, limit int) ([]*entity.ExtractionJob, error) {
	if limit <= 0 {
		limit = 50
	}
	b := r.builder()
	query, args := b.Select(jobColumns...).
		From(b.Table(jobsTable)).
		OrderBy(entsql.Desc("started_at")).
		Limit(limit).
		Query()
	rows, err := r.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.ExtractionJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*entity.ExtractionJob, error) {
	var (
		id         string
		recordJSON sql.NullString
		startedAt  int64
		finishedAt sql.NullInt64
		job        entity.ExtractionJob
	)
	err := s.Scan(&id, &job.SourceName, &job.MimeType, &job.Status, &job.Attempts, &job.FailureKind,
		&job.LastFailure, &job.UseCase, &recordJSON, &job.ErrorMessage, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}
	if job.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse job id %q: %w", id, err)
	}
	if recordJSON.Valid {
		job.RecordJSON = json.RawMessage(recordJSON.String)
	}
	job.StartedAt = time.UnixMilli(startedAt).UTC()
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		job.FinishedAt = &t
	}
	return &job, nil
}
