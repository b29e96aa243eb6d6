package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: "sqlite://" + filepath.Join(t.TempDir(), "jobs.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, db.Migrate(ctx))
	return db
}

func strp(s string) *string { return &s }

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://localhost/db"))
	assert.False(t, IsPostgresDSN("sqlite://jobs.db"))
	assert.False(t, IsPostgresDSN("jobs.db"))
}

func TestExtractionJob_SuccessLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewExtractionJobRepository(db, nil)

	id, err := repo.Start(ctx, "facture.pdf", "application/pdf")
	require.NoError(t, err)

	job, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusRunning), job.Status)
	assert.Nil(t, job.FinishedAt)
	assert.Equal(t, "facture.pdf", job.SourceName)

	rec := &entity.InvoiceRecord{
		UseCase:       constants.UseCaseStandard,
		InvoiceNumber: strp("F-001"),
		Currency:      "EUR",
	}
	require.NoError(t, repo.FinishSuccess(ctx, id, 2, rec))

	job, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusSucceeded), job.Status)
	assert.Equal(t, 2, job.Attempts)
	assert.Equal(t, string(constants.UseCaseStandard), job.UseCase)
	require.NotNil(t, job.FinishedAt)

	got, err := job.Record()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "F-001", entity.StringValue(got.InvoiceNumber))
}

func TestExtractionJob_FailureLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewExtractionJobRepository(db, nil)

	id, err := repo.Start(ctx, "scan.png", "image/png")
	require.NoError(t, err)
	require.NoError(t, repo.FinishFailure(ctx, id, entity.JobFailure{
		Attempts: 3,
		Kind:     string(common.FailureRetryExhausted),
		Last:     string(common.FailurePolicyIncomplete),
		Message:  "missing totalNet",
	}))

	job, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(constants.JobStatusFailed), job.Status)
	assert.Equal(t, 3, job.Attempts)
	assert.Equal(t, string(common.FailureRetryExhausted), job.FailureKind)
	assert.Equal(t, string(common.FailurePolicyIncomplete), job.LastFailure)
	assert.Equal(t, "missing totalNet", job.ErrorMessage)

	rec, err := job.Record()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestExtractionJob_UnknownID(t *testing.T) {
	ctx := context.Background()
	repo := NewExtractionJobRepository(openTestDB(t), nil)

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = repo.FinishSuccess(ctx, uuid.New(), 1, nil)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExtractionJob_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewExtractionJobRepository(db, nil).(*extractionJobRepo)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		id, err := repo.Start(ctx, "doc.txt", "text/plain")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	jobs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, ids[2], jobs[0].ID)
	assert.Equal(t, ids[1], jobs[1].ID)
	assert.True(t, base.Add(2*time.Minute).Equal(jobs[0].StartedAt))
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background(), time.Second, nil))
}
