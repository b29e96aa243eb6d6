package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/einvoice/internal/common"
	"github.com/joseph-ayodele/einvoice/internal/entity"
	"github.com/joseph-ayodele/einvoice/internal/extract"
)

type memJobs struct {
	mu       sync.Mutex
	started  []string
	success  map[uuid.UUID]*entity.InvoiceRecord
	failures map[uuid.UUID]entity.JobFailure
}

func newMemJobs() *memJobs {
	return &memJobs{success: map[uuid.UUID]*entity.InvoiceRecord{}, failures: map[uuid.UUID]entity.JobFailure{}}
}

func (m *memJobs) Start(_ context.Context, source, _ string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, source)
	return uuid.New(), nil
}

func (m *memJobs) FinishSuccess(_ context.Context, id uuid.UUID, _ int, rec *entity.InvoiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.success[id] = rec
	return nil
}

func (m *memJobs) FinishFailure(_ context.Context, id uuid.UUID, f entity.JobFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[id] = f
	return nil
}

func newTestService(m *scriptedModel, jobs JobStore) *Service {
	adapter := extract.NewAdapter(nil, 0, quietLogger())
	return NewService(quietLogger(), adapter, newTestController(m, nil, nil), jobs)
}

func TestExtractDocumentRecordsSuccess(t *testing.T) {
	jobs := newMemJobs()
	m := &scriptedModel{replies: []reply{{text: completeStandard}}}
	svc := newTestService(m, jobs)

	resp, err := svc.ExtractDocument(context.Background(), Request{
		FileBase64: base64.StdEncoding.EncodeToString([]byte("FACTURE F-2024-001")),
		MimeType:   "text/plain",
		SourceName: "f.txt",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.JobID)
	assert.Equal(t, 1, resp.Attempts)
	assert.Contains(t, m.prompts[0], "FACTURE F-2024-001")
	assert.Equal(t, []string{"f.txt"}, jobs.started)
	require.Contains(t, jobs.success, resp.JobID)
	assert.Equal(t, "ACME SAS", *jobs.success[resp.JobID].SupplierName)
}

func TestExtractDocumentUnsupportedInputSkipsModel(t *testing.T) {
	jobs := newMemJobs()
	m := &scriptedModel{}
	svc := newTestService(m, jobs)

	resp, err := svc.ExtractDocument(context.Background(), Request{
		FileBase64: base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}),
		MimeType:   "image/png",
	})
	require.Error(t, err)
	assert.Equal(t, common.FailureUnsupportedInput, common.FailureKindOf(err))
	assert.Empty(t, m.prompts)
	assert.Equal(t, string(common.FailureUnsupportedInput), jobs.failures[resp.JobID].Kind)
}

func TestExtractDocumentRecordsExhaustion(t *testing.T) {
	jobs := newMemJobs()
	boom := errors.New("down")
	m := &scriptedModel{replies: []reply{{err: boom}, {err: boom}, {err: boom}}}
	svc := newTestService(m, jobs)

	resp, err := svc.ExtractDocument(context.Background(), Request{
		FileBase64: base64.StdEncoding.EncodeToString([]byte("text")),
	})
	require.Error(t, err)
	f := jobs.failures[resp.JobID]
	assert.Equal(t, 3, f.Attempts)
	assert.Equal(t, string(common.FailureRetryExhausted), f.Kind)
	assert.Equal(t, string(common.FailureTransport), f.Last)
}

func TestExtractDocumentWithoutJobStore(t *testing.T) {
	m := &scriptedModel{replies: []reply{{text: completeStandard}}}
	svc := newTestService(m, nil)

	resp, err := svc.ExtractDocument(context.Background(), Request{
		FileBase64: base64.StdEncoding.EncodeToString([]byte("text")),
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, resp.JobID)
}
