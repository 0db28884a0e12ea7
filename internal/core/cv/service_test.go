package cv

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"recruit-cv/internal/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRecords is an in-memory Records implementation for tests.
type memoryRecords struct {
	mu  sync.Mutex
	cvs map[string]*model.CV
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{cvs: map[string]*model.CV{}}
}

func (m *memoryRecords) CreateCV(ctx context.Context, cv *model.CV) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv.ID = int64(len(m.cvs) + 1)
	m.cvs[cv.Key] = cv
	return nil
}

func (m *memoryRecords) GetCVByKey(ctx context.Context, key string) (*model.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[key]
	if !ok {
		return nil, fmt.Errorf("cv %s not found", key)
	}
	out := *cv
	return &out, nil
}

func (m *memoryRecords) SetCVStatus(ctx context.Context, key, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[key]
	if !ok {
		return fmt.Errorf("cv %s not found", key)
	}
	cv.Status = status
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRecords) {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	records := newMemoryRecords()
	return NewService(store, records), records
}

func TestServiceSave(t *testing.T) {
	svc, records := newTestService(t)

	content := "%PDF-1.4 fake cv content"
	cv, err := svc.Save(context.Background(), "resume.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	assert.NotEmpty(t, cv.Key)
	assert.Equal(t, "resume.pdf", cv.Filename)
	assert.Equal(t, "application/pdf", cv.ContentType)
	assert.Equal(t, int64(len(content)), cv.Size)
	assert.Len(t, cv.SHA256, 64)
	assert.Equal(t, "uploaded", cv.Status)
	require.NotNil(t, cv.UploadedAt)

	stored, err := records.GetCVByKey(context.Background(), cv.Key)
	require.NoError(t, err)
	assert.Equal(t, cv.SHA256, stored.SHA256)
}

func TestServiceSaveRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	content := "%PDF-1.4 round trip"
	cv, err := svc.Save(context.Background(), "resume.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	// The stored object is readable under the derived object key.
	body, err := svc.store.Get(context.Background(), objectKeyFor(cv))
	require.NoError(t, err)
	defer body.Close()
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestServiceGetUnknownKey(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "nope")
	assert.Error(t, err)
}

func TestServiceExtractMarksFailureOnBadPDF(t *testing.T) {
	svc, records := newTestService(t)

	content := "not a pdf at all"
	cv, err := svc.Save(context.Background(), "resume.pdf", "application/pdf", int64(len(content)), strings.NewReader(content))
	require.NoError(t, err)

	_, err = svc.Extract(context.Background(), cv.Key)
	require.Error(t, err)

	stored, err := records.GetCVByKey(context.Background(), cv.Key)
	require.NoError(t, err)
	assert.Equal(t, "failed", stored.Status)
}

func TestLocalStoreMissingObject(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "missing.pdf")
	assert.Error(t, err)
}
