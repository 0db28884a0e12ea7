// Package cv implements CV persistence and data extraction: streaming a
// validated upload into the object store, recording it, and pulling
// candidate fields out of the document text.
package cv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"recruit-cv/internal/database/model"
	"recruit-cv/pkg/logger"

	"github.com/google/uuid"
)

// Store is the object storage a Service writes CV bytes to. Satisfied by the
// S3 client and by the local-disk store.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Records persists CV metadata. The production implementation is gorm-backed;
// tests use an in-memory one.
type Records interface {
	CreateCV(ctx context.Context, cv *model.CV) error
	GetCVByKey(ctx context.Context, key string) (*model.CV, error)
	SetCVStatus(ctx context.Context, key, status string) error
}

// Service ties the object store and the record store together. Construct one
// per process and inject it into the handlers.
type Service struct {
	store   Store
	records Records
}

func NewService(store Store, records Records) *Service {
	return &Service{store: store, records: records}
}

// Save streams an already-validated upload into the object store while
// hashing it, then records the CV. The returned record carries the key the
// client uses for extract and download calls.
func (s *Service) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*model.CV, error) {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	objectKey := key + extensionOf(filename)

	hasher := sha256.New()
	tee := io.TeeReader(r, hasher)

	storedPath, err := s.store.Put(ctx, objectKey, contentType, tee)
	if err != nil {
		return nil, fmt.Errorf("store cv: %w", err)
	}

	now := time.Now()
	cv := &model.CV{
		Key:         key,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
		StoredPath:  storedPath,
		Status:      "uploaded",
		UploadedAt:  &now,
	}
	if err := s.records.CreateCV(ctx, cv); err != nil {
		return nil, fmt.Errorf("record cv: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"key":      cv.Key,
		"filename": cv.Filename,
		"size":     cv.Size,
	}).Info("cv saved")
	return cv, nil
}

// Get returns the CV record for a key.
func (s *Service) Get(ctx context.Context, key string) (*model.CV, error) {
	return s.records.GetCVByKey(ctx, key)
}

// Extract loads the stored CV, pulls its text out and derives candidate
// fields. Only PDF content is parsed; other formats yield an error the
// handler reports as unprocessable.
func (s *Service) Extract(ctx context.Context, key string) (*Candidate, error) {
	cv, err := s.records.GetCVByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	body, err := s.store.Get(ctx, objectKeyFor(cv))
	if err != nil {
		return nil, fmt.Errorf("open cv %s: %w", key, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read cv %s: %w", key, err)
	}

	text, err := ExtractText(data)
	if err != nil {
		_ = s.records.SetCVStatus(ctx, key, "failed")
		return nil, fmt.Errorf("extract text: %w", err)
	}

	candidate := ExtractCandidate(text)
	if err := s.records.SetCVStatus(ctx, key, "extracted"); err != nil {
		logger.Error(err, "cv: update status failed for %s", key)
	}
	return &candidate, nil
}

func objectKeyFor(cv *model.CV) string {
	return cv.Key + extensionOf(cv.Filename)
}

func extensionOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ".pdf"
}
