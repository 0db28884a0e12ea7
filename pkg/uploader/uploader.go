// Package uploader implements the client-side CV upload pipeline: local
// validation against a static constraint table, a single bounded network
// attempt, and mapping of every possible failure to a stable error code with
// ready-to-display copy. One Uploader drives one upload surface; callers
// observe it through Snapshot and drive it with Submit, Retry, ClearError
// and Reset.
package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// Status is the lifecycle phase of the upload surface.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

var (
	// ErrUploadInFlight is returned when Submit or Retry is called while an
	// attempt is still running. The running attempt is not disturbed.
	ErrUploadInFlight = errors.New("uploader: upload already in flight")
	// ErrNothingToRetry is returned by Retry when no attempted file is
	// recorded.
	ErrNothingToRetry = errors.New("uploader: no attempted file to retry")
)

// Snapshot is a point-in-time view of the uploader. Error is non-nil exactly
// when Status is error; CurrentFile is non-nil exactly when Status is
// uploading, success or error.
type Snapshot struct {
	Status      Status
	CurrentFile *FileInfo
	Error       *UserFacingError
	Result      *Result
}

// Uploader owns the validate → send → settle state machine for one upload
// surface. All dependencies are injected at construction; there is no shared
// module-level state, so independent consumers each build their own instance.
type Uploader struct {
	endpoint    string
	constraints Constraints
	client      *http.Client
	log         *logrus.Logger
	onComplete  func(Result)

	mu          sync.Mutex
	status      Status
	current     *FileInfo
	userErr     *UserFacingError
	result      *Result
	lastFile    *FileInfo
	lastContent []byte
	attempt     uint64
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithHTTPClient replaces the transport used for upload attempts.
func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.client = c }
}

// WithConstraints replaces the default upload policy.
func WithConstraints(c Constraints) Option {
	return func(u *Uploader) { u.constraints = c }
}

// WithLogger sets the logger used for attempt-level diagnostics.
func WithLogger(l *logrus.Logger) Option {
	return func(u *Uploader) { u.log = l }
}

// WithCompletion registers a callback invoked once per successful attempt
// with the decoded server result. It runs outside the uploader's lock.
func WithCompletion(fn func(Result)) Option {
	return func(u *Uploader) { u.onComplete = fn }
}

// New builds an idle Uploader that posts to endpoint.
func New(endpoint string, opts ...Option) *Uploader {
	u := &Uploader{
		endpoint:    endpoint,
		constraints: DefaultConstraints(),
		client:      &http.Client{},
		log:         logrus.StandardLogger(),
		status:      StatusIdle,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submit validates the file and, if it passes, performs exactly one network
// attempt bounded by the constraint timeout. The outcome lands in the
// snapshot: success with a result, or error with a UserFacingError. A
// validation failure settles locally without touching the network.
//
// Submit returns ErrUploadInFlight when an attempt is already running; any
// other outcome, including failure, is reported through the snapshot and a
// nil return.
func (u *Uploader) Submit(ctx context.Context, f FileInfo, r io.Reader) error {
	u.mu.Lock()
	if u.status == StatusUploading {
		u.mu.Unlock()
		return ErrUploadInFlight
	}

	if code := Validate(f, u.constraints); code != nil {
		// The file never becomes "last attempted": retrying the same
		// invalid file can only fail the same way.
		u.settleErrorLocked(f, *code)
		u.mu.Unlock()
		u.log.WithFields(logrus.Fields{
			"file": f.Name,
			"code": *code,
		}).Warn("cv upload rejected by local validation")
		return nil
	}

	content, err := io.ReadAll(r)
	if err != nil {
		u.settleErrorLocked(f, CodeFileCorrupted)
		u.mu.Unlock()
		return nil
	}

	u.lastFile = &f
	u.lastContent = content
	attempt := u.beginAttemptLocked(f)
	u.mu.Unlock()

	u.performAttempt(ctx, f, content, attempt)
	return nil
}

// Retry re-submits the last attempted file. It is a no-op (ErrNothingToRetry)
// when nothing was attempted, and rejects while an attempt is in flight.
func (u *Uploader) Retry(ctx context.Context) error {
	u.mu.Lock()
	if u.status == StatusUploading {
		u.mu.Unlock()
		return ErrUploadInFlight
	}
	if u.lastFile == nil {
		u.mu.Unlock()
		return ErrNothingToRetry
	}
	f := *u.lastFile
	content := u.lastContent
	attempt := u.beginAttemptLocked(f)
	u.mu.Unlock()

	u.performAttempt(ctx, f, content, attempt)
	return nil
}

// beginAttemptLocked reserves the single in-flight slot: the caller must hold
// the lock and have confirmed the status is not uploading.
func (u *Uploader) beginAttemptLocked(f FileInfo) uint64 {
	u.status = StatusUploading
	u.current = &f
	u.userErr = nil
	u.result = nil
	u.attempt++
	return u.attempt
}

// performAttempt runs one network attempt and applies the settled transition.
// A Reset issued while the attempt is in flight bumps the attempt counter, so
// a late settlement is discarded instead of producing a second transition.
func (u *Uploader) performAttempt(ctx context.Context, f FileInfo, content []byte, attempt uint64) {
	reqCtx, cancel := context.WithTimeout(ctx, u.constraints.Timeout)
	defer cancel()

	result, err := u.send(reqCtx, f, content)

	u.mu.Lock()
	if u.attempt != attempt || u.status != StatusUploading {
		u.mu.Unlock()
		return
	}
	if err != nil {
		code := MapFailure(err)
		u.settleErrorLocked(f, code)
		u.mu.Unlock()
		u.log.WithFields(logrus.Fields{
			"file":  f.Name,
			"code":  code,
			"error": err.Error(),
		}).Warn("cv upload failed")
		return
	}

	u.status = StatusSuccess
	u.result = result
	u.userErr = nil
	u.lastFile = nil
	u.lastContent = nil
	onComplete := u.onComplete
	u.mu.Unlock()

	u.log.WithFields(logrus.Fields{
		"file": f.Name,
		"id":   result.ID,
	}).Info("cv upload complete")

	if onComplete != nil {
		onComplete(*result)
	}
}

func (u *Uploader) settleErrorLocked(f FileInfo, code ErrorCode) {
	e := Describe(code)
	u.status = StatusError
	u.current = &f
	u.userErr = &e
	u.result = nil
}

// ClearError returns an errored uploader to idle. The displayed file and
// error are dropped; the last attempted file is kept so Retry still works.
// In any other state ClearError does nothing.
func (u *Uploader) ClearError() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.status != StatusError {
		return
	}
	u.status = StatusIdle
	u.current = nil
	u.userErr = nil
}

// Reset unconditionally returns the uploader to idle, dropping the current
// file, any error or result, and the retry file. An attempt in flight is
// orphaned: its settlement is discarded.
func (u *Uploader) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = StatusIdle
	u.current = nil
	u.userErr = nil
	u.result = nil
	u.lastFile = nil
	u.lastContent = nil
	u.attempt++
}

// Snapshot returns a copy of the observable state.
func (u *Uploader) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	s := Snapshot{Status: u.status}
	if u.current != nil {
		f := *u.current
		s.CurrentFile = &f
	}
	if u.userErr != nil {
		e := *u.userErr
		s.Error = &e
	}
	if u.result != nil {
		r := *u.result
		s.Result = &r
	}
	return s
}
