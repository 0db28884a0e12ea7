package cvs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"recruit-cv/internal/core/cv"
	"recruit-cv/internal/database/model"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memRecords is an in-memory stand-in for the gorm-backed record store.
type memRecords struct {
	mu      sync.Mutex
	cvs     map[string]*model.CV
	lastCtx context.Context
}

func newMemRecords() *memRecords {
	return &memRecords{cvs: make(map[string]*model.CV)}
}

func (m *memRecords) CreateCV(ctx context.Context, rec *model.CV) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCtx = ctx
	cp := *rec
	m.cvs[rec.Key] = &cp
	return nil
}

func (m *memRecords) GetCVByKey(ctx context.Context, key string) (*model.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.cvs[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memRecords) SetCVStatus(ctx context.Context, key, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.cvs[key]; ok {
		rec.Status = status
	}
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *memRecords) {
	t.Helper()

	store, err := cv.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	records := newMemRecords()
	app := fiber.New(fiber.Config{BodyLimit: 12 << 20})
	RegisterRoutes(app, NewHandler(cv.NewService(store, records)))
	return app, records
}

// newUploadRequest builds a multipart body with a single "file" part carrying
// an explicit Content-Type, the way browsers send it.
func newUploadRequest(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nhello\n%%EOF\n")

func TestHandleSaveAcceptsPDF(t *testing.T) {
	app, records := newTestApp(t)

	body, ctype := newUploadRequest(t, "resume.pdf", "application/pdf", pdfBytes)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "resume.pdf", payload["filename"])
	assert.NotEmpty(t, payload["id"])
	assert.Equal(t, payload["id"], payload["key"])

	rec, err := records.GetCVByKey(context.Background(), payload["key"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(len(pdfBytes)), rec.Size)
}

func TestHandleSavePropagatesRequestContext(t *testing.T) {
	app, records := newTestApp(t)

	body, ctype := newUploadRequest(t, "resume.pdf", "application/pdf", pdfBytes)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	records.mu.Lock()
	defer records.mu.Unlock()
	require.NotNil(t, records.lastCtx)
	assert.NotEqual(t, context.Background(), records.lastCtx)
}

func TestHandleSaveRejectsWrongType(t *testing.T) {
	app, _ := newTestApp(t)

	body, ctype := newUploadRequest(t, "notes.txt", "text/plain", []byte("plain text"))
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "INVALID_FILE_TYPE", payload["code"])
}

func TestHandleSaveRejectsEmptyFile(t *testing.T) {
	app, _ := newTestApp(t)

	body, ctype := newUploadRequest(t, "empty.pdf", "application/pdf", nil)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "FILE_CORRUPTED", payload["code"])
}

func TestHandleSaveRejectsOversize(t *testing.T) {
	app, _ := newTestApp(t)

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 10<<20)...)
	body, ctype := newUploadRequest(t, "huge.pdf", "application/pdf", big)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "FILE_SIZE_EXCEEDED", payload["code"])
}

func TestHandleSaveAcceptsWordContainers(t *testing.T) {
	app, _ := newTestApp(t)

	// A sniff window this small only reveals the container format, not the
	// Word fingerprint inside it.
	oleDoc := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 3072)...)
	zipDocx := append([]byte("PK\x03\x04"), make([]byte, 3072)...)

	cases := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
	}{
		{"legacy doc", "resume.doc", "application/msword", oleDoc},
		{"docx", "resume.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", zipDocx},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ctype := newUploadRequest(t, tc.filename, tc.contentType, tc.data)
			req := httptest.NewRequest("POST", "/cvs/save", body)
			req.Header.Set("Content-Type", ctype)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		})
	}
}

func TestHandleSaveRejectsUnrecognizedBinary(t *testing.T) {
	app, _ := newTestApp(t)

	// Zero bytes sniff as octet-stream, the root of every container chain;
	// it must not pass just because accepted types descend from it.
	body, ctype := newUploadRequest(t, "resume.pdf", "application/pdf", make([]byte, 3072))
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "INVALID_FILE_TYPE", payload["code"])
}

func TestHandleSaveRejectsMismatchedContent(t *testing.T) {
	app, _ := newTestApp(t)

	// Declared as PDF but the bytes are an executable header.
	body, ctype := newUploadRequest(t, "resume.pdf", "application/pdf", []byte("MZ\x90\x00\x03\x00\x00\x00"))
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "INVALID_FILE_TYPE", payload["code"])
}

func TestHandleSaveMissingFile(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/cvs/save", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "MISSING_PARAMS", payload["code"])
}

func TestHandleExtractUnknownKey(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/cvs/extract", strings.NewReader(`{"fileId":"missing"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleExtractUnparsableCV(t *testing.T) {
	app, records := newTestApp(t)

	// Save a file that passes the sniff but is not a parsable PDF.
	body, ctype := newUploadRequest(t, "broken.pdf", "application/pdf", pdfBytes)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	saved := decodeBody(t, resp.Body)

	req = httptest.NewRequest("POST", "/cvs/extract", strings.NewReader(`{"fileId":"`+saved["key"].(string)+`"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	assert.Equal(t, "FILE_CORRUPTED", payload["code"])

	rec, err := records.GetCVByKey(context.Background(), saved["key"].(string))
	require.NoError(t, err)
	assert.Equal(t, "failed", rec.Status)
}

func TestHandleExtractMissingFileID(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/cvs/extract", strings.NewReader(`{"fileId":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGet(t *testing.T) {
	app, _ := newTestApp(t)

	body, ctype := newUploadRequest(t, "resume.pdf", "application/pdf", pdfBytes)
	req := httptest.NewRequest("POST", "/cvs/save", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	saved := decodeBody(t, resp.Body)

	req = httptest.NewRequest("GET", "/cvs/"+saved["key"].(string), nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp.Body)
	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "resume.pdf", data["filename"])
}

func TestHandleGetUnknownKey(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/cvs/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
