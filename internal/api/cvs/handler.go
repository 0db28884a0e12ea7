package cvs

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"recruit-cv/config"
	"recruit-cv/internal/core/cv"
	"recruit-cv/pkg/apperror"
	"recruit-cv/pkg/apperror/status"
	"recruit-cv/pkg/uploader"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"
)

// Handler serves the CV workflow endpoints.
type Handler struct {
	svc *cv.Service
}

func NewHandler(svc *cv.Service) *Handler {
	return &Handler{svc: svc}
}

// saveResponse is the upload contract: the client pipeline decodes this flat
// payload, so it is not wrapped in the standard success envelope.
type saveResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Key      string `json:"key"`
}

// HandleSave accepts a multipart CV upload. The acceptance checks mirror the
// client pipeline exactly, so a well-behaved client never hits them; they are
// the backstop for everyone else.
func (h *Handler) HandleSave(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest(config.ModuleUpload, c, status.MissingParams, "file is required")
	}

	info := uploader.FileInfo{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}
	if code := uploader.Validate(info, serverConstraints()); code != nil {
		httpStatus, wireCode := rejectionFor(*code)
		return apperror.WriteError(config.ModuleUpload, c, httpStatus, wireCode, uploader.Describe(*code).Message)
	}

	file, err := fh.Open()
	if err != nil {
		return apperror.WriteError(config.ModuleUpload, c, fiber.StatusUnprocessableEntity,
			status.FileCorrupted, "cannot open uploaded file")
	}
	defer file.Close()

	// The declared type already passed; now sniff the actual bytes so a
	// renamed executable does not slip through.
	head := make([]byte, 3072)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return apperror.WriteError(config.ModuleUpload, c, fiber.StatusUnprocessableEntity,
			status.FileCorrupted, "cannot read uploaded file")
	}
	if !contentAccepted(head[:n]) {
		return apperror.WriteError(config.ModuleUpload, c, fiber.StatusUnsupportedMediaType,
			status.InvalidFileType, "file content does not match an accepted CV format")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}

	record, err := h.svc.Save(c.Context(), fh.Filename, info.ContentType, fh.Size, file)
	if err != nil {
		return apperror.InternalError(config.ModuleUpload, c, err)
	}

	return c.Status(fiber.StatusOK).JSON(saveResponse{
		ID:       record.Key,
		Filename: record.Filename,
		Key:      record.Key,
	})
}

type extractRequest struct {
	FileID string `json:"fileId"`
}

// HandleExtract runs text extraction over a previously saved CV and returns
// the derived candidate fields for review.
func (h *Handler) HandleExtract(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	var req extractRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperror.BadRequest(config.ModuleCV, c, status.InvalidRequestBody, err.Error())
	}
	req.FileID = strings.TrimSpace(req.FileID)
	if req.FileID == "" {
		return apperror.BadRequest(config.ModuleCV, c, status.MissingParams, "fileId is required")
	}

	candidate, err := h.svc.Extract(c.Context(), req.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(config.ModuleCV, c, "cv not found")
		}
		return apperror.WriteError(config.ModuleCV, c, fiber.StatusUnprocessableEntity,
			status.FileCorrupted, "cv could not be parsed")
	}

	return apperror.Success(config.ModuleCV, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cv extracted",
		TrackingID: trackingID,
		Data:       candidate,
	})
}

// HandleGet returns stored CV metadata by key.
func (h *Handler) HandleGet(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	key := c.Params("key")
	record, err := h.svc.Get(c.Context(), key)
	if err != nil {
		return apperror.NotFound(config.ModuleCV, c, "cv not found")
	}

	return apperror.Success(config.ModuleCV, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cv found",
		TrackingID: trackingID,
		Data:       record,
	})
}

// serverConstraints builds the acceptance policy from configuration. It is
// the same table the client pipeline defaults to.
func serverConstraints() uploader.Constraints {
	u := config.Cfg.Upload
	return uploader.Constraints{
		MaxSize:           u.MaxFileBytes,
		AllowedTypes:      u.AllowedTypes,
		AllowedExtensions: u.AllowedExtensions,
		Timeout:           u.Timeout(),
	}
}

// rejectionFor maps a validation code to its HTTP status and wire code.
func rejectionFor(code uploader.ErrorCode) (int, status.Code) {
	switch code {
	case uploader.CodeFileSizeExceeded:
		return fiber.StatusRequestEntityTooLarge, status.FileSizeExceeded
	case uploader.CodeFileCorrupted:
		return fiber.StatusUnprocessableEntity, status.FileCorrupted
	default:
		return fiber.StatusUnsupportedMediaType, status.InvalidFileType
	}
}

// contentAccepted sniffs the leading bytes and accepts PDF and Word formats.
// A short sniff of a Word file often only reveals its container (doc is an
// ole-storage subtype, docx a zip subtype), so a detected type also passes
// when it is an ancestor of an allowed type. The walk stops before
// octet-stream: every type descends from it, and matching it would accept
// arbitrary binaries.
func contentAccepted(head []byte) bool {
	detected := mimetype.Detect(head)
	for _, allowed := range config.Cfg.Upload.AllowedTypes {
		if detected.Is(allowed) {
			return true
		}
		for node := mimetype.Lookup(allowed); node != nil && !node.Is("application/octet-stream"); node = node.Parent() {
			if detected.Is(node.String()) {
				return true
			}
		}
	}
	return false
}
