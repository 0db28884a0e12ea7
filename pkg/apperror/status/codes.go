package status

// Code is a stable string identifier for an API outcome. Codes are part of
// the wire contract: clients switch on them, so existing values never change.
type Code string

// General request errors.
const (
	InvalidRequestBody Code = "INVALID_REQUEST_BODY"
	MissingParams      Code = "MISSING_PARAMS"
	NotFound           Code = "NOT_FOUND"
	InternalError      Code = "INTERNAL_ERROR"
)

// CV upload errors. These mirror the client pipeline's error enumeration so
// a server-declared code round-trips through the client untouched.
const (
	InvalidFileType  Code = "INVALID_FILE_TYPE"
	FileSizeExceeded Code = "FILE_SIZE_EXCEEDED"
	FileCorrupted    Code = "FILE_CORRUPTED"
	ServerError      Code = "SERVER_ERROR"
)

type SuccessCode int

const (
	OK SuccessCode = 200
)
