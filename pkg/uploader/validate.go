package uploader

import "mime"

// Validate checks a file against the constraints before any network I/O.
// It returns nil when the file is acceptable, or a pointer to the ErrorCode
// of the first failed check. Checks run in order and short-circuit:
// type, then size, then emptiness.
//
// A 0-byte file is treated as corrupted rather than valid: an empty CV can
// never be parsed downstream, so rejecting it locally saves a round trip.
func Validate(f FileInfo, c Constraints) *ErrorCode {
	if !typeAccepted(f, c) {
		return codePtr(CodeInvalidFileType)
	}
	if f.Size > c.MaxSize {
		return codePtr(CodeFileSizeExceeded)
	}
	if f.Size == 0 {
		return codePtr(CodeFileCorrupted)
	}
	return nil
}

// typeAccepted accepts the file when its declared media type is in the allowed
// set, or, as a fallback for platforms that report a blank or generic type,
// when the lowercase filename extension is allowed.
func typeAccepted(f FileInfo, c Constraints) bool {
	if mt, _, err := mime.ParseMediaType(f.ContentType); err == nil && c.allowsType(mt) {
		return true
	}
	return c.allowsExtension(f.Ext())
}

func codePtr(c ErrorCode) *ErrorCode { return &c }
