package uploader

import "fmt"

// UserFacingError is the display projection of an ErrorCode: copy the UI can
// show as-is, with flags telling it which follow-up actions make sense.
type UserFacingError struct {
	Code               ErrorCode `json:"code"`
	Title              string    `json:"title"`
	Message            string    `json:"message"`
	Suggestions        []string  `json:"suggestions"`
	CanRetry           bool      `json:"can_retry"`
	ShowContactSupport bool      `json:"show_contact_support"`
}

// catalog holds the copy for every ErrorCode. Validation failures are never
// retryable (the user has to pick a different file); transport failures are.
var catalog = map[ErrorCode]UserFacingError{
	CodeInvalidFileType: {
		Title:   "Unsupported file type",
		Message: "This file type is not accepted. CVs must be PDF or Word documents.",
		Suggestions: []string{
			"Save your CV as a PDF (.pdf) and try again",
			"Word documents (.doc, .docx) are also accepted",
		},
	},
	CodeFileSizeExceeded: {
		Title:   "File is too large",
		Message: "Your CV exceeds the maximum allowed size of 10 MB.",
		Suggestions: []string{
			"Compress the PDF or remove embedded images",
			"Export the CV again at a lower quality setting",
		},
	},
	CodeFileCorrupted: {
		Title:   "File cannot be read",
		Message: "The selected file is empty or unreadable and cannot be processed.",
		Suggestions: []string{
			"Open the file locally to confirm it is intact",
			"Export a fresh copy of your CV and upload that instead",
		},
		ShowContactSupport: true,
	},
	CodeNetworkTimeout: {
		Title:   "Upload timed out",
		Message: "The upload took too long and was cancelled.",
		Suggestions: []string{
			"Check your internet connection",
			"Try again in a moment",
		},
		CanRetry: true,
	},
	CodeNetworkError: {
		Title:   "Connection problem",
		Message: "We could not reach the server to upload your CV.",
		Suggestions: []string{
			"Check your internet connection",
			"Try again once you are back online",
		},
		CanRetry: true,
	},
	CodeServerError: {
		Title:   "Something went wrong on our side",
		Message: "The server could not process your upload right now.",
		Suggestions: []string{
			"Try again in a few minutes",
			"If the problem persists, contact support",
		},
		CanRetry:           true,
		ShowContactSupport: true,
	},
	CodeUnknownError: {
		Title:   "Upload failed",
		Message: "An unexpected error occurred while uploading your CV.",
		Suggestions: []string{
			"Try the upload again",
			"If it keeps failing, contact support",
		},
		CanRetry:           true,
		ShowContactSupport: true,
	},
}

// The catalog must cover the full enumeration with usable copy. A gap is a
// programming error, so it fails at startup instead of falling back at runtime.
func init() {
	for _, code := range ErrorCodes {
		e, ok := catalog[code]
		if !ok {
			panic(fmt.Sprintf("uploader: no description for error code %s", code))
		}
		if e.Title == "" || e.Message == "" || len(e.Suggestions) == 0 {
			panic(fmt.Sprintf("uploader: incomplete description for error code %s", code))
		}
	}
}

// Describe returns the UserFacingError for a code. It is total over the
// enumeration; an unknown code falls back to the UNKNOWN_ERROR entry.
func Describe(code ErrorCode) UserFacingError {
	e, ok := catalog[code]
	if !ok {
		e = catalog[CodeUnknownError]
		code = CodeUnknownError
	}
	e.Code = code
	return e
}
