package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Result is the payload the upload endpoint returns on success.
type Result struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// send performs one upload attempt: encode the file as multipart, POST it,
// and decode the outcome. A non-2xx response comes back as *ServerFailure so
// MapFailure can honor a server-declared code.
func (u *Uploader) send(ctx context.Context, f FileInfo, content []byte) (*Result, error) {
	body, contentType, err := encodeMultipart(f, content)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := &ServerFailure{StatusCode: resp.StatusCode}
		var payload errorPayload
		// Best effort: a malformed or absent body still yields a usable
		// failure via the status-code mapping.
		if json.Unmarshal(raw, &payload) == nil {
			failure.Code = payload.Code
			failure.Message = payload.Message
		}
		return nil, failure
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

func encodeMultipart(f FileInfo, content []byte) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	if f.ContentType != "" {
		header.Set("Content-Type", f.ContentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}
