package uploader

import (
	"path/filepath"
	"strings"
	"time"
)

// FileInfo describes a CV file selected for upload. It carries the metadata
// the host platform reports for the file; the byte content travels separately.
type FileInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// Ext returns the lowercase filename extension, including the leading dot.
func (f FileInfo) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Constraints is the static upload policy: what files are accepted and how
// long a single attempt may take. Values are fixed at construction time.
type Constraints struct {
	MaxSize           int64
	AllowedTypes      []string
	AllowedExtensions []string
	Timeout           time.Duration
}

const defaultMaxSize = 10 << 20 // 10 MiB

// DefaultConstraints returns the recruiting-platform CV policy:
// PDF and Word documents up to 10 MiB, 30 seconds per attempt.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxSize: defaultMaxSize,
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		AllowedExtensions: []string{".pdf", ".doc", ".docx"},
		Timeout:           30 * time.Second,
	}
}

func (c Constraints) allowsType(contentType string) bool {
	for _, t := range c.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func (c Constraints) allowsExtension(ext string) bool {
	for _, e := range c.AllowedExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
