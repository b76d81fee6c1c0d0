package content

import (
	"fmt"
	"io"
	"strings"
)

const (
	DefaultMaxFiles    = 10
	DefaultMaxFileSize = 50 * 1024 * 1024
)

// File kinds
const (
	KindPDF   = "PDF"
	KindDOCX  = "DOCX"
	KindImage = "Image"
)

var (
	allowedExtensions = map[string]bool{
		".pdf": true, ".doc": true, ".docx": true, ".jpeg": true, ".jpg": true, ".png": true,
	}
	allowedMIMETypes = map[string]bool{
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"image/jpeg": true,
		"image/png":  true,
	}
)

type UploadLimits struct {
	MaxFiles    int
	MaxFileSize int64
}

// Upload is one incoming file, before staging.
type Upload struct {
	Name     string
	MIMEType string
	Size     int64
	Body     io.Reader
}

// UploadedFile describes a staged file. The client sends it back to /process.
type UploadedFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Type     string `json:"type"`
	Path     string `json:"path"`
	MIMEType string `json:"mimeType"`
}

func newUploadedFile(up Upload, path string) UploadedFile {
	return UploadedFile{
		ID:       stagedID(path),
		Name:     up.Name,
		Size:     FormatSize(up.Size),
		Type:     FileKind(up.MIMEType),
		Path:     path,
		MIMEType: up.MIMEType,
	}
}

// stagedID is the staged file name without its extension.
func stagedID(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// FormatSize renders a byte count in megabytes with two decimals, e.g. "1.25 MB".
func FormatSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}

// FileKind classifies a mime type as PDF, DOCX or Image.
func FileKind(mimeType string) string {
	switch mt := strings.ToLower(mimeType); {
	case strings.Contains(mt, "pdf"):
		return KindPDF
	case strings.Contains(mt, "word"):
		return KindDOCX
	default:
		return KindImage
	}
}
