package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension     = 8192
	DefaultImageMaxBytes    = 5 << 20
	DefaultDocumentMaxBytes = 10 << 20
)

var (
	ErrEmptyUpload     = errors.New("media: empty upload")
	ErrTooLarge        = errors.New("media: upload exceeds size limit")
	ErrUnsupportedType = errors.New("media: unsupported content type")
	ErrUndecodable     = errors.New("media: image cannot be decoded")
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var documentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// Result is a fully buffered, checked upload ready to be stored.
type Result struct {
	Bytes       []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

func (r *Result) Reader() io.Reader { return bytes.NewReader(r.Bytes) }
func (r *Result) Size() int64       { return int64(len(r.Bytes)) }

type Inspector struct {
	imageMaxBytes    int64
	documentMaxBytes int64
	maxDimension     int
}

func NewInspector(imageMaxBytes, documentMaxBytes int64) *Inspector {
	if imageMaxBytes <= 0 {
		imageMaxBytes = DefaultImageMaxBytes
	}
	if documentMaxBytes <= 0 {
		documentMaxBytes = DefaultDocumentMaxBytes
	}
	return &Inspector{
		imageMaxBytes:    imageMaxBytes,
		documentMaxBytes: documentMaxBytes,
		maxDimension:     DefaultMaxDimension,
	}
}

// Image accepts jpeg, png, webp and gif files whose header decodes to sane
// dimensions.
func (i *Inspector) Image(upload Upload) (*Result, error) {
	data, err := readLimited(upload, i.imageMaxBytes)
	if err != nil {
		return nil, err
	}
	contentType := normalizeContentType(upload.ContentType, upload.FileName)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	width, height, err := decodeDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if width > i.maxDimension || height > i.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	return &Result{Bytes: data, ContentType: contentType, Ext: ext, Width: width, Height: height}, nil
}

// Document accepts pdf and word resumes.
func (i *Inspector) Document(upload Upload) (*Result, error) {
	data, err := readLimited(upload, i.documentMaxBytes)
	if err != nil {
		return nil, err
	}
	contentType := normalizeContentType(upload.ContentType, upload.FileName)
	if _, ok := documentTypes[contentType]; !ok {
		contentType = strings.SplitN(http.DetectContentType(data), ";", 2)[0]
	}
	ext, ok := documentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return &Result{Bytes: data, ContentType: contentType, Ext: ext}, nil
}

func readLimited(upload Upload, max int64) ([]byte, error) {
	if upload.Reader == nil {
		return nil, ErrEmptyUpload
	}
	if upload.Size > max {
		return nil, ErrTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(upload.Reader, max+1))
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}

func decodeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(strings.SplitN(mt, ";", 2)[0])
		}
	}
	return ct
}
