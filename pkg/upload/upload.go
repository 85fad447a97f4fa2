package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"
	"time"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
)

// ErrNotFound is returned when a temp file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrExpired is returned when a temp file is older than the store allows.
var ErrExpired = errors.New("upload: file expired")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// ErrUnsupportedType is returned when the sniffed content type is not allowed.
var ErrUnsupportedType = errors.New("upload: unsupported content type")

// Store is the interface for upload storage backends.
type Store interface {
	// Save stores the file and returns its temp ID. The file stays
	// temporary until Claim is called.
	Save(ctx context.Context, meta Meta, r io.Reader) (tempID string, err error)

	// Claim hands the file over to the caller. The temp copy is removed
	// when the returned File is closed.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes temp files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// Meta describes a file being saved.
type Meta struct {
	Filename    string
	ContentType string
	Size        int64
}

// File is an uploaded image.
type File struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64

	// Path is set by DiskStore.
	Path string

	// URL is set by S3Store to a presigned download URL.
	URL string

	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Config holds configuration for the upload handler.
type Config struct {
	// MaxFileSize is the maximum allowed file size in bytes.
	MaxFileSize int64

	// AllowedTypes lists accepted sniffed MIME types. Empty allows all.
	AllowedTypes []string

	// TempExpiry is how long unclaimed files live.
	TempExpiry time.Duration

	// OnSaved, if set, is called after a file is stored.
	OnSaved func(Response)

	Logger *slog.Logger
}

// ImageTypes are the content types accepted by DefaultConfig.
var ImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// DefaultConfig returns the image library defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:  10 << 20,
		AllowedTypes: slices.Clone(ImageTypes),
		TempExpiry:   time.Hour,
	}
}

// Allows reports whether contentType is accepted. Parameters and case are
// ignored.
func (c *Config) Allows(contentType string) bool {
	if len(c.AllowedTypes) == 0 {
		return true
	}
	mt := normalizeType(contentType)
	for _, t := range c.AllowedTypes {
		if normalizeType(t) == mt {
			return true
		}
	}
	return false
}

func normalizeType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// Response is the JSON body returned by the upload handler.
type Response struct {
	TempID      string `json:"temp_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Handler returns an upload handler using DefaultConfig.
//
//	r.Post("/upload", upload.Handler(store))
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig returns an upload handler with custom configuration.
// The request must be a multipart form with a "file" field.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Multipart overhead is allowed on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeError(w, http.StatusRequestEntityTooLarge, ErrTooLarge)
				return
			}
			writeError(w, http.StatusBadRequest, errors.New("failed to parse form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("no file provided"))
			return
		}
		defer file.Close()

		if header.Size > maxSize {
			writeError(w, http.StatusRequestEntityTooLarge, ErrTooLarge)
			return
		}

		contentType, body, err := sniff(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if !config.Allows(contentType) {
			writeError(w, http.StatusUnsupportedMediaType, ErrUnsupportedType)
			return
		}

		meta := Meta{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
		}
		tempID, err := store.Save(r.Context(), meta, body)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, err)
				return
			}
			logger.Error("upload save failed", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		logger.Debug("upload stored", "temp_id", tempID, "content_type", contentType, "size", header.Size)
		resp := Response{
			TempID:      tempID,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)

		if config.OnSaved != nil {
			config.OnSaved(resp)
		}
	})
}

// sniff detects the content type from the first 512 bytes and returns a
// reader replaying them.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

func writeError(w http.ResponseWriter, status int, cause error) {
	e := ierrors.New("E162").WithDetail(cause.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, e.FormatJSON())
}

// Claim retrieves a temp file by ID.
//
//	file, err := upload.Claim(ctx, store, tempID)
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
func Claim(ctx context.Context, store Store, tempID string) (*File, error) {
	return store.Claim(ctx, tempID)
}

// StartJanitor runs store.Cleanup every interval until ctx is done.
func StartJanitor(ctx context.Context, store Store, interval, maxAge time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := store.Cleanup(ctx, maxAge); err != nil {
					logger.Warn("upload cleanup failed", "error", err)
				}
			}
		}
	}()
}
