package download

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
)

// Handler serves GET requests of the form /download?url=...&name=... by
// streaming the resource back as an attachment named FileName(name).
func Handler(c *Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		rawURL := q.Get("url")
		if rawURL == "" {
			writeError(w, http.StatusBadRequest, ierrors.New("E160"))
			return
		}

		res, err := c.Open(r.Context(), rawURL)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrHostNotAllowed) {
				status = http.StatusForbidden
			}
			c.logger.Warn("download proxy failed", "url", rawURL, "error", err)
			writeError(w, status, ierrors.New("E161"))
			return
		}
		defer res.Body.Close()

		filename := FileName(q.Get("name"))
		if filename == "" {
			filename = baseName(rawURL)
		}

		contentType := res.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		if res.ContentLength >= 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(res.ContentLength, 10))
		}
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, res.Body); err != nil {
			c.logger.Debug("download proxy copy interrupted", "error", err)
		}
	})
}

func writeError(w http.ResponseWriter, status int, e *ierrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, e.FormatJSON())
}
