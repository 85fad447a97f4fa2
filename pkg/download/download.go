// Package download fetches library images and hands them to the user as
// files.
//
// Client.Fetch writes a resource to disk, Client.Save does the same on a
// best-effort basis (failures are logged and dropped), and Handler streams a
// resource back to the browser as an attachment so it triggers "save as".
//
// Saved files are named after the image title with its first space replaced
// by an underscore and a ".png" suffix:
//
//	download.FileName("my photo 2") // "my_photo 2.png"
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoURL is returned when no resource URL is given.
var ErrNoURL = errors.New("download: Resource URL not provided! You need to provide one")

// ErrHostNotAllowed is returned when the resource host is not in the allow
// list.
var ErrHostNotAllowed = errors.New("download: host not allowed")

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/imaginify-dev/imaginify/pkg/download"

// FileName returns the file name used for a downloaded image: the first
// space becomes "_" and ".png" is appended. An empty name stays empty.
func FileName(name string) string {
	if name == "" {
		return ""
	}
	return strings.Replace(name, " ", "_", 1) + ".png"
}

// Client fetches remote images.
type Client struct {
	http         *http.Client
	logger       *slog.Logger
	tracer       trace.Tracer
	metrics      *metrics
	allowedHosts []string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-fetch timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger used for dropped failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRegistry registers the client's Prometheus metrics with reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = newMetrics(reg)
	}
}

// WithAllowedHosts restricts fetches to the given hosts. An empty list
// allows every host.
func WithAllowedHosts(hosts ...string) Option {
	return func(c *Client) {
		c.allowedHosts = hosts
	}
}

// NewClient creates a download client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: DefaultTimeout},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = newMetrics(nil)
	}
	return c
}

// Resource is an open remote image.
type Resource struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Open starts fetching rawURL. The caller must close the returned body.
func (c *Client) Open(ctx context.Context, rawURL string) (*Resource, error) {
	if rawURL == "" {
		return nil, ErrNoURL
	}

	ctx, span := c.tracer.Start(ctx, "download.open", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.open(ctx, rawURL, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.fetches.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}
	c.metrics.fetches.WithLabelValues("ok").Inc()
	return res, nil
}

func (c *Client) open(ctx context.Context, rawURL string, span trace.Span) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("download: invalid resource URL %q", rawURL)
	}
	span.SetAttributes(attribute.String("url.host", u.Host))

	if len(c.allowedHosts) > 0 && !slices.Contains(c.allowedHosts, u.Hostname()) {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("download: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: fetch %s: %w", u.Host, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return &Resource{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download: upstream responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetch downloads rawURL into dir and returns the written path. The file is
// named FileName(name), or after the URL's last path segment when name is
// empty.
func (c *Client) Fetch(ctx context.Context, rawURL, name, dir string) (string, error) {
	res, err := c.Open(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	filename := FileName(name)
	if filename == "" {
		filename = baseName(rawURL)
	}
	dest := filepath.Join(dir, filepath.Base(filename))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("download: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("download: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, res.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("download: write %s: %w", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("download: move %s: %w", dest, err)
	}

	c.metrics.bytes.Observe(float64(n))
	return dest, nil
}

// Save is Fetch without escalation: any failure other than a missing URL is
// logged and dropped.
func (c *Client) Save(ctx context.Context, rawURL, name, dir string) error {
	if rawURL == "" {
		return ErrNoURL
	}
	dest, err := c.Fetch(ctx, rawURL, name, dir)
	if err != nil {
		c.logger.Warn("download dropped", "url", rawURL, "error", err)
		return nil
	}
	c.logger.Debug("download saved", "path", dest)
	return nil
}

func baseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	b := path.Base(u.Path)
	if b == "." || b == "/" || b == "" {
		return "download"
	}
	return b
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case errors.Is(err, ErrHostNotAllowed):
		return "forbidden"
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}
