package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imaginify-dev/imaginify/internal/config"
	"github.com/imaginify-dev/imaginify/pkg/toast"
	"github.com/imaginify-dev/imaginify/pkg/transform"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.RateLimit = config.RateLimitConfig{}
	cfg.Upload.Dir = t.TempDir()
	cfg.Cloudinary.CloudName = "demo"
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(cfg,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRegistry(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Upload.Backend = "ftp"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestShimmerSVG(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	tests := []struct {
		target string
		status int
	}{
		{"/shimmer/700x475", http.StatusOK},
		{"/shimmer/700x475.svg", http.StatusOK},
		{"/shimmer/700", http.StatusBadRequest},
		{"/shimmer/0x10", http.StatusBadRequest},
		{"/shimmer/axb", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body %q", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusOK {
				if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
					t.Errorf("Content-Type = %q", ct)
				}
				if !strings.Contains(rec.Body.String(), `width="700" height="475"`) {
					t.Errorf("svg missing size: %q", rec.Body.String())
				}
			}
		})
	}
}

func TestShimmerDataURL(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	rec := do(t, h, http.MethodGet, "/api/shimmer", nil)
	got := decode[shimmerResponse](t, rec)
	if got.Width != 1000 || !strings.HasPrefix(got.DataURL, "data:image/svg+xml;base64,") {
		t.Errorf("default shimmer = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/api/shimmer?w=20&h=30", nil)
	got = decode[shimmerResponse](t, rec)
	if got.Width != 20 || got.Height != 30 {
		t.Errorf("sized shimmer = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/api/shimmer?w=20", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing h status = %d", rec.Code)
	}
}

func TestMerge(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	body := `{"base":{"a":1,"n":{"x":"base"}},"overlay":{"a":2,"b":3,"n":{"x":"over","y":true}}}`
	rec := do(t, h, http.MethodPost, "/api/merge", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	got := decode[map[string]any](t, rec)
	want := map[string]any{
		"a": float64(1),
		"b": float64(3),
		"n": map[string]any{"x": "base", "y": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, h, http.MethodPost, "/api/merge", strings.NewReader("[1,2]"))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "E121") {
		t.Errorf("bad merge = %d %q", rec.Code, rec.Body.String())
	}
}

func TestQueryRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	form := func(params url.Values) *httptest.ResponseRecorder {
		return do(t, h, http.MethodGet, "/api/query/form?"+params.Encode(), nil)
	}

	tests := []struct {
		name   string
		rec    *httptest.ResponseRecorder
		status int
		url    string
	}{
		{
			name:   "form sets value",
			rec:    form(url.Values{"path": {"/transformations/add/fill"}, "query": {"?page=2&title=x"}, "key": {"page"}, "value": {"3"}}),
			status: http.StatusOK,
			url:    "/transformations/add/fill?page=3&title=x",
		},
		{
			name:   "form without value drops key",
			rec:    form(url.Values{"query": {"page=2&title=x"}, "key": {"page"}}),
			status: http.StatusOK,
			url:    "/?title=x",
		},
		{
			name:   "form keepNull",
			rec:    form(url.Values{"query": {"page=2"}, "key": {"page"}, "keepNull": {"true"}}),
			status: http.StatusOK,
			url:    "/?page",
		},
		{
			name:   "form missing key",
			rec:    form(url.Values{"query": {"page=2"}}),
			status: http.StatusBadRequest,
		},
		{
			name:   "remove",
			rec:    do(t, h, http.MethodGet, "/api/query/remove?"+url.Values{"path": {"/"}, "query": {"a=1&b=2&c=3"}, "key": {"a", "c"}}.Encode(), nil),
			status: http.StatusOK,
			url:    "/?b=2",
		},
		{
			name:   "remove missing keys",
			rec:    do(t, h, http.MethodGet, "/api/query/remove?query=a%3D1", nil),
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body %q", tt.rec.Code, tt.status, tt.rec.Body.String())
			}
			if tt.status == http.StatusOK {
				if got := decode[urlResponse](t, tt.rec).URL; got != tt.url {
					t.Errorf("url = %q, want %q", got, tt.url)
				}
			}
		})
	}
}

func TestTransformationRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	rec := do(t, h, http.MethodGet, "/api/transformations", nil)
	if all := decode[[]transform.Info](t, rec); len(all) != 5 || all[0].Type != transform.Restore {
		t.Errorf("catalogue = %+v", all)
	}

	rec = do(t, h, http.MethodGet, "/api/transformations/fill", nil)
	if info := decode[transform.Info](t, rec); info.Title != "Generative Fill" {
		t.Errorf("fill = %+v", info)
	}

	rec = do(t, h, http.MethodGet, "/api/transformations/sharpen", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "E140") {
		t.Errorf("unknown type = %d %q", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/transformations/fill/size?aspectRatio=9:16&width=640&height=480", nil)
	if got := decode[sizeResponse](t, rec); got != (sizeResponse{Width: 1000, Height: 1778}) {
		t.Errorf("fill size = %+v", got)
	}
	rec = do(t, h, http.MethodGet, "/api/transformations/restore/size?width=640&height=480", nil)
	if got := decode[sizeResponse](t, rec); got != (sizeResponse{Width: 640, Height: 480}) {
		t.Errorf("restore size = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/api/aspect-ratios", nil)
	if ars := decode[[]transform.AspectRatio](t, rec); len(ars) != 3 || ars[0].Key != "1:1" {
		t.Errorf("aspect ratios = %+v", ars)
	}
}

func TestTransformationConfig(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	body := `{"input":{"prompt":"red car"},"publicId":"samples/dog"}`
	rec := do(t, h, http.MethodPost, "/api/transformations/remove/config", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %q", rec.Code, rec.Body.String())
	}
	got := decode[configResponse](t, rec)
	wantCfg := map[string]any{"remove": map[string]any{"prompt": "red car", "removeShadow": true, "multiple": true}}
	if diff := cmp.Diff(wantCfg, map[string]any(got.Config)); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if want := "https://res.cloudinary.com/demo/image/upload/e_gen_remove:prompt_red%20car;multiple_true;remove-shadow_true/samples/dog"; got.URL != want {
		t.Errorf("url = %q, want %q", got.URL, want)
	}
	if got.CreditFee != -1 {
		t.Errorf("creditFee = %d", got.CreditFee)
	}

	rec = do(t, h, http.MethodPost, "/api/transformations/fill/config", strings.NewReader(`{"input":{"aspectRatio":"2:1"}}`))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "E141") {
		t.Errorf("bad ratio = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDownloadRoute(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("PNG"))
	}))
	defer upstream.Close()

	cfg := testConfig(t)
	cfg.Download.AllowedHosts = nil
	h := newTestServer(t, cfg).Handler()

	rec := do(t, h, http.MethodGet, "/download?"+url.Values{"url": {upstream.URL + "/a.png"}, "name": {"my photo"}}.Encode(), nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "PNG" {
		t.Fatalf("download = %d %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "my_photo.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rec = do(t, h, http.MethodGet, "/download", nil)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "E160") {
		t.Errorf("missing url = %d %q", rec.Code, rec.Body.String())
	}
}

func TestUploadRouteNotifies(t *testing.T) {
	s := newTestServer(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Hub().Run(ctx)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/toasts", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "cat.png")
	part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))
	mw.Close()

	resp, err := http.Post(srv.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /upload: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload = %d %q", resp.StatusCode, body)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg toast.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := toast.Message{
		Event: toast.EventName,
		Detail: toast.Toast{
			Level:   toast.TypeSuccess,
			Title:   "Image uploaded successfully",
			Message: "1 credit was deducted from your account",
		},
	}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("toast mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()
	do(t, h, http.MethodGet, "/shimmer/10x10", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `imaginify_http_requests_total{method="GET",route="/shimmer/{size}",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	h := newTestServer(t, cfg).Handler()

	if rec := do(t, h, http.MethodGet, "/api/transformations", nil); rec.Code != http.StatusOK {
		t.Fatalf("first = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/transformations", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d, want 429", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz should not be limited, got %d", rec.Code)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, testConfig(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
