package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/merge"
	"github.com/imaginify-dev/imaginify/pkg/shimmer"
	"github.com/imaginify-dev/imaginify/pkg/transform"
	"github.com/imaginify-dev/imaginify/pkg/urlquery"
)

const maxJSONBody = 1 << 20

// handleShimmerSVG serves /shimmer/{w}x{h}, with an optional .svg suffix.
func (s *Server) handleShimmerSVG(w http.ResponseWriter, r *http.Request) {
	size := strings.TrimSuffix(chi.URLParam(r, "size"), ".svg")
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		writeError(w, s.logger, ierrors.New("E120").WithExample("/shimmer/700x475"))
		return
	}
	width, height, err := parseDimensions(ws, hs)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	io.WriteString(w, shimmer.SVG(width, height))
}

type shimmerResponse struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	DataURL string `json:"dataURL"`
}

// handleShimmerDataURL serves /api/shimmer?w=&h=. Without dimensions it
// returns the default placeholder.
func (s *Server) handleShimmerDataURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("w") == "" && q.Get("h") == "" {
		writeJSON(w, http.StatusOK, shimmerResponse{
			Width:   shimmer.DefaultSize,
			Height:  shimmer.DefaultSize,
			DataURL: shimmer.Placeholder(),
		})
		return
	}

	width, height, err := parseDimensions(q.Get("w"), q.Get("h"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, shimmerResponse{Width: width, Height: height, DataURL: shimmer.Cached(width, height)})
}

func parseDimensions(ws, hs string) (int, int, error) {
	width, werr := strconv.Atoi(ws)
	height, herr := strconv.Atoi(hs)
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		return 0, 0, ierrors.New("E120").WithDetail("Got width " + strconv.Quote(ws) + " and height " + strconv.Quote(hs) + ".")
	}
	return width, height, nil
}

type mergeRequest struct {
	Base    merge.Map `json:"base"`
	Overlay merge.Map `json:"overlay"`
}

// handleMerge deep merges overlay into base; base wins on conflicts.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, ierrors.New("E121").WithDetail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, merge.Deep(req.Base, req.Overlay))
}

type urlResponse struct {
	URL string `json:"url"`
}

// handleQueryForm serves /api/query/form?path=&query=&key=&value=. A
// missing value parameter sets the key to null, which drops it unless
// keepNull=true.
func (s *Server) handleQueryForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	if key == "" {
		writeError(w, s.logger, ierrors.New("E122"))
		return
	}

	var value any
	if q.Has("value") {
		value = q.Get("value")
	}
	var opts []urlquery.Option
	if keep, _ := strconv.ParseBool(q.Get("keepNull")); keep {
		opts = append(opts, urlquery.WithKeepNull())
	}

	writeJSON(w, http.StatusOK, urlResponse{URL: urlquery.Form(pathOrRoot(q.Get("path")), q.Get("query"), key, value, opts...)})
}

// handleQueryRemove serves /api/query/remove?path=&query=&key=a&key=b.
func (s *Server) handleQueryRemove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keys := q["key"]
	if len(keys) == 0 {
		writeError(w, s.logger, ierrors.New("E122"))
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{URL: urlquery.Remove(pathOrRoot(q.Get("path")), q.Get("query"), keys)})
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func (s *Server) handleAspectRatios(w http.ResponseWriter, r *http.Request) {
	keys := transform.AspectRatioKeys()
	out := make([]transform.AspectRatio, 0, len(keys))
	for _, k := range keys {
		out = append(out, transform.AspectRatios[k])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransformations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, transform.All())
}

func (s *Server) handleTransformation(w http.ResponseWriter, r *http.Request) {
	info, err := transform.Lookup(transform.Type(chi.URLParam(r, "type")))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type sizeResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// handleTransformationSize serves
// /api/transformations/{type}/size?aspectRatio=&width=&height=.
func (s *Server) handleTransformationSize(w http.ResponseWriter, r *http.Request) {
	t := transform.Type(chi.URLParam(r, "type"))
	if _, err := transform.Lookup(t); err != nil {
		writeError(w, s.logger, err)
		return
	}

	q := r.URL.Query()
	img := &transform.Image{AspectRatio: q.Get("aspectRatio")}
	img.Width, _ = strconv.Atoi(q.Get("width"))
	img.Height, _ = strconv.Atoi(q.Get("height"))

	writeJSON(w, http.StatusOK, sizeResponse{
		Width:  transform.ImageSize(t, img, transform.Width),
		Height: transform.ImageSize(t, img, transform.Height),
	})
}

type configRequest struct {
	Input    transform.Input `json:"input"`
	Current  merge.Map       `json:"current,omitempty"`
	PublicID string          `json:"publicId,omitempty"`
}

type configResponse struct {
	Config    merge.Map `json:"config"`
	URL       string    `json:"url,omitempty"`
	CreditFee int       `json:"creditFee"`
}

// handleTransformationConfig merges the user's form input over the type
// default and, when a public ID is given, builds the delivery URL.
func (s *Server) handleTransformationConfig(w http.ResponseWriter, r *http.Request) {
	t := transform.Type(chi.URLParam(r, "type"))

	var req configRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, ierrors.New("E121").WithDetail(err.Error()))
		return
	}

	cfg, err := transform.BuildConfig(t, req.Input, req.Current)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := configResponse{Config: cfg, CreditFee: transform.CreditFee}
	if req.PublicID != "" && s.cfg.Cloudinary.CloudName != "" {
		resp.URL = transform.DeliveryURL(s.cfg.Cloudinary.CloudName, req.PublicID, cfg, req.Input.AspectRatio)
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.UseNumber()
	return dec.Decode(dst)
}
