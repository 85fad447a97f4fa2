// Package imaginify provides the utility core of the Imaginify image
// editor in one import.
//
//	import "github.com/imaginify-dev/imaginify"
//
// Usage:
//
//	cfg := imaginify.DeepMerge(userChoices, defaults)
//	next := imaginify.FormURLQuery("/", r.URL.RawQuery, "page", 2)
//	search := imaginify.Debounce(runSearch, 300*time.Millisecond)
//	err := imaginify.HandleError(logger, recovered)
//
// The packages under pkg/ expose the same functionality with more options.
package imaginify

import (
	"context"
	"log/slog"
	"time"

	"github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/classes"
	"github.com/imaginify-dev/imaginify/pkg/debounce"
	"github.com/imaginify-dev/imaginify/pkg/download"
	"github.com/imaginify-dev/imaginify/pkg/merge"
	"github.com/imaginify-dev/imaginify/pkg/shimmer"
	"github.com/imaginify-dev/imaginify/pkg/urlquery"
)

// =============================================================================
// Deep merge
// =============================================================================

// Map is a mergeable object.
type Map = merge.Map

// DeepMerge merges overlay into base. Nested objects merge recursively and
// base wins every conflicting leaf. Neither input is modified.
func DeepMerge(base, overlay Map) Map {
	return merge.Deep(base, overlay)
}

// =============================================================================
// URL query
// =============================================================================

// QueryOption configures FormURLQuery.
type QueryOption = urlquery.Option

// KeepNull writes null keys as bare keys.
func KeepNull() QueryOption { return urlquery.WithKeepNull() }

// FormURLQuery sets key to value in query and returns path joined with the
// result. A nil value drops key.
func FormURLQuery(path, query, key string, value any, opts ...QueryOption) string {
	return urlquery.Form(path, query, key, value, opts...)
}

// RemoveKeysFromQuery deletes keys from query and returns path joined with
// the result.
func RemoveKeysFromQuery(path, query string, keys ...string) string {
	return urlquery.Remove(path, query, keys)
}

// =============================================================================
// Debounce
// =============================================================================

// Debounce wraps fn so it runs once, delay after the last call, with the
// argument of that call.
func Debounce[T any](fn func(T), delay time.Duration) func(T) {
	return debounce.Func(fn, delay)
}

// =============================================================================
// Placeholders and class names
// =============================================================================

// Placeholder returns the default shimmer placeholder as a data URL.
func Placeholder() string { return shimmer.Placeholder() }

// Shimmer returns a w by h shimmer placeholder as a data URL.
func Shimmer(w, h int) string { return shimmer.Cached(w, h) }

// CN joins class inputs and resolves conflicting utility classes, the last
// one winning.
func CN(inputs ...any) string { return classes.CN(inputs...) }

// =============================================================================
// Errors and downloads
// =============================================================================

// HandleError converts any caught value into an error, logging it first. The
// result is never nil.
func HandleError(logger *slog.Logger, v any) error {
	return errors.Normalize(logger, v)
}

// ErrNoURL is returned by Download when url is empty.
var ErrNoURL = download.ErrNoURL

var defaultDownloader = download.NewClient()

// Download saves the image at url into dir as FileName(name). Fetch failures
// are logged and dropped; only a missing URL is returned.
func Download(ctx context.Context, url, name, dir string) error {
	return defaultDownloader.Save(ctx, url, name, dir)
}
