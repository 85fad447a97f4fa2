// Package shimmer generates the animated placeholder shown while an image
// from the library is still loading.
//
// The placeholder is an inline SVG with a gradient sweeping horizontally
// across a muted background, encoded as a base64 data URL so it can be used
// directly as an <img> src or a blur-up placeholder:
//
//	<img src="{{ shimmer.Placeholder }}" ...>
package shimmer

import (
	"encoding/base64"
	"fmt"
	"sync"
)

// DefaultSize is the width and height of Placeholder.
const DefaultSize = 1000

const (
	baseColor      = "#7986AC"
	highlightColor = "#68769e"
)

// SVG renders the shimmer graphic for the given pixel size.
// Non-positive dimensions are clamped to 1.
func SVG(w, h int) string {
	w, h = clamp(w), clamp(h)
	return fmt.Sprintf(`
<svg width="%[1]d" height="%[2]d" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
  <defs>
    <linearGradient id="g">
      <stop stop-color="%[3]s" offset="20%%" />
      <stop stop-color="%[4]s" offset="50%%" />
      <stop stop-color="%[3]s" offset="70%%" />
    </linearGradient>
  </defs>
  <rect width="%[1]d" height="%[2]d" fill="%[3]s" opacity="0.5" />
  <rect id="r" width="%[1]d" height="%[2]d" fill="url(#g)" />
  <animate xlink:href="#r" attributeName="x" from="-%[1]d" to="%[1]d" dur="1s" repeatCount="indefinite"  />
</svg>`, w, h, baseColor, highlightColor)
}

// DataURL returns SVG(w, h) as a base64 data URL. The result depends only
// on w and h.
func DataURL(w, h int) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(SVG(w, h)))
}

// Placeholder returns the DefaultSize x DefaultSize data URL, computed on
// first use.
var Placeholder = sync.OnceValue(func() string {
	return DataURL(DefaultSize, DefaultSize)
})

type size struct{ w, h int }

var (
	cacheMu sync.RWMutex
	cache   = make(map[size]string)
)

// maxCached bounds the per-size cache. Sizes usually come from a handful of
// layout breakpoints; beyond that the cache is reset.
const maxCached = 256

// Cached is DataURL memoized per size.
func Cached(w, h int) string {
	key := size{clamp(w), clamp(h)}

	cacheMu.RLock()
	s, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		return s
	}

	s = DataURL(key.w, key.h)

	cacheMu.Lock()
	if len(cache) >= maxCached {
		cache = make(map[size]string)
	}
	cache[key] = s
	cacheMu.Unlock()

	return s
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
