package transform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/imaginify-dev/imaginify/pkg/merge"
)

// DeliveryBase is the CDN host serving transformed images.
const DeliveryBase = "https://res.cloudinary.com"

// Effects returns the CDN transformation segments for cfg in a fixed order.
// Fill needs the target aspect ratio; an unknown one omits the ratio.
func Effects(cfg merge.Map, aspectRatio string) []string {
	var out []string

	if on(cfg["restore"]) {
		out = append(out, "e_gen_restore")
	}
	if on(cfg["removeBackground"]) {
		out = append(out, "e_background_removal")
	}
	if on(cfg["fillBackground"]) {
		seg := "b_gen_fill"
		if ar, ok := AspectRatios[aspectRatio]; ok {
			seg += fmt.Sprintf(",ar_%s,c_pad,w_%d,h_%d", ar.Key, ar.Width, ar.Height)
		}
		out = append(out, seg)
	}
	if m, ok := cfg["remove"].(map[string]any); ok {
		params := []string{"prompt_" + escapeParam(str(m["prompt"]))}
		if on(m["multiple"]) {
			params = append(params, "multiple_true")
		}
		if on(m["removeShadow"]) {
			params = append(params, "remove-shadow_true")
		}
		out = append(out, "e_gen_remove:"+strings.Join(params, ";"))
	}
	if m, ok := cfg["recolor"].(map[string]any); ok {
		params := []string{
			"prompt_" + escapeParam(str(m["prompt"])),
			"to-color_" + escapeParam(NormalizeColor(str(m["to"]))),
		}
		if on(m["multiple"]) {
			params = append(params, "multiple_true")
		}
		out = append(out, "e_gen_recolor:"+strings.Join(params, ";"))
	}
	return out
}

// DeliveryURL builds the URL of publicID in cloud with cfg applied.
func DeliveryURL(cloud, publicID string, cfg merge.Map, aspectRatio string) string {
	parts := []string{DeliveryBase, url.PathEscape(cloud), "image", "upload"}
	parts = append(parts, Effects(cfg, aspectRatio)...)
	parts = append(parts, strings.TrimPrefix(publicID, "/"))
	return strings.Join(parts, "/")
}

func on(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

var paramEscaper = strings.NewReplacer(";", "%3B", ",", "%2C", ":", "%3A")

// escapeParam escapes a value embedded in a transformation parameter, where
// ";", ",", "/" and ":" are separators.
func escapeParam(s string) string {
	return paramEscaper.Replace(url.PathEscape(s))
}
