package transform

import (
	"strings"

	"github.com/imaginify-dev/imaginify/pkg/merge"
)

// Input is what the user chose in the transformation form.
type Input struct {
	Prompt      string `json:"prompt,omitempty"`
	Color       string `json:"color,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// UserConfig returns the config fragment carrying only the user's choices
// for t. It is the base side of the merge in BuildConfig.
func UserConfig(t Type, in Input) merge.Map {
	switch t {
	case Remove:
		m := merge.Map{}
		if in.Prompt != "" {
			m["prompt"] = in.Prompt
		}
		return merge.Map{"remove": m}
	case Recolor:
		m := merge.Map{}
		if in.Prompt != "" {
			m["prompt"] = in.Prompt
		}
		if in.Color != "" {
			m["to"] = in.Color
		}
		return merge.Map{"recolor": m}
	default:
		return merge.Map{}
	}
}

// BuildConfig merges the user's choices for t over current, the config the
// image already has. A nil current starts from the type's default config.
// The user's choices always win over values in current.
func BuildConfig(t Type, in Input, current merge.Map) (merge.Map, error) {
	info, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	if t == Fill && in.AspectRatio != "" {
		if _, err := LookupAspectRatio(in.AspectRatio); err != nil {
			return nil, err
		}
	}

	if current == nil {
		current = info.Config
	} else {
		current = merge.Deep(current, info.Config)
	}
	return merge.Deep(UserConfig(t, in), current), nil
}

// NormalizeColor strips a leading "#" and lowercases a color so it can be
// used in a delivery URL.
func NormalizeColor(c string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c), "#"))
}
