package transform

import (
	"fmt"
	"strconv"
	"time"

	"github.com/imaginify-dev/imaginify/pkg/merge"
)

// DefaultDimension is used when neither the image nor its aspect ratio
// provides a size.
const DefaultDimension = 1000

// Dimension selects width or height.
type Dimension string

const (
	Width  Dimension = "width"
	Height Dimension = "height"
)

// Image is an entry of a user's image library.
type Image struct {
	ID                 string     `json:"id,omitempty"`
	Title              string     `json:"title"`
	PublicID           string     `json:"publicId"`
	TransformationType Type       `json:"transformationType"`
	Width              int        `json:"width,omitempty"`
	Height             int        `json:"height,omitempty"`
	Config             merge.Map  `json:"config,omitempty"`
	SecureURL          string     `json:"secureURL,omitempty"`
	TransformationURL  string     `json:"transformationURL,omitempty"`
	AspectRatio        string     `json:"aspectRatio,omitempty"`
	Color              string     `json:"color,omitempty"`
	Prompt             string     `json:"prompt,omitempty"`
	Author             string     `json:"author,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
}

// ImageSize returns the size the transformed image will have along dim.
// Generative fill expands to the chosen aspect ratio; every other type keeps
// the image's own size. Missing sizes fall back to DefaultDimension.
func ImageSize(t Type, img *Image, dim Dimension) int {
	if t == Fill {
		if img == nil {
			return DefaultDimension
		}
		ar, ok := AspectRatios[img.AspectRatio]
		if !ok {
			return DefaultDimension
		}
		return pick(ar.Width, ar.Height, dim)
	}

	if img == nil {
		return DefaultDimension
	}
	return pick(img.Width, img.Height, dim)
}

func pick(w, h int, dim Dimension) int {
	v := w
	if dim == Height {
		v = h
	}
	if v <= 0 {
		return DefaultDimension
	}
	return v
}

// CardRow is one label/value line of a Card.
type CardRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the metadata shown next to a transformed image.
type Card struct {
	Title       string `json:"title"`
	TypeLabel   string `json:"typeLabel"`
	Icon        string `json:"icon,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Color       string `json:"color,omitempty"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// NewCard builds the card for img.
func NewCard(img *Image) Card {
	c := Card{
		Title:  img.Title,
		Width:  ImageSize(img.TransformationType, img, Width),
		Height: ImageSize(img.TransformationType, img, Height),
	}
	if info, ok := catalogue[img.TransformationType]; ok {
		c.TypeLabel = info.Title
		c.Icon = info.Icon
	} else {
		c.TypeLabel = string(img.TransformationType)
	}

	switch img.TransformationType {
	case Fill:
		c.AspectRatio = img.AspectRatio
	case Remove:
		c.Prompt = img.Prompt
	case Recolor:
		c.Prompt = img.Prompt
		c.Color = img.Color
	}
	return c
}

// Rows returns the non-empty metadata lines in display order.
func (c Card) Rows() []CardRow {
	rows := []CardRow{{Label: "Transformation", Value: c.TypeLabel}}
	if c.AspectRatio != "" {
		label := c.AspectRatio
		if ar, ok := AspectRatios[c.AspectRatio]; ok {
			label = ar.Label
		}
		rows = append(rows, CardRow{Label: "Aspect Ratio", Value: label})
	}
	if c.Prompt != "" {
		rows = append(rows, CardRow{Label: "Prompt", Value: c.Prompt})
	}
	if c.Color != "" {
		rows = append(rows, CardRow{Label: "Color", Value: c.Color})
	}
	rows = append(rows, CardRow{
		Label: "Dimensions",
		Value: strconv.Itoa(c.Width) + "x" + strconv.Itoa(c.Height),
	})
	return rows
}

// String renders the card as "Title (Type, WxH)".
func (c Card) String() string {
	return fmt.Sprintf("%s (%s, %dx%d)", c.Title, c.TypeLabel, c.Width, c.Height)
}
