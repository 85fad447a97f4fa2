package transform

import (
	"sort"

	"github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/merge"
)

// Type identifies a transformation.
type Type string

const (
	Restore          Type = "restore"
	RemoveBackground Type = "removeBackground"
	Fill             Type = "fill"
	Remove           Type = "remove"
	Recolor          Type = "recolor"
)

// CreditFee is the credit balance change charged per transformation.
const CreditFee = -1

// Info describes a transformation type for menus and headers.
type Info struct {
	Type     Type      `json:"type"`
	Title    string    `json:"title"`
	SubTitle string    `json:"subTitle"`
	Icon     string    `json:"icon"`
	Config   merge.Map `json:"config"`
}

var catalogue = map[Type]Info{
	Restore: {
		Type:     Restore,
		Title:    "Restore Image",
		SubTitle: "Refine images by removing noise and imperfections",
		Icon:     "image.svg",
		Config:   merge.Map{"restore": true},
	},
	RemoveBackground: {
		Type:     RemoveBackground,
		Title:    "Background Remove",
		SubTitle: "Removes the background of the image using AI",
		Icon:     "camera.svg",
		Config:   merge.Map{"removeBackground": true},
	},
	Fill: {
		Type:     Fill,
		Title:    "Generative Fill",
		SubTitle: "Enhance an image's dimensions using AI outpainting",
		Icon:     "stars.svg",
		Config:   merge.Map{"fillBackground": true},
	},
	Remove: {
		Type:     Remove,
		Title:    "Object Remove",
		SubTitle: "Identify and eliminate objects from images",
		Icon:     "scan.svg",
		Config: merge.Map{"remove": merge.Map{
			"prompt":       "",
			"removeShadow": true,
			"multiple":     true,
		}},
	},
	Recolor: {
		Type:     Recolor,
		Title:    "Object Recolor",
		SubTitle: "Identify and recolor objects from the image",
		Icon:     "filter.svg",
		Config: merge.Map{"recolor": merge.Map{
			"prompt":   "",
			"to":       "",
			"multiple": true,
		}},
	},
}

// order is the menu order of the catalogue.
var order = []Type{Restore, RemoveBackground, Fill, Remove, Recolor}

// Lookup returns the catalogue entry for t. The returned config is a copy
// the caller may modify.
func Lookup(t Type) (Info, error) {
	info, ok := catalogue[t]
	if !ok {
		return Info{}, errors.New("E140").WithDetail("Unknown type " + string(t) + ".")
	}
	info.Config = merge.Clone(info.Config)
	return info, nil
}

// All returns the catalogue in menu order.
func All() []Info {
	out := make([]Info, 0, len(order))
	for _, t := range order {
		info, _ := Lookup(t)
		out = append(out, info)
	}
	return out
}

// Valid reports whether t is a known transformation type.
func (t Type) Valid() bool {
	_, ok := catalogue[t]
	return ok
}

// AspectRatio is a target ratio for generative fill.
type AspectRatio struct {
	Key    string `json:"aspectRatio"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// AspectRatios are the ratios generative fill can expand an image to.
var AspectRatios = map[string]AspectRatio{
	"1:1":  {Key: "1:1", Label: "Square (1:1)", Width: 1000, Height: 1000},
	"3:4":  {Key: "3:4", Label: "Standard Portrait (3:4)", Width: 1000, Height: 1334},
	"9:16": {Key: "9:16", Label: "Phone Portrait (9:16)", Width: 1000, Height: 1778},
}

// AspectRatioKeys returns the keys of AspectRatios in a stable order.
func AspectRatioKeys() []string {
	keys := make([]string, 0, len(AspectRatios))
	for k := range AspectRatios {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return AspectRatios[keys[i]].Height < AspectRatios[keys[j]].Height
	})
	return keys
}

// LookupAspectRatio returns the aspect ratio for key.
func LookupAspectRatio(key string) (AspectRatio, error) {
	ar, ok := AspectRatios[key]
	if !ok {
		return AspectRatio{}, errors.New("E141").WithDetail("Unknown aspect ratio " + key + ".")
	}
	return ar, nil
}
