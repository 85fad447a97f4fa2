package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/merge"
)

func TestLookup(t *testing.T) {
	info, err := Lookup(Remove)
	if err != nil {
		t.Fatalf("Lookup(remove) error = %v", err)
	}
	if info.Title != "Object Remove" {
		t.Errorf("Title = %q", info.Title)
	}

	// The returned config must not alias the catalogue.
	info.Config["remove"].(merge.Map)["prompt"] = "mutated"
	again, _ := Lookup(Remove)
	if again.Config["remove"].(merge.Map)["prompt"] != "" {
		t.Error("Lookup() returned a config sharing state with the catalogue")
	}

	_, err = Lookup("sharpen")
	if !errors.HasCode(err, "E140") {
		t.Errorf("Lookup(sharpen) error = %v, want E140", err)
	}
}

func TestAll(t *testing.T) {
	var got []Type
	for _, info := range All() {
		got = append(got, info.Type)
	}
	want := []Type{Restore, RemoveBackground, Fill, Remove, Recolor}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("All() order mismatch (-want +got):\n%s", diff)
	}
	if !Fill.Valid() || Type("nope").Valid() {
		t.Error("Valid() misreports")
	}
}

func TestAspectRatioKeys(t *testing.T) {
	want := []string{"1:1", "3:4", "9:16"}
	if diff := cmp.Diff(want, AspectRatioKeys()); diff != "" {
		t.Errorf("AspectRatioKeys() mismatch (-want +got):\n%s", diff)
	}
	if _, err := LookupAspectRatio("4:3"); !errors.HasCode(err, "E141") {
		t.Errorf("LookupAspectRatio(4:3) error = %v, want E141", err)
	}
}

func TestImageSize(t *testing.T) {
	img := &Image{Width: 640, Height: 480, AspectRatio: "9:16"}

	tests := []struct {
		name string
		typ  Type
		img  *Image
		dim  Dimension
		want int
	}{
		{"fill uses aspect ratio width", Fill, img, Width, 1000},
		{"fill uses aspect ratio height", Fill, img, Height, 1778},
		{"fill unknown ratio", Fill, &Image{AspectRatio: "2:1"}, Height, DefaultDimension},
		{"fill nil image", Fill, nil, Width, DefaultDimension},
		{"restore keeps width", Restore, img, Width, 640},
		{"restore keeps height", Restore, img, Height, 480},
		{"missing size", Recolor, &Image{}, Width, DefaultDimension},
		{"nil image", Remove, nil, Height, DefaultDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageSize(tt.typ, tt.img, tt.dim); got != tt.want {
				t.Errorf("ImageSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		in      Input
		current merge.Map
		want    merge.Map
	}{
		{
			name: "restore default",
			typ:  Restore,
			want: merge.Map{"restore": true},
		},
		{
			name: "remove prompt over defaults",
			typ:  Remove,
			in:   Input{Prompt: "dog"},
			want: merge.Map{"remove": merge.Map{"prompt": "dog", "removeShadow": true, "multiple": true}},
		},
		{
			name: "recolor prompt and color",
			typ:  Recolor,
			in:   Input{Prompt: "shirt", Color: "#FF0000"},
			want: merge.Map{"recolor": merge.Map{"prompt": "shirt", "to": "#FF0000", "multiple": true}},
		},
		{
			name:    "user choice beats current config",
			typ:     Remove,
			in:      Input{Prompt: "cat"},
			current: merge.Map{"remove": merge.Map{"prompt": "dog", "multiple": false}},
			want:    merge.Map{"remove": merge.Map{"prompt": "cat", "removeShadow": true, "multiple": false}},
		},
		{
			name:    "current keeps other transformations",
			typ:     Restore,
			current: merge.Map{"removeBackground": true},
			want:    merge.Map{"restore": true, "removeBackground": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildConfig(tt.typ, tt.in, tt.current)
			if err != nil {
				t.Fatalf("BuildConfig() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildConfig_Errors(t *testing.T) {
	if _, err := BuildConfig("blur", Input{}, nil); !errors.HasCode(err, "E140") {
		t.Errorf("unknown type error = %v", err)
	}
	if _, err := BuildConfig(Fill, Input{AspectRatio: "2:1"}, nil); !errors.HasCode(err, "E141") {
		t.Errorf("unknown ratio error = %v", err)
	}
}

func TestDeliveryURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  merge.Map
		ar   string
		want string
	}{
		{
			name: "restore",
			cfg:  merge.Map{"restore": true},
			want: "https://res.cloudinary.com/demo/image/upload/e_gen_restore/samples/dog",
		},
		{
			name: "fill with ratio",
			cfg:  merge.Map{"fillBackground": true},
			ar:   "3:4",
			want: "https://res.cloudinary.com/demo/image/upload/b_gen_fill,ar_3:4,c_pad,w_1000,h_1334/samples/dog",
		},
		{
			name: "remove",
			cfg:  merge.Map{"remove": merge.Map{"prompt": "red car", "removeShadow": true, "multiple": true}},
			want: "https://res.cloudinary.com/demo/image/upload/e_gen_remove:prompt_red%20car;multiple_true;remove-shadow_true/samples/dog",
		},
		{
			name: "recolor",
			cfg:  merge.Map{"recolor": merge.Map{"prompt": "shirt", "to": "#FF00aa", "multiple": false}},
			want: "https://res.cloudinary.com/demo/image/upload/e_gen_recolor:prompt_shirt;to-color_ff00aa/samples/dog",
		},
		{
			name: "no effects",
			cfg:  nil,
			want: "https://res.cloudinary.com/demo/image/upload/samples/dog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeliveryURL("demo", "samples/dog", tt.cfg, tt.ar); got != tt.want {
				t.Errorf("DeliveryURL() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestEscapeParam(t *testing.T) {
	if got, want := escapeParam("a;b,c:d/e"), "a%3Bb%2Cc%3Ad%2Fe"; got != want {
		t.Errorf("escapeParam() = %q, want %q", got, want)
	}
}

func TestCard(t *testing.T) {
	img := &Image{
		Title:              "Beach",
		TransformationType: Recolor,
		Width:              800,
		Height:             600,
		Prompt:             "umbrella",
		Color:              "yellow",
	}
	card := NewCard(img)

	want := []CardRow{
		{Label: "Transformation", Value: "Object Recolor"},
		{Label: "Prompt", Value: "umbrella"},
		{Label: "Color", Value: "yellow"},
		{Label: "Dimensions", Value: "800x600"},
	}
	if diff := cmp.Diff(want, card.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
	if got, want := card.String(), "Beach (Object Recolor, 800x600)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	fill := NewCard(&Image{Title: "Tall", TransformationType: Fill, AspectRatio: "9:16"})
	rows := fill.Rows()
	if rows[1].Value != "Phone Portrait (9:16)" || fill.Height != 1778 {
		t.Errorf("fill card = %+v", fill)
	}
}
