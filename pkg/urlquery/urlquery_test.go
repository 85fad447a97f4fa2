package urlquery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		key   string
		value any
		opts  []Option
		want  string
	}{
		{
			name:  "append new key",
			query: "type=fill",
			key:   "color",
			value: "red",
			want:  "type=fill&color=red",
		},
		{
			name:  "overwrite keeps position",
			query: "page=1&query=cat&type=fill",
			key:   "page",
			value: 2,
			want:  "page=2&query=cat&type=fill",
		},
		{
			name:  "leading question mark tolerated",
			query: "?page=1",
			key:   "query",
			value: "dog",
			want:  "page=1&query=dog",
		},
		{
			name:  "empty query",
			query: "",
			key:   "page",
			value: 1,
			want:  "page=1",
		},
		{
			name:  "nil value skipped",
			query: "page=1&query=cat",
			key:   "query",
			value: nil,
			want:  "page=1",
		},
		{
			name:  "nil value kept as bare key",
			query: "page=1&query=cat",
			key:   "query",
			value: nil,
			opts:  []Option{WithKeepNull()},
			want:  "page=1&query",
		},
		{
			name:  "values are escaped",
			query: "",
			key:   "query",
			value: "a b&c",
			want:  "query=a%20b%26c",
		},
		{
			name:  "repeated keys collapse on set",
			query: "tag=a&x=1&tag=b",
			key:   "tag",
			value: "c",
			want:  "tag=c&x=1",
		},
		{
			name:  "bool and float values",
			query: "a=1",
			key:   "ratio",
			value: 1.5,
			want:  "a=1&ratio=1.5",
		},
		{
			name:  "slice uses comma encoding",
			query: "",
			key:   "tags",
			value: []string{"go", "web"},
			want:  "tags=go%2Cweb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetParam(tt.query, tt.key, tt.value, tt.opts...)
			if got != tt.want {
				t.Errorf("SetParam() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		keys  []string
		want  string
	}{
		{
			name:  "remove one key",
			query: "type=fill&color=red",
			keys:  []string{"color"},
			want:  "type=fill",
		},
		{
			name:  "absent key is no-op",
			query: "type=fill&color=red",
			keys:  []string{"missing"},
			want:  "type=fill&color=red",
		},
		{
			name:  "remove several keeps order",
			query: "a=1&b=2&c=3&d=4",
			keys:  []string{"c", "a"},
			want:  "b=2&d=4",
		},
		{
			name:  "remove everything",
			query: "a=1",
			keys:  []string{"a"},
			want:  "",
		},
		{
			name:  "bare key is null and stripped",
			query: "type=fill&flag&color=red",
			keys:  []string{"color"},
			want:  "type=fill",
		},
		{
			name:  "repeated keys removed entirely",
			query: "tag=a&x=1&tag=b",
			keys:  []string{"tag"},
			want:  "x=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveParams(tt.query, tt.keys)
			if got != tt.want {
				t.Errorf("RemoveParams() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormAndRemove(t *testing.T) {
	if got, want := Form("/profile", "page=1", "page", 2), "/profile?page=2"; got != want {
		t.Errorf("Form() = %q, want %q", got, want)
	}
	if got, want := Remove("/", "query=cat&page=2", []string{"query"}), "/?page=2"; got != want {
		t.Errorf("Remove() = %q, want %q", got, want)
	}
	if got, want := Remove("/", "query=cat", []string{"query"}), "/"; got != want {
		t.Errorf("Remove() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	v := Parse("?a=1&b=x%20y&c&e=&d=%zz&=orphan&&a=2")

	if diff := cmp.Diff([]string{"a", "b", "c", "e", "d"}, v.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := v.Get("b"); got != "x y" {
		t.Errorf("Get(b) = %q, want %q", got, "x y")
	}
	if !v.Has("c") || !v.IsNull("c") {
		t.Errorf("bare key c should parse as null")
	}
	if got, ok := v.Get("e"); !ok || got != "" {
		t.Errorf("Get(e) = %q, %v; want empty, true", got, ok)
	}
	if got, _ := v.Get("d"); got != "%zz" {
		t.Errorf("Get(d) = %q, want malformed escape kept", got)
	}
	if diff := cmp.Diff([]string{"1", "2"}, v.All("a")); diff != "" {
		t.Errorf("All(a) mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SemicolonIsPartOfValue(t *testing.T) {
	v := Parse("prompt=red;blue&type=recolor")
	if diff := cmp.Diff([]string{"prompt", "type"}, v.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := v.Get("prompt"); got != "red;blue" {
		t.Errorf("Get(prompt) = %q, want %q", got, "red;blue")
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"form", Form("/", "prompt=red;blue&type=recolor", "color", "red"), "/?prompt=red%3Bblue&type=recolor&color=red"},
		{"remove", Remove("/", "prompt=red;blue&type=recolor", []string{"type"}), "/?prompt=red%3Bblue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBareKeys(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"form drops bare key", Form("/", "flag&type=fill", "page", 2), "/?type=fill&page=2"},
		{"form keeps bare key", Form("/", "flag&type=fill", "page", 2, WithKeepNull()), "/?flag&type=fill&page=2"},
		{"empty value survives", Form("/", "flag=&type=fill", "page", 2), "/?flag=&type=fill&page=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestValues_NullHandling(t *testing.T) {
	var v Values
	v.Set("a", "1")
	v.SetNull("b")
	v.Set("c", "3")

	if !v.Has("b") || !v.IsNull("b") {
		t.Fatal("b should be present and null")
	}
	if _, ok := v.Get("b"); ok {
		t.Error("Get(b) should report absent for null")
	}
	if got, want := v.Encode(), "a=1&c=3"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if got, want := v.EncodeKeepNull(), "a=1&b&c=3"; got != want {
		t.Errorf("EncodeKeepNull() = %q, want %q", got, want)
	}

	v.DropNull()
	if v.Has("b") {
		t.Error("DropNull() left b behind")
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
}

func TestValues_CloneIsIndependent(t *testing.T) {
	v := Parse("a=1&b=2")
	c := v.Clone()
	c.Set("a", "9")
	c.Del("b")

	if got, want := v.Encode(), "a=1&b=2"; got != want {
		t.Errorf("original changed: %q, want %q", got, want)
	}
	if got, want := c.Encode(), "a=9"; got != want {
		t.Errorf("clone = %q, want %q", got, want)
	}
}

type filters struct {
	Cat string
}

func TestFormatValue_JSONRoundTrip(t *testing.T) {
	s, ok := FormatValue(filters{Cat: "tech"}, EncodingComma)
	if !ok {
		t.Fatal("FormatValue() reported null")
	}
	if s != "eyJDYXQiOiJ0ZWNoIn0" {
		t.Errorf("FormatValue() = %q", s)
	}

	var got filters
	if err := DecodeJSON(s, &got); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if got.Cat != "tech" {
		t.Errorf("DecodeJSON() Cat = %q, want tech", got.Cat)
	}

	if err := DecodeJSON("!!!", &got); err == nil {
		t.Error("DecodeJSON() expected error for invalid input")
	}
}

func TestFormatValue_NilPointer(t *testing.T) {
	var p *int
	if _, ok := FormatValue(p, EncodingComma); ok {
		t.Error("nil pointer should format as null")
	}
	n := 7
	if s, ok := FormatValue(&n, EncodingComma); !ok || s != "7" {
		t.Errorf("FormatValue(&7) = %q, %v", s, ok)
	}
}
