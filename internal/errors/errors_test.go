package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "validation error",
			code:    "E120",
			wantMsg: "Invalid dimensions",
			wantCat: CategoryValidation,
		},
		{
			name:    "transform error",
			code:    "E140",
			wantMsg: "Unknown transformation type",
			wantCat: CategoryTransform,
		},
		{
			name:    "storage error",
			code:    "E160",
			wantMsg: "Resource URL not provided",
			wantCat: CategoryStorage,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "base.json")
	if err.Message != `file "base.json" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != err.Message {
		t.Errorf("Error() = %q, want message without code", err.Error())
	}
}

func TestError_Error(t *testing.T) {
	err := New("E120")
	if got, want := err.Error(), "E120: Invalid dimensions"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E100") != nil {
		t.Error("FromError(nil) should be nil")
	}

	base := stderrors.New("boom")
	e := FromError(base, "E161")
	if e.Code != "E161" || !stderrors.Is(e, base) {
		t.Errorf("FromError() = %+v, want E161 wrapping base", e)
	}

	existing := New("E140")
	wrapped := fmt.Errorf("outer: %w", existing)
	if got := FromError(wrapped, "E100"); got != existing {
		t.Errorf("FromError() should return the wrapped *Error, got %v", got)
	}
	if !HasCode(wrapped, "E140") {
		t.Error("HasCode() = false for wrapped E140")
	}
	if HasCode(base, "E140") {
		t.Error("HasCode() = true for plain error")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         any
		wantMsg    string
		wantCode   string
		wantShape  Shape
		wantUnwrap bool
	}{
		{
			name:       "error value",
			in:         stderrors.New("x"),
			wantMsg:    "Error: x",
			wantCode:   "E100",
			wantShape:  ShapeError,
			wantUnwrap: true,
		},
		{
			name:      "string",
			in:        "plain",
			wantMsg:   "Error: plain",
			wantCode:  "E100",
			wantShape: ShapeString,
		},
		{
			name:      "number",
			in:        42,
			wantMsg:   "Unknown error: 42",
			wantCode:  "E101",
			wantShape: ShapeUnknown,
		},
		{
			name:      "map",
			in:        map[string]int{"code": 7},
			wantMsg:   `Unknown error: {"code":7}`,
			wantCode:  "E101",
			wantShape: ShapeUnknown,
		},
		{
			name:      "nil",
			in:        nil,
			wantMsg:   "Unknown error: null",
			wantCode:  "E101",
			wantShape: ShapeUnknown,
		},
		{
			name:      "unencodable value",
			in:        make(chan int),
			wantCode:  "E101",
			wantShape: ShapeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			err := Normalize(logger, tt.in)
			if err == nil {
				t.Fatal("Normalize() returned nil")
			}
			var e *Error
			if !stderrors.As(err, &e) {
				t.Fatalf("Normalize() = %T, want *Error", err)
			}
			if e.Code != tt.wantCode || e.Category != CategoryRuntime {
				t.Errorf("Code, Category = %q, %q; want %q, runtime", e.Code, e.Category, tt.wantCode)
			}
			if tt.wantMsg != "" {
				if e.Message != tt.wantMsg {
					t.Errorf("Message = %q, want %q", e.Message, tt.wantMsg)
				}
				if want := tt.wantCode + ": " + tt.wantMsg; err.Error() != want {
					t.Errorf("Error() = %q, want %q", err.Error(), want)
				}
			}
			if tt.wantShape == ShapeUnknown && !strings.HasPrefix(e.Message, PrefixUnknown) {
				t.Errorf("Message = %q, want %q prefix", e.Message, PrefixUnknown)
			}
			if got := stderrors.Unwrap(err) != nil; got != tt.wantUnwrap {
				t.Errorf("Unwrap() present = %v, want %v", got, tt.wantUnwrap)
			}

			logged := buf.String()
			if !strings.Contains(logged, "level=ERROR") {
				t.Errorf("expected error-level log, got %q", logged)
			}
			if !strings.Contains(logged, "shape="+string(tt.wantShape)) {
				t.Errorf("log missing shape %q: %q", tt.wantShape, logged)
			}
		})
	}
}

type rangeError struct{ msg string }

func (e *rangeError) Error() string { return e.msg }

func TestNormalize_PreservesCause(t *testing.T) {
	cause := &rangeError{msg: "x"}
	err := Normalize(slog.New(slog.NewTextHandler(io.Discard, nil)), cause)

	var re *rangeError
	if !stderrors.As(err, &re) || re != cause {
		t.Error("Normalize() should keep the original error reachable")
	}
	if !strings.Contains(err.Error(), "x") {
		t.Errorf("Error() = %q, want it to contain the cause message", err.Error())
	}
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if Recover(logger, nil) != nil {
		t.Error("Recover(nil) should be nil")
	}

	err := func() (err error) {
		defer func() {
			err = Recover(logger, recover())
		}()
		panic("exploded")
	}()
	if err == nil || err.Error() != "E100: Error: exploded" {
		t.Errorf("Recover() = %v, want Error: exploded", err)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E120").
		WithSuggestion("Use 640x480").
		WithExample("imaginify shimmer --size 640x480").
		Wrap(stderrors.New("bad width"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E120: Invalid dimensions",
		"Cause: bad width",
		"Hint: Use 640x480",
		"imaginify shimmer --size 640x480",
		"Learn more: https://imaginify.dev/docs/errors/E120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E161").Wrap(stderrors.New("404"))
	if got, want := err.FormatCompact(), "E161: Download failed (404)"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E140").WithSuggestion("use fill").Wrap(stderrors.New("secret"))

	var got map[string]string
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", e)
	}
	if got["code"] != "E140" || got["category"] != "transform" || got["suggestion"] != "use fill" {
		t.Errorf("FormatJSON() = %v", got)
	}
	if strings.Contains(err.FormatJSON(), "secret") {
		t.Error("FormatJSON() leaked the wrapped cause")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("E190"))
	if !strings.Contains(buf.String(), "ERROR E190: Cannot read input file") {
		t.Errorf("Fprint(*Error) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(error) = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("GetAllCodes() not sorted: %v", codes)
		}
	}

	Register("E900", ErrorTemplate{Category: CategoryRuntime, Message: "custom"})
	tmpl, ok := GetTemplate("E900")
	if !ok || tmpl.Message != "custom" {
		t.Errorf("GetTemplate(E900) = %+v, %v", tmpl, ok)
	}
}

func TestWrapText(t *testing.T) {
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText() lost words: %v", lines)
	}
}
