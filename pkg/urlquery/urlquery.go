package urlquery

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Encoding specifies how complex values are serialized into a single
// query value.
type Encoding int

const (
	// EncodingComma joins slices with commas: ?tags=go,web,api
	// Maps and structs fall back to JSON.
	EncodingComma Encoding = iota

	// EncodingJSON serializes as base64url-encoded JSON: ?filter=eyJjYXQiOiJ0ZWNoIn0
	EncodingJSON
)

// Option configures Form and SetParam.
type Option interface {
	apply(*options)
}

type options struct {
	keepNull bool
	encoding Encoding
}

type keepNullOption struct{}

func (keepNullOption) apply(o *options) { o.keepNull = true }

// WithKeepNull writes null keys as bare keys instead of skipping them.
func WithKeepNull() Option {
	return keepNullOption{}
}

type encodingOption struct {
	e Encoding
}

func (o encodingOption) apply(c *options) { c.encoding = o.e }

// WithEncoding sets the encoding used for slices, maps and structs.
func WithEncoding(e Encoding) Option {
	return encodingOption{e: e}
}

// SetParam parses query, sets key to the stringified value and returns the
// re-encoded query without a leading "?". Every other parameter keeps its
// position. A nil value makes key null, which drops it from the output
// unless WithKeepNull is given.
func SetParam(query, key string, value any, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt.apply(&o)
	}

	v := Parse(query)
	if s, ok := FormatValue(value, o.encoding); ok {
		v.Set(key, s)
	} else {
		v.SetNull(key)
	}

	if o.keepNull {
		return v.EncodeKeepNull()
	}
	return v.Encode()
}

// RemoveParams parses query, deletes every key in keys, strips any remaining
// null key and returns the re-encoded query without a leading "?".
func RemoveParams(query string, keys []string) string {
	v := Parse(query)
	v.Del(keys...)
	v.DropNull()
	return v.Encode()
}

// Form is SetParam joined onto path: it returns the full path and query the
// browser should navigate to.
func Form(path, query, key string, value any, opts ...Option) string {
	return Join(path, SetParam(query, key, value, opts...))
}

// Remove is RemoveParams joined onto path.
func Remove(path, query string, keys []string) string {
	return Join(path, RemoveParams(query, keys))
}

// Join appends query to path. An empty query yields path alone.
func Join(path, query string) string {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return path
	}
	return path + "?" + query
}

// FormatValue converts v to its query representation. The boolean is false
// when v is nil (including nil pointers), meaning the key is null.
func FormatValue(v any, enc Encoding) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "", false
		}
		return x.String(), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if enc == EncodingJSON {
			return encodeJSON(rv.Interface()), true
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, formatScalar(rv.Index(i)))
		}
		return strings.Join(parts, ","), true
	case reflect.Map, reflect.Struct:
		return encodeJSON(rv.Interface()), true
	default:
		return formatScalar(rv), true
	}
}

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeJSON reverses EncodingJSON into dst.
func DecodeJSON(value string, dst any) error {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return fmt.Errorf("urlquery: decode base64: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("urlquery: decode json: %w", err)
	}
	return nil
}

func formatScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
