package urlquery

import (
	"net/url"
	"strings"
)

// pair is one key/value entry of a query string.
type pair struct {
	key   string
	value string
	null  bool
}

// Values is an ordered query parameter set.
// The zero value is an empty set ready to use.
type Values struct {
	pairs []pair
}

// Parse parses a query string into an ordered parameter set.
//
// A leading "?" is ignored and only "&" separates pairs, so a ";" stays part
// of its value. A key without "=" parses as null; "key=" is an empty string.
// Malformed percent escapes are kept verbatim instead of failing the whole
// parse.
func Parse(query string) Values {
	query = strings.TrimPrefix(query, "?")

	var v Values
	for query != "" {
		var part string
		if i := strings.IndexByte(query, '&'); i >= 0 {
			part, query = query[:i], query[i+1:]
		} else {
			part, query = query, ""
		}
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		if !hasValue {
			v.pairs = append(v.pairs, pair{key: key, null: true})
			continue
		}
		v.pairs = append(v.pairs, pair{key: key, value: unescape(value)})
	}
	return v
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// escape encodes s for use in a query string, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Len returns the number of pairs, including null and repeated keys.
func (v Values) Len() int {
	return len(v.pairs)
}

// Get returns the first value for key. The boolean is false when the key is
// absent or null.
func (v Values) Get(key string) (string, bool) {
	for _, p := range v.pairs {
		if p.key == key {
			if p.null {
				return "", false
			}
			return p.value, true
		}
	}
	return "", false
}

// All returns every non-null value recorded for key, in order.
func (v Values) All(key string) []string {
	var out []string
	for _, p := range v.pairs {
		if p.key == key && !p.null {
			out = append(out, p.value)
		}
	}
	return out
}

// Has reports whether key is present, null or not.
func (v Values) Has(key string) bool {
	for _, p := range v.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

// IsNull reports whether key is present with a null value.
func (v Values) IsNull(key string) bool {
	for _, p := range v.pairs {
		if p.key == key {
			return p.null
		}
	}
	return false
}

// Keys returns the distinct keys in first-appearance order.
func (v Values) Keys() []string {
	seen := make(map[string]struct{}, len(v.pairs))
	keys := make([]string, 0, len(v.pairs))
	for _, p := range v.pairs {
		if _, ok := seen[p.key]; ok {
			continue
		}
		seen[p.key] = struct{}{}
		keys = append(keys, p.key)
	}
	return keys
}

// Set overwrites key with value. An existing key keeps the position of its
// first occurrence and loses any repeated occurrences; a new key is appended.
func (v *Values) Set(key, value string) {
	v.set(pair{key: key, value: value})
}

// SetNull marks key as null.
func (v *Values) SetNull(key string) {
	v.set(pair{key: key, null: true})
}

// Add appends another value for key without touching existing ones.
func (v *Values) Add(key, value string) {
	v.pairs = append(v.pairs, pair{key: key, value: value})
}

func (v *Values) set(np pair) {
	out := v.pairs[:0:0]
	placed := false
	for _, p := range v.pairs {
		if p.key != np.key {
			out = append(out, p)
			continue
		}
		if !placed {
			out = append(out, np)
			placed = true
		}
	}
	if !placed {
		out = append(out, np)
	}
	v.pairs = out
}

// Del removes every occurrence of the given keys. Absent keys are ignored.
func (v *Values) Del(keys ...string) {
	if len(keys) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	v.filter(func(p pair) bool {
		_, ok := drop[p.key]
		return !ok
	})
}

// DropNull removes every null key.
func (v *Values) DropNull() {
	v.filter(func(p pair) bool { return !p.null })
}

func (v *Values) filter(keep func(pair) bool) {
	out := v.pairs[:0:0]
	for _, p := range v.pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	v.pairs = out
}

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	return Values{pairs: append([]pair(nil), v.pairs...)}
}

// Encode serializes v without a leading "?". Null keys are skipped.
func (v Values) Encode() string {
	return v.encode(true)
}

// EncodeKeepNull serializes v, writing null keys as a bare key.
func (v Values) EncodeKeepNull() string {
	return v.encode(false)
}

func (v Values) encode(skipNull bool) string {
	var b strings.Builder
	for _, p := range v.pairs {
		if p.null && skipNull {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.key))
		if p.null {
			continue
		}
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}
	return b.String()
}

// String returns the encoded form of v.
func (v Values) String() string {
	return v.Encode()
}
