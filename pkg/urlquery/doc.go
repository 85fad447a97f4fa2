// Package urlquery rewrites URL query strings for search and filter state.
//
// Unlike url.Values, the parameter set keeps the order in which keys first
// appeared, so rewriting a single key never reshuffles the rest of the URL:
//
//	urlquery.Form("/transformations/add/fill", "type=fill&page=2", "page", 3)
//	// "/transformations/add/fill?type=fill&page=3"
//
//	urlquery.Remove("/", "query=cat&page=2", []string{"query"})
//	// "/?page=2"
//
// A nil value marks a key as null, and so does a bare key such as "flag"
// in a parsed query. Null keys are skipped when encoding unless
// WithKeepNull is given, and Remove always drops them.
//
// Complex values are serialized according to an Encoding:
//
//	urlquery.SetParam("", "tags", []string{"go", "web"})
//	// "tags=go%2Cweb"  (EncodingComma, the default for slices)
//
//	urlquery.SetParam("", "filter", Filters{Cat: "tech"}, urlquery.WithEncoding(urlquery.EncodingJSON))
//	// "filter=eyJDYXQiOiJ0ZWNoIn0"
package urlquery
