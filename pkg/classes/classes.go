// Package classes builds class attribute values for server-rendered markup.
//
// CN accepts the usual mix of conditional inputs and resolves conflicting
// Tailwind utilities so that the last one wins:
//
//	classes.CN("px-2 py-1 bg-red-500", map[string]bool{"bg-blue-500": active}, extra)
//	// active: "px-2 py-1 bg-blue-500"
package classes

import (
	"sort"
	"strings"
)

// CN joins class inputs and removes utilities overridden by later ones.
//
// Accepted inputs are string, []string, []any, map[string]bool (keys in
// sorted order) and nil/bool, which are ignored so that expressions like
// `cond && "class"` translate to plain values.
func CN(inputs ...any) string {
	return Merge(Join(inputs...))
}

// Join flattens class inputs into a single space-separated string without
// conflict resolution.
func Join(inputs ...any) string {
	var tokens []string
	for _, in := range inputs {
		tokens = appendTokens(tokens, in)
	}
	return strings.Join(tokens, " ")
}

func appendTokens(tokens []string, in any) []string {
	switch v := in.(type) {
	case string:
		tokens = append(tokens, strings.Fields(v)...)
	case []string:
		for _, s := range v {
			tokens = append(tokens, strings.Fields(s)...)
		}
	case []any:
		for _, item := range v {
			tokens = appendTokens(tokens, item)
		}
	case map[string]bool:
		keys := make([]string, 0, len(v))
		for class, include := range v {
			if include {
				keys = append(keys, class)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			tokens = append(tokens, strings.Fields(k)...)
		}
	}
	return tokens
}

// Merge resolves conflicts in a space-separated class list. For each variant
// prefix (hover:, md:, ...) and utility group, only the last class is kept,
// at its own position. A shorthand also overrides the axis and side classes
// before it ("px-2 p-4" keeps "p-4"), while a later axis class leaves an
// earlier shorthand alone ("p-2 px-4" keeps both). Classes of unknown groups
// are only deduplicated.
func Merge(classList string) string {
	tokens := strings.Fields(classList)
	if len(tokens) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(tokens))
	kept := make([]string, 0, len(tokens))

	for i := len(tokens) - 1; i >= 0; i-- {
		scope, group := classKey(tokens[i])
		key := scope + group
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		for _, covered := range coveredGroups[strings.TrimPrefix(group, "#")] {
			seen[scope+"#"+covered] = struct{}{}
		}
		kept = append(kept, tokens[i])
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, " ")
}

// classKey splits the conflict key of a class into its variant scope and
// "#group". Classes without a known group key on themselves.
func classKey(class string) (scope, group string) {
	variants, base := splitVariants(class)

	important := strings.HasPrefix(base, "!")
	base = strings.TrimPrefix(base, "!")
	base = strings.TrimPrefix(base, "-")

	g := Group(base)
	if g == "" {
		return "", "=" + class
	}
	if important {
		variants += "!"
	}
	return variants, "#" + g
}

// splitVariants splits "md:hover:px-2" into ("hover:md:", "px-2"). Variants
// are sorted so their order does not matter. Arbitrary values in brackets
// may contain colons and are left intact.
func splitVariants(class string) (string, string) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(class); i++ {
		switch class[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, class[start:i])
				start = i + 1
			}
		}
	}
	if len(parts) == 0 {
		return "", class
	}
	sort.Strings(parts)
	return strings.Join(parts, ":") + ":", class[start:]
}
