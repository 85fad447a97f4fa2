package classes

import "strings"

var exactGroups = map[string]string{
	"block": "display", "inline-block": "display", "inline": "display",
	"flex": "display", "inline-flex": "display", "grid": "display",
	"inline-grid": "display", "hidden": "display", "contents": "display",
	"table": "display", "flow-root": "display",

	"static": "position", "fixed": "position", "absolute": "position",
	"relative": "position", "sticky": "position",

	"visible": "visibility", "invisible": "visibility", "collapse": "visibility",

	"rounded": "rounded", "shadow": "shadow", "border": "border-w",
	"truncate": "text-overflow", "grow": "flex-grow", "shrink": "flex-shrink",

	"italic": "font-style", "not-italic": "font-style",
	"uppercase": "text-transform", "lowercase": "text-transform",
	"capitalize": "text-transform", "normal-case": "text-transform",
	"underline": "text-decoration", "line-through": "text-decoration",
	"no-underline": "text-decoration", "overline": "text-decoration",
}

// prefixGroups is checked in order; longer prefixes come before the shorter
// prefixes they extend.
var prefixGroups = []struct {
	prefix string
	group  string
}{
	{"px-", "px"}, {"py-", "py"}, {"pt-", "pt"}, {"pr-", "pr"},
	{"pb-", "pb"}, {"pl-", "pl"}, {"ps-", "ps"}, {"pe-", "pe"}, {"p-", "p"},
	{"mx-", "mx"}, {"my-", "my"}, {"mt-", "mt"}, {"mr-", "mr"},
	{"mb-", "mb"}, {"ml-", "ml"}, {"ms-", "ms"}, {"me-", "me"}, {"m-", "m"},
	{"space-x-", "space-x"}, {"space-y-", "space-y"},
	{"gap-x-", "gap-x"}, {"gap-y-", "gap-y"}, {"gap-", "gap"},
	{"min-w-", "min-w"}, {"max-w-", "max-w"}, {"min-h-", "min-h"}, {"max-h-", "max-h"},
	{"size-", "size"}, {"w-", "w"}, {"h-", "h"},
	{"inset-x-", "inset-x"}, {"inset-y-", "inset-y"}, {"inset-", "inset"},
	{"top-", "top"}, {"right-", "right"}, {"bottom-", "bottom"}, {"left-", "left"},
	{"z-", "z"}, {"opacity-", "opacity"}, {"order-", "order"},
	{"rounded-t-", "rounded-t"}, {"rounded-r-", "rounded-r"},
	{"rounded-b-", "rounded-b"}, {"rounded-l-", "rounded-l"},
	{"rounded-", "rounded"}, {"shadow-", "shadow"},
	{"items-", "align-items"}, {"justify-", "justify-content"},
	{"self-", "align-self"}, {"content-", "align-content"},
	{"grid-cols-", "grid-cols"}, {"grid-rows-", "grid-rows"},
	{"col-span-", "col-span"}, {"row-span-", "row-span"},
	{"leading-", "leading"}, {"tracking-", "tracking"},
	{"overflow-x-", "overflow-x"}, {"overflow-y-", "overflow-y"}, {"overflow-", "overflow"},
	{"cursor-", "cursor"}, {"object-", "object-fit"}, {"aspect-", "aspect"},
	{"duration-", "duration"}, {"ease-", "ease"}, {"transition", "transition"},
	{"line-clamp-", "line-clamp"}, {"whitespace-", "whitespace"},
	{"fill-", "fill"}, {"stroke-", "stroke"},
}

// coveredGroups lists, for a shorthand group, the finer groups it sets too.
var coveredGroups = map[string][]string{
	"p":        {"px", "py", "ps", "pe", "pt", "pr", "pb", "pl"},
	"px":       {"pr", "pl"},
	"py":       {"pt", "pb"},
	"m":        {"mx", "my", "ms", "me", "mt", "mr", "mb", "ml"},
	"mx":       {"mr", "ml"},
	"my":       {"mt", "mb"},
	"inset":    {"inset-x", "inset-y", "top", "right", "bottom", "left"},
	"inset-x":  {"right", "left"},
	"inset-y":  {"top", "bottom"},
	"gap":      {"gap-x", "gap-y"},
	"size":     {"w", "h"},
	"overflow": {"overflow-x", "overflow-y"},
	"rounded":  {"rounded-t", "rounded-r", "rounded-b", "rounded-l"},
}

var fontSizes = map[string]bool{
	"xs": true, "sm": true, "base": true, "lg": true, "xl": true,
	"2xl": true, "3xl": true, "4xl": true, "5xl": true, "6xl": true,
	"7xl": true, "8xl": true, "9xl": true,
}

var textAligns = map[string]bool{
	"left": true, "center": true, "right": true, "justify": true,
	"start": true, "end": true,
}

var fontWeights = map[string]bool{
	"thin": true, "extralight": true, "light": true, "normal": true,
	"medium": true, "semibold": true, "bold": true, "extrabold": true,
	"black": true,
}

var borderStyles = map[string]bool{
	"solid": true, "dashed": true, "dotted": true, "double": true,
	"hidden": true, "none": true,
}

// Group returns the conflict group of a utility class without variants, or
// "" when the class is not a known utility.
func Group(base string) string {
	if g, ok := exactGroups[base]; ok {
		return g
	}

	switch {
	case strings.HasPrefix(base, "text-"):
		v := strings.TrimPrefix(base, "text-")
		switch {
		case fontSizes[v], isArbitraryLength(v):
			return "font-size"
		case textAligns[v]:
			return "text-align"
		default:
			return "text-color"
		}
	case strings.HasPrefix(base, "font-"):
		v := strings.TrimPrefix(base, "font-")
		if fontWeights[v] {
			return "font-weight"
		}
		return "font-family"
	case strings.HasPrefix(base, "bg-"):
		return backgroundGroup(strings.TrimPrefix(base, "bg-"))
	case strings.HasPrefix(base, "border-"):
		return borderGroup(strings.TrimPrefix(base, "border-"))
	case strings.HasPrefix(base, "flex-"):
		switch strings.TrimPrefix(base, "flex-") {
		case "row", "row-reverse", "col", "col-reverse":
			return "flex-direction"
		case "wrap", "wrap-reverse", "nowrap":
			return "flex-wrap"
		default:
			return "flex"
		}
	}

	for _, pg := range prefixGroups {
		if strings.HasPrefix(base, pg.prefix) {
			return pg.group
		}
	}
	return ""
}

func backgroundGroup(v string) string {
	switch {
	case v == "cover" || v == "contain" || v == "auto":
		return "bg-size"
	case v == "center" || strings.HasPrefix(v, "top") || strings.HasPrefix(v, "bottom") ||
		strings.HasPrefix(v, "left") || strings.HasPrefix(v, "right"):
		return "bg-position"
	case v == "fixed" || v == "local" || v == "scroll":
		return "bg-attachment"
	case strings.HasPrefix(v, "repeat") || v == "no-repeat":
		return "bg-repeat"
	case v == "none" || strings.HasPrefix(v, "gradient-"):
		return "bg-image"
	default:
		return "bg-color"
	}
}

func borderGroup(v string) string {
	for _, side := range []string{"x", "y", "t", "r", "b", "l"} {
		if v == side || strings.HasPrefix(v, side+"-") {
			return "border-" + side
		}
	}
	switch {
	case v != "" && v[0] >= '0' && v[0] <= '9':
		return "border-w"
	case borderStyles[v]:
		return "border-style"
	default:
		return "border-color"
	}
}

// isArbitraryLength reports whether v is a bracketed value such as "[14px]",
// "[1.5rem]", "[length:var(--size)]" or "[clamp(1rem,2vw,2rem)]".
func isArbitraryLength(v string) bool {
	if !strings.HasPrefix(v, "[") || !strings.HasSuffix(v, "]") {
		return false
	}
	inner := v[1 : len(v)-1]
	if strings.HasPrefix(inner, "length:") {
		return true
	}
	for _, fn := range []string{"calc(", "clamp(", "min(", "max("} {
		if strings.HasPrefix(inner, fn) {
			return true
		}
	}
	return inner != "" && (inner[0] == '.' || (inner[0] >= '0' && inner[0] <= '9'))
}
