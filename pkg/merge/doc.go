// Package merge provides the precedence-biased deep merge used to combine
// user-supplied transformation settings with computed defaults.
//
// The merge is NOT a general union. The first argument (base) always wins:
//
//	user := merge.Map{"remove": merge.Map{"prompt": "cat"}}
//	defaults := merge.Map{"remove": merge.Map{"prompt": "", "multiple": true}}
//
//	merge.Deep(user, defaults)
//	// {"remove": {"prompt": "cat", "multiple": true}}
//
// Only nested mappings are merged. Sequences and scalars are opaque values:
// if base holds one, it is kept as is.
package merge
