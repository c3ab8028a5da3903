// Package identifier converts between a display identifier such as
// "Scott Pilgrim's Comment on Post about Comic Books" and the structured slot
// map it was rendered from.
//
// A builder declares one template expression. The same expression renders an
// identifier and, inverted, parses one: Compile evaluates it twice against
// synthetic accessors instead of real data.
//
//  1. A recording accessor notes the order in which slots are read.
//  2. A wildcard accessor substitutes a placeholder for every slot, which
//     yields the template's literal text interleaved with placeholders.
//
// The literal spans are quoted, each placeholder becomes a capture group over
// the permissive identifier character class, and the whole pattern is
// anchored. Decoding matches that pattern and zips captures with slot names.
//
// Templates are either Go closures (Func) or HCL template expressions (Expr):
//
//	identifier.MustParseExpr("${voter}'s ${vote_type} for ${comment}")
//
// # Ambiguity
//
// All slots share one character class, so a separator that can also occur in
// a slot value is not disambiguated. The regexp engine's leftmost-first,
// greedy preference decides the split.
package identifier
