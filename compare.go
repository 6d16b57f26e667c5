package jsonpatch

import (
	"github.com/agentflare-ai/go-jsonpatch/internal/compare"
	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// Equal reports whether a and b are structurally equal: same kind
// recursively, numbers compared decimal-then-double, objects compared as
// a multiset of (name, value) pairs. a and b are the same decoded shapes
// Apply accepts (map[string]any/[]any/scalars).
func Equal(a, b any) bool {
	return compare.Equal(value.FromAny(a), value.FromAny(b))
}

// CompareValues reports the total order between a and b: -1, 0, or 1.
// Kinds rank Undefined < Object < Array < String < Number < True < False <
// Null; within a kind, numbers compare decimal-then-double, strings
// compare by codepoint, arrays compare pointwise with length as tiebreak,
// and objects compare by their members sorted by name. Returns a
// *CompareError if two numbers share neither a decimal nor a double
// representation; NaN and infinite numbers are compared as doubles.
func CompareValues(a, b any) (int, error) {
	c, err := compare.Compare(value.FromAny(a), value.FromAny(b))
	if err != nil {
		return 0, &CompareError{Message: err.Error()}
	}
	return c, nil
}
