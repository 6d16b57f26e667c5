// Package compare implements structural equality and a total ordering over
// value.Value, as specified for JsonElementComparer.
package compare

import (
	"cmp"
	"errors"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// ErrCannotCompare is returned when two Number values share neither a
// decimal nor a double representation. NaN and infinite numbers have no
// decimal representation but do have a double one, so they are compared
// as doubles rather than producing this error.
var ErrCannotCompare = errors.New("compare: cannot compare values")

// Equal reports structural equality: same kind, and recursively equal
// payloads. Numbers compare as decimal when both operands parse as
// decimal, otherwise as double. Objects compare as a multiset of (name,
// value) pairs, so duplicate names are matched by count, not position.
func Equal(a, b value.Value) bool {
	eq, err := equal(a, b)
	return err == nil && eq
}

func equal(a, b value.Value) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, nil
	}
	switch a.Kind() {
	case value.Null, value.True, value.False:
		return true, nil
	case value.String:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return as == bs, nil
	case value.Number:
		return numbersEqual(a, b)
	case value.Array:
		aa, _ := a.Items()
		ba, _ := b.Items()
		if len(aa) != len(ba) {
			return false, nil
		}
		for i := range aa {
			eq, err := equal(aa[i], ba[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case value.Object:
		return objectsEqual(a, b)
	default:
		return false, errors.New("compare: unknown kind")
	}
}

func numbersEqual(a, b value.Value) (bool, error) {
	ra, aok := a.TryDecimal()
	rb, bok := b.TryDecimal()
	if aok && bok {
		return ra.Cmp(rb) == 0, nil
	}
	da, aok2 := a.TryDouble()
	db, bok2 := b.TryDouble()
	if aok2 && bok2 {
		return da == db, nil
	}
	return false, ErrCannotCompare
}

// objectsEqual matches (name,value) pairs by count, independent of order,
// so {"a":1,"a":1} equals {"a":1} twice over but not {"a":1} once.
func objectsEqual(a, b value.Value) (bool, error) {
	am, _ := a.Members()
	bm, _ := b.Members()
	if len(am) != len(bm) {
		return false, nil
	}
	used := make([]bool, len(bm))
	for _, ma := range am {
		matched := false
		for j, mb := range bm {
			if used[j] || ma.Name != mb.Name {
				continue
			}
			eq, err := equal(ma.Value, mb.Value)
			if err != nil {
				return false, err
			}
			if eq {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// Compare implements the total order over value.Value used by
// JsonElementComparer: kinds rank Undefined < Object < Array < String <
// Number < True < False < Null (value.Kind's declaration order already
// matches this, so cross-kind comparison is a plain Kind comparison).
// Within a kind: Null/True/False/Undefined tie; Numbers compare
// decimal-then-double per the same promotion rule as Equal; Strings
// compare lexicographically by codepoint; Arrays compare pointwise with
// the shorter array less on a prefix tie; Objects are compared by first
// stable-sorting each operand's members by name (Ordinal/codepoint order),
// then comparing pairwise by name then by value, shorter side less on a
// prefix tie.
func Compare(a, b value.Value) (int, error) {
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1, nil
		}
		return 1, nil
	}
	switch a.Kind() {
	case value.Undefined, value.Null, value.True, value.False:
		return 0, nil
	case value.String:
		as, _ := a.AsString()
		bs, _ := b.AsString()
		return strings.Compare(as, bs), nil
	case value.Number:
		return compareNumbers(a, b)
	case value.Array:
		return compareArrays(a, b)
	case value.Object:
		return compareObjects(a, b)
	default:
		return 0, errors.New("compare: unknown kind")
	}
}

func compareNumbers(a, b value.Value) (int, error) {
	ra, aok := a.TryDecimal()
	rb, bok := b.TryDecimal()
	if aok && bok {
		return ra.Cmp(rb), nil
	}
	da, aok2 := a.TryDouble()
	db, bok2 := b.TryDouble()
	if aok2 && bok2 {
		switch {
		case da < db:
			return -1, nil
		case da > db:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, ErrCannotCompare
}

func compareArrays(a, b value.Value) (int, error) {
	aa, _ := a.Items()
	ba, _ := b.Items()
	n := len(aa)
	if len(ba) < n {
		n = len(ba)
	}
	for i := 0; i < n; i++ {
		c, err := Compare(aa[i], ba[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(aa), len(ba)), nil
}

func compareObjects(a, b value.Value) (int, error) {
	am, _ := a.Members()
	bm, _ := b.Members()
	as := sortedByName(am)
	bs := sortedByName(bm)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(as[i].Name, bs[i].Name); c != 0 {
			return c, nil
		}
		c, err := Compare(as[i].Value, bs[i].Value)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(as), len(bs)), nil
}

func sortedByName(members []value.Member) []value.Member {
	out := append([]value.Member(nil), members...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
