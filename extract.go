package jsonpatch

import (
	"fmt"
	"strconv"

	"github.com/agentflare-ai/go-jsonpatch/internal/pointer"
	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// ExtractAdded splits a post-patch document into the part that existed
// before an additive patch and the part the patch introduced. Only Add
// operations in patch are considered; other op kinds are ignored, since
// ExtractAdded's contract is specifically about isolating what an additive
// patch contributed.
//
// remaining is after with every value the patch added removed again.
// added is a fresh document holding only the added values, addressed the
// same way the patch's own paths addressed them: object segments nest as
// object properties (last write wins on a repeated path, matching add's
// own "add to an existing name replaces it" rule), array segments always
// append rather than replay the original index, since added has no
// surrounding siblings to index into.
//
// A root-level add ("") or a path whose parent is missing from after is
// reported as an error: there is nothing to extract it from.
func ExtractAdded(after any, patch Patch) (remaining any, added any, err error) {
	remainingRoot := value.NewBuilderFromAny(after)
	addedRoot := value.NewBuilder(value.Undefined)

	var addOps []Operation
	for _, op := range patch {
		if op.Op == Add {
			addOps = append(addOps, op)
		}
	}

	for _, op := range addOps {
		p, perr := pointer.Parse(op.Path)
		if perr != nil {
			return nil, nil, fmt.Errorf("jsonpatch: %w", perr)
		}
		if err := addToSkeleton(addedRoot, p.Tokens(), value.NewBuilderFromAny(op.Value)); err != nil {
			return nil, nil, err
		}
	}

	for i := len(addOps) - 1; i >= 0; i-- {
		p, perr := pointer.Parse(addOps[i].Path)
		if perr != nil {
			return nil, nil, fmt.Errorf("jsonpatch: %w", perr)
		}
		if err := removeAdded(remainingRoot, p.Tokens()); err != nil {
			return nil, nil, err
		}
	}

	return remainingRoot.ToDocument(), addedRoot.ToDocument(), nil
}

// removeAdded removes the value at tokens from root, which already holds
// after's full content. The parent addressed by tokens[:len-1] must exist.
func removeAdded(root *value.Builder, tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("jsonpatch: cannot extract a root-level add")
	}
	parent, ok := pointer.TryGet(root, pointer.ParseTokens(tokens[:len(tokens)-1]))
	if !ok {
		return fmt.Errorf("jsonpatch: parent of %q not found", pointer.ParseTokens(tokens).String())
	}
	final := tokens[len(tokens)-1]
	switch parent.Kind() {
	case value.Object:
		parent.RemoveProperty(final)
		return nil
	case value.Array:
		idx, ok := resolveRemovalIndex(final, parent.Len())
		if !ok {
			return fmt.Errorf("jsonpatch: invalid array index %q", final)
		}
		if idx >= 0 && idx < parent.Len() {
			return parent.RemoveArrayItem(idx)
		}
		return nil
	default:
		return fmt.Errorf("jsonpatch: cannot address into a %s", parent.Kind())
	}
}

// resolveRemovalIndex resolves a token against an array that already
// contains the added value: "-" means "the last element", since that is
// where an append lands.
func resolveRemovalIndex(tok string, length int) (int, bool) {
	if tok == "-" {
		return length - 1, true
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// addToSkeleton sets val at tokens within root, auto-creating intermediate
// Object/Array containers as it descends (root starts Undefined, unlike
// the apply engine's pointer helpers which require the parent to already
// exist). A token made only of digits, or "-", is treated as addressing
// into an array; anything else addresses into an object.
func addToSkeleton(root *value.Builder, tokens []string, val *value.Builder) error {
	if len(tokens) == 0 {
		return fmt.Errorf("jsonpatch: cannot extract a root-level add")
	}
	cur := root
	for _, tok := range tokens[:len(tokens)-1] {
		ensureContainerKind(cur, tok)
		switch cur.Kind() {
		case value.Object:
			child, ok := cur.GetProperty(tok)
			if !ok {
				child = value.NewBuilder(value.Undefined)
				if err := cur.AddProperty(tok, child); err != nil {
					return err
				}
			}
			cur = child
		case value.Array:
			child := value.NewBuilder(value.Undefined)
			if err := cur.AddArrayItem(child); err != nil {
				return err
			}
			cur = child
		default:
			return fmt.Errorf("jsonpatch: cannot address into a %s while building added document", cur.Kind())
		}
	}

	final := tokens[len(tokens)-1]
	ensureContainerKind(cur, final)
	switch cur.Kind() {
	case value.Object:
		if !cur.ReplaceProperty(final, val) {
			return cur.AddProperty(final, val)
		}
		return nil
	case value.Array:
		return cur.AddArrayItem(val)
	default:
		return fmt.Errorf("jsonpatch: cannot set %q while building added document", final)
	}
}

func ensureContainerKind(b *value.Builder, tok string) {
	if b.Kind() != value.Undefined {
		return
	}
	if isArrayToken(tok) {
		b.Assign(value.NewBuilder(value.Array))
	} else {
		b.Assign(value.NewBuilder(value.Object))
	}
}

func isArrayToken(tok string) bool {
	if tok == "-" {
		return true
	}
	if tok == "" {
		return false
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
