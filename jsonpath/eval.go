package jsonpath

import (
	"sort"

	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// evalContext is one candidate the traversal is currently holding: the
// path taken from the root to reach val. A selector step maps a slice of
// these to a new slice, fanning out for Wildcard/RecursiveDescent and
// pruning for Identifier/Index mismatches.
type evalContext struct {
	path []PathComponent
	val  value.Value
}

// evaluate walks e's chain against root, accumulating every context the
// chain's last selector produces. The first chain entry is always
// SelectorRoot; it only resets the traversal, it never filters.
func (e *Expr) evaluate(root value.Value) []evalContext {
	if len(e.chain) == 0 {
		return nil
	}
	contexts := []evalContext{{val: root}}
	for _, sel := range e.chain[1:] {
		contexts = stepSelector(sel, contexts)
	}
	return contexts
}

func stepSelector(sel Selector, in []evalContext) []evalContext {
	var out []evalContext
	for _, c := range in {
		switch sel.Kind {
		case SelectorIdentifier:
			if members, ok := c.val.Members(); ok {
				if v, found := findMemberValue(members, sel.Name); found {
					out = append(out, evalContext{path: appendPath(c.path, PathComponent{Name: sel.Name}), val: v})
				}
			}
		case SelectorIndex:
			if items, ok := c.val.Items(); ok && sel.Index >= 0 && sel.Index < len(items) {
				out = append(out, evalContext{path: appendPath(c.path, PathComponent{Index: sel.Index, IsIndex: true}), val: items[sel.Index]})
			}
		case SelectorWildcard:
			out = append(out, children(c)...)
		case SelectorRecursiveDescent:
			out = append(out, descendants(c)...)
		}
	}
	return out
}

// children fans c out to every immediate child, object members before
// array items being mutually exclusive shapes.
func children(c evalContext) []evalContext {
	var out []evalContext
	if items, ok := c.val.Items(); ok {
		for i, item := range items {
			out = append(out, evalContext{path: appendPath(c.path, PathComponent{Index: i, IsIndex: true}), val: item})
		}
	}
	if members, ok := c.val.Members(); ok {
		for _, m := range members {
			out = append(out, evalContext{path: appendPath(c.path, PathComponent{Name: m.Name}), val: m.Value})
		}
	}
	return out
}

// descendants visits c itself and then every descendant, depth-first.
func descendants(c evalContext) []evalContext {
	var out []evalContext
	var walk func(evalContext)
	walk = func(cur evalContext) {
		out = append(out, cur)
		for _, child := range children(cur) {
			walk(child)
		}
	}
	walk(c)
	return out
}

func appendPath(base []PathComponent, comp PathComponent) []PathComponent {
	out := make([]PathComponent, len(base)+1)
	copy(out, base)
	out[len(base)] = comp
	return out
}

func findMemberValue(members []value.Member, name string) (value.Value, bool) {
	for _, m := range members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return value.Value{}, false
}

// applyOptions sorts then dedupes contexts by rendered path, per Sort and
// NoDups. Path tracking itself is unconditional (it's cheap and every
// public entry point needs it internally), so Options.Path only documents
// intent for callers, and doesn't gate any behavior here.
func applyOptions(contexts []evalContext, opts Options) []evalContext {
	if opts&Sort != 0 {
		sort.SliceStable(contexts, func(i, j int) bool {
			return NormalizedPath(contexts[i].path).String() < NormalizedPath(contexts[j].path).String()
		})
	}
	if opts&NoDups != 0 {
		seen := make(map[string]bool, len(contexts))
		deduped := make([]evalContext, 0, len(contexts))
		for _, c := range contexts {
			key := NormalizedPath(c.path).String()
			if seen[key] {
				continue
			}
			seen[key] = true
			deduped = append(deduped, c)
		}
		contexts = deduped
	}
	return contexts
}
