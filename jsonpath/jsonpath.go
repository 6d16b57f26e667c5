// Package jsonpath parses and evaluates a baseline subset of JSONPath
// expressions ($, .name, .*, .., ['name']/["name"], [i]) against the
// read-only value.Value tree, independent of the patch/diff engine.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// SelectorKind discriminates one link in a compiled Expr's chain.
type SelectorKind uint8

const (
	SelectorRoot SelectorKind = iota
	SelectorIdentifier
	SelectorWildcard
	SelectorIndex
	SelectorRecursiveDescent
)

// Selector is one token of a compiled expression. Only the fields relevant
// to Kind are meaningful: Name for SelectorIdentifier, Index for
// SelectorIndex.
type Selector struct {
	Kind  SelectorKind
	Name  string
	Index int
}

// Expr is a compiled JSONPath expression, ready to evaluate against any
// number of documents.
type Expr struct {
	raw   string
	chain []Selector
}

// String returns the original expression text.
func (e *Expr) String() string { return e.raw }

// Options controls how Select/SelectPaths/SelectNodes post-process a raw
// traversal result.
type Options uint8

const (
	// Path tracks each match's NormalizedPath. Implied by NoDups or Sort,
	// since both operate on path.
	Path Options = 1 << iota
	// NoDups stable-dedupes matches by path, keeping first occurrence.
	NoDups
	// Sort stable-sorts matches by path (lexicographically over the
	// rendered path string). Combined with NoDups, sorting runs first.
	Sort
)

// PathComponent is one step of a NormalizedPath: either a named object
// property or an array index.
type PathComponent struct {
	Name    string
	Index   int
	IsIndex bool
}

// NormalizedPath is the concrete path a traversal took from the document
// root to a matched value.
type NormalizedPath []PathComponent

// String renders p in the same dotted/bracketed form Select's expression
// syntax uses, e.g. "$.a[0].b".
func (p NormalizedPath) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, c := range p {
		if c.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.Index))
			b.WriteByte(']')
		} else {
			b.WriteByte('.')
			b.WriteString(c.Name)
		}
	}
	return b.String()
}

// Node pairs a matched value with the path that reached it.
type Node struct {
	Path  NormalizedPath
	Value value.Value
}

// Select returns the values matched by e against root.
func (e *Expr) Select(root value.Value, opts Options) []value.Value {
	contexts := applyOptions(e.evaluate(root), opts)
	out := make([]value.Value, len(contexts))
	for i, c := range contexts {
		out[i] = c.val
	}
	return out
}

// SelectPaths returns the NormalizedPath of every value matched by e
// against root.
func (e *Expr) SelectPaths(root value.Value, opts Options) []NormalizedPath {
	contexts := applyOptions(e.evaluate(root), opts)
	out := make([]NormalizedPath, len(contexts))
	for i, c := range contexts {
		out[i] = NormalizedPath(c.path)
	}
	return out
}

// SelectNodes returns both the path and the value for every match.
func (e *Expr) SelectNodes(root value.Value, opts Options) []Node {
	contexts := applyOptions(e.evaluate(root), opts)
	out := make([]Node, len(contexts))
	for i, c := range contexts {
		out[i] = Node{Path: NormalizedPath(c.path), Value: c.val}
	}
	return out
}

// TrySelectSingle walks path against root directly, without compiling or
// evaluating an expression, returning false at the first mismatch (wrong
// kind, out-of-range index, or missing name).
func TrySelectSingle(root value.Value, path NormalizedPath) (value.Value, bool) {
	cur := root
	for _, comp := range path {
		if comp.IsIndex {
			items, ok := cur.Items()
			if !ok || comp.Index < 0 || comp.Index >= len(items) {
				return value.Value{}, false
			}
			cur = items[comp.Index]
			continue
		}
		members, ok := cur.Members()
		if !ok {
			return value.Value{}, false
		}
		v, found := findMemberValue(members, comp.Name)
		if !found {
			return value.Value{}, false
		}
		cur = v
	}
	return cur, true
}
