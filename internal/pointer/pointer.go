// Package pointer implements RFC 6901 JSON Pointer navigation and editing
// over a value.Builder tree.
package pointer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// Pointer is a parsed RFC 6901 JSON Pointer: a sequence of unescaped
// tokens. The empty Pointer addresses the document root.
type Pointer struct {
	tokens []string
}

// Root is the pointer addressing the whole document ("").
var Root = Pointer{}

// Parse parses s according to RFC 6901: "" denotes the root; otherwise s
// must start with '/' and each '/'-separated segment is unescaped by
// replacing "~1" with "/" then "~0" with "~", in that order. A lone '~'
// not followed by '0' or '1' is rejected, per the RFC's own recommendation.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Root, nil
	}
	if s[0] != '/' {
		return Pointer{}, fmt.Errorf("pointer: %q must be empty or start with '/'", s)
	}
	raw := strings.Split(s[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		unescaped, err := unescape(tok)
		if err != nil {
			return Pointer{}, fmt.Errorf("pointer: %q: %w", s, err)
		}
		tokens[i] = unescaped
	}
	return Pointer{tokens: tokens}, nil
}

// ParseTokens builds a Pointer directly from already-unescaped tokens, the
// inverse of Tokens.
func ParseTokens(tokens []string) Pointer {
	return Pointer{tokens: append([]string(nil), tokens...)}
}

// Tokens returns the pointer's unescaped tokens.
func (p Pointer) Tokens() []string { return p.tokens }

// IsRoot reports whether p addresses the document root.
func (p Pointer) IsRoot() bool { return len(p.tokens) == 0 }

// String renders p back into its RFC 6901 string form.
func (p Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// Escape encodes a single token per RFC 6901: '~' -> "~0", '/' -> "~1".
func Escape(name string) string {
	if !strings.ContainsAny(name, "~/") {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 2)
	for _, r := range name {
		switch r {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(tok string) (string, error) {
	if !strings.Contains(tok, "~") {
		return tok, nil
	}
	var b strings.Builder
	b.Grow(len(tok))
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(tok) || (tok[i+1] != '0' && tok[i+1] != '1') {
			return "", fmt.Errorf("invalid escape sequence at offset %d", i)
		}
		if tok[i+1] == '0' {
			b.WriteByte('~')
		} else {
			b.WriteByte('/')
		}
		i++
	}
	return b.String(), nil
}

// TryGet navigates root token-by-token and returns the addressed
// sub-builder. Object tokens are literal names; array tokens must be a
// canonical decimal index (no leading zeros except "0") strictly less than
// the array's length — "-" is not a valid read token.
func TryGet(root *value.Builder, p Pointer) (*value.Builder, bool) {
	cur := root
	for _, tok := range p.tokens {
		next, ok := step(cur, tok, false)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(cur *value.Builder, tok string, forWrite bool) (*value.Builder, bool) {
	switch cur.Kind() {
	case value.Object:
		return cur.GetProperty(tok)
	case value.Array:
		idx, ok := parseIndex(tok, cur.Len(), forWrite)
		if !ok {
			return nil, false
		}
		return cur.GetArrayItem(idx)
	default:
		return nil, false
	}
}

// parseIndex validates an array token. For reads (forWrite=false) the
// valid range is [0,length); "-" is invalid. For writes the valid range is
// [0,length] and "-" resolves to length (append).
func parseIndex(tok string, length int, forWrite bool) (int, bool) {
	if tok == "-" {
		if !forWrite {
			return 0, false
		}
		return length, true
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	if forWrite {
		if n < 0 || n > length {
			return 0, false
		}
	} else if n < 0 || n >= length {
		return 0, false
	}
	return n, true
}

func descendToParent(root *value.Builder, p Pointer) (parent *value.Builder, final string, ok bool) {
	if len(p.tokens) == 0 {
		return nil, "", false
	}
	cur := root
	for _, tok := range p.tokens[:len(p.tokens)-1] {
		next, ok := step(cur, tok, false)
		if !ok {
			return nil, "", false
		}
		cur = next
	}
	return cur, p.tokens[len(p.tokens)-1], true
}

// TryAddIfAbsent implements the "add" half of RFC 6902's add operation for
// objects (insert only if absent) and the whole of it for arrays (always
// inserts). At the root, it succeeds only if root is still Undefined
// (nothing built yet); an already-initialized root is "present" and the
// caller should fall back to TryReplace, exactly mirroring per-token
// object semantics at pointer granularity zero.
func TryAddIfAbsent(root *value.Builder, p Pointer, child *value.Builder) (bool, error) {
	if p.IsRoot() {
		if root.Kind() != value.Undefined {
			return false, nil
		}
		root.Assign(child)
		return true, nil
	}
	parent, final, ok := descendToParent(root, p)
	if !ok {
		return false, fmt.Errorf("pointer: parent of %q not found", p.String())
	}
	switch parent.Kind() {
	case value.Object:
		if parent.HasProperty(final) {
			return false, nil
		}
		if err := parent.AddProperty(final, child); err != nil {
			return false, err
		}
		return true, nil
	case value.Array:
		idx, ok := parseIndex(final, parent.Len(), true)
		if !ok {
			return false, fmt.Errorf("pointer: invalid array index %q", final)
		}
		if err := parent.InsertArrayItem(idx, child); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("pointer: cannot address into a %s", parent.Kind())
	}
}

// TryReplace overwrites the value addressed by p. At the root it always
// succeeds, replacing the whole document. For an Object parent, the named
// property must already exist. For an Array parent, the index must be in
// [0,len) — "-" is invalid for replace.
func TryReplace(root *value.Builder, p Pointer, child *value.Builder) (bool, error) {
	if p.IsRoot() {
		root.Assign(child)
		return true, nil
	}
	parent, final, ok := descendToParent(root, p)
	if !ok {
		return false, fmt.Errorf("pointer: parent of %q not found", p.String())
	}
	switch parent.Kind() {
	case value.Object:
		if !parent.ReplaceProperty(final, child) {
			return false, nil
		}
		return true, nil
	case value.Array:
		idx, ok := parseIndex(final, parent.Len(), false)
		if !ok {
			return false, fmt.Errorf("pointer: invalid array index %q", final)
		}
		if err := parent.ReplaceArrayItem(idx, child); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("pointer: cannot address into a %s", parent.Kind())
	}
}

// TryRemove removes the value addressed by p. At the root it always
// succeeds, resetting the document to null (there is no parent to remove
// the root from). For an Object parent, the named property must exist.
// For an Array parent, the index must be in [0,len) — "-" is invalid.
func TryRemove(root *value.Builder, p Pointer) (bool, error) {
	if p.IsRoot() {
		root.Assign(value.NewBuilder(value.Null))
		return true, nil
	}
	parent, final, ok := descendToParent(root, p)
	if !ok {
		return false, fmt.Errorf("pointer: parent of %q not found", p.String())
	}
	switch parent.Kind() {
	case value.Object:
		if !parent.RemoveProperty(final) {
			return false, nil
		}
		return true, nil
	case value.Array:
		idx, ok := parseIndex(final, parent.Len(), false)
		if !ok {
			return false, fmt.Errorf("pointer: invalid array index %q", final)
		}
		if err := parent.RemoveArrayItem(idx); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("pointer: cannot address into a %s", parent.Kind())
	}
}
