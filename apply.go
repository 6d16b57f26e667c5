package jsonpatch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/agentflare-ai/go-jsonpatch/internal/compare"
	"github.com/agentflare-ai/go-jsonpatch/internal/pointer"
	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// Apply applies a series of JSON Patch operations to a document, returning
// a new, independent document. The original document is never modified:
// document is first copied into an owned value.Builder tree, so later
// mutation of the caller's own map/slice values has no effect on either
// the applied result or a subsequent call.
//
// Application is all-or-nothing: the engine snapshots the Builder before
// running any operation and restores it on the first failure, rather than
// leaving partial state applied when one operation in the middle of a
// patch fails.
func Apply(document any, patch Patch) (any, error) {
	root := value.NewBuilderFromAny(document)
	if err := applyPatch(root, patch); err != nil {
		return nil, err
	}
	return root.ToDocument(), nil
}

// ApplyInPlace applies patch the same way Apply does. The name is kept for
// source compatibility with callers of the map-based engine this library
// generalizes: since the ordered value.Builder this engine now builds
// cannot alias the caller's bare map[string]any/[]any, there is no
// meaningful difference left between the two entry points — both leave
// document untouched and both return a freshly materialized document.
func ApplyInPlace(document any, patch Patch) (any, error) {
	return Apply(document, patch)
}

// ApplyStream applies a series of JSON Patch operations from a reader to a
// writer. This avoids requiring the caller to hold their own decoded copy
// of the document around.
func ApplyStream(reader io.Reader, writer io.Writer, patch Patch) error {
	var doc any
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	result, err := Apply(doc, patch)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(writer)
	return encoder.Encode(result)
}

func applyPatch(root *value.Builder, patch Patch) error {
	snapshot := root.Clone()
	if err := applyOps(root, patch); err != nil {
		root.Assign(snapshot)
		return err
	}
	return nil
}

func applyOps(root *value.Builder, patch Patch) error {
	for i, op := range patch {
		var err error
		switch op.Op {
		case Add:
			err = applyAdd(root, i, op)
		case Remove:
			err = applyRemove(root, i, op)
		case Replace:
			err = applyReplace(root, i, op)
		case Move:
			err = applyMove(root, i, op)
		case Copy:
			err = applyCopy(root, i, op)
		case Test:
			err = applyTest(root, i, op)
		default:
			err = newPatchErr(i, op, InvalidPatch, fmt.Errorf("unsupported patch operation: %s", op.Op))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newPatchErr(idx int, op Operation, kind Kind, err error) error {
	return &PatchError{Index: idx, Op: op.Op, Path: op.Path, Kind: kind, Err: err}
}

// applyAdd models RFC 6902's "add" as a two-step try: attempt an
// insert-without-replace first (this is the only possible outcome against
// an Array parent, and the "not already present" outcome against an
// Object parent); if that reports "already present", fall back to
// replacing the existing property, which is what "add" against an
// existing object key actually means.
func applyAdd(root *value.Builder, idx int, op Operation) error {
	p, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	child := value.NewBuilderFromAny(op.Value)
	ok, err := pointer.TryAddIfAbsent(root, p, child)
	if err != nil {
		return newPatchErr(idx, op, AddFailed, err)
	}
	if ok {
		return nil
	}
	ok, err = pointer.TryReplace(root, p, child)
	if err != nil {
		return newPatchErr(idx, op, AddFailed, err)
	}
	if !ok {
		return newPatchErr(idx, op, AddFailed, fmt.Errorf("path %q not found", op.Path))
	}
	return nil
}

func applyRemove(root *value.Builder, idx int, op Operation) error {
	p, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	ok, err := pointer.TryRemove(root, p)
	if err != nil {
		return newPatchErr(idx, op, RemoveFailed, err)
	}
	if !ok {
		return newPatchErr(idx, op, RemoveFailed, fmt.Errorf("remove failed: path %q not found", op.Path))
	}
	return nil
}

// applyReplace requires the target location to already exist, per RFC
// 6902 §4.3: TryReplace itself enforces that.
func applyReplace(root *value.Builder, idx int, op Operation) error {
	p, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	child := value.NewBuilderFromAny(op.Value)
	ok, err := pointer.TryReplace(root, p, child)
	if err != nil {
		return newPatchErr(idx, op, ReplaceFailed, err)
	}
	if !ok {
		return newPatchErr(idx, op, ReplaceFailed, fmt.Errorf("path %q not found", op.Path))
	}
	return nil
}

// applyMove rejects moving a value into its own descendant before doing
// anything else, per RFC 6902 §4.4 and spec.md §9's Open Question ("the
// source does not explicitly check — implementations should add the
// check").
func applyMove(root *value.Builder, idx int, op Operation) error {
	if op.From == "" {
		return newPatchErr(idx, op, InvalidPatch, fmt.Errorf("move requires from"))
	}
	fromP, err := pointer.Parse(op.From)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	toP, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	if isProperPrefix(fromP, toP) {
		return newPatchErr(idx, op, MoveFailed, fmt.Errorf("cannot move %q into its own descendant %q", op.From, op.Path))
	}

	sub, ok := pointer.TryGet(root, fromP)
	if !ok {
		return newPatchErr(idx, op, MoveFailed, fmt.Errorf("from path %q not found", op.From))
	}
	child := sub.Clone()

	removed, err := pointer.TryRemove(root, fromP)
	if err != nil {
		return newPatchErr(idx, op, MoveFailed, err)
	}
	if !removed {
		return newPatchErr(idx, op, MoveFailed, fmt.Errorf("remove failed: path %q not found", op.From))
	}

	added, err := pointer.TryAddIfAbsent(root, toP, child)
	if err != nil {
		return newPatchErr(idx, op, MoveFailed, err)
	}
	if added {
		return nil
	}
	replaced, err := pointer.TryReplace(root, toP, child)
	if err != nil {
		return newPatchErr(idx, op, MoveFailed, err)
	}
	if !replaced {
		return newPatchErr(idx, op, MoveFailed, fmt.Errorf("path %q not found", op.Path))
	}
	return nil
}

// applyCopy is applyMove without the remove: the original at from is left
// in place.
func applyCopy(root *value.Builder, idx int, op Operation) error {
	if op.From == "" {
		return newPatchErr(idx, op, InvalidPatch, fmt.Errorf("copy requires from"))
	}
	fromP, err := pointer.Parse(op.From)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	toP, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}

	sub, ok := pointer.TryGet(root, fromP)
	if !ok {
		return newPatchErr(idx, op, CopyFailed, fmt.Errorf("from path %q not found", op.From))
	}
	child := sub.Clone()

	added, err := pointer.TryAddIfAbsent(root, toP, child)
	if err != nil {
		return newPatchErr(idx, op, CopyFailed, err)
	}
	if added {
		return nil
	}
	replaced, err := pointer.TryReplace(root, toP, child)
	if err != nil {
		return newPatchErr(idx, op, CopyFailed, err)
	}
	if !replaced {
		return newPatchErr(idx, op, CopyFailed, fmt.Errorf("path %q not found", op.Path))
	}
	return nil
}

func applyTest(root *value.Builder, idx int, op Operation) error {
	p, err := pointer.Parse(op.Path)
	if err != nil {
		return newPatchErr(idx, op, InvalidPatch, err)
	}
	sub, ok := pointer.TryGet(root, p)
	if !ok {
		return newPatchErr(idx, op, TestFailed, fmt.Errorf("path %q not found", op.Path))
	}
	expected := value.NewBuilderFromAny(op.Value).ToValue()
	if !compare.Equal(sub.ToValue(), expected) {
		return newPatchErr(idx, op, TestFailed, fmt.Errorf("test failed: value mismatch at %q", op.Path))
	}
	return nil
}

// isProperPrefix reports whether from's tokens are a strict prefix of
// to's tokens, i.e. to addresses something inside the subtree rooted at
// from.
func isProperPrefix(from, to pointer.Pointer) bool {
	ft, tt := from.Tokens(), to.Tokens()
	if len(ft) >= len(tt) {
		return false
	}
	for i, t := range ft {
		if tt[i] != t {
			return false
		}
	}
	return true
}
