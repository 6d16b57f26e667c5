package jsonpatch

import "fmt"

// Kind classifies why a Patch application failed.
type Kind string

const (
	InvalidPatch  Kind = "invalid_patch"
	TestFailed    Kind = "test_failed"
	AddFailed     Kind = "add_failed"
	RemoveFailed  Kind = "remove_failed"
	ReplaceFailed Kind = "replace_failed"
	MoveFailed    Kind = "move_failed"
	CopyFailed    Kind = "copy_failed"
)

// PatchError is returned when applying a Patch fails. It carries the
// failing operation's index and op string along with a Kind classifier,
// so callers can distinguish "test didn't match" from "pointer invalid"
// without parsing the error string.
type PatchError struct {
	Index int
	Op    Op
	Path  string
	Kind  Kind
	Err   error
}

func (e *PatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("patch operation %d (%s %s) failed: %v", e.Index, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("patch operation %d (%s %s) failed", e.Index, e.Op, e.Path)
}

func (e *PatchError) Unwrap() error { return e.Err }

// CompareError is returned when two Number values share neither a decimal
// nor a double representation.
type CompareError struct {
	Message string
}

func (e *CompareError) Error() string { return "jsonpatch: " + e.Message }
