package jsonpatch

// Diff bundles a forward and a backward Patch that undo one another,
// computed by Prepare from a document and a patch describing a single
// transition. Diff.Apply/Diff.Revert let a caller replay or unwind that
// transition against other snapshots of the same document.
type Diff struct {
	Forward  Patch
	Backward Patch
}

// Prepare computes the reversible Diff a patch application against
// document would produce: it applies patch once to learn the resulting
// document, then diffs document against that result for Forward and the
// result against document for Backward.
func Prepare(document any, patch Patch) (*Diff, error) {
	after, err := Apply(document, patch)
	if err != nil {
		return nil, err
	}
	forward, err := New(document, after)
	if err != nil {
		return nil, err
	}
	backward, err := New(after, document)
	if err != nil {
		return nil, err
	}
	return &Diff{Forward: forward, Backward: backward}, nil
}

// Apply replays the forward transition against document.
func (d *Diff) Apply(document any) (any, error) {
	return Apply(document, d.Forward)
}

// Revert undoes the forward transition, turning a document shaped like
// Apply's result back into one shaped like Prepare's original document.
func (d *Diff) Revert(document any) (any, error) {
	return Apply(document, d.Backward)
}
