package jsonpatch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/agentflare-ai/go-jsonpatch/internal/compare"
	"github.com/agentflare-ai/go-jsonpatch/internal/pointer"
	"github.com/agentflare-ai/go-jsonpatch/internal/value"
)

// New computes a Patch that, applied to a, yields a document structurally
// equal to b under internal/compare's equality. a and b may each be an
// already-decoded document (map[string]any/[]any/scalars), raw JSON bytes,
// or any value encoding/json can marshal; both are normalized through
// encoding/json before diffing so callers can mix representations.
func New(a, b any) (Patch, error) {
	sourceDoc, err := normalizeDocument(a)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: normalize source: %w", err)
	}
	targetDoc, err := normalizeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: normalize target: %w", err)
	}

	patch := Patch{}
	diffValues(value.FromAny(sourceDoc), value.FromAny(targetDoc), pointer.Root, &patch)
	return patch, nil
}

// normalizeDocument round-trips in through encoding/json so structs,
// []byte/json.RawMessage JSON text, and already-decoded documents all end
// up as the same map[string]any/[]any/float64/... shape FromAny expects.
func normalizeDocument(in any) (any, error) {
	var data []byte
	switch v := in.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		marshaled, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		data = marshaled
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// diffValues implements spec §4.5's recursion: equal values emit nothing,
// same-kind Array/Object pairs recurse structurally, and anything else
// (kind mismatch or disagreeing scalars) emits a single replace at path.
func diffValues(source, target value.Value, path pointer.Pointer, patch *Patch) {
	if compare.Equal(source, target) {
		return
	}
	switch {
	case source.Kind() == value.Array && target.Kind() == value.Array:
		diffArrays(source, target, path, patch)
	case source.Kind() == value.Object && target.Kind() == value.Object:
		diffObjects(source, target, path, patch)
	default:
		*patch = append(*patch, Operation{Op: Replace, Path: path.String(), Value: target.ToAny()})
	}
}

// diffArrays recurses over the common prefix, then removes source's excess
// tail in descending index order (so each index is still addressable when
// the remove is applied), then appends target's excess tail.
func diffArrays(source, target value.Value, path pointer.Pointer, patch *Patch) {
	sourceItems, _ := source.Items()
	targetItems, _ := target.Items()

	common := len(sourceItems)
	if len(targetItems) < common {
		common = len(targetItems)
	}
	for i := 0; i < common; i++ {
		diffValues(sourceItems[i], targetItems[i], childPointer(path, strconv.Itoa(i)), patch)
	}
	for i := len(sourceItems) - 1; i >= len(targetItems); i-- {
		*patch = append(*patch, Operation{Op: Remove, Path: childPointer(path, strconv.Itoa(i)).String()})
	}
	for i := len(sourceItems); i < len(targetItems); i++ {
		*patch = append(*patch, Operation{Op: Add, Path: childPointer(path, strconv.Itoa(i)).String(), Value: targetItems[i].ToAny()})
	}
}

// diffObjects walks source in document order emitting a remove for every
// name target lacks and a recurse for every name both share, then walks
// target in document order emitting an add for every name source lacks.
// Object adds land via the add-appends-to-the-end semantics the apply
// engine already implements, so the emitted patch is valid against source
// even though diffObjects itself does not track insertion position.
func diffObjects(source, target value.Value, path pointer.Pointer, patch *Patch) {
	sourceMembers, _ := source.Members()
	targetMembers, _ := target.Members()

	for _, m := range sourceMembers {
		if tv, ok := findMember(targetMembers, m.Name); ok {
			diffValues(m.Value, tv, childPointer(path, m.Name), patch)
		} else {
			*patch = append(*patch, Operation{Op: Remove, Path: childPointer(path, m.Name).String()})
		}
	}
	for _, m := range targetMembers {
		if !hasMember(sourceMembers, m.Name) {
			*patch = append(*patch, Operation{Op: Add, Path: childPointer(path, m.Name).String(), Value: m.Value.ToAny()})
		}
	}
}

func findMember(members []value.Member, name string) (value.Value, bool) {
	for _, m := range members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return value.Value{}, false
}

func hasMember(members []value.Member, name string) bool {
	_, ok := findMember(members, name)
	return ok
}

func childPointer(p pointer.Pointer, token string) pointer.Pointer {
	tokens := append(append([]string(nil), p.Tokens()...), token)
	return pointer.ParseTokens(tokens)
}
