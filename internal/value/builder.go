package value

import "fmt"

// Builder is an owned, mutable JSON tree. Object children are held in an
// ordered slice so insertion order survives structural edits; array
// children are addressable by zero-based index. The zero Builder has Kind
// Undefined and represents "nothing built yet" — this is what lets the
// pointer package's root add-if-absent primitive distinguish "root already
// holds a value" from "root is still empty".
type Builder struct {
	kind   Kind
	str    string
	num    float64
	numLit string
	hasLit bool
	arr    []*Builder
	obj    []objMember
}

type objMember struct {
	name string
	val  *Builder
}

// NewBuilder constructs an empty container of the given kind. Object and
// Array start with zero children; scalar kinds start at their zero payload
// (Null needs no payload, True/False are fixed, Number starts at 0, String
// starts at "").
func NewBuilder(kind Kind) *Builder {
	return &Builder{kind: kind}
}

// NewBuilderFromValue deep-copies a read-only Value into an owned Builder.
func NewBuilderFromValue(v Value) *Builder {
	b := &Builder{kind: v.kind, str: v.str, num: v.num, numLit: v.numLit, hasLit: v.hasLit}
	if v.kind == Array {
		b.arr = make([]*Builder, len(v.arr))
		for i, e := range v.arr {
			b.arr[i] = NewBuilderFromValue(e)
		}
	}
	if v.kind == Object {
		b.obj = make([]objMember, len(v.obj))
		for i, m := range v.obj {
			b.obj[i] = objMember{name: m.Name, val: NewBuilderFromValue(m.Value)}
		}
	}
	return b
}

// NewBuilderFromAny converts a decoded Go value into an owned Builder,
// via the same conventions as FromAny.
func NewBuilderFromAny(in any) *Builder {
	return NewBuilderFromValue(FromAny(in))
}

// Kind reports the builder's current discriminant.
func (b *Builder) Kind() Kind { return b.kind }

// Len returns the number of children for Object or Array kinds, 0 otherwise.
func (b *Builder) Len() int {
	switch b.kind {
	case Array:
		return len(b.arr)
	case Object:
		return len(b.obj)
	default:
		return 0
	}
}

// AddProperty appends a new named child to an Object builder. Duplicate
// names are permitted; lookups resolve to the first match.
func (b *Builder) AddProperty(name string, child *Builder) error {
	if b.kind != Object {
		return fmt.Errorf("value: cannot add property to a %s", b.kind)
	}
	b.obj = append(b.obj, objMember{name: name, val: child})
	return nil
}

// AddArrayItem appends a new child to an Array builder.
func (b *Builder) AddArrayItem(child *Builder) error {
	if b.kind != Array {
		return fmt.Errorf("value: cannot append to a %s", b.kind)
	}
	b.arr = append(b.arr, child)
	return nil
}

// InsertArrayItem inserts child at index, shifting later items up. index
// must be in 0..=len(b.arr), where len means append.
func (b *Builder) InsertArrayItem(index int, child *Builder) error {
	if b.kind != Array {
		return fmt.Errorf("value: cannot insert into a %s", b.kind)
	}
	if index < 0 || index > len(b.arr) {
		return fmt.Errorf("value: array index %d out of range [0,%d]", index, len(b.arr))
	}
	b.arr = append(b.arr, nil)
	copy(b.arr[index+1:], b.arr[index:])
	b.arr[index] = child
	return nil
}

// ReplaceArrayItem overwrites the item at index. index must be in
// 0..len(b.arr).
func (b *Builder) ReplaceArrayItem(index int, child *Builder) error {
	if b.kind != Array {
		return fmt.Errorf("value: cannot replace an item of a %s", b.kind)
	}
	if index < 0 || index >= len(b.arr) {
		return fmt.Errorf("value: array index %d out of range [0,%d)", index, len(b.arr))
	}
	b.arr[index] = child
	return nil
}

// RemoveArrayItem removes the item at index, shifting later items down.
// index must be in 0..len(b.arr).
func (b *Builder) RemoveArrayItem(index int) error {
	if b.kind != Array {
		return fmt.Errorf("value: cannot remove an item from a %s", b.kind)
	}
	if index < 0 || index >= len(b.arr) {
		return fmt.Errorf("value: array index %d out of range [0,%d)", index, len(b.arr))
	}
	b.arr = append(b.arr[:index], b.arr[index+1:]...)
	return nil
}

// GetProperty returns the first child named name, if any.
func (b *Builder) GetProperty(name string) (*Builder, bool) {
	if b.kind != Object {
		return nil, false
	}
	for _, m := range b.obj {
		if m.name == name {
			return m.val, true
		}
	}
	return nil, false
}

// HasProperty reports whether an Object has a child named name.
func (b *Builder) HasProperty(name string) bool {
	_, ok := b.GetProperty(name)
	return ok
}

// ReplaceProperty replaces the value of the first child named name.
// Reports false if no such child exists.
func (b *Builder) ReplaceProperty(name string, child *Builder) bool {
	if b.kind != Object {
		return false
	}
	for i, m := range b.obj {
		if m.name == name {
			b.obj[i].val = child
			return true
		}
	}
	return false
}

// RemoveProperty removes the first child named name. Reports false if no
// such child exists.
func (b *Builder) RemoveProperty(name string) bool {
	if b.kind != Object {
		return false
	}
	for i, m := range b.obj {
		if m.name == name {
			b.obj = append(b.obj[:i], b.obj[i+1:]...)
			return true
		}
	}
	return false
}

// GetArrayItem returns the item at index, if in range.
func (b *Builder) GetArrayItem(index int) (*Builder, bool) {
	if b.kind != Array || index < 0 || index >= len(b.arr) {
		return nil, false
	}
	return b.arr[index], true
}

// Properties returns the object's members in document order, as a fresh
// slice of read-only Value snapshots; later edits to b are not reflected
// in it.
func (b *Builder) Properties() []Member {
	if b.kind != Object {
		return nil
	}
	out := make([]Member, len(b.obj))
	for i, m := range b.obj {
		out[i] = Member{Name: m.name, Value: m.val.ToValue()}
	}
	return out
}

// Clone deep-copies b into a fresh, independently owned Builder.
func (b *Builder) Clone() *Builder {
	if b == nil {
		return nil
	}
	c := &Builder{kind: b.kind, str: b.str, num: b.num, numLit: b.numLit, hasLit: b.hasLit}
	if b.kind == Array {
		c.arr = make([]*Builder, len(b.arr))
		for i, e := range b.arr {
			c.arr[i] = e.Clone()
		}
	}
	if b.kind == Object {
		c.obj = make([]objMember, len(b.obj))
		for i, m := range b.obj {
			c.obj[i] = objMember{name: m.name, val: m.val.Clone()}
		}
	}
	return c
}

// Assign overwrites b's content with other's, without changing b's
// identity. This is how the pointer package implements "replace/remove the
// entire root subtree": callers hold a *Builder whose address must stay
// stable across such a swap.
func (b *Builder) Assign(other *Builder) {
	*b = *other
}

// ToValue snapshots b into a read-only Value tree.
func (b *Builder) ToValue() Value {
	switch b.kind {
	case Null, Undefined:
		return Value{kind: Null}
	case True:
		return TrueValue()
	case False:
		return FalseValue()
	case Number:
		return Value{kind: Number, num: b.num, numLit: b.numLit, hasLit: b.hasLit}
	case String:
		return Str(b.str)
	case Array:
		items := make([]Value, len(b.arr))
		for i, e := range b.arr {
			items[i] = e.ToValue()
		}
		return ArrayOf(items)
	case Object:
		members := make([]Member, len(b.obj))
		for i, m := range b.obj {
			members[i] = Member{Name: m.name, Value: m.val.ToValue()}
		}
		return ObjectOf(members)
	default:
		return Value{}
	}
}

// ToDocument materializes b into an encoding/json-compatible `any` tree.
func (b *Builder) ToDocument() any {
	return b.ToValue().ToAny()
}
