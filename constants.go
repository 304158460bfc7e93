// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"io"
)

// Tag bytes for the 17 user-visible constant pool entry kinds (JVM §4.4),
// plus the internal Placeholder kind which carries no tag byte of its own.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldRef           = 9
	TagMethodRef          = 10
	TagInterfaceMethodRef = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagDynamic            = 17
	TagInvokeDynamic      = 18
	TagModule             = 19
	TagPackage            = 20
)

// Reference kinds for MethodHandle (JVM Table 4.4.8-A).
const (
	RefGetField         = 1
	RefGetStatic        = 2
	RefPutField         = 3
	RefPutStatic        = 4
	RefInvokeVirtual    = 5
	RefInvokeStatic     = 6
	RefInvokeSpecial    = 7
	RefNewInvokeSpecial = 8
	RefInvokeInterface  = 9
)

// ConstantEntry is the tagged-sum interface every constant pool entry
// implements. Kinds are Go structs rather than subclasses (§9): dispatch
// on Tag() replaces the source's runtime __subclasses__() walk.
type ConstantEntry interface {
	// Tag returns the entry's wire tag byte.
	Tag() uint8
	// Wide reports whether the entry occupies two consecutive pool slots
	// (Long, Double).
	Wide() bool
	// Since is the earliest class file version this kind is legal in.
	Since() Version
	// Loadable reports whether this kind may be the operand of ldc/ldc_w/
	// ldc2_w.
	Loadable() bool
	// encode writes the entry's tag byte and payload (not its slot).
	encode(s io.Writer, pool *ConstantPool) error
	// equalValue reports value equality, ignoring OriginalIndex, used by
	// ConstantPool.Add/Index's value-only fallback match.
	equalValue(other ConstantEntry) bool
	// originalIndex returns the slot this entry occupied when it was read
	// from a stream, or -1 if it was constructed in memory.
	originalIndex() int
	setOriginalIndex(i int)
}

// entryBase is embedded by every concrete kind to provide OriginalIndex
// bookkeeping without repeating it per kind.
type entryBase struct {
	OriginalIndex int
}

func (e *entryBase) originalIndex() int     { return e.OriginalIndex }
func (e *entryBase) setOriginalIndex(i int) { e.OriginalIndex = i }

// newEntryBase returns an entryBase flagged as not yet placed in a pool.
func newEntryBase() entryBase { return entryBase{OriginalIndex: -1} }

// Placeholder fills slot 0, the slot following a wide entry, or (during the
// first read pass) a forward reference that has not yet been populated.
// It is never user-constructed outside the pool's own bookkeeping.
type Placeholder struct {
	// Index is the slot this Placeholder stands for: slot 0, the slot
	// reserved behind a wide entry, an unpopulated slot returned by At, or
	// the target of an unresolved reference. For a reference it is the
	// slot the eventual write must still serialize, even if nothing ever resolves it (§7
	// IndexOutOfRange: "the reference becomes a Placeholder that
	// subsequent writes will still serialize as the original index").
	Index uint16
}

func (Placeholder) Tag() uint8     { return 0 }
func (Placeholder) Wide() bool     { return false }
func (Placeholder) Since() Version { return Version1_0 }
func (Placeholder) Loadable() bool { return false }
func (p Placeholder) equalValue(other ConstantEntry) bool {
	o, ok := other.(Placeholder)
	return ok && o.Index == p.Index
}
func (p Placeholder) encode(io.Writer, *ConstantPool) error {
	return ErrUnresolvedPlaceholder
}

// Placeholders are never deduplicated by original index: the pool treats
// every Placeholder as transient bookkeeping, not a user-addressable value.
func (Placeholder) originalIndex() int      { return -1 }
func (Placeholder) setOriginalIndex(int)    {}

// Utf8Entry holds a modified-UTF-8 byte sequence.
type Utf8Entry struct {
	entryBase
	Bytes []byte
}

func NewUtf8(s string) *Utf8Entry { return &Utf8Entry{entryBase: newEntryBase(), Bytes: EncodeMUTF8(s)} }

func (e *Utf8Entry) Tag() uint8     { return TagUtf8 }
func (e *Utf8Entry) Wide() bool     { return false }
func (e *Utf8Entry) Since() Version { return Version1_0 }
func (e *Utf8Entry) Loadable() bool { return false }
func (e *Utf8Entry) String() string { return DecodeMUTF8(e.Bytes) }
func (e *Utf8Entry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*Utf8Entry)
	return ok && string(o.Bytes) == string(e.Bytes)
}
func (e *Utf8Entry) encode(s io.Writer, _ *ConstantPool) error {
	if len(e.Bytes) > 65535 {
		return fmt.Errorf("classfile: Utf8 entry exceeds 65535 bytes")
	}
	if err := WriteU16(s, uint16(len(e.Bytes))); err != nil {
		return err
	}
	return WriteBytes(s, e.Bytes)
}
func decodeUtf8(s io.Reader) (*Utf8Entry, error) {
	n, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	b, err := ReadBytes(s, int(n))
	if err != nil {
		return nil, err
	}
	return &Utf8Entry{entryBase: newEntryBase(), Bytes: b}, nil
}

// IntegerEntry holds a 32-bit signed integer.
type IntegerEntry struct {
	entryBase
	Value int32
}

func NewInteger(v int32) *IntegerEntry { return &IntegerEntry{entryBase: newEntryBase(), Value: v} }
func (e *IntegerEntry) Tag() uint8      { return TagInteger }
func (e *IntegerEntry) Wide() bool      { return false }
func (e *IntegerEntry) Since() Version  { return Version1_0 }
func (e *IntegerEntry) Loadable() bool  { return true }
func (e *IntegerEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*IntegerEntry)
	return ok && o.Value == e.Value
}
func (e *IntegerEntry) encode(s io.Writer, _ *ConstantPool) error { return WriteI32(s, e.Value) }
func decodeInteger(s io.Reader) (*IntegerEntry, error) {
	v, err := ReadI32(s)
	if err != nil {
		return nil, err
	}
	return &IntegerEntry{entryBase: newEntryBase(), Value: v}, nil
}

// FloatEntry holds an IEEE-754 single-precision float.
type FloatEntry struct {
	entryBase
	Value float32
}

func NewFloat(v float32) *FloatEntry { return &FloatEntry{entryBase: newEntryBase(), Value: v} }
func (e *FloatEntry) Tag() uint8      { return TagFloat }
func (e *FloatEntry) Wide() bool      { return false }
func (e *FloatEntry) Since() Version  { return Version1_0 }
func (e *FloatEntry) Loadable() bool  { return true }
func (e *FloatEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*FloatEntry)
	return ok && o.Value == e.Value
}
func (e *FloatEntry) encode(s io.Writer, _ *ConstantPool) error { return WriteF32(s, e.Value) }
func decodeFloat(s io.Reader) (*FloatEntry, error) {
	v, err := ReadF32(s)
	if err != nil {
		return nil, err
	}
	return &FloatEntry{entryBase: newEntryBase(), Value: v}, nil
}

// LongEntry holds a 64-bit signed integer. It is wide: it reserves the
// slot after it for a Placeholder.
type LongEntry struct {
	entryBase
	Value int64
}

func NewLong(v int64) *LongEntry { return &LongEntry{entryBase: newEntryBase(), Value: v} }
func (e *LongEntry) Tag() uint8      { return TagLong }
func (e *LongEntry) Wide() bool      { return true }
func (e *LongEntry) Since() Version  { return Version1_0 }
func (e *LongEntry) Loadable() bool  { return true }
func (e *LongEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*LongEntry)
	return ok && o.Value == e.Value
}
func (e *LongEntry) encode(s io.Writer, _ *ConstantPool) error { return WriteI64(s, e.Value) }
func decodeLong(s io.Reader) (*LongEntry, error) {
	v, err := ReadI64(s)
	if err != nil {
		return nil, err
	}
	return &LongEntry{entryBase: newEntryBase(), Value: v}, nil
}

// DoubleEntry holds an IEEE-754 double-precision float. Wide, like Long.
type DoubleEntry struct {
	entryBase
	Value float64
}

func NewDouble(v float64) *DoubleEntry { return &DoubleEntry{entryBase: newEntryBase(), Value: v} }
func (e *DoubleEntry) Tag() uint8      { return TagDouble }
func (e *DoubleEntry) Wide() bool      { return true }
func (e *DoubleEntry) Since() Version  { return Version1_0 }
func (e *DoubleEntry) Loadable() bool  { return true }
func (e *DoubleEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*DoubleEntry)
	return ok && o.Value == e.Value
}
func (e *DoubleEntry) encode(s io.Writer, _ *ConstantPool) error { return WriteF64(s, e.Value) }
func decodeDouble(s io.Reader) (*DoubleEntry, error) {
	v, err := ReadF64(s)
	if err != nil {
		return nil, err
	}
	return &DoubleEntry{entryBase: newEntryBase(), Value: v}, nil
}

// ClassEntry references a Utf8 holding a (possibly array) internal class
// name, e.g. "java/lang/Object" or "[I".
type ClassEntry struct {
	entryBase
	Name ConstantEntry // resolves to *Utf8Entry (or Placeholder mid-read)
}

func NewClass(name *Utf8Entry) *ClassEntry { return &ClassEntry{entryBase: newEntryBase(), Name: name} }
func (e *ClassEntry) Tag() uint8      { return TagClass }
func (e *ClassEntry) Wide() bool      { return false }
func (e *ClassEntry) Since() Version  { return Version1_0 }
func (e *ClassEntry) Loadable() bool  { return true }
func (e *ClassEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*ClassEntry)
	return ok && refEqual(o.Name, e.Name)
}
func (e *ClassEntry) encode(s io.Writer, pool *ConstantPool) error {
	return WriteU16(s, uint16(pool.indexOrAdd(e.Name)))
}
func decodeClassEntry(s io.Reader, pool *ConstantPool) (*ClassEntry, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &ClassEntry{entryBase: newEntryBase(), Name: pool.resolveOrPlaceholder(idx)}, nil
}

// StringEntry references a Utf8 holding the string's modified-UTF-8 bytes.
type StringEntry struct {
	entryBase
	Value ConstantEntry // resolves to *Utf8Entry
}

func NewString(v *Utf8Entry) *StringEntry { return &StringEntry{entryBase: newEntryBase(), Value: v} }
func (e *StringEntry) Tag() uint8      { return TagString }
func (e *StringEntry) Wide() bool      { return false }
func (e *StringEntry) Since() Version  { return Version1_0 }
func (e *StringEntry) Loadable() bool  { return true }
func (e *StringEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*StringEntry)
	return ok && refEqual(o.Value, e.Value)
}
func (e *StringEntry) encode(s io.Writer, pool *ConstantPool) error {
	return WriteU16(s, uint16(pool.indexOrAdd(e.Value)))
}
func decodeStringEntry(s io.Reader, pool *ConstantPool) (*StringEntry, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &StringEntry{entryBase: newEntryBase(), Value: pool.resolveOrPlaceholder(idx)}, nil
}

// NameAndTypeEntry pairs a member's name with its descriptor, both Utf8.
type NameAndTypeEntry struct {
	entryBase
	Name       ConstantEntry
	Descriptor ConstantEntry
}

func NewNameAndType(name, descriptor *Utf8Entry) *NameAndTypeEntry {
	return &NameAndTypeEntry{entryBase: newEntryBase(), Name: name, Descriptor: descriptor}
}
func (e *NameAndTypeEntry) Tag() uint8      { return TagNameAndType }
func (e *NameAndTypeEntry) Wide() bool      { return false }
func (e *NameAndTypeEntry) Since() Version  { return Version1_0 }
func (e *NameAndTypeEntry) Loadable() bool  { return false }
func (e *NameAndTypeEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*NameAndTypeEntry)
	return ok && refEqual(o.Name, e.Name) && refEqual(o.Descriptor, e.Descriptor)
}
func (e *NameAndTypeEntry) encode(s io.Writer, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(pool.indexOrAdd(e.Name))); err != nil {
		return err
	}
	return WriteU16(s, uint16(pool.indexOrAdd(e.Descriptor)))
}
func decodeNameAndType(s io.Reader, pool *ConstantPool) (*NameAndTypeEntry, error) {
	nameIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	descIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &NameAndTypeEntry{
		entryBase:  newEntryBase(),
		Name:       pool.resolveOrPlaceholder(nameIdx),
		Descriptor: pool.resolveOrPlaceholder(descIdx),
	}, nil
}

// refEntry is the shared shape of FieldRef/MethodRef/InterfaceMethodRef:
// a Class plus a NameAndType.
type refEntry struct {
	entryBase
	Class       ConstantEntry
	NameAndType ConstantEntry
	tag         uint8
}

func (e *refEntry) Tag() uint8      { return e.tag }
func (e *refEntry) Wide() bool      { return false }
func (e *refEntry) Since() Version  { return Version1_0 }
func (e *refEntry) Loadable() bool  { return false }
func (e *refEntry) equalValue(other ConstantEntry) bool {
	o := asRefEntry(other)
	return o != nil && o.tag == e.tag && refEqual(o.Class, e.Class) && refEqual(o.NameAndType, e.NameAndType)
}

// asRefEntry unwraps FieldRefEntry/MethodRefEntry/InterfaceMethodRefEntry
// (each a bare embedding of refEntry) back to their shared shape, since a
// type assertion against *refEntry itself never matches the embedding
// wrapper's dynamic type.
func asRefEntry(e ConstantEntry) *refEntry {
	switch v := e.(type) {
	case *FieldRefEntry:
		return &v.refEntry
	case *MethodRefEntry:
		return &v.refEntry
	case *InterfaceMethodRefEntry:
		return &v.refEntry
	case *refEntry:
		return v
	default:
		return nil
	}
}
func (e *refEntry) encode(s io.Writer, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(pool.indexOrAdd(e.Class))); err != nil {
		return err
	}
	return WriteU16(s, uint16(pool.indexOrAdd(e.NameAndType)))
}
func decodeRefEntry(s io.Reader, pool *ConstantPool, tag uint8) (*refEntry, error) {
	classIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	natIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &refEntry{
		entryBase:   newEntryBase(),
		Class:       pool.resolveOrPlaceholder(classIdx),
		NameAndType: pool.resolveOrPlaceholder(natIdx),
		tag:         tag,
	}, nil
}

// FieldRefEntry, MethodRefEntry and InterfaceMethodRefEntry are distinct
// wire kinds wrapping the same shape; named types keep type switches in
// attribute/verify code legible (the Tag() already disambiguates, but a
// type switch reads better than three if-Tag()== checks).
type FieldRefEntry struct{ refEntry }
type MethodRefEntry struct{ refEntry }
type InterfaceMethodRefEntry struct{ refEntry }

func NewFieldRef(class *ClassEntry, nat *NameAndTypeEntry) *FieldRefEntry {
	return &FieldRefEntry{refEntry{entryBase: newEntryBase(), Class: class, NameAndType: nat, tag: TagFieldRef}}
}
func NewMethodRef(class *ClassEntry, nat *NameAndTypeEntry) *MethodRefEntry {
	return &MethodRefEntry{refEntry{entryBase: newEntryBase(), Class: class, NameAndType: nat, tag: TagMethodRef}}
}
func NewInterfaceMethodRef(class *ClassEntry, nat *NameAndTypeEntry) *InterfaceMethodRefEntry {
	return &InterfaceMethodRefEntry{refEntry{entryBase: newEntryBase(), Class: class, NameAndType: nat, tag: TagInterfaceMethodRef}}
}

// MethodHandleEntry names a kind of member reference (getfield,
// invokestatic, ...) and the pool entry it targets.
type MethodHandleEntry struct {
	entryBase
	Kind      uint8
	Reference ConstantEntry // FieldRef, MethodRef, or InterfaceMethodRef
}

func (e *MethodHandleEntry) Tag() uint8     { return TagMethodHandle }
func (e *MethodHandleEntry) Wide() bool     { return false }
func (e *MethodHandleEntry) Since() Version { return Version7 }
func (e *MethodHandleEntry) Loadable() bool { return true }
func (e *MethodHandleEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*MethodHandleEntry)
	return ok && o.Kind == e.Kind && refEqual(o.Reference, e.Reference)
}
func (e *MethodHandleEntry) encode(s io.Writer, pool *ConstantPool) error {
	if err := WriteU8(s, e.Kind); err != nil {
		return err
	}
	return WriteU16(s, uint16(pool.indexOrAdd(e.Reference)))
}
func decodeMethodHandle(s io.Reader, pool *ConstantPool) (*MethodHandleEntry, error) {
	kind, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &MethodHandleEntry{entryBase: newEntryBase(), Kind: kind, Reference: pool.resolveOrPlaceholder(idx)}, nil
}

// MethodTypeEntry references a Utf8 method descriptor.
type MethodTypeEntry struct {
	entryBase
	Descriptor ConstantEntry
}

func (e *MethodTypeEntry) Tag() uint8     { return TagMethodType }
func (e *MethodTypeEntry) Wide() bool     { return false }
func (e *MethodTypeEntry) Since() Version { return Version7 }
func (e *MethodTypeEntry) Loadable() bool { return true }
func (e *MethodTypeEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*MethodTypeEntry)
	return ok && refEqual(o.Descriptor, e.Descriptor)
}
func (e *MethodTypeEntry) encode(s io.Writer, pool *ConstantPool) error {
	return WriteU16(s, uint16(pool.indexOrAdd(e.Descriptor)))
}
func decodeMethodType(s io.Reader, pool *ConstantPool) (*MethodTypeEntry, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &MethodTypeEntry{entryBase: newEntryBase(), Descriptor: pool.resolveOrPlaceholder(idx)}, nil
}

// dynamicEntry is the shared shape of Dynamic and InvokeDynamic: an index
// into the class's BootstrapMethods attribute plus a NameAndType.
type dynamicEntry struct {
	entryBase
	BootstrapMethodIndex uint16
	NameAndType          ConstantEntry
	tag                  uint8
}

func (e *dynamicEntry) Tag() uint8     { return e.tag }
func (e *dynamicEntry) Wide() bool     { return false }
func (e *dynamicEntry) Since() Version {
	if e.tag == TagDynamic {
		return Version11
	}
	return Version7
}
func (e *dynamicEntry) Loadable() bool { return e.tag == TagDynamic }
func (e *dynamicEntry) equalValue(other ConstantEntry) bool {
	o := asDynamicEntry(other)
	return o != nil && o.tag == e.tag && o.BootstrapMethodIndex == e.BootstrapMethodIndex && refEqual(o.NameAndType, e.NameAndType)
}

// asDynamicEntry unwraps DynamicEntry/InvokeDynamicEntry back to their
// shared shape; see asRefEntry for why a bare type assertion can't do this.
func asDynamicEntry(e ConstantEntry) *dynamicEntry {
	switch v := e.(type) {
	case *DynamicEntry:
		return &v.dynamicEntry
	case *InvokeDynamicEntry:
		return &v.dynamicEntry
	case *dynamicEntry:
		return v
	default:
		return nil
	}
}
func (e *dynamicEntry) encode(s io.Writer, pool *ConstantPool) error {
	if err := WriteU16(s, e.BootstrapMethodIndex); err != nil {
		return err
	}
	return WriteU16(s, uint16(pool.indexOrAdd(e.NameAndType)))
}
func decodeDynamicEntry(s io.Reader, pool *ConstantPool, tag uint8) (*dynamicEntry, error) {
	bsmIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	natIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &dynamicEntry{
		entryBase:            newEntryBase(),
		BootstrapMethodIndex: bsmIdx,
		NameAndType:          pool.resolveOrPlaceholder(natIdx),
		tag:                  tag,
	}, nil
}

type DynamicEntry struct{ dynamicEntry }
type InvokeDynamicEntry struct{ dynamicEntry }

// ModuleEntry and PackageEntry both reference a single Utf8 name.
type ModuleEntry struct {
	entryBase
	Name ConstantEntry
}

func (e *ModuleEntry) Tag() uint8     { return TagModule }
func (e *ModuleEntry) Wide() bool     { return false }
func (e *ModuleEntry) Since() Version { return Version9 }
func (e *ModuleEntry) Loadable() bool { return false }
func (e *ModuleEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*ModuleEntry)
	return ok && refEqual(o.Name, e.Name)
}
func (e *ModuleEntry) encode(s io.Writer, pool *ConstantPool) error {
	return WriteU16(s, uint16(pool.indexOrAdd(e.Name)))
}
func decodeModule(s io.Reader, pool *ConstantPool) (*ModuleEntry, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &ModuleEntry{entryBase: newEntryBase(), Name: pool.resolveOrPlaceholder(idx)}, nil
}

type PackageEntry struct {
	entryBase
	Name ConstantEntry
}

func (e *PackageEntry) Tag() uint8     { return TagPackage }
func (e *PackageEntry) Wide() bool     { return false }
func (e *PackageEntry) Since() Version { return Version9 }
func (e *PackageEntry) Loadable() bool { return false }
func (e *PackageEntry) equalValue(other ConstantEntry) bool {
	o, ok := other.(*PackageEntry)
	return ok && refEqual(o.Name, e.Name)
}
func (e *PackageEntry) encode(s io.Writer, pool *ConstantPool) error {
	return WriteU16(s, uint16(pool.indexOrAdd(e.Name)))
}
func decodePackage(s io.Reader, pool *ConstantPool) (*PackageEntry, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &PackageEntry{entryBase: newEntryBase(), Name: pool.resolveOrPlaceholder(idx)}, nil
}

// refEqual compares two possibly-Placeholder references the way the pool's
// second pass expects: by resolved value once both sides are real entries,
// or by raw index while either side is still a Placeholder.
func refEqual(a, b ConstantEntry) bool {
	if a == nil || b == nil {
		return a == b
	}
	ap, aIsPlaceholder := a.(Placeholder)
	bp, bIsPlaceholder := b.(Placeholder)
	if aIsPlaceholder || bIsPlaceholder {
		if aIsPlaceholder && bIsPlaceholder {
			return ap.Index == bp.Index
		}
		return false
	}
	return a.equalValue(b)
}

// decodeEntryAt reads one tagged constant entry (tag byte plus payload).
// Sub-references that point at not-yet-populated slots resolve to an
// ephemeral Placeholder{Index}; ReadConstantPool's second pass
// (patchForwardReferences) replaces
// these once every slot has been placed (§4.3, §9).
func decodeEntryAt(s io.Reader, pool *ConstantPool) (ConstantEntry, error) {
	tag, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagUtf8:
		return decodeUtf8(s)
	case TagInteger:
		return decodeInteger(s)
	case TagFloat:
		return decodeFloat(s)
	case TagLong:
		return decodeLong(s)
	case TagDouble:
		return decodeDouble(s)
	case TagClass:
		return decodeClassEntry(s, pool)
	case TagString:
		return decodeStringEntry(s, pool)
	case TagFieldRef:
		e, err := decodeRefEntry(s, pool, tag)
		if err != nil {
			return nil, err
		}
		return &FieldRefEntry{*e}, nil
	case TagMethodRef:
		e, err := decodeRefEntry(s, pool, tag)
		if err != nil {
			return nil, err
		}
		return &MethodRefEntry{*e}, nil
	case TagInterfaceMethodRef:
		e, err := decodeRefEntry(s, pool, tag)
		if err != nil {
			return nil, err
		}
		return &InterfaceMethodRefEntry{*e}, nil
	case TagNameAndType:
		return decodeNameAndType(s, pool)
	case TagMethodHandle:
		return decodeMethodHandle(s, pool)
	case TagMethodType:
		return decodeMethodType(s, pool)
	case TagDynamic:
		e, err := decodeDynamicEntry(s, pool, tag)
		if err != nil {
			return nil, err
		}
		return &DynamicEntry{*e}, nil
	case TagInvokeDynamic:
		e, err := decodeDynamicEntry(s, pool, tag)
		if err != nil {
			return nil, err
		}
		return &InvokeDynamicEntry{*e}, nil
	case TagModule:
		return decodeModule(s, pool)
	case TagPackage:
		return decodePackage(s, pool)
	default:
		return nil, ErrUnknownTag
	}
}
