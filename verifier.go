// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "bytes"

// Verifier is the reporting sink and policy source every verify step
// consults (§4.8). Its own policies are pluggable — a caller may swap in
// a permissive or a strict Verifier, or the trivial NopVerifier below,
// without any validator needing to change.
type Verifier interface {
	// Error reports a non-fatal violation found while verifying element.
	Error(element, message string, args ...interface{})
	// Fatal reports a violation severe enough that the caller should not
	// trust the result, without aborting the traversal — every other
	// verify step still runs.
	Fatal(element, message string, args ...interface{})

	CheckConstTypes() bool
	CheckConstVers() bool
	CheckAccessFlags() bool
	CheckAttrVers() bool
	CheckAttrLocs() bool
	CheckAttrData() bool
	CheckUTF8NullBytes() bool
}

// Policy is a Verifier backed by a Metadata tree: Error/Fatal become
// LevelError/LevelCritical nodes under meta, and its seven boolean fields
// are consulted directly by the Check* methods.
type Policy struct {
	Meta *Metadata

	ConstTypes    bool
	ConstVers     bool
	AccessFlags   bool
	AttrVers      bool
	AttrLocs      bool
	AttrData      bool
	UTF8NullBytes bool
}

// StrictPolicy returns a Policy with every check enabled.
func StrictPolicy(meta *Metadata) *Policy {
	return &Policy{
		Meta: meta,
		ConstTypes: true, ConstVers: true, AccessFlags: true,
		AttrVers: true, AttrLocs: true, AttrData: true, UTF8NullBytes: true,
	}
}

// PermissivePolicy returns a Policy that reports nothing; useful when a
// caller wants the Verifier plumbing present (so verify methods have
// somewhere to report to) without any policy actually firing.
func PermissivePolicy(meta *Metadata) *Policy {
	return &Policy{Meta: meta}
}

func (p *Policy) Error(element, message string, args ...interface{}) {
	p.Meta.Add(LevelError, "verify:"+element, message, args...)
}

func (p *Policy) Fatal(element, message string, args ...interface{}) {
	p.Meta.Add(LevelCritical, "verify:"+element, message, args...)
}

func (p *Policy) CheckConstTypes() bool    { return p.ConstTypes }
func (p *Policy) CheckConstVers() bool     { return p.ConstVers }
func (p *Policy) CheckAccessFlags() bool   { return p.AccessFlags }
func (p *Policy) CheckAttrVers() bool      { return p.AttrVers }
func (p *Policy) CheckAttrLocs() bool      { return p.AttrLocs }
func (p *Policy) CheckAttrData() bool      { return p.AttrData }
func (p *Policy) CheckUTF8NullBytes() bool { return p.UTF8NullBytes }

// NopVerifier accepts everything: every Check* reports false and Error/
// Fatal discard their argument. Explicitly allowed as a trivial
// implementation (§4.8) for callers that only want to decode, not verify.
type NopVerifier struct{}

func (NopVerifier) Error(string, string, ...interface{}) {}
func (NopVerifier) Fatal(string, string, ...interface{}) {}
func (NopVerifier) CheckConstTypes() bool    { return false }
func (NopVerifier) CheckConstVers() bool     { return false }
func (NopVerifier) CheckAccessFlags() bool   { return false }
func (NopVerifier) CheckAttrVers() bool      { return false }
func (NopVerifier) CheckAttrLocs() bool      { return false }
func (NopVerifier) CheckAttrData() bool      { return false }
func (NopVerifier) CheckUTF8NullBytes() bool { return false }

// Verify runs every available validation over c, reporting violations to
// v without aborting on any of them — the caller inspects v's sink (e.g.
// a Policy's Metadata) afterward to decide whether to trust the result.
func Verify(c *ClassFile, v Verifier) {
	verifyConstantPool(c.Pool, c.Version, v)
	verifyAccessFlags("class", c.AccessFlags, v)
	for _, f := range c.Fields {
		verifyAccessFlags("field", f.AccessFlags, v)
	}
	for _, m := range c.Methods {
		verifyAccessFlags("method", m.AccessFlags, v)
	}
}

// verifyConstantPool checks every entry's since against version (when
// CheckConstVers is on) and its sub-reference kinds (when CheckConstTypes
// is on) and Utf8 bodies for embedded NULs (when CheckUTF8NullBytes is on).
func verifyConstantPool(pool *ConstantPool, version Version, v Verifier) {
	if pool.MaxSlot() > 65535 {
		v.Fatal("pool", "constant pool holds %d slots, more than the format's 65535", pool.MaxSlot())
	}
	for _, e := range pool.Entries() {
		if v.CheckConstVers() && version.Less(e.Entry.Since()) {
			v.Error("pool", "constant at slot %d requires class version >= %s, file is %s",
				e.Slot, e.Entry.Since(), version)
		}
		if v.CheckConstTypes() {
			verifyConstantKind(e.Entry, v)
		}
		if u, ok := e.Entry.(*Utf8Entry); ok {
			if v.CheckConstTypes() && len(u.Bytes) > 65535 {
				v.Error("pool", "Utf8 at slot %d exceeds 65535 bytes", e.Slot)
			}
			if v.CheckUTF8NullBytes() && bytes.IndexByte(u.Bytes, 0) >= 0 {
				v.Error("pool", "Utf8 at slot %d contains an embedded NUL byte", e.Slot)
			}
		}
	}
}

// verifyConstantKind checks that each entry's sub-references resolve to
// the kind the JVM spec requires (e.g. a Class's name must be a Utf8).
func verifyConstantKind(entry ConstantEntry, v Verifier) {
	isUtf8 := func(e ConstantEntry) bool { _, ok := e.(*Utf8Entry); return ok }
	isClass := func(e ConstantEntry) bool { _, ok := e.(*ClassEntry); return ok }
	isNameAndType := func(e ConstantEntry) bool { _, ok := e.(*NameAndTypeEntry); return ok }

	switch e := entry.(type) {
	case *ClassEntry:
		if !isUtf8(e.Name) {
			v.Error("pool", "Class entry's name does not reference a Utf8")
		}
	case *StringEntry:
		if !isUtf8(e.Value) {
			v.Error("pool", "String entry's value does not reference a Utf8")
		}
	case *NameAndTypeEntry:
		if !isUtf8(e.Name) || !isUtf8(e.Descriptor) {
			v.Error("pool", "NameAndType entry's name/descriptor does not reference a Utf8")
		}
	case *FieldRefEntry:
		if !isClass(e.Class) || !isNameAndType(e.NameAndType) {
			v.Error("pool", "FieldRef entry references the wrong kind")
		}
	case *MethodRefEntry:
		if !isClass(e.Class) || !isNameAndType(e.NameAndType) {
			v.Error("pool", "MethodRef entry references the wrong kind")
		}
	case *InterfaceMethodRefEntry:
		if !isClass(e.Class) || !isNameAndType(e.NameAndType) {
			v.Error("pool", "InterfaceMethodRef entry references the wrong kind")
		}
	case *MethodHandleEntry:
		verifyMethodHandle(e, v)
	case *MethodTypeEntry:
		if !isUtf8(e.Descriptor) {
			v.Error("pool", "MethodType entry's descriptor does not reference a Utf8")
		}
	}
}

// verifyMethodHandle checks a MethodHandle's reference against its kind
// (JVM Table 4.4.8-A): field kinds (1-4) take a FieldRef, invoke kinds
// (5-8) a MethodRef (6 and 7 also accept an InterfaceMethodRef; the class
// file version is not consulted), kind 9 an InterfaceMethodRef. Kinds 5, 6, 7 and 9 must not
// target <init> or <clinit>; kind 8 must target exactly <init>.
func verifyMethodHandle(e *MethodHandleEntry, v Verifier) {
	switch e.Kind {
	case RefGetField, RefGetStatic, RefPutField, RefPutStatic:
		if _, ok := e.Reference.(*FieldRefEntry); !ok {
			v.Error("pool", "MethodHandle kind %d requires a FieldRef reference", e.Kind)
		}
	case RefInvokeVirtual, RefNewInvokeSpecial:
		if _, ok := e.Reference.(*MethodRefEntry); !ok {
			v.Error("pool", "MethodHandle kind %d requires a MethodRef reference", e.Kind)
		}
	case RefInvokeStatic, RefInvokeSpecial:
		switch e.Reference.(type) {
		case *MethodRefEntry, *InterfaceMethodRefEntry:
		default:
			v.Error("pool", "MethodHandle kind %d requires a MethodRef or InterfaceMethodRef reference", e.Kind)
		}
	case RefInvokeInterface:
		if _, ok := e.Reference.(*InterfaceMethodRefEntry); !ok {
			v.Error("pool", "MethodHandle kind %d requires an InterfaceMethodRef reference", e.Kind)
		}
	default:
		v.Error("pool", "MethodHandle entry has an invalid reference kind %d", e.Kind)
		return
	}

	name, ok := methodHandleTargetName(e.Reference)
	if !ok {
		return
	}
	switch e.Kind {
	case RefInvokeVirtual, RefInvokeStatic, RefInvokeSpecial, RefInvokeInterface:
		if name == "<init>" || name == "<clinit>" {
			v.Error("pool", "MethodHandle kind %d must not reference %s", e.Kind, name)
		}
	case RefNewInvokeSpecial:
		if name != "<init>" {
			v.Error("pool", "MethodHandle kind 8 must reference <init>, not %q", name)
		}
	}
}

// methodHandleTargetName digs the referenced member's name out of a
// fully-resolved ref entry; unresolved or mismatched shapes report false
// (they are flagged by the kind checks above already).
func methodHandleTargetName(ref ConstantEntry) (string, bool) {
	r := asRefEntry(ref)
	if r == nil {
		return "", false
	}
	nat, ok := r.NameAndType.(*NameAndTypeEntry)
	if !ok {
		return "", false
	}
	name, ok := nat.Name.(*Utf8Entry)
	if !ok {
		return "", false
	}
	return name.String(), true
}

// verifyAccessFlags reports nonsensical combinations (§4.1/§4.5/§4.6): a
// class cannot be both final and abstract, an interface must be abstract
// and cannot be final, at most one of public/private/protected may be set.
func verifyAccessFlags(kind string, flags AccessFlags, v Verifier) {
	if !v.CheckAccessFlags() {
		return
	}
	if flags.Has(AccFinal) && flags.Has(AccAbstract) {
		v.Error(kind, "access flags set both final and abstract")
	}
	visibility := 0
	for _, bit := range []AccessFlags{AccPublic, AccPrivate, AccProtected} {
		if flags.Has(bit) {
			visibility++
		}
	}
	if visibility > 1 {
		v.Error(kind, "access flags set more than one of public/private/protected")
	}
	if kind == "class" && flags.Has(AccInterface) {
		if flags.Has(AccFinal) {
			v.Error(kind, "interface access flags must not set final")
		}
		if !flags.Has(AccAbstract) {
			v.Error(kind, "interface access flags must set abstract")
		}
	}
}
