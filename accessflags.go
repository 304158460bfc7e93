// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// AccessFlags is the access_flags bitmask shared by ClassFile, Field,
// Method, and InnerClassRecord (§4.1, §4.5, §4.6, §4.7.6); which bits are
// legal depends on which of those four contexts it appears in.
type AccessFlags uint16

// Flag bits, named per JVM Table 4.1-A / 4.5-A / 4.6-A / 4.7.6-A. Not every
// flag is legal in every context; Has just tests the bit.
const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // class: pre-JDK-1.0.2 invokespecial semantics
	AccSynchronized AccessFlags = 0x0020 // method
	AccOpen         AccessFlags = 0x0020 // module
	AccTransitive   AccessFlags = 0x0020 // module requires
	AccVolatile     AccessFlags = 0x0040 // field
	AccBridge       AccessFlags = 0x0040 // method
	AccStaticPhase  AccessFlags = 0x0040 // module requires
	AccVarargs      AccessFlags = 0x0080 // method
	AccTransient    AccessFlags = 0x0080 // field
	AccNative       AccessFlags = 0x0100 // method
	AccInterface    AccessFlags = 0x0200 // class
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800 // method, pre-17 only
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000 // class
	AccEnum         AccessFlags = 0x4000 // class, field
	AccModule       AccessFlags = 0x8000 // class
	AccMandated     AccessFlags = 0x8000 // module, module requires/exports/opens
)

// Has reports whether every bit set in flag is also set in f.
func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag == flag }

// String renders one name per set bit. Shared bits (0x0020, 0x0040,
// 0x0080, 0x8000) print their class/field reading; without knowing which
// context the mask came from, the method-/module-context aliases cannot be
// told apart from it.
func (f AccessFlags) String() string {
	names := []struct {
		bit  AccessFlags
		name string
	}{
		{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
		{AccStatic, "static"}, {AccFinal, "final"}, {AccSuper, "super"},
		{AccVolatile, "volatile"}, {AccTransient, "transient"},
		{AccNative, "native"}, {AccInterface, "interface"},
		{AccAbstract, "abstract"}, {AccStrict, "strict"}, {AccSynthetic, "synthetic"},
		{AccAnnotation, "annotation"}, {AccEnum, "enum"}, {AccModule, "module"},
	}
	var out string
	for _, n := range names {
		if f.Has(n.bit) {
			if out != "" {
				out += " "
			}
			out += n.name
		}
	}
	return out
}
