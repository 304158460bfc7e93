// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestConstantValueEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	val := NewInteger(42)
	pool.Add(val)

	c := &ConstantValue{Value: val}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeConstantValue(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeConstantValue: %v", err)
	}
	if got := body.(*ConstantValue); !refEqual(got.Value, val) {
		t.Errorf("Value = %v, want %v", got.Value, val)
	}
}

func TestSyntheticDeprecatedEmptyBody(t *testing.T) {
	buf := NewBuffer(nil)
	if err := (Synthetic{}).encode(buf, nil); err != nil {
		t.Fatalf("Synthetic.encode: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Synthetic wrote %d bytes, want 0", buf.Len())
	}
	if _, err := decodeSynthetic(buf, nil, Version8, 0, nil); err != nil {
		t.Fatalf("decodeSynthetic: %v", err)
	}
	if _, err := decodeDeprecated(buf, nil, Version8, 0, nil); err != nil {
		t.Fatalf("decodeDeprecated: %v", err)
	}
}

func TestSourceFileEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	name := NewUtf8("Main.java")
	pool.Add(name)

	c := &SourceFile{Name: name}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeSourceFile(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeSourceFile: %v", err)
	}
	if got := body.(*SourceFile).Name.(*Utf8Entry).String(); got != "Main.java" {
		t.Errorf("Name = %q, want Main.java", got)
	}
}

func TestSourceDebugExtensionRoundTrip(t *testing.T) {
	c := &SourceDebugExtension{Bytes: []byte("SMAP\nMain.java\n")}
	buf := NewBuffer(nil)
	if err := c.encode(buf, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeSourceDebugExtension(buf, nil, Version5, uint32(len(c.Bytes)), NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeSourceDebugExtension: %v", err)
	}
	if string(body.(*SourceDebugExtension).Bytes) != string(c.Bytes) {
		t.Errorf("Bytes mismatch")
	}
}

func TestExceptionsEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	ioException := NewClass(NewUtf8("java/io/IOException"))
	pool.Add(ioException)

	c := &Exceptions{Classes: []ConstantEntry{ioException}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeExceptions(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeExceptions: %v", err)
	}
	got := body.(*Exceptions)
	if len(got.Classes) != 1 || !refEqual(got.Classes[0], ioException) {
		t.Errorf("Classes = %v, want [%v]", got.Classes, ioException)
	}
}

func TestInnerClassesEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	inner := NewClass(NewUtf8("Outer$Inner"))
	outer := NewClass(NewUtf8("Outer"))
	name := NewUtf8("Inner")
	pool.Add(inner)
	pool.Add(outer)
	pool.Add(name)

	c := &InnerClasses{Classes: []InnerClassRecord{
		{Inner: inner, Outer: outer, Name: name, AccessFlag: uint16(AccPublic | AccStatic)},
	}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeInnerClasses(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeInnerClasses: %v", err)
	}
	got := body.(*InnerClasses)
	if len(got.Classes) != 1 || !refEqual(got.Classes[0].Inner, inner) {
		t.Errorf("Classes = %+v", got.Classes)
	}
}

func TestInnerClassesAnonymousOmitsNameAndOuter(t *testing.T) {
	pool := NewConstantPool()
	inner := NewClass(NewUtf8("Outer$1"))
	pool.Add(inner)

	c := &InnerClasses{Classes: []InnerClassRecord{{Inner: inner}}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeInnerClasses(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeInnerClasses: %v", err)
	}
	got := body.(*InnerClasses).Classes[0]
	if got.Outer != nil || got.Name != nil {
		t.Errorf("anonymous record = %+v, want nil Outer and Name", got)
	}
}

func TestEnclosingMethodEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	class := NewClass(NewUtf8("Outer"))
	nat := NewNameAndType(NewUtf8("run"), NewUtf8("()V"))
	pool.Add(class)
	pool.Add(nat)

	c := &EnclosingMethod{Class: class, NameAndType: nat}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeEnclosingMethod(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeEnclosingMethod: %v", err)
	}
	got := body.(*EnclosingMethod)
	if !refEqual(got.Class, class) || !refEqual(got.NameAndType, nat) {
		t.Errorf("got = %+v", got)
	}
}

func TestSignatureEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	sig := NewUtf8("Ljava/util/List<Ljava/lang/String;>;")
	pool.Add(sig)

	c := &Signature{Value: sig}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeSignature(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeSignature: %v", err)
	}
	if !refEqual(body.(*Signature).Value, sig) {
		t.Errorf("Value mismatch")
	}
}

func TestNestHostAndMembersRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	host := NewClass(NewUtf8("Outer"))
	member := NewClass(NewUtf8("Outer$Inner"))
	pool.Add(host)
	pool.Add(member)

	hc := &NestHost{Host: host}
	buf := NewBuffer(nil)
	if err := hc.encode(buf, pool); err != nil {
		t.Fatalf("encode NestHost: %v", err)
	}
	buf.Seek(0, 0)
	hostBody, err := decodeNestHost(buf, pool, Version11, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeNestHost: %v", err)
	}
	if !refEqual(hostBody.(*NestHost).Host, host) {
		t.Errorf("Host mismatch")
	}

	mc := &NestMembers{Members: []ConstantEntry{member}}
	buf2 := NewBuffer(nil)
	if err := mc.encode(buf2, pool); err != nil {
		t.Fatalf("encode NestMembers: %v", err)
	}
	buf2.Seek(0, 0)
	membersBody, err := decodeNestMembers(buf2, pool, Version11, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeNestMembers: %v", err)
	}
	if len(membersBody.(*NestMembers).Members) != 1 {
		t.Errorf("Members = %v, want 1 entry", membersBody.(*NestMembers).Members)
	}
}

func TestPermittedSubclassesRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	sub := NewClass(NewUtf8("Shape$Circle"))
	pool.Add(sub)

	c := &PermittedSubclasses{Subclasses: []ConstantEntry{sub}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodePermittedSubclasses(buf, pool, Version17, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodePermittedSubclasses: %v", err)
	}
	if len(body.(*PermittedSubclasses).Subclasses) != 1 {
		t.Errorf("Subclasses = %v, want 1 entry", body.(*PermittedSubclasses).Subclasses)
	}
}

func TestMethodParametersRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	name := NewUtf8("count")
	pool.Add(name)

	c := &MethodParameters{Parameters: []MethodParameterRecord{
		{Name: name, AccessFlag: uint16(AccFinal)},
		{Name: nil, AccessFlag: 0},
	}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeMethodParameters(buf, pool, Version8, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeMethodParameters: %v", err)
	}
	got := body.(*MethodParameters)
	if len(got.Parameters) != 2 || got.Parameters[1].Name != nil {
		t.Errorf("got = %+v", got.Parameters)
	}
}

func TestModuleEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	name := &ModuleEntry{Name: NewUtf8("com.example.app")}
	pkg := &PackageEntry{Name: NewUtf8("com/example/app/internal")}
	reqMod := &ModuleEntry{Name: NewUtf8("java.base")}
	usesClass := NewClass(NewUtf8("com/example/Service"))
	pool.Add(name)
	pool.Add(pkg)
	pool.Add(reqMod)
	pool.Add(usesClass)

	m := &Module{
		Name:  name,
		Flags: 0,
		Requires: []RequiresRecord{
			{Module: reqMod, Flags: 0x8000},
		},
		Exports: []ExportsRecord{
			{Package: pkg, Flags: 0},
		},
		Uses: []ConstantEntry{usesClass},
	}

	buf := NewBuffer(nil)
	if err := m.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeModuleAttribute(buf, pool, Version9, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeModuleAttribute: %v", err)
	}
	got := body.(*Module)
	if !refEqual(got.Name, name) {
		t.Errorf("Name = %v, want %v", got.Name, name)
	}
	if len(got.Requires) != 1 || !refEqual(got.Requires[0].Module, reqMod) {
		t.Errorf("Requires = %+v", got.Requires)
	}
	if len(got.Exports) != 1 || !refEqual(got.Exports[0].Package, pkg) {
		t.Errorf("Exports = %+v", got.Exports)
	}
	if len(got.Uses) != 1 || !refEqual(got.Uses[0], usesClass) {
		t.Errorf("Uses = %+v", got.Uses)
	}
}

func TestModulePackagesAndMainClass(t *testing.T) {
	pool := NewConstantPool()
	pkg := &PackageEntry{Name: NewUtf8("com/example")}
	main := NewClass(NewUtf8("com/example/Main"))
	pool.Add(pkg)
	pool.Add(main)

	pc := &ModulePackages{Packages: []ConstantEntry{pkg}}
	buf := NewBuffer(nil)
	if err := pc.encode(buf, pool); err != nil {
		t.Fatalf("encode ModulePackages: %v", err)
	}
	buf.Seek(0, 0)
	pBody, err := decodeModulePackages(buf, pool, Version9, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeModulePackages: %v", err)
	}
	if len(pBody.(*ModulePackages).Packages) != 1 {
		t.Errorf("Packages = %v, want 1 entry", pBody.(*ModulePackages).Packages)
	}

	mc := &ModuleMainClass{Class: main}
	buf2 := NewBuffer(nil)
	if err := mc.encode(buf2, pool); err != nil {
		t.Fatalf("encode ModuleMainClass: %v", err)
	}
	buf2.Seek(0, 0)
	mBody, err := decodeModuleMainClass(buf2, pool, Version9, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeModuleMainClass: %v", err)
	}
	if !refEqual(mBody.(*ModuleMainClass).Class, main) {
		t.Errorf("Class mismatch")
	}
}

func TestBootstrapMethodsEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	mh := &MethodHandleEntry{Kind: RefInvokeStatic, Reference: NewMethodRef(NewClass(NewUtf8("Bootstrap")), NewNameAndType(NewUtf8("run"), NewUtf8("()V")))}
	arg := NewInteger(1)
	pool.Add(mh)
	pool.Add(arg)

	c := &BootstrapMethods{Methods: []BootstrapMethod{
		{Method: mh, Arguments: []ConstantEntry{arg}},
	}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeBootstrapMethods(buf, pool, Version7, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeBootstrapMethods: %v", err)
	}
	got := body.(*BootstrapMethods)
	if len(got.Methods) != 1 || len(got.Methods[0].Arguments) != 1 {
		t.Errorf("got = %+v", got.Methods)
	}
}

func TestRecordEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	name := NewUtf8("x")
	desc := NewUtf8("I")
	pool.Add(name)
	pool.Add(desc)

	c := &Record{Components: []RecordComponent{
		{Name: name, Descriptor: desc},
	}}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeRecord(buf, pool, Version16, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	got := body.(*Record)
	if len(got.Components) != 1 || !refEqual(got.Components[0].Name, name) {
		t.Errorf("got = %+v", got.Components)
	}
}

func TestDocumentationEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	text := NewUtf8("legacy free-text docs")
	pool.Add(text)

	c := &Documentation{Text: text}
	buf := NewBuffer(nil)
	if err := c.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	body, err := decodeDocumentation(buf, pool, Version1_0, 0, NewMetadata(nil))
	if err != nil {
		t.Fatalf("decodeDocumentation: %v", err)
	}
	if !refEqual(body.(*Documentation).Text, text) {
		t.Errorf("Text mismatch")
	}
}
