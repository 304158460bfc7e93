// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"
)

func buildSimpleClass() *ClassFile {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("com/example/Greeter"))
	super := NewClass(NewUtf8("java/lang/Object"))
	iface := NewClass(NewUtf8("java/io/Serializable"))
	pool.Add(this)
	pool.Add(super)
	pool.Add(iface)

	field := &Field{
		AccessFlags: AccPrivate | AccFinal,
		Name:        NewUtf8("greeting"),
		Descriptor:  NewUtf8("Ljava/lang/String;"),
	}

	method := &Method{
		AccessFlags: AccPublic,
		Name:        NewUtf8("greet"),
		Descriptor:  NewUtf8("()Ljava/lang/String;"),
		Attributes: []*AttributeRecord{
			{Name: "Code", Body: &Code{
				MaxStack: 1, MaxLocals: 1,
				RawBytes: []byte{OpAload, OpAreturn},
			}},
		},
	}

	return &ClassFile{
		Version:     Version8,
		Pool:        pool,
		AccessFlags: AccPublic | AccSuper,
		This:        this,
		Super:       super,
		Interfaces:  []ConstantEntry{iface},
		Fields:      []*Field{field},
		Methods:     []*Method{method},
		Attributes: []*AttributeRecord{
			{Name: "SourceFile", Body: &SourceFile{Name: NewUtf8("Greeter.java")}},
		},
	}
}

func TestClassFileWriteReadRoundTrip(t *testing.T) {
	cf := buildSimpleClass()

	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	meta := NewMetadata(nil)
	got, err := Read(NewBuffer(buf.Bytes()), meta)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.Version != Version8 {
		t.Errorf("Version = %v, want Version8", got.Version)
	}
	if got.AccessFlags&AccPublic == 0 || got.AccessFlags&AccSuper == 0 {
		t.Errorf("AccessFlags = %v, want public+super", got.AccessFlags)
	}
	name := got.This.(*ClassEntry).Name.(*Utf8Entry).String()
	if name != "com/example/Greeter" {
		t.Errorf("This = %q, want com/example/Greeter", name)
	}
	superName := got.Super.(*ClassEntry).Name.(*Utf8Entry).String()
	if superName != "java/lang/Object" {
		t.Errorf("Super = %q, want java/lang/Object", superName)
	}
	if len(got.Interfaces) != 1 {
		t.Fatalf("Interfaces = %v, want 1 entry", got.Interfaces)
	}
	if len(got.Fields) != 1 || got.Fields[0].Name.(*Utf8Entry).String() != "greeting" {
		t.Errorf("Fields = %+v", got.Fields)
	}
	if len(got.Methods) != 1 {
		t.Fatalf("Methods = %v, want 1 entry", got.Methods)
	}
	if got.Methods[0].Code() == nil {
		t.Error("Methods[0].Code() = nil, want the encoded Code attribute")
	}
	if len(got.Attributes) != 1 || got.Attributes[0].Name != "SourceFile" {
		t.Errorf("Attributes = %+v", got.Attributes)
	}
}

func TestReadBadMagicContinuesParsing(t *testing.T) {
	cf := buildSimpleClass()
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data := buf.Bytes()
	data[0] = 0xDE // corrupt the magic, leave the rest intact

	meta := NewMetadata(nil)
	got, err := Read(NewBuffer(data), meta)
	if err != ErrBadMagic {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
	if got == nil {
		t.Fatal("Read should still return the parsed class file")
	}
	if got.This.(*ClassEntry).Name.(*Utf8Entry).String() != "com/example/Greeter" {
		t.Error("the rest of the class file should have parsed normally")
	}
	if !meta.Has("classfile") {
		t.Error("a critical diagnostic should have been recorded under \"classfile\"")
	}
}

func TestReadSuperNilForObject(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("java/lang/Object"))
	pool.Add(this)

	cf := &ClassFile{Version: Version8, Pool: pool, This: this, Super: nil}
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(NewBuffer(buf.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Super != nil {
		t.Errorf("Super = %v, want nil for java.lang.Object", got.Super)
	}
}

func TestReadUnknownAttributeFallsBackToRawBody(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("com/example/Thing"))
	pool.Add(this)

	cf := &ClassFile{
		Version: Version8, Pool: pool, This: this,
		Attributes: []*AttributeRecord{
			{Name: "VendorSpecificThing", Body: &RawBody{Name: "VendorSpecificThing", Bytes: []byte{1, 2, 3}}},
		},
	}
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(NewBuffer(buf.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Attributes) != 1 {
		t.Fatalf("Attributes = %v, want 1 entry", got.Attributes)
	}
	raw, ok := got.Attributes[0].Body.(*RawBody)
	if !ok || string(raw.Bytes) != "\x01\x02\x03" {
		t.Errorf("Attributes[0].Body = %+v, want RawBody{1,2,3}", got.Attributes[0].Body)
	}
}

func TestReadEmptyInterfacesFieldsMethods(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("com/example/Empty"))
	pool.Add(this)

	cf := &ClassFile{Version: Version8, Pool: pool, This: this}
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(NewBuffer(buf.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Interfaces) != 0 || len(got.Fields) != 0 || len(got.Methods) != 0 || len(got.Attributes) != 0 {
		t.Errorf("expected all-empty class, got Interfaces=%v Fields=%v Methods=%v Attributes=%v",
			got.Interfaces, got.Fields, got.Methods, got.Attributes)
	}
}

func TestEmptyClassScenario(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("Empty"))
	pool.Add(this)

	cf := &ClassFile{
		Version:     Version8,
		Pool:        pool,
		AccessFlags: AccPublic | AccSuper,
		This:        this,
	}

	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Fixed header (magic + version) is 8 bytes; the pool holds Utf8
	// "Empty" and its Class entry; the trailing fixed fields (access,
	// this, super, four zero counts) add 14 more.
	if buf.Len() < 8+14 {
		t.Fatalf("encoded size = %d, implausibly small", buf.Len())
	}

	got, err := Read(NewBuffer(buf.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Version != Version8 || got.AccessFlags != AccPublic|AccSuper {
		t.Errorf("header = %v %v", got.Version, got.AccessFlags)
	}
	if got.This.(*ClassEntry).Name.(*Utf8Entry).String() != "Empty" {
		t.Errorf("This = %v, want Class(Empty)", got.This)
	}
	if got.Super != nil || len(got.Interfaces) != 0 || len(got.Fields) != 0 ||
		len(got.Methods) != 0 || len(got.Attributes) != 0 {
		t.Error("decoded class should be structurally empty")
	}
}

func TestConstantValueFieldScenario(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("Constants"))
	pool.Add(this)

	cf := &ClassFile{
		Version: Version8, Pool: pool,
		AccessFlags: AccPublic | AccSuper,
		This:        this,
		Fields: []*Field{{
			AccessFlags: AccPublic | AccStatic | AccFinal,
			Name:        NewUtf8("X"),
			Descriptor:  NewUtf8("I"),
			Attributes: []*AttributeRecord{
				{Name: "ConstantValue", Body: &ConstantValue{Value: NewInteger(42)}},
			},
		}},
	}

	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(NewBuffer(buf.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	cv, ok := got.Fields[0].Attributes[0].Body.(*ConstantValue)
	if !ok {
		t.Fatalf("field attribute = %T, want *ConstantValue", got.Fields[0].Attributes[0].Body)
	}
	if v, ok := cv.Value.(*IntegerEntry); !ok || v.Value != 42 {
		t.Errorf("ConstantValue = %+v, want Integer(42)", cv.Value)
	}

	integers := 0
	for _, e := range got.Pool.Entries() {
		if _, ok := e.Entry.(*IntegerEntry); ok {
			integers++
		}
	}
	if integers != 1 {
		t.Errorf("pool holds %d Integer entries, want exactly 1", integers)
	}
}

func TestAnnotatedMethodScenarioByteExact(t *testing.T) {
	pool := NewConstantPool()
	this := NewClass(NewUtf8("Annotated"))
	pool.Add(this)

	ann := &Annotation{
		Type: NewUtf8("LTestAnnotation;"),
		Elements: []NamedElement{{
			Name:  NewUtf8("testElement"),
			Value: ElementValue{Tag: EVByte, ConstValue: NewInteger(1)},
		}},
	}
	cf := &ClassFile{
		Version: Version8, Pool: pool,
		AccessFlags: AccPublic | AccSuper,
		This:        this,
		Methods: []*Method{{
			AccessFlags: AccPublic | AccAbstract,
			Name:        NewUtf8("annotated"),
			Descriptor:  NewUtf8("()V"),
			Attributes: []*AttributeRecord{
				{Name: "RuntimeVisibleAnnotations",
					Body: &RuntimeVisibleAnnotations{Annotations: []*Annotation{ann}}},
			},
		}},
	}

	var first bytes.Buffer
	if err := cf.Write(&first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(NewBuffer(first.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	rva := got.Methods[0].Attributes[0].Body.(*RuntimeVisibleAnnotations)
	decoded := rva.Annotations[0]
	if decoded.Type.(*Utf8Entry).String() != "LTestAnnotation;" {
		t.Errorf("annotation type = %v", decoded.Type)
	}
	ev := decoded.Elements[0].Value
	if ev.Tag != EVByte {
		t.Errorf("element tag = %c, want B", ev.Tag)
	}
	if v, ok := ev.ConstValue.(*IntegerEntry); !ok || v.Value != 1 {
		t.Errorf("element const = %+v, want Integer(1)", ev.ConstValue)
	}

	var second bytes.Buffer
	if err := got.Write(&second); err != nil {
		t.Fatalf("re-Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("re-encoded bytes differ from the original encoding")
	}
}

func TestRoundTripLawByteExact(t *testing.T) {
	// encode(decode(bytes)) == bytes for a class exercising the pool (wide
	// entries included), fields, methods, Code, and several attributes.
	pool := NewConstantPool()
	this := NewClass(NewUtf8("com/example/Everything"))
	super := NewClass(NewUtf8("java/lang/Object"))
	pool.Add(this)
	pool.Add(super)
	pool.Add(NewLong(1 << 33))
	pool.Add(NewDouble(3.5))

	cf := &ClassFile{
		Version: Version11, Pool: pool,
		AccessFlags: AccPublic | AccSuper,
		This:        this, Super: super,
		Fields: []*Field{{
			AccessFlags: AccPrivate | AccStatic | AccFinal,
			Name:        NewUtf8("SEED"),
			Descriptor:  NewUtf8("J"),
			Attributes: []*AttributeRecord{
				{Name: "ConstantValue", Body: &ConstantValue{Value: NewLong(1 << 33)}},
			},
		}},
		Methods: []*Method{{
			AccessFlags: AccPublic,
			Name:        NewUtf8("run"),
			Descriptor:  NewUtf8("()V"),
			Attributes: []*AttributeRecord{
				{Name: "Code", Body: &Code{
					MaxStack: 2, MaxLocals: 1,
					RawBytes: []byte{OpIconst0, OpPop, OpReturn},
					Attributes: []*AttributeRecord{
						{Name: "LineNumberTable", Body: &LineNumberTable{
							Entries: []LineNumberEntry{{StartPC: 0, LineNumber: 10}},
						}},
					},
				}},
			},
		}},
		Attributes: []*AttributeRecord{
			{Name: "SourceFile", Body: &SourceFile{Name: NewUtf8("Everything.java")}},
			{Name: "Deprecated", Body: Deprecated{}},
		},
	}

	var first bytes.Buffer
	if err := cf.Write(&first); err != nil {
		t.Fatalf("Write: %v", err)
	}

	decoded, err := Read(NewBuffer(first.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var second bytes.Buffer
	if err := decoded.Write(&second); err != nil {
		t.Fatalf("re-Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("encode(decode(bytes)) != bytes")
	}

	// Idempotence: a third pass through decode reproduces the same
	// structure again.
	again, err := Read(NewBuffer(second.Bytes()), NewMetadata(nil))
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}
	if again.Pool.MaxSlot() != decoded.Pool.MaxSlot() {
		t.Errorf("pool size changed across round trips: %d != %d",
			again.Pool.MaxSlot(), decoded.Pool.MaxSlot())
	}
}

func TestTruncatedInputReportsAndFails(t *testing.T) {
	cf := buildSimpleClass()
	var buf bytes.Buffer
	if err := cf.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	full := buf.Bytes()

	// Cutting the stream mid-pool must surface an error and leave a
	// diagnostic behind rather than succeeding silently.
	meta := NewMetadata(nil)
	if _, err := Read(NewBuffer(full[:12]), meta); err == nil {
		t.Fatal("Read of a truncated stream should fail")
	}
	if len(meta.Errors()) == 0 {
		t.Error("truncation should leave an error on the metadata tree")
	}
}
