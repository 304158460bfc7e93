// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestFieldEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	f := &Field{
		AccessFlags: AccPublic | AccStatic,
		Name:        NewUtf8("count"),
		Descriptor:  NewUtf8("I"),
	}

	buf := NewBuffer(nil)
	if err := f.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	meta := NewMetadata(nil)
	got, err := decodeField(buf, pool, Version8, meta)
	if err != nil {
		t.Fatalf("decodeField: %v", err)
	}
	if got.AccessFlags != f.AccessFlags {
		t.Errorf("AccessFlags = %v, want %v", got.AccessFlags, f.AccessFlags)
	}
	if got.Name.(*Utf8Entry).String() != "count" {
		t.Errorf("Name = %v, want count", got.Name)
	}
	if got.Descriptor.(*Utf8Entry).String() != "I" {
		t.Errorf("Descriptor = %v, want I", got.Descriptor)
	}
}

func TestMethodEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	m := &Method{
		AccessFlags: AccPublic | AccStatic,
		Name:        NewUtf8("main"),
		Descriptor:  NewUtf8("([Ljava/lang/String;)V"),
	}

	buf := NewBuffer(nil)
	if err := m.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	meta := NewMetadata(nil)
	got, err := decodeMethod(buf, pool, Version8, meta)
	if err != nil {
		t.Fatalf("decodeMethod: %v", err)
	}
	if got.Name.(*Utf8Entry).String() != "main" {
		t.Errorf("Name = %v, want main", got.Name)
	}
}

func TestMethodCodeReturnsCodeAttribute(t *testing.T) {
	code := &Code{MaxStack: 2, MaxLocals: 1, RawBytes: []byte{0xb1}}
	m := &Method{Attributes: []*AttributeRecord{{Name: "Code", Body: code}}}
	if got := m.Code(); got != code {
		t.Errorf("Code() = %v, want %v", got, code)
	}
}

func TestMethodCodeNilForAbstract(t *testing.T) {
	m := &Method{AccessFlags: AccAbstract}
	if got := m.Code(); got != nil {
		t.Errorf("Code() = %v, want nil for an abstract method", got)
	}
}
