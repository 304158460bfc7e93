// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestDecodeEntryAtSimpleKinds(t *testing.T) {
	pool := NewConstantPool()

	tests := []struct {
		name  string
		bytes []byte
		check func(t *testing.T, e ConstantEntry)
	}{
		{
			name:  "Utf8",
			bytes: []byte{TagUtf8, 0x00, 0x03, 'f', 'o', 'o'},
			check: func(t *testing.T, e ConstantEntry) {
				u := e.(*Utf8Entry)
				if u.String() != "foo" {
					t.Errorf("Utf8 = %q, want %q", u.String(), "foo")
				}
			},
		},
		{
			name:  "Integer",
			bytes: []byte{TagInteger, 0x00, 0x00, 0x00, 0x2a},
			check: func(t *testing.T, e ConstantEntry) {
				if e.(*IntegerEntry).Value != 42 {
					t.Errorf("Integer = %d, want 42", e.(*IntegerEntry).Value)
				}
			},
		},
		{
			name:  "Long",
			bytes: []byte{TagLong, 0, 0, 0, 0, 0, 0, 0, 7},
			check: func(t *testing.T, e ConstantEntry) {
				l := e.(*LongEntry)
				if l.Value != 7 || !l.Wide() {
					t.Errorf("Long = %d wide=%v, want 7 true", l.Value, l.Wide())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(tt.bytes)
			e, err := decodeEntryAt(buf, pool)
			if err != nil {
				t.Fatalf("decodeEntryAt: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestDecodeEntryAtUnknownTag(t *testing.T) {
	buf := NewBuffer([]byte{0xff})
	if _, err := decodeEntryAt(buf, NewConstantPool()); err != ErrUnknownTag {
		t.Errorf("err = %v, want ErrUnknownTag", err)
	}
}

func TestClassEntryEncodeDecodeRoundTrip(t *testing.T) {
	pool := NewConstantPool()
	name := NewUtf8("java/lang/Object")
	pool.Add(name)
	class := NewClass(name)
	pool.Add(class)

	buf := NewBuffer(nil)
	if err := class.encode(buf, pool); err != nil {
		t.Fatalf("encode: %v", err)
	}
	buf.Seek(0, 0)

	got, err := decodeClassEntry(buf, pool)
	if err != nil {
		t.Fatalf("decodeClassEntry: %v", err)
	}
	if !refEqual(got.Name, class.Name) {
		t.Errorf("decoded Name = %v, want %v", got.Name, class.Name)
	}
}

func TestRefEntryTagsDistinguishKinds(t *testing.T) {
	pool := NewConstantPool()
	class := NewClass(NewUtf8("Foo"))
	nat := NewNameAndType(NewUtf8("bar"), NewUtf8("I"))

	fr := NewFieldRef(class, nat)
	mr := NewMethodRef(class, nat)
	imr := NewInterfaceMethodRef(class, nat)

	if fr.Tag() != TagFieldRef || mr.Tag() != TagMethodRef || imr.Tag() != TagInterfaceMethodRef {
		t.Error("ref entry Tag() does not match its constructor's kind")
	}
	_ = pool
}

func TestMethodHandleSince(t *testing.T) {
	mh := &MethodHandleEntry{Kind: RefInvokeStatic}
	if mh.Since() != Version7 {
		t.Errorf("MethodHandleEntry.Since() = %v, want Version7", mh.Since())
	}
}

func TestDynamicEntrySinceByTag(t *testing.T) {
	dyn := &DynamicEntry{dynamicEntry{tag: TagDynamic}}
	if dyn.Since() != Version11 {
		t.Errorf("Dynamic.Since() = %v, want Version11", dyn.Since())
	}
	indy := &InvokeDynamicEntry{dynamicEntry{tag: TagInvokeDynamic}}
	if indy.Since() != Version7 {
		t.Errorf("InvokeDynamic.Since() = %v, want Version7", indy.Since())
	}
	if dyn.Loadable() == indy.Loadable() {
		t.Error("Dynamic and InvokeDynamic must differ in Loadable()")
	}
}

func TestRefEqualPlaceholders(t *testing.T) {
	a := Placeholder{Index: 5}
	b := Placeholder{Index: 5}
	c := Placeholder{Index: 6}
	if !refEqual(a, b) {
		t.Error("refEqual(a, b) = false, want true for equal placeholders")
	}
	if refEqual(a, c) {
		t.Error("refEqual(a, c) = true, want false for differing placeholders")
	}
	if refEqual(a, NewUtf8("x")) {
		t.Error("refEqual(placeholder, real entry) = true, want false")
	}
}

func TestUtf8EncodeTooLarge(t *testing.T) {
	u := &Utf8Entry{entryBase: newEntryBase(), Bytes: make([]byte, 65536)}
	if err := u.encode(NewBuffer(nil), nil); err == nil {
		t.Error("encode of an oversized Utf8 entry should fail")
	}
}
