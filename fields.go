// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Field is a field_info structure (§4.5): access flags, name, descriptor,
// and any attributes (most commonly ConstantValue, Signature, and the
// Runtime*Annotations family).
type Field struct {
	AccessFlags AccessFlags
	Name        ConstantEntry // → Utf8
	Descriptor  ConstantEntry // → Utf8
	Attributes  []*AttributeRecord
}

func decodeField(s Stream, pool *ConstantPool, version Version, meta *Metadata) (*Field, error) {
	flags, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	nameIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	descIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	attrs, err := readAttributeList(s, pool, version, LocationField, meta)
	if err != nil {
		return nil, err
	}
	return &Field{
		AccessFlags: AccessFlags(flags),
		Name:        pool.resolveChecked(meta, "Field.Name", nameIdx),
		Descriptor:  pool.resolveChecked(meta, "Field.Descriptor", descIdx),
		Attributes:  attrs,
	}, nil
}

func (f *Field) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(f.AccessFlags)); err != nil {
		return err
	}
	if err := WriteU16(s, pool.indexOrAdd(f.Name)); err != nil {
		return err
	}
	if err := WriteU16(s, pool.indexOrAdd(f.Descriptor)); err != nil {
		return err
	}
	return writeAttributeList(s, pool, f.Attributes)
}

// Method is a method_info structure (§4.6): same shape as Field, with Code
// and Exceptions among its most common attributes.
type Method struct {
	AccessFlags AccessFlags
	Name        ConstantEntry // → Utf8
	Descriptor  ConstantEntry // → Utf8
	Attributes  []*AttributeRecord
}

func decodeMethod(s Stream, pool *ConstantPool, version Version, meta *Metadata) (*Method, error) {
	flags, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	nameIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	descIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	attrs, err := readAttributeList(s, pool, version, LocationMethod, meta)
	if err != nil {
		return nil, err
	}
	return &Method{
		AccessFlags: AccessFlags(flags),
		Name:        pool.resolveChecked(meta, "Method.Name", nameIdx),
		Descriptor:  pool.resolveChecked(meta, "Method.Descriptor", descIdx),
		Attributes:  attrs,
	}, nil
}

func (m *Method) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(m.AccessFlags)); err != nil {
		return err
	}
	if err := WriteU16(s, pool.indexOrAdd(m.Name)); err != nil {
		return err
	}
	if err := WriteU16(s, pool.indexOrAdd(m.Descriptor)); err != nil {
		return err
	}
	return writeAttributeList(s, pool, m.Attributes)
}

// Code returns the method's Code attribute body, or nil if the method is
// abstract or native and so has none.
func (m *Method) Code() *Code {
	for _, rec := range m.Attributes {
		if c, ok := rec.Body.(*Code); ok {
			return c
		}
	}
	return nil
}
