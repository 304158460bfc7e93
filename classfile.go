// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "io"

// Magic is the four-byte signature every class file begins with.
const Magic = 0xCAFEBABE

// ClassFile is the top-level structure described by JVM §4.1: version,
// constant pool, access flags, this/super/interfaces, fields, methods, and
// class-level attributes.
type ClassFile struct {
	Version Version
	Pool    *ConstantPool

	AccessFlags AccessFlags
	This        ConstantEntry   // → Class
	Super       ConstantEntry   // → Class, nil for java.lang.Object
	Interfaces  []ConstantEntry // → Class

	Fields     []*Field
	Methods    []*Method
	Attributes []*AttributeRecord

	Metadata *Metadata
}

// Read implements §4.1's top-level algorithm: magic check, version, pool,
// access_flags, this_class/super_class, interfaces, fields, methods,
// attributes. Nothing here aborts on a malformed sub-element — errors and
// warnings accumulate on meta and the caller decides whether to trust the
// result. A wrong magic number is recorded as a critical diagnostic and
// parsing continues; the fully-read class file is returned together with
// ErrBadMagic so callers can still match on it.
func Read(s Stream, meta *Metadata) (*ClassFile, error) {
	magic, err := ReadU32(s)
	if err != nil {
		return nil, err
	}
	badMagic := magic != Magic
	if badMagic {
		meta.Add(LevelCritical, "classfile", "bad magic %#x, not CAFEBABE", magic)
	}

	version, err := ReadVersion(s)
	if err != nil {
		return nil, err
	}

	pool, err := ReadConstantPool(s, meta)
	if err != nil {
		return nil, err
	}

	accessFlags, err := ReadU16(s)
	if err != nil {
		return nil, err
	}

	thisIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	superIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}

	ifaceCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	interfaces := make([]ConstantEntry, ifaceCount)
	for i := range interfaces {
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		interfaces[i] = pool.resolveChecked(meta, "Interfaces", idx)
	}

	fieldCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	fields := make([]*Field, fieldCount)
	for i := range fields {
		f, err := decodeField(s, pool, version, meta)
		if err != nil {
			meta.Add(LevelError, "classfile", "failed to decode field %d: %v", i, err)
			return nil, err
		}
		fields[i] = f
	}

	methodCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, methodCount)
	for i := range methods {
		m, err := decodeMethod(s, pool, version, meta)
		if err != nil {
			meta.Add(LevelError, "classfile", "failed to decode method %d: %v", i, err)
			return nil, err
		}
		methods[i] = m
	}

	attrs, err := readAttributeList(s, pool, version, LocationClass, meta)
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{
		Version: version, Pool: pool,
		AccessFlags: AccessFlags(accessFlags),
		This:        pool.resolveChecked(meta, "This", thisIdx),
		Super:       maybeResolve(pool, meta, "Super", superIdx),
		Interfaces:  interfaces,
		Fields:      fields, Methods: methods, Attributes: attrs,
		Metadata: meta,
	}
	if badMagic {
		return cf, ErrBadMagic
	}
	return cf, nil
}

// Write serializes a ClassFile back to its binary form, symmetric with
// Read. Everything is assembled into one seekable Buffer first (fields,
// methods, and attribute encoding may still call pool.indexOrAdd, so the
// pool can only be written once every other section has had its chance to
// grow it) and only then copied to w.
func (c *ClassFile) Write(w io.Writer) error {
	buf := NewBuffer(nil)

	if err := WriteU32(buf, Magic); err != nil {
		return err
	}
	if err := c.Version.Write(buf); err != nil {
		return err
	}

	body := NewBuffer(nil)
	if err := WriteU16(body, uint16(c.AccessFlags)); err != nil {
		return err
	}
	if err := WriteU16(body, c.Pool.indexOrAdd(c.This)); err != nil {
		return err
	}
	if err := WriteU16(body, refIndex(c.Pool, c.Super)); err != nil {
		return err
	}

	if err := WriteU16(body, uint16(len(c.Interfaces))); err != nil {
		return err
	}
	for _, iface := range c.Interfaces {
		if err := WriteU16(body, c.Pool.indexOrAdd(iface)); err != nil {
			return err
		}
	}

	if err := WriteU16(body, uint16(len(c.Fields))); err != nil {
		return err
	}
	for _, f := range c.Fields {
		if err := f.encode(body, c.Pool); err != nil {
			return err
		}
	}

	if err := WriteU16(body, uint16(len(c.Methods))); err != nil {
		return err
	}
	for _, m := range c.Methods {
		if err := m.encode(body, c.Pool); err != nil {
			return err
		}
	}

	if err := writeAttributeList(body, c.Pool, c.Attributes); err != nil {
		return err
	}

	if err := c.Pool.Write(buf); err != nil {
		return err
	}
	if _, err := buf.Write(body.Bytes()); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}
