// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"io"
)

// Location is where an attribute record was found. A decoder may be legal
// in some locations and not others (§4.4 step 4); it is recorded even when
// the decoder still ran, since misplaced-but-decodable is common in the
// wild and never a reason to refuse a read.
type Location uint8

const (
	LocationClass Location = iota
	LocationField
	LocationMethod
	LocationCode
	LocationRecordComponent
)

func (l Location) String() string {
	switch l {
	case LocationClass:
		return "class"
	case LocationField:
		return "field"
	case LocationMethod:
		return "method"
	case LocationCode:
		return "code"
	case LocationRecordComponent:
		return "record_component"
	default:
		return "unknown"
	}
}

// AttributeBody is implemented by every decoded attribute payload
// (ConstantValue, Code, StackMapTable, ...) as well as the catch-all
// RawBody.
type AttributeBody interface {
	AttributeName() string
	encode(s Stream, pool *ConstantPool) error
}

// attributeDecodeFunc reads an attribute body of known length. Nested
// attribute lists (Code, Record) read further attributes directly off s,
// which is always the same seekable Stream the dispatcher itself used.
type attributeDecodeFunc func(s Stream, pool *ConstantPool, version Version, length uint32, meta *Metadata) (AttributeBody, error)

// attributeKind describes one registered attribute decoder: the name it
// answers to, the version it was introduced in, the locations it's legal
// in, and the function that reads its body.
type attributeKind struct {
	name      string
	since     Version
	locations map[Location]bool
	decode    attributeDecodeFunc
}

// attributeRegistry is the name -> decoder dispatch table, built once at
// init time rather than rebuilt per call.
var attributeRegistry = map[string]attributeKind{}

func registerAttribute(name string, since Version, locations []Location, decode attributeDecodeFunc) {
	locSet := make(map[Location]bool, len(locations))
	for _, l := range locations {
		locSet[l] = true
	}
	attributeRegistry[name] = attributeKind{name: name, since: since, locations: locSet, decode: decode}
}

// RawBody is the fallback payload for an attribute whose name is unknown,
// whose name-index didn't resolve to a Utf8, or whose decoder overran or
// panicked (an underrun keeps the decoded body and stores the leftover
// bytes in AttributeRecord.Trailing). It always holds exactly `length` bytes so a write_one
// round-trip is byte-exact even for attributes this package doesn't
// understand.
type RawBody struct {
	Name  string
	Bytes []byte
}

func (r *RawBody) AttributeName() string { return r.Name }
func (r *RawBody) encode(s Stream, _ *ConstantPool) error {
	return WriteBytes(s, r.Bytes)
}

// AttributeRecord is one attribute_info entry: the decoded (or raw) body,
// plus any trailing bytes the body's decoder left unread (§4.4 step 7).
type AttributeRecord struct {
	Name     string
	Body     AttributeBody
	Trailing []byte
}

// readOne implements §4.4 read_one. meta receives a diagnostic for every
// non-fatal condition (non-Utf8 name, bad location, overflow, underflow,
// decoder panic); an unknown name becomes a RawBody without one. None of
// them ever propagate as an error that aborts the
// surrounding read — only stream-truncation (io errors) does.
func readOne(s Stream, version Version, pool *ConstantPool, location Location, meta *Metadata) (*AttributeRecord, error) {
	nameIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	length, err := ReadU32(s)
	if err != nil {
		return nil, err
	}

	nameEntry, err := pool.At(int(nameIdx))
	if err != nil {
		return nil, err
	}
	utf8, isUtf8 := nameEntry.(*Utf8Entry)
	if !isUtf8 {
		body, err := consumeRaw(s, "<non-utf8-name>", length)
		if err != nil {
			return nil, err
		}
		meta.Add(LevelError, "attribute", "name_index %d does not resolve to a Utf8 constant", nameIdx)
		return &AttributeRecord{Name: "<non-utf8-name>", Body: body}, nil
	}
	name := DecodeMUTF8(utf8.Bytes)

	kind, known := attributeRegistry[name]
	if !known {
		body, err := consumeRaw(s, name, length)
		if err != nil {
			return nil, err
		}
		return &AttributeRecord{Name: name, Body: body}, nil
	}

	flagged := false
	if version.Less(kind.since) {
		meta.Add(LevelWarn, "attribute", "%s used at version %s, predates %s", name, version, kind.since)
		flagged = true
	}
	if !kind.locations[location] {
		meta.Add(LevelWarn, "attribute", "%s found in unexpected location %s", name, location)
		flagged = true
	}

	start, err := tell(s)
	if err != nil {
		return nil, err
	}

	body, decodeErr := decodeGuarded(kind.decode, s, pool, version, length, meta)

	end, terr := tell(s)
	if terr != nil {
		return nil, terr
	}
	consumed := end - start

	if decodeErr != nil {
		if _, err := s.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
		raw, err := consumeRaw(s, name, length)
		if err != nil {
			return nil, err
		}
		meta.Add(LevelError, "attribute", "%s decode failed: %v", name, decodeErr)
		return &AttributeRecord{Name: name, Body: raw}, nil
	}

	if consumed > int64(length) {
		if _, err := s.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
		raw, err := consumeRaw(s, name, length)
		if err != nil {
			return nil, err
		}
		level := LevelError
		if flagged {
			level = LevelWarn
		}
		meta.Add(level, "attribute", "%s overran its declared length (%d > %d)", name, consumed, length)
		return &AttributeRecord{Name: name, Body: raw}, nil
	}

	record := &AttributeRecord{Name: name, Body: body}
	if consumed < int64(length) {
		trailing, err := ReadBytes(s, int(int64(length)-consumed))
		if err != nil {
			return nil, err
		}
		record.Trailing = trailing
		meta.Add(LevelWarn, "attribute", "%s underran its declared length by %d bytes", name, int64(length)-consumed)
	}
	return record, nil
}

// decodeGuarded runs decode and converts any panic into an error, so one
// malformed attribute never aborts the rest of the class file.
func decodeGuarded(decode attributeDecodeFunc, s Stream, pool *ConstantPool, version Version, length uint32, meta *Metadata) (body AttributeBody, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic decoding attribute: %v", r)
		}
	}()
	return decode(s, pool, version, length, meta)
}

func consumeRaw(s Stream, name string, length uint32) (*RawBody, error) {
	b, err := ReadBytes(s, int(length))
	if err != nil {
		return nil, err
	}
	return &RawBody{Name: name, Bytes: b}, nil
}

// writeOne implements §4.4 write_one: write the name index, reserve a u32
// length, write the body and any trailing bytes, then patch the length.
func writeOne(s Stream, pool *ConstantPool, rec *AttributeRecord) error {
	nameEntry := pool.indexOrAdd(NewUtf8(rec.Name))
	if err := WriteU16(s, nameEntry); err != nil {
		return err
	}

	lenPos, err := tell(s)
	if err != nil {
		return err
	}
	if err := WriteU32(s, 0); err != nil {
		return err
	}

	start, err := tell(s)
	if err != nil {
		return err
	}
	if err := rec.Body.encode(s, pool); err != nil {
		return err
	}
	if len(rec.Trailing) > 0 {
		if err := WriteBytes(s, rec.Trailing); err != nil {
			return err
		}
	}
	end, err := tell(s)
	if err != nil {
		return err
	}

	if _, err := s.Seek(lenPos, io.SeekStart); err != nil {
		return err
	}
	if err := WriteU32(s, uint32(end-start)); err != nil {
		return err
	}
	_, err = s.Seek(end, io.SeekStart)
	return err
}

// readAttributeList reads a u16 count followed by that many attribute
// records at location, the shape every attribute-bearing structure
// (ClassFile, Field, Method, Code, RecordComponent) shares.
func readAttributeList(s Stream, pool *ConstantPool, version Version, location Location, meta *Metadata) ([]*AttributeRecord, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]*AttributeRecord, count)
	for i := range out {
		rec, err := readOne(s, version, pool, location, meta)
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}
	return out, nil
}

// writeAttributeList writes a u16 count followed by each record via
// writeOne.
func writeAttributeList(s Stream, pool *ConstantPool, list []*AttributeRecord) error {
	if err := WriteU16(s, uint16(len(list))); err != nil {
		return err
	}
	for _, rec := range list {
		if err := writeOne(s, pool, rec); err != nil {
			return err
		}
	}
	return nil
}
