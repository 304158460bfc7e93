// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

func init() {
	registerAttribute("Code", Version1_0, []Location{LocationMethod}, decodeCode)
	registerAttribute("LineNumberTable", Version1_0, []Location{LocationCode}, decodeLineNumberTable)
	registerAttribute("LocalVariableTable", Version1_0, []Location{LocationCode}, decodeLocalVariableTable)
	registerAttribute("LocalVariableTypeTable", Version5, []Location{LocationCode}, decodeLocalVariableTypeTable)
	registerAttribute("StackMapTable", Version6, []Location{LocationCode}, decodeStackMapTableAttribute)
}

// ExceptionHandler is one entry of a Code attribute's exception table.
type ExceptionHandler struct {
	StartPC, EndPC, HandlerPC int
	CatchType                 ConstantEntry // → Class, nil catches everything
}

// Code is a method body: its bytecode, the JVM operand stack / local
// variable sizing the verifier needs, its exception handlers, and any
// nested attributes (read with location Code — most commonly
// LineNumberTable, LocalVariableTable, and StackMapTable).
type Code struct {
	MaxStack, MaxLocals int
	Instructions        []*Instruction
	RawBytes            []byte // the code array, verbatim, for byte-exact re-encoding
	ExceptionTable       []ExceptionHandler
	Attributes           []*AttributeRecord
}

func (c *Code) AttributeName() string { return "Code" }

func (c *Code) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(c.MaxStack)); err != nil {
		return err
	}
	if err := WriteU16(s, uint16(c.MaxLocals)); err != nil {
		return err
	}
	if err := WriteU32(s, uint32(len(c.RawBytes))); err != nil {
		return err
	}
	if err := WriteBytes(s, c.RawBytes); err != nil {
		return err
	}

	if err := WriteU16(s, uint16(len(c.ExceptionTable))); err != nil {
		return err
	}
	for _, h := range c.ExceptionTable {
		if err := WriteU16(s, uint16(h.StartPC)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(h.EndPC)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(h.HandlerPC)); err != nil {
			return err
		}
		if err := WriteU16(s, refIndex(pool, h.CatchType)); err != nil {
			return err
		}
	}

	return writeAttributeList(s, pool, c.Attributes)
}

// decodeCode reads a Code attribute body. The code array itself is kept
// both as RawBytes (for write-time fidelity) and decoded into
// Instructions (for callers that want to inspect or rewrite bytecode);
// RawBytes is authoritative on write — Instructions is a derived view, the
// same "keep the bytes, offer a parsed view on top" split the original
// implementation's disassembler uses internally.
func decodeCode(s Stream, pool *ConstantPool, version Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	maxStack, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	maxLocals, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	codeLength, err := ReadU32(s)
	if err != nil {
		return nil, err
	}
	raw, err := ReadBytes(s, int(codeLength))
	if err != nil {
		return nil, err
	}

	instructions, err := decodeInstructions(raw, pool, meta)
	if err != nil {
		return nil, err
	}

	excCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	handlers := make([]ExceptionHandler, excCount)
	for i := range handlers {
		start, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		end, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		handler, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		catch, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		handlers[i] = ExceptionHandler{
			StartPC: int(start), EndPC: int(end), HandlerPC: int(handler),
			CatchType: maybeResolve(pool, meta, "Code.ExceptionTable.CatchType", catch),
		}
	}

	attrs, err := readAttributeList(s, pool, version, LocationCode, meta)
	if err != nil {
		return nil, err
	}

	return &Code{
		MaxStack: int(maxStack), MaxLocals: int(maxLocals),
		Instructions: instructions, RawBytes: raw,
		ExceptionTable: handlers, Attributes: attrs,
	}, nil
}

// decodeInstructions walks a code array start to finish, decoding every
// instruction in order. A bad opcode or truncated operand is reported to
// meta and stops the walk, leaving whatever instructions decoded
// successfully — RawBytes still carries the whole array regardless, so
// nothing is lost on write. pool resolves ldc/ldc_w/ldc2_w operands so
// decodeOne can warn on a wide/non-wide constant mismatch.
func decodeInstructions(code []byte, pool *ConstantPool, meta *Metadata) ([]*Instruction, error) {
	buf := NewBuffer(code)
	var out []*Instruction
	wide := false
	for buf.Tell() < int64(len(code)) {
		offset := int(buf.Tell())
		inst, err := decodeOne(buf, offset, wide, pool, meta)
		if err != nil {
			meta.Add(LevelWarn, "code", "failed to decode instruction at offset %d: %v", offset, err)
			break
		}
		out = append(out, inst)
		wide = inst.Opcode == OpWide
	}
	return out, nil
}

// LineNumberEntry maps one bytecode offset to a source line.
type LineNumberEntry struct {
	StartPC, LineNumber int
}

type LineNumberTable struct {
	Entries []LineNumberEntry
}

func (c *LineNumberTable) AttributeName() string { return "LineNumberTable" }
func (c *LineNumberTable) encode(s Stream, _ *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Entries))); err != nil {
		return err
	}
	for _, e := range c.Entries {
		if err := WriteU16(s, uint16(e.StartPC)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(e.LineNumber)); err != nil {
			return err
		}
	}
	return nil
}
func decodeLineNumberTable(s Stream, _ *ConstantPool, _ Version, _ uint32, _ *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]LineNumberEntry, count)
	for i := range out {
		pc, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		line, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = LineNumberEntry{StartPC: int(pc), LineNumber: int(line)}
	}
	return &LineNumberTable{Entries: out}, nil
}

// LocalVariableEntry is one local variable's live range, name, and
// descriptor type.
type LocalVariableEntry struct {
	StartPC, Length, Index int
	Name                   ConstantEntry // → Utf8
	Descriptor             ConstantEntry // → Utf8
}

type LocalVariableTable struct {
	Entries []LocalVariableEntry
}

func (c *LocalVariableTable) AttributeName() string { return "LocalVariableTable" }
func (c *LocalVariableTable) encode(s Stream, pool *ConstantPool) error {
	return encodeLocalVariableEntries(s, pool, c.Entries)
}
func decodeLocalVariableTable(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	entries, err := decodeLocalVariableEntries(s, pool, meta, "LocalVariableTable")
	if err != nil {
		return nil, err
	}
	return &LocalVariableTable{Entries: entries}, nil
}

// LocalVariableTypeTable mirrors LocalVariableTable but carries a generic
// Signature in place of a descriptor, for variables with a parameterized
// type.
type LocalVariableTypeTable struct {
	Entries []LocalVariableEntry
}

func (c *LocalVariableTypeTable) AttributeName() string { return "LocalVariableTypeTable" }
func (c *LocalVariableTypeTable) encode(s Stream, pool *ConstantPool) error {
	return encodeLocalVariableEntries(s, pool, c.Entries)
}
func decodeLocalVariableTypeTable(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	entries, err := decodeLocalVariableEntries(s, pool, meta, "LocalVariableTypeTable")
	if err != nil {
		return nil, err
	}
	return &LocalVariableTypeTable{Entries: entries}, nil
}

func encodeLocalVariableEntries(s Stream, pool *ConstantPool, entries []LocalVariableEntry) error {
	if err := WriteU16(s, uint16(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := WriteU16(s, uint16(e.StartPC)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(e.Length)); err != nil {
			return err
		}
		if err := WriteU16(s, pool.indexOrAdd(e.Name)); err != nil {
			return err
		}
		if err := WriteU16(s, pool.indexOrAdd(e.Descriptor)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(e.Index)); err != nil {
			return err
		}
	}
	return nil
}

func decodeLocalVariableEntries(s Stream, pool *ConstantPool, meta *Metadata, location string) ([]LocalVariableEntry, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]LocalVariableEntry, count)
	for i := range out {
		start, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		length, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		name, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		desc, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		index, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = LocalVariableEntry{
			StartPC: int(start), Length: int(length), Index: int(index),
			Name: pool.resolveChecked(meta, location+".Name", name), Descriptor: pool.resolveChecked(meta, location+".Descriptor", desc),
		}
	}
	return out, nil
}
