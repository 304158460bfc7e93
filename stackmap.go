// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Verification type tags (§4.6 step 3).
const (
	VTTop = iota
	VTInteger
	VTFloat
	VTDouble
	VTLong
	VTNull
	VTUninitializedThis
	VTObject        // tag 7: u16 pool reference to a Class
	VTUninitialized // tag 8: u16 bytecode offset of the `new` that created it
)

// VerificationType is one local-variable or operand-stack slot's type, as
// described by a stack map frame. Object and Uninitialized are the only
// two tags carrying a payload.
type VerificationType struct {
	Tag    uint8
	Class  ConstantEntry // VTObject: → Class
	Offset int           // VTUninitialized: offset of the `new` instruction
}

func decodeVerificationType(s Stream, pool *ConstantPool, meta *Metadata) (VerificationType, error) {
	tag, err := ReadU8(s)
	if err != nil {
		return VerificationType{}, err
	}
	switch tag {
	case VTObject:
		idx, err := ReadU16(s)
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Tag: tag, Class: pool.resolveChecked(meta, "StackMapFrame.Class", idx)}, nil
	case VTUninitialized:
		offset, err := ReadU16(s)
		if err != nil {
			return VerificationType{}, err
		}
		return VerificationType{Tag: tag, Offset: int(offset)}, nil
	default:
		return VerificationType{Tag: tag}, nil
	}
}

func encodeVerificationType(s Stream, pool *ConstantPool, vt VerificationType) error {
	if err := WriteU8(s, vt.Tag); err != nil {
		return err
	}
	switch vt.Tag {
	case VTObject:
		return WriteU16(s, pool.indexOrAdd(vt.Class))
	case VTUninitialized:
		return WriteU16(s, uint16(vt.Offset))
	default:
		return nil
	}
}

// StackMapFrame is one entry of a StackMapTable, covering all six shapes
// (§4.6 step 2) in a single struct; which fields are meaningful depends on
// FrameType, mirroring the tag-range dispatch the decoder itself performs.
type StackMapFrame struct {
	// FrameType is the raw tag byte (0-255); callers wanting a named shape
	// can use Kind().
	FrameType uint8

	// Offset delta, valid for every shape (§4.6: "the codec merely stores
	// delta; interpretation belongs to the assembler").
	OffsetDelta int

	// Chop/Append: only Locals is meaningful, holding exactly the new
	// (Append) or to-be-dropped-count-implied-by-tag (Chop, empty slice)
	// verification types.
	Locals []VerificationType

	// SameLocals1StackItem / SameLocals1StackItemExtended: exactly one
	// stack entry.
	Stack []VerificationType

	// Full frame only.
	FullLocals []VerificationType
	FullStack  []VerificationType
}

// FrameKind names a StackMapFrame's shape.
type FrameKind int

const (
	FrameSame FrameKind = iota
	FrameSameLocals1StackItem
	FrameSameLocals1StackItemExtended
	FrameChop
	FrameSameExtended
	FrameAppend
	FrameFull
)

// Kind classifies FrameType into one of the six shapes per the JVM's
// tag-range table.
func (f *StackMapFrame) Kind() FrameKind {
	switch {
	case f.FrameType <= 63:
		return FrameSame
	case f.FrameType <= 127:
		return FrameSameLocals1StackItem
	case f.FrameType == 247:
		return FrameSameLocals1StackItemExtended
	case f.FrameType >= 248 && f.FrameType <= 250:
		return FrameChop
	case f.FrameType == 251:
		return FrameSameExtended
	case f.FrameType >= 252 && f.FrameType <= 254:
		return FrameAppend
	case f.FrameType == 255:
		return FrameFull
	default:
		// 128..246 are reserved for future use; treated as SameLocals1StackItem's
		// family being exhausted, so the decoder errors on them via ErrUnknownTag.
		return -1
	}
}

func decodeStackMapFrame(s Stream, pool *ConstantPool, meta *Metadata) (*StackMapFrame, error) {
	tag, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	f := &StackMapFrame{FrameType: tag}

	switch {
	case tag <= 63: // same_frame
		f.OffsetDelta = int(tag)
		return f, nil

	case tag <= 127: // same_locals_1_stack_item_frame
		f.OffsetDelta = int(tag) - 64
		vt, err := decodeVerificationType(s, pool, meta)
		if err != nil {
			return nil, err
		}
		f.Stack = []VerificationType{vt}
		return f, nil

	case tag == 247: // same_locals_1_stack_item_frame_extended
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		vt, err := decodeVerificationType(s, pool, meta)
		if err != nil {
			return nil, err
		}
		f.OffsetDelta = int(delta)
		f.Stack = []VerificationType{vt}
		return f, nil

	case tag >= 248 && tag <= 250: // chop_frame
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		f.OffsetDelta = int(delta)
		return f, nil

	case tag == 251: // same_frame_extended
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		f.OffsetDelta = int(delta)
		return f, nil

	case tag >= 252 && tag <= 254: // append_frame
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		f.OffsetDelta = int(delta)
		n := int(tag) - 251
		locals := make([]VerificationType, n)
		for i := range locals {
			vt, err := decodeVerificationType(s, pool, meta)
			if err != nil {
				return nil, err
			}
			locals[i] = vt
		}
		f.Locals = locals
		return f, nil

	case tag == 255: // full_frame
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		f.OffsetDelta = int(delta)

		localCount, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		locals := make([]VerificationType, localCount)
		for i := range locals {
			vt, err := decodeVerificationType(s, pool, meta)
			if err != nil {
				return nil, err
			}
			locals[i] = vt
		}

		stackCount, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		stack := make([]VerificationType, stackCount)
		for i := range stack {
			vt, err := decodeVerificationType(s, pool, meta)
			if err != nil {
				return nil, err
			}
			stack[i] = vt
		}

		f.FullLocals, f.FullStack = locals, stack
		return f, nil

	default: // 128..246 reserved
		return nil, ErrUnknownTag
	}
}

func encodeStackMapFrame(s Stream, pool *ConstantPool, f *StackMapFrame) error {
	switch f.Kind() {
	case FrameSame:
		return WriteU8(s, uint8(f.OffsetDelta))

	case FrameSameLocals1StackItem:
		if err := WriteU8(s, uint8(f.OffsetDelta+64)); err != nil {
			return err
		}
		return encodeVerificationType(s, pool, f.Stack[0])

	case FrameSameLocals1StackItemExtended:
		if err := WriteU8(s, 247); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(f.OffsetDelta)); err != nil {
			return err
		}
		return encodeVerificationType(s, pool, f.Stack[0])

	case FrameChop:
		if err := WriteU8(s, f.FrameType); err != nil {
			return err
		}
		return WriteU16(s, uint16(f.OffsetDelta))

	case FrameSameExtended:
		if err := WriteU8(s, 251); err != nil {
			return err
		}
		return WriteU16(s, uint16(f.OffsetDelta))

	case FrameAppend:
		if err := WriteU8(s, f.FrameType); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(f.OffsetDelta)); err != nil {
			return err
		}
		for _, vt := range f.Locals {
			if err := encodeVerificationType(s, pool, vt); err != nil {
				return err
			}
		}
		return nil

	case FrameFull:
		if err := WriteU8(s, 255); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(f.OffsetDelta)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(len(f.FullLocals))); err != nil {
			return err
		}
		for _, vt := range f.FullLocals {
			if err := encodeVerificationType(s, pool, vt); err != nil {
				return err
			}
		}
		if err := WriteU16(s, uint16(len(f.FullStack))); err != nil {
			return err
		}
		for _, vt := range f.FullStack {
			if err := encodeVerificationType(s, pool, vt); err != nil {
				return err
			}
		}
		return nil

	default:
		return ErrUnknownTag
	}
}

// StackMapTable is the modern (Java 6+) verification-hint attribute: a
// sequence of frames, each describing the verifier state at one bytecode
// offset relative to the previous frame.
type StackMapTable struct {
	Frames []*StackMapFrame
}

func (c *StackMapTable) AttributeName() string { return "StackMapTable" }
func (c *StackMapTable) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Frames))); err != nil {
		return err
	}
	for _, f := range c.Frames {
		if err := encodeStackMapFrame(s, pool, f); err != nil {
			return err
		}
	}
	return nil
}

func decodeStackMapTableAttribute(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	frames := make([]*StackMapFrame, count)
	for i := range frames {
		f, err := decodeStackMapFrame(s, pool, meta)
		if err != nil {
			meta.Add(LevelWarn, "stackmap", "failed to decode frame %d: %v", i, err)
			return nil, err
		}
		frames[i] = f
	}
	return &StackMapTable{Frames: frames}, nil
}

// StackMap is the legacy (pre-Java 6, CLDC) predecessor of StackMapTable:
// every frame is always a full frame, with no delta compaction. Kept so a
// roundtrip through very old class files (supplemented from the original
// implementation's handling of legacy attribute names) doesn't collapse
// to RawBody.
type StackMap struct {
	Frames []*StackMapFrame
}

func (c *StackMap) AttributeName() string { return "StackMap" }
func (c *StackMap) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Frames))); err != nil {
		return err
	}
	for _, f := range c.Frames {
		if err := WriteU16(s, uint16(f.OffsetDelta)); err != nil {
			return err
		}
		if err := WriteU16(s, uint16(len(f.FullLocals))); err != nil {
			return err
		}
		for _, vt := range f.FullLocals {
			if err := encodeVerificationType(s, pool, vt); err != nil {
				return err
			}
		}
		if err := WriteU16(s, uint16(len(f.FullStack))); err != nil {
			return err
		}
		for _, vt := range f.FullStack {
			if err := encodeVerificationType(s, pool, vt); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeStackMapLegacy(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	frames := make([]*StackMapFrame, count)
	for i := range frames {
		delta, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		localCount, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		locals := make([]VerificationType, localCount)
		for j := range locals {
			vt, err := decodeVerificationType(s, pool, meta)
			if err != nil {
				return nil, err
			}
			locals[j] = vt
		}
		stackCount, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		stack := make([]VerificationType, stackCount)
		for j := range stack {
			vt, err := decodeVerificationType(s, pool, meta)
			if err != nil {
				return nil, err
			}
			stack[j] = vt
		}
		frames[i] = &StackMapFrame{FrameType: 255, OffsetDelta: int(delta), FullLocals: locals, FullStack: stack}
	}
	return &StackMap{Frames: frames}, nil
}

func init() {
	registerAttribute("StackMap", Version1_2, []Location{LocationCode}, decodeStackMapLegacy)
}
