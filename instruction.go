// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Instruction is one decoded bytecode instruction. Offset is absolute
// from the start of the enclosing Code attribute's code array — used for
// switch-padding, jump-offset arithmetic, and Uninitialized(offset)
// verification types that reference a `new` site (§4.5, §4.6).
type Instruction struct {
	Offset   int
	Opcode   byte
	Mnemonic string

	// Operands, populated according to Opcode; only the fields relevant
	// to a given instruction are set.
	IntOperands   []int32 // bipush/sipush/iinc const, branch targets, etc.
	LocalIndex    int     // iload/istore/ret/iinc local slot
	PoolIndex     uint16  // ldc/ldc_w/ldc2_w/field-method-ref/class ops
	ArrayType     uint8   // newarray atype
	Dimensions    uint8   // multianewarray
	InterfaceArgc uint8   // invokeinterface count byte

	// Switch payloads.
	Default      int32
	Low, High    int32   // tableswitch
	Offsets      []int32 // tableswitch jump offsets
	Matches      []int32 // lookupswitch match values
	MatchTargets []int32 // lookupswitch jump offsets, parallel to Matches

	Wide bool // true if this instruction was read under a wide prefix
}

// RawInstruction wraps an opcode byte, defined or not, into a bare
// operand-less Instruction, so callers rewriting a code array can carry a
// byte this package's table doesn't cover. encodeOne emits just the byte
// for an opcode with no operands, which includes every byte outside the
// table; for an opcode that takes operands it encodes the Instruction's
// operand fields, which RawInstruction leaves unset.
func RawInstruction(op byte) *Instruction {
	return &Instruction{Opcode: op, Mnemonic: opcodeTable[op].Name}
}

// switchPadding returns the number of alignment bytes consumed before a
// switch's own fixed operands, per §4.5 step 4: "(4 − (position+1) mod 4)
// mod 4", where position is the offset of the opcode byte itself.
func switchPadding(opcodeOffset int) int {
	return (4 - (opcodeOffset+1)%4) % 4
}

// checkLdcWidth reports (but never rejects) a decoded ldc/ldc_w/ldc2_w
// whose referenced constant has the wrong width (§4.5 step 6): ldc/ldc_w
// must reference a non-wide constant, ldc2_w a wide one (Long, Double).
// pool may be nil (some callers decode a lone instruction with no pool in
// hand), in which case the check is simply skipped.
func checkLdcWidth(pool *ConstantPool, meta *Metadata, offset int, opcode byte, idx uint16) {
	if pool == nil {
		return
	}
	entry, err := pool.At(int(idx))
	if err != nil {
		return
	}
	switch opcode {
	case OpLdc, OpLdcW:
		if entry.Wide() {
			meta.Add(LevelWarn, "code", "ldc/ldc_w at offset %d references wide constant at pool index %d", offset, idx)
		}
	case OpLdc2W:
		if !entry.Wide() {
			meta.Add(LevelWarn, "code", "ldc2_w at offset %d references non-wide constant at pool index %d", offset, idx)
		}
	}
}

// decodeOne implements §4.5 decode_one. offset is the absolute position
// of the opcode byte about to be read, within the enclosing code array.
// wide reports whether the previous instruction was a bare `wide` prefix.
// pool resolves ldc/ldc_w/ldc2_w operands for the width check above; meta
// receives the resulting warning, if any.
func decodeOne(s Stream, offset int, wide bool, pool *ConstantPool, meta *Metadata) (*Instruction, error) {
	opcodeByte, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	info := opcodeTable[opcodeByte]
	inst := &Instruction{Offset: offset, Opcode: opcodeByte, Mnemonic: info.Name, Wide: wide}

	if !isDefinedOpcode(opcodeByte) {
		return nil, ErrUnknownOpcode
	}

	switch opcodeByte {
	case OpWide:
		// The prefix itself carries no operands; the caller re-enters
		// decodeOne for the next instruction with wide=true.
		return inst, nil

	case OpTableswitch:
		for i := 0; i < switchPadding(offset); i++ {
			if _, err := ReadU8(s); err != nil {
				return nil, err
			}
		}
		def, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		low, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		high, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		if high < low {
			return nil, ErrInvalidSwitchBounds
		}
		count := int(high-low) + 1
		offsets := make([]int32, count)
		for i := range offsets {
			v, err := ReadI32(s)
			if err != nil {
				return nil, err
			}
			offsets[i] = v
		}
		inst.Default, inst.Low, inst.High, inst.Offsets = def, low, high, offsets
		return inst, nil

	case OpLookupswitch:
		for i := 0; i < switchPadding(offset); i++ {
			if _, err := ReadU8(s); err != nil {
				return nil, err
			}
		}
		def, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		npairs, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		matches := make([]int32, npairs)
		targets := make([]int32, npairs)
		for i := range matches {
			m, err := ReadI32(s)
			if err != nil {
				return nil, err
			}
			t, err := ReadI32(s)
			if err != nil {
				return nil, err
			}
			matches[i], targets[i] = m, t
		}
		inst.Default, inst.Matches, inst.MatchTargets = def, matches, targets
		return inst, nil

	case OpLdc:
		idx, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		inst.PoolIndex = uint16(idx)
		checkLdcWidth(pool, meta, offset, opcodeByte, inst.PoolIndex)
		return inst, nil

	case OpLdcW, OpLdc2W:
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		inst.PoolIndex = idx
		checkLdcWidth(pool, meta, offset, opcodeByte, inst.PoolIndex)
		return inst, nil

	case OpIinc:
		if wide {
			idx, err := ReadU16(s)
			if err != nil {
				return nil, err
			}
			c, err := ReadI16(s)
			if err != nil {
				return nil, err
			}
			inst.LocalIndex = int(idx)
			inst.IntOperands = []int32{int32(c)}
		} else {
			idx, err := ReadU8(s)
			if err != nil {
				return nil, err
			}
			c, err := ReadI8(s)
			if err != nil {
				return nil, err
			}
			inst.LocalIndex = int(idx)
			inst.IntOperands = []int32{int32(c)}
		}
		return inst, nil

	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		if wide {
			idx, err := ReadU16(s)
			if err != nil {
				return nil, err
			}
			inst.LocalIndex = int(idx)
		} else {
			idx, err := ReadU8(s)
			if err != nil {
				return nil, err
			}
			inst.LocalIndex = int(idx)
		}
		return inst, nil

	case OpBipush:
		v, err := ReadI8(s)
		if err != nil {
			return nil, err
		}
		inst.IntOperands = []int32{int32(v)}
		return inst, nil

	case OpSipush:
		v, err := ReadI16(s)
		if err != nil {
			return nil, err
		}
		inst.IntOperands = []int32{int32(v)}
		return inst, nil

	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpGoto, OpJsr, OpIfnull, OpIfnonnull:
		v, err := ReadI16(s)
		if err != nil {
			return nil, err
		}
		inst.IntOperands = []int32{int32(v)}
		return inst, nil

	case OpGotoW, OpJsrW:
		v, err := ReadI32(s)
		if err != nil {
			return nil, err
		}
		inst.IntOperands = []int32{v}
		return inst, nil

	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield,
		OpInvokevirtual, OpInvokespecial, OpInvokestatic,
		OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		inst.PoolIndex = idx
		return inst, nil

	case OpInvokeinterface:
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		argc, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		zero, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		inst.PoolIndex = idx
		inst.InterfaceArgc = argc
		_ = zero
		return inst, nil

	case OpInvokedynamic:
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		if _, err := ReadU16(s); err != nil { // two reserved zero bytes
			return nil, err
		}
		inst.PoolIndex = idx
		return inst, nil

	case OpNewarray:
		at, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		inst.ArrayType = at
		return inst, nil

	case OpMultianewarray:
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		dims, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		inst.PoolIndex = idx
		inst.Dimensions = dims
		return inst, nil

	default:
		// Every other opcode has no operands.
		return inst, nil
	}
}

// size reports the instruction's total encoded length in bytes (opcode +
// wide prefix, if any + operands), used by callers computing the next
// instruction's absolute offset.
func (i *Instruction) size() int {
	n := 1
	if i.Wide {
		n++
	}
	switch i.Opcode {
	case OpWide:
		return 1
	case OpTableswitch:
		return 1 + switchPadding(i.Offset) + 12 + 4*len(i.Offsets)
	case OpLookupswitch:
		return 1 + switchPadding(i.Offset) + 8 + 8*len(i.Matches)
	case OpIinc:
		if i.Wide {
			return n + 4
		}
		return n + 2
	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		if i.Wide {
			return n + 2
		}
		return n + 1
	default:
		return n + opcodeTable[i.Opcode].Size
	}
}

// encodeOne writes inst back out, the mirror of decodeOne. When inst.Wide
// is set and the opcode is one of the wide-eligible forms, encodeOne first
// writes the `wide` opcode byte itself. pool resolves
// ldc/ldc_w/ldc2_w operands for the width check (§4.5 step 6); it may be
// nil to skip the check entirely.
func encodeOne(s Stream, inst *Instruction, pool *ConstantPool) error {
	if inst.Wide {
		if _, ok := wideEligible[inst.Opcode]; ok {
			if err := WriteU8(s, OpWide); err != nil {
				return err
			}
		}
	}
	if err := WriteU8(s, inst.Opcode); err != nil {
		return err
	}

	switch inst.Opcode {
	case OpWide:
		return nil

	case OpTableswitch:
		for i := 0; i < switchPadding(inst.Offset); i++ {
			if err := WriteU8(s, 0); err != nil {
				return err
			}
		}
		if err := WriteI32(s, inst.Default); err != nil {
			return err
		}
		if err := WriteI32(s, inst.Low); err != nil {
			return err
		}
		if err := WriteI32(s, inst.High); err != nil {
			return err
		}
		for _, off := range inst.Offsets {
			if err := WriteI32(s, off); err != nil {
				return err
			}
		}
		return nil

	case OpLookupswitch:
		for i := 0; i < switchPadding(inst.Offset); i++ {
			if err := WriteU8(s, 0); err != nil {
				return err
			}
		}
		if err := WriteI32(s, inst.Default); err != nil {
			return err
		}
		if err := WriteI32(s, int32(len(inst.Matches))); err != nil {
			return err
		}
		for i := range inst.Matches {
			if err := WriteI32(s, inst.Matches[i]); err != nil {
				return err
			}
			if err := WriteI32(s, inst.MatchTargets[i]); err != nil {
				return err
			}
		}
		return nil

	case OpLdc:
		if inst.PoolIndex > 0xff {
			return ErrNotLdcWide
		}
		if pool != nil {
			if entry, err := pool.At(int(inst.PoolIndex)); err == nil && entry.Wide() {
				return ErrNotLdcWide
			}
		}
		return WriteU8(s, uint8(inst.PoolIndex))

	case OpLdcW:
		if pool != nil {
			if entry, err := pool.At(int(inst.PoolIndex)); err == nil && entry.Wide() {
				return ErrNotLdcWide
			}
		}
		return WriteU16(s, inst.PoolIndex)

	case OpLdc2W:
		if pool != nil {
			if entry, err := pool.At(int(inst.PoolIndex)); err == nil && !entry.Wide() {
				return ErrNotLdcWide
			}
		}
		return WriteU16(s, inst.PoolIndex)

	case OpIinc:
		if inst.Wide {
			if err := WriteU16(s, uint16(inst.LocalIndex)); err != nil {
				return err
			}
			return WriteI16(s, int16(inst.IntOperands[0]))
		}
		if err := WriteU8(s, uint8(inst.LocalIndex)); err != nil {
			return err
		}
		return WriteI8(s, int8(inst.IntOperands[0]))

	case OpIload, OpLload, OpFload, OpDload, OpAload,
		OpIstore, OpLstore, OpFstore, OpDstore, OpAstore, OpRet:
		if inst.Wide {
			return WriteU16(s, uint16(inst.LocalIndex))
		}
		return WriteU8(s, uint8(inst.LocalIndex))

	case OpBipush:
		return WriteI8(s, int8(inst.IntOperands[0]))

	case OpSipush:
		return WriteI16(s, int16(inst.IntOperands[0]))

	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle,
		OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple,
		OpIfAcmpeq, OpIfAcmpne, OpGoto, OpJsr, OpIfnull, OpIfnonnull:
		return WriteI16(s, int16(inst.IntOperands[0]))

	case OpGotoW, OpJsrW:
		return WriteI32(s, inst.IntOperands[0])

	case OpGetstatic, OpPutstatic, OpGetfield, OpPutfield,
		OpInvokevirtual, OpInvokespecial, OpInvokestatic,
		OpNew, OpAnewarray, OpCheckcast, OpInstanceof:
		return WriteU16(s, inst.PoolIndex)

	case OpInvokeinterface:
		if err := WriteU16(s, inst.PoolIndex); err != nil {
			return err
		}
		if err := WriteU8(s, inst.InterfaceArgc); err != nil {
			return err
		}
		return WriteU8(s, 0)

	case OpInvokedynamic:
		if err := WriteU16(s, inst.PoolIndex); err != nil {
			return err
		}
		return WriteU16(s, 0)

	case OpNewarray:
		return WriteU8(s, inst.ArrayType)

	case OpMultianewarray:
		if err := WriteU16(s, inst.PoolIndex); err != nil {
			return err
		}
		return WriteU8(s, inst.Dimensions)

	default:
		return nil
	}
}
