// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "errors"

// Sentinel errors returned by the primitive codec and the top-level reader.
var (
	// ErrTruncated is returned when the stream yields fewer bytes than
	// requested by a fixed-width read.
	ErrTruncated = errors.New("classfile: truncated input")

	// ErrBadMagic is returned when the first four bytes of a class file
	// are not CA FE BA BE. Parsing continues; this is recorded as a
	// diagnostic rather than treated as fully fatal.
	ErrBadMagic = errors.New("classfile: bad magic, not CA FE BA BE")

	// ErrPoolOutOfBounds is returned by ConstantPool.At when the index
	// exceeds 65535.
	ErrPoolOutOfBounds = errors.New("classfile: constant pool index out of bounds")

	// ErrPoolTooLarge is returned by ConstantPool.Write when max_slot would
	// require a count greater than 65535.
	ErrPoolTooLarge = errors.New("classfile: constant pool exceeds 65535 slots")

	// ErrUnknownTag is returned when a constant or stack map frame tag byte
	// does not match any known kind.
	ErrUnknownTag = errors.New("classfile: unknown tag byte")

	// ErrUnresolvedPlaceholder is returned by a Placeholder's own encode
	// method. ConstantPool.Write does not return it: Write skips slots that
	// hold a Placeholder, and a reference that is still a Placeholder is
	// written as its Index.
	ErrUnresolvedPlaceholder = errors.New("classfile: unresolved placeholder constant at write time")

	// ErrInvalidSwitchBounds is returned by the instruction decoder when a
	// tableswitch's high is less than its low.
	ErrInvalidSwitchBounds = errors.New("classfile: tableswitch high < low")

	// ErrNotLdcWide is returned by the instruction encoder when ldc2_w is
	// asked to reference a non-wide constant, or ldc/ldc_w a wide one.
	ErrNotLdcWide = errors.New("classfile: ldc/ldc_w/ldc2_w constant width mismatch")

	// ErrUnknownOpcode is returned by the instruction decoder for a byte
	// outside the 202 defined opcodes and the 3 reserved ones.
	ErrUnknownOpcode = errors.New("classfile: unknown opcode")
)
