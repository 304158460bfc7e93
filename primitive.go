// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"encoding/binary"
	"io"
	"math"
)

// The primitive codec: typed big-endian read/write over an
// io.ReadWriteSeeker. All multi-byte values in a class file are big-endian
// (JVM §4.4).

func readFull(s io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s, buf); err != nil {
		return nil, ErrTruncated
	}
	return buf, nil
}

// ReadU8 reads one unsigned byte.
func ReadU8(s io.Reader) (uint8, error) {
	b, err := readFull(s, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI8 reads one signed byte.
func ReadI8(s io.Reader) (int8, error) {
	v, err := ReadU8(s)
	return int8(v), err
}

// ReadU16 reads a big-endian unsigned 16-bit value.
func ReadU16(s io.Reader) (uint16, error) {
	b, err := readFull(s, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadI16 reads a big-endian signed 16-bit value.
func ReadI16(s io.Reader) (int16, error) {
	v, err := ReadU16(s)
	return int16(v), err
}

// ReadU32 reads a big-endian unsigned 32-bit value.
func ReadU32(s io.Reader) (uint32, error) {
	b, err := readFull(s, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadI32 reads a big-endian signed 32-bit value.
func ReadI32(s io.Reader) (int32, error) {
	v, err := ReadU32(s)
	return int32(v), err
}

// ReadI64 reads a big-endian signed 64-bit value.
func ReadI64(s io.Reader) (int64, error) {
	b, err := readFull(s, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadF32 reads an IEEE-754 single-precision float.
func ReadF32(s io.Reader) (float32, error) {
	v, err := ReadU32(s)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads an IEEE-754 double-precision float.
func ReadF64(s io.Reader) (float64, error) {
	b, err := readFull(s, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadBytes reads n bytes verbatim.
func ReadBytes(s io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	return readFull(s, n)
}

// WriteU8 writes one unsigned byte.
func WriteU8(s io.Writer, v uint8) error {
	_, err := s.Write([]byte{v})
	return err
}

// WriteI8 writes one signed byte.
func WriteI8(s io.Writer, v int8) error { return WriteU8(s, uint8(v)) }

// WriteU16 writes a big-endian unsigned 16-bit value.
func WriteU16(s io.Writer, v uint16) error {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	_, err := s.Write(b)
	return err
}

// WriteI16 writes a big-endian signed 16-bit value.
func WriteI16(s io.Writer, v int16) error { return WriteU16(s, uint16(v)) }

// WriteU32 writes a big-endian unsigned 32-bit value.
func WriteU32(s io.Writer, v uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	_, err := s.Write(b)
	return err
}

// WriteI32 writes a big-endian signed 32-bit value.
func WriteI32(s io.Writer, v int32) error { return WriteU32(s, uint32(v)) }

// WriteI64 writes a big-endian signed 64-bit value.
func WriteI64(s io.Writer, v int64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	_, err := s.Write(b)
	return err
}

// WriteF32 writes an IEEE-754 single-precision float.
func WriteF32(s io.Writer, v float32) error {
	return WriteU32(s, math.Float32bits(v))
}

// WriteF64 writes an IEEE-754 double-precision float.
func WriteF64(s io.Writer, v float64) error {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(v))
	_, err := s.Write(b)
	return err
}

// WriteBytes writes p verbatim.
func WriteBytes(s io.Writer, p []byte) error {
	_, err := s.Write(p)
	return err
}

// tell returns the current position of a seeker, panicking is avoided by
// the caller always operating on an io.ReadWriteSeeker produced by this
// package (Buffer, or an *os.File).
func tell(s io.Seeker) (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}
