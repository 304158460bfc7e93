// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"io"
	"testing"
)

func TestBufferReadWriteRoundTrip(t *testing.T) {
	buf := NewBuffer(nil)
	if _, err := buf.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 5 {
		t.Errorf("Len() = %d, want 5", buf.Len())
	}
	if _, err := buf.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 5)
	if err := buf.ReadFull(got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestBufferWriteGrowsPastCurrentLength(t *testing.T) {
	buf := NewBuffer([]byte{1, 2})
	if _, err := buf.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := buf.Write([]byte{3, 4}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 4 {
		t.Errorf("Len() = %d, want 4", buf.Len())
	}
	if got := buf.Bytes(); got[2] != 3 || got[3] != 4 {
		t.Errorf("Bytes() = %v, want trailing 3,4", got)
	}
}

func TestBufferReadPastEndReturnsEOF(t *testing.T) {
	buf := NewBuffer([]byte{1})
	buf.Seek(1, io.SeekStart)
	n, err := buf.Read(make([]byte, 1))
	if n != 0 || err != io.EOF {
		t.Errorf("Read past end = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestBufferReadFullShortReturnsTruncated(t *testing.T) {
	buf := NewBuffer([]byte{1, 2})
	if err := buf.ReadFull(make([]byte, 3)); err != ErrTruncated {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestBufferSeekWhences(t *testing.T) {
	buf := NewBuffer([]byte{1, 2, 3, 4})
	if pos, _ := buf.Seek(2, io.SeekStart); pos != 2 {
		t.Errorf("SeekStart = %d, want 2", pos)
	}
	if pos, _ := buf.Seek(1, io.SeekCurrent); pos != 3 {
		t.Errorf("SeekCurrent = %d, want 3", pos)
	}
	if pos, _ := buf.Seek(-1, io.SeekEnd); pos != 3 {
		t.Errorf("SeekEnd(-1) = %d, want 3", pos)
	}
	if _, err := buf.Seek(-10, io.SeekStart); err != errNegativePosition {
		t.Errorf("err = %v, want errNegativePosition", err)
	}
	if _, err := buf.Seek(0, 99); err != errInvalidWhence {
		t.Errorf("err = %v, want errInvalidWhence", err)
	}
}

func TestNewBufferCopiesInput(t *testing.T) {
	src := []byte{1, 2, 3}
	buf := NewBuffer(src)
	src[0] = 0xFF
	if buf.Bytes()[0] != 1 {
		t.Error("NewBuffer should copy its input, not alias it")
	}
}

func TestWrapBytesDoesNotCopy(t *testing.T) {
	src := []byte{1, 2, 3}
	buf := WrapBytes(src)
	if &buf.Bytes()[0] != &src[0] {
		t.Error("WrapBytes should alias its input, not copy it")
	}
}

func TestWrapBytesWritePastEndDoesNotMutateOriginal(t *testing.T) {
	src := []byte{1, 2}
	buf := WrapBytes(src)
	buf.Seek(0, io.SeekStart)
	buf.Write([]byte{9, 9, 9})
	if src[0] == 9 {
		t.Error("a growing write should reallocate rather than mutate the original slice in place")
	}
}
