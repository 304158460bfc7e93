// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestDecodeMUTF8ASCII(t *testing.T) {
	got := DecodeMUTF8([]byte("hello"))
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestDecodeMUTF8EmbeddedNUL(t *testing.T) {
	got := DecodeMUTF8([]byte{'a', 0xC0, 0x80, 'b'})
	want := "a\x00b"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeMUTF8SupplementaryCharacter(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as a surrogate pair (D83D DE00),
	// each half as its own 3-byte sequence.
	b := EncodeMUTF8("\U0001F600")
	if len(b) != 6 {
		t.Fatalf("EncodeMUTF8 produced %d bytes, want 6 (two 3-byte halves)", len(b))
	}
	got := DecodeMUTF8(b)
	if got != "\U0001F600" {
		t.Errorf("got %q, want U+1F600", got)
	}
}

func TestEncodeMUTF8RoundTrip(t *testing.T) {
	cases := []string{"", "plain ascii", "café", "\x00embedded nul", "\U0001F4A9pile"}
	for _, s := range cases {
		got := DecodeMUTF8(EncodeMUTF8(s))
		if got != s {
			t.Errorf("round trip of %q = %q", s, got)
		}
	}
}

func TestEncodeMUTF8NulUsesTwoByteForm(t *testing.T) {
	b := EncodeMUTF8("\x00")
	if len(b) != 2 || b[0] != 0xC0 || b[1] != 0x80 {
		t.Errorf("EncodeMUTF8(NUL) = % x, want C0 80", b)
	}
}

func TestDecodeMUTF8MalformedByteIsReplaced(t *testing.T) {
	got := DecodeMUTF8([]byte{0xFF})
	if got != "�" {
		t.Errorf("got %q, want the replacement character", got)
	}
}
