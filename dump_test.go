// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpIncludesHeaderFieldsAndMethods(t *testing.T) {
	cf := buildSimpleClass()
	cf.Metadata = NewMetadata(nil)

	var buf bytes.Buffer
	if err := Dump(cf, &buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"this: com/example/Greeter", "super: java/lang/Object", "greeting", "greet"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q:\n%s", want, out)
		}
	}
}

func TestDumpReportsMetadataDiagnostics(t *testing.T) {
	cf := buildSimpleClass()
	meta := NewMetadata(nil)
	meta.Add(LevelError, "pool", "something went wrong")
	cf.Metadata = meta

	var buf bytes.Buffer
	if err := Dump(cf, &buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "something went wrong") {
		t.Errorf("Dump output should surface recorded diagnostics:\n%s", buf.String())
	}
}
