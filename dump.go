// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"io"
	"os"
)

// Dump writes a human-readable listing of cf to w: version, access flags,
// this/super/interfaces, pool, then fields/methods/attributes and any
// error-level diagnostics. It is a
// thin inspect collaborator for the cobra dump subcommand, not a
// disassembler — instruction bytes are summarized, not decoded.
func Dump(cf *ClassFile, w io.Writer) error {
	fmt.Fprintf(w, "version: %s\n", cf.Version)
	fmt.Fprintf(w, "access flags: %s (%#04x)\n", cf.AccessFlags, uint16(cf.AccessFlags))
	fmt.Fprintf(w, "this: %s\n", classEntryName(cf.This))
	if cf.Super != nil {
		fmt.Fprintf(w, "super: %s\n", classEntryName(cf.Super))
	}
	for _, iface := range cf.Interfaces {
		fmt.Fprintf(w, "interface: %s\n", classEntryName(iface))
	}

	fmt.Fprintf(w, "\nconstant pool (%d entries):\n", cf.Pool.MaxSlot()-1)
	for _, e := range cf.Pool.Entries() {
		fmt.Fprintf(w, "  #%d = %T %v\n", e.Slot, e.Entry, e.Entry)
	}

	fmt.Fprintf(w, "\nfields (%d):\n", len(cf.Fields))
	for _, f := range cf.Fields {
		fmt.Fprintf(w, "  %s %s %s\n", f.AccessFlags, utf8String(f.Name), utf8String(f.Descriptor))
	}

	fmt.Fprintf(w, "\nmethods (%d):\n", len(cf.Methods))
	for _, m := range cf.Methods {
		fmt.Fprintf(w, "  %s %s%s\n", m.AccessFlags, utf8String(m.Name), utf8String(m.Descriptor))
		if c := m.Code(); c != nil {
			fmt.Fprintf(w, "    max_stack=%d max_locals=%d code_length=%d\n",
				c.MaxStack, c.MaxLocals, len(c.RawBytes))
		}
	}

	fmt.Fprintf(w, "\nattributes (%d):\n", len(cf.Attributes))
	for _, a := range cf.Attributes {
		fmt.Fprintf(w, "  %s\n", a.Name)
	}

	if errs := cf.Metadata.Errors(); len(errs) > 0 {
		fmt.Fprintf(w, "\ndiagnostics (%d):\n", len(errs))
		for _, p := range errs {
			fmt.Fprintf(w, "  [%s] %s: %s\n", p.Node.Level, p.Node.Name, p.Message)
		}
	}
	return nil
}

// DumpFile writes cf's Dump listing to a newly created file at path.
func DumpFile(cf *ClassFile, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return Dump(cf, out)
}

func classEntryName(e ConstantEntry) string {
	c, ok := e.(*ClassEntry)
	if !ok {
		return fmt.Sprintf("%v", e)
	}
	return utf8String(c.Name)
}

func utf8String(e ConstantEntry) string {
	u, ok := e.(*Utf8Entry)
	if !ok {
		return fmt.Sprintf("%v", e)
	}
	return u.String()
}
