// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package classfile decodes and encodes JVM class files (JVM §4): the
// constant pool, the attribute dispatch engine, the bytecode instruction
// codec, the stack map frame codec, and a pluggable verifier. Decoding
// never aborts on a malformed sub-element; every problem is recorded on a
// Metadata tree and the caller decides whether to trust the result.
package classfile
