// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Fuzz decodes data as a class file, for use with a coverage-guided fuzzer.
// It returns 1 on a clean decode (even one that collected diagnostics) and
// 0 if Read itself failed outright.
func Fuzz(data []byte) int {
	f, err := LoadBytes(data, nil)
	if err != nil {
		return 0
	}
	_ = f
	return 1
}
