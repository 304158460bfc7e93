// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/go-jclass/classfile/log"
)

// The format's own upper bounds, used when Options leaves a limit unset:
// the pool count is a u16, and the JVM caps a single method's code array
// at 65535 bytes even though the length field is a u32.
const (
	DefaultMaxPoolSize = 65535
	DefaultMaxCodeSize = 65535
)

// Options configures Load/LoadBytes.
type Options struct {
	// Verifier is run over the decoded class file once Read returns. Nil
	// defaults to NopVerifier, which accepts everything (§4.8).
	Verifier Verifier

	// MaxPoolSize caps the constant pool slot count considered sane;
	// a larger pool is reported on the metadata tree, never rejected.
	// 0 means DefaultMaxPoolSize.
	MaxPoolSize int

	// MaxCodeSize caps a single method's code array length, reported the
	// same way. 0 means DefaultMaxCodeSize.
	MaxCodeSize int

	// A custom logger; nil logs to stdout at error level and above.
	Logger log.Logger
}

func (o *Options) logger() *log.Helper {
	if o != nil && o.Logger != nil {
		return log.NewHelper(o.Logger)
	}
	return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelError)))
}

func (o *Options) verifier(meta *Metadata) Verifier {
	if o != nil && o.Verifier != nil {
		return o.Verifier
	}
	return NopVerifier{}
}

func (o *Options) maxPoolSize() int {
	if o != nil && o.MaxPoolSize > 0 {
		return o.MaxPoolSize
	}
	return DefaultMaxPoolSize
}

func (o *Options) maxCodeSize() int {
	if o != nil && o.MaxCodeSize > 0 {
		return o.MaxCodeSize
	}
	return DefaultMaxCodeSize
}

// checkLimits reports any decoded structure exceeding the caller's size
// caps. Reported, never rejected — the same posture every other defect
// takes (§7).
func checkLimits(cf *ClassFile, opts *Options, meta *Metadata) {
	if cf.Pool.MaxSlot() > opts.maxPoolSize() {
		meta.Add(LevelError, "limits", "constant pool holds %d slots, cap is %d",
			cf.Pool.MaxSlot(), opts.maxPoolSize())
	}
	for _, m := range cf.Methods {
		if c := m.Code(); c != nil && len(c.RawBytes) > opts.maxCodeSize() {
			meta.Add(LevelError, "limits", "method %s code array is %d bytes, cap is %d",
				utf8String(m.Name), len(c.RawBytes), opts.maxCodeSize())
		}
	}
}

// File is a loaded class file together with the resources (an open file,
// its memory mapping) that back it. Close releases them.
type File struct {
	*ClassFile

	data mmap.MMap
	f    *os.File
}

// Load memory-maps name and decodes it as a class file. The mapping is
// read directly rather than copied.
func Load(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	cf, err := decode(WrapBytes(data), opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	return &File{ClassFile: cf, data: data, f: f}, nil
}

// LoadBytes decodes a class file already held in memory. It reads data
// through a zero-copy view and never mutates it.
func LoadBytes(data []byte, opts *Options) (*File, error) {
	cf, err := decode(WrapBytes(data), opts)
	if err != nil {
		return nil, err
	}
	return &File{ClassFile: cf}, nil
}

// decode is the shared Load/LoadBytes body: construct a Metadata sink,
// run Read, then run Verify (policy supplied by opts, default NopVerifier)
// over the result before handing it back — Read and Verify both report
// into the same tree rather than aborting into two different error styles.
// A bad magic number is already on the metadata tree by the time Read
// returns, so it does not fail the load; only unrecoverable stream errors
// do (§7).
func decode(s Stream, opts *Options) (*ClassFile, error) {
	meta := NewMetadata(opts.logger())
	cf, err := Read(s, meta)
	if err != nil && cf == nil {
		return nil, err
	}
	checkLimits(cf, opts, meta)
	Verify(cf, opts.verifier(meta))
	return cf, nil
}

// Close releases the resources backing f (the memory mapping and open
// file, for a Load; a no-op for LoadBytes).
func (f *File) Close() error {
	if f.data != nil {
		if err := f.data.Unmap(); err != nil {
			return err
		}
	}
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}
