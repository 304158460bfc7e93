// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"fmt"
	"io"
)

// Version is a class file's (major, minor) pair. Ordering is lexicographic
// on (major, minor), matching the JVM's own rule that a class file is
// supported by a given runtime if (major, minor) <= the runtime's own.
type Version struct {
	Major uint16
	Minor uint16
}

// Well-known versions, named after the JDK release that introduced them.
var (
	Version1_0 = Version{45, 0}
	Version1_1 = Version{45, 3}
	Version1_2 = Version{46, 0}
	Version1_3 = Version{47, 0}
	Version1_4 = Version{48, 0}
	Version5   = Version{49, 0}
	Version6   = Version{50, 0}
	Version7   = Version{51, 0}
	Version8   = Version{52, 0}
	Version9   = Version{53, 0}
	Version10  = Version{54, 0}
	Version11  = Version{55, 0}
	Version12  = Version{56, 0}
	Version13  = Version{57, 0}
	Version14  = Version{58, 0}
	Version15  = Version{59, 0}
	Version16  = Version{60, 0}
	Version17  = Version{61, 0}
	Version18  = Version{62, 0}
	Version19  = Version{63, 0}
	Version20  = Version{64, 0}
	Version21  = Version{65, 0}
	Version22  = Version{66, 0}
)

// previewMinor is the minor version value (0xFFFF) that flags a class file
// as compiled against a preview feature set of its major version.
const previewMinor = 65535

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// LessEqual reports whether v orders at or before other.
func (v Version) LessEqual(other Version) bool {
	return v == other || v.Less(other)
}

// Preview reports whether this version flags a preview-feature class file:
// major >= 56 (Java 12) and minor == 65535.
func (v Version) Preview() bool {
	return v.Major >= 56 && v.Minor == previewMinor
}

// Name returns the conventional Java release name for this version, e.g.
// "1.0", "1.4", "5.0", "8", "22". Unknown (major, minor) pairs fall back
// to a "<major>.<minor> (unknown)" rendering rather than failing.
func (v Version) Name() string {
	switch {
	case v.Major == 45 && v.Minor <= 3:
		if v.Minor == 0 {
			return "1.0"
		}
		return "1.1"
	case v.Major >= 46 && v.Major <= 48:
		return fmt.Sprintf("1.%d", v.Major-44)
	case v.Major == 49:
		return "5.0"
	case v.Major >= 50 && v.Major <= 66:
		return fmt.Sprintf("%d", v.Major-44)
	default:
		return fmt.Sprintf("%d.%d (unknown)", v.Major, v.Minor)
	}
}

func (v Version) String() string {
	if v.Preview() {
		return v.Name() + "-preview"
	}
	return v.Name()
}

// ReadVersion reads minor then major (in that file order, per §4.7: "minor
// u16; major u16") and returns the assembled Version.
func ReadVersion(s io.Reader) (Version, error) {
	minor, err := ReadU16(s)
	if err != nil {
		return Version{}, err
	}
	major, err := ReadU16(s)
	if err != nil {
		return Version{}, err
	}
	return Version{Major: major, Minor: minor}, nil
}

// Write writes minor then major, symmetric with ReadVersion.
func (v Version) Write(s io.Writer) error {
	if err := WriteU16(s, v.Minor); err != nil {
		return err
	}
	return WriteU16(s, v.Major)
}
