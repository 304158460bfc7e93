// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

func init() {
	registerAttribute("RuntimeVisibleTypeAnnotations", Version8, typeAnnotationLocations(), decodeRuntimeVisibleTypeAnnotations)
	registerAttribute("RuntimeInvisibleTypeAnnotations", Version8, typeAnnotationLocations(), decodeRuntimeInvisibleTypeAnnotations)
}

func typeAnnotationLocations() []Location {
	return []Location{LocationClass, LocationField, LocationMethod, LocationCode, LocationRecordComponent}
}

// Target-type byte values (§4.7.20.1 of the JVM spec this mirrors) —
// named by the target_info union variant they select.
const (
	TTClassTypeParameter       = 0x00
	TTMethodTypeParameter      = 0x01
	TTClassExtends             = 0x10
	TTClassTypeParameterBound  = 0x11
	TTMethodTypeParameterBound = 0x12
	TTField                    = 0x13
	TTMethodReturn             = 0x14
	TTMethodReceiver           = 0x15
	TTMethodFormalParameter    = 0x16
	TTThrows                   = 0x17
	TTLocalVariable            = 0x40
	TTResourceVariable         = 0x41
	TTExceptionParameter       = 0x42
	TTInstanceof               = 0x43
	TTNew                      = 0x44
	TTConstructorReference     = 0x45
	TTMethodReference          = 0x46
	TTCast                     = 0x47
	TTConstructorInvocationArg = 0x48
	TTMethodInvocationArg      = 0x49
	TTConstructorReferenceArg  = 0x4a
	TTMethodReferenceArg       = 0x4b
)

// LocalVarTarget is one entry of a localvar_target's live-range table
// (used by TTLocalVariable and TTResourceVariable).
type LocalVarTarget struct {
	StartPC, Length, Index int
}

// TypePathEntry is one (kind, type_argument_index) step of a TypePath.
type TypePathEntry struct {
	Kind              uint8
	TypeArgumentIndex uint8
}

// TargetInfo holds whichever fields TargetType's union selects; unused
// fields are left at their zero value.
type TargetInfo struct {
	TypeParameterIndex int // class/method type parameter, formal parameter
	BoundIndex         int // type parameter bound
	SupertypeIndex     int // 65535 (as decoded) means the class's own `extends` clause
	ThrowsIndex        int
	LocalVars          []LocalVarTarget
	ExceptionIndex     int
	Offset             int
	TypeArgumentIndex  int
}

// TypeAnnotation extends Annotation with a target_type/target_info pair
// locating what the annotation applies to, plus a TypePath locating which
// compound-type component (array element, wildcard bound, nested type) it
// targets within that location.
type TypeAnnotation struct {
	TargetType uint8
	Target     TargetInfo
	Path       []TypePathEntry
	Type       ConstantEntry // → Utf8
	Elements   []NamedElement
}

func decodeTargetInfo(s Stream, targetType uint8) (TargetInfo, error) {
	var t TargetInfo
	switch targetType {
	case TTClassTypeParameter, TTMethodTypeParameter:
		idx, err := ReadU8(s)
		if err != nil {
			return t, err
		}
		t.TypeParameterIndex = int(idx)
	case TTClassExtends:
		idx, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		t.SupertypeIndex = int(idx)
	case TTClassTypeParameterBound, TTMethodTypeParameterBound:
		idx, err := ReadU8(s)
		if err != nil {
			return t, err
		}
		bound, err := ReadU8(s)
		if err != nil {
			return t, err
		}
		t.TypeParameterIndex, t.BoundIndex = int(idx), int(bound)
	case TTField, TTMethodReturn, TTMethodReceiver:
		// empty_target: no payload.
	case TTMethodFormalParameter:
		idx, err := ReadU8(s)
		if err != nil {
			return t, err
		}
		t.TypeParameterIndex = int(idx)
	case TTThrows:
		idx, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		t.ThrowsIndex = int(idx)
	case TTLocalVariable, TTResourceVariable:
		count, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		vars := make([]LocalVarTarget, count)
		for i := range vars {
			start, err := ReadU16(s)
			if err != nil {
				return t, err
			}
			length, err := ReadU16(s)
			if err != nil {
				return t, err
			}
			index, err := ReadU16(s)
			if err != nil {
				return t, err
			}
			vars[i] = LocalVarTarget{StartPC: int(start), Length: int(length), Index: int(index)}
		}
		t.LocalVars = vars
	case TTExceptionParameter:
		idx, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		t.ExceptionIndex = int(idx)
	case TTInstanceof, TTNew, TTConstructorReference, TTMethodReference:
		off, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		t.Offset = int(off)
	case TTCast, TTConstructorInvocationArg, TTMethodInvocationArg,
		TTConstructorReferenceArg, TTMethodReferenceArg:
		off, err := ReadU16(s)
		if err != nil {
			return t, err
		}
		argIdx, err := ReadU8(s)
		if err != nil {
			return t, err
		}
		t.Offset, t.TypeArgumentIndex = int(off), int(argIdx)
	default:
		return t, ErrUnknownTag
	}
	return t, nil
}

func encodeTargetInfo(s Stream, targetType uint8, t TargetInfo) error {
	switch targetType {
	case TTClassTypeParameter, TTMethodTypeParameter:
		return WriteU8(s, uint8(t.TypeParameterIndex))
	case TTClassExtends:
		return WriteU16(s, uint16(t.SupertypeIndex))
	case TTClassTypeParameterBound, TTMethodTypeParameterBound:
		if err := WriteU8(s, uint8(t.TypeParameterIndex)); err != nil {
			return err
		}
		return WriteU8(s, uint8(t.BoundIndex))
	case TTField, TTMethodReturn, TTMethodReceiver:
		return nil
	case TTMethodFormalParameter:
		return WriteU8(s, uint8(t.TypeParameterIndex))
	case TTThrows:
		return WriteU16(s, uint16(t.ThrowsIndex))
	case TTLocalVariable, TTResourceVariable:
		if err := WriteU16(s, uint16(len(t.LocalVars))); err != nil {
			return err
		}
		for _, v := range t.LocalVars {
			if err := WriteU16(s, uint16(v.StartPC)); err != nil {
				return err
			}
			if err := WriteU16(s, uint16(v.Length)); err != nil {
				return err
			}
			if err := WriteU16(s, uint16(v.Index)); err != nil {
				return err
			}
		}
		return nil
	case TTExceptionParameter:
		return WriteU16(s, uint16(t.ExceptionIndex))
	case TTInstanceof, TTNew, TTConstructorReference, TTMethodReference:
		return WriteU16(s, uint16(t.Offset))
	case TTCast, TTConstructorInvocationArg, TTMethodInvocationArg,
		TTConstructorReferenceArg, TTMethodReferenceArg:
		if err := WriteU16(s, uint16(t.Offset)); err != nil {
			return err
		}
		return WriteU8(s, uint8(t.TypeArgumentIndex))
	default:
		return ErrUnknownTag
	}
}

func decodeTypePath(s Stream) ([]TypePathEntry, error) {
	length, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	path := make([]TypePathEntry, length)
	for i := range path {
		kind, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		argIdx, err := ReadU8(s)
		if err != nil {
			return nil, err
		}
		path[i] = TypePathEntry{Kind: kind, TypeArgumentIndex: argIdx}
	}
	return path, nil
}

func encodeTypePath(s Stream, path []TypePathEntry) error {
	if err := WriteU8(s, uint8(len(path))); err != nil {
		return err
	}
	for _, p := range path {
		if err := WriteU8(s, p.Kind); err != nil {
			return err
		}
		if err := WriteU8(s, p.TypeArgumentIndex); err != nil {
			return err
		}
	}
	return nil
}

func decodeTypeAnnotation(s Stream, pool *ConstantPool, meta *Metadata) (*TypeAnnotation, error) {
	targetType, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	target, err := decodeTargetInfo(s, targetType)
	if err != nil {
		return nil, err
	}
	path, err := decodeTypePath(s)
	if err != nil {
		return nil, err
	}
	typeIdx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	elements := make([]NamedElement, count)
	for i := range elements {
		nameIdx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		value, err := decodeElementValue(s, pool, meta)
		if err != nil {
			return nil, err
		}
		elements[i] = NamedElement{Name: pool.resolveChecked(meta, "TypeAnnotation.Element.Name", nameIdx), Value: value}
	}
	return &TypeAnnotation{
		TargetType: targetType, Target: target, Path: path,
		Type: pool.resolveChecked(meta, "TypeAnnotation.Type", typeIdx), Elements: elements,
	}, nil
}

func encodeTypeAnnotation(s Stream, pool *ConstantPool, a *TypeAnnotation) error {
	if err := WriteU8(s, a.TargetType); err != nil {
		return err
	}
	if err := encodeTargetInfo(s, a.TargetType, a.Target); err != nil {
		return err
	}
	if err := encodeTypePath(s, a.Path); err != nil {
		return err
	}
	if err := WriteU16(s, pool.indexOrAdd(a.Type)); err != nil {
		return err
	}
	if err := WriteU16(s, uint16(len(a.Elements))); err != nil {
		return err
	}
	for _, e := range a.Elements {
		if err := WriteU16(s, pool.indexOrAdd(e.Name)); err != nil {
			return err
		}
		if err := encodeElementValue(s, pool, e.Value); err != nil {
			return err
		}
	}
	return nil
}

type RuntimeVisibleTypeAnnotations struct{ Annotations []*TypeAnnotation }
type RuntimeInvisibleTypeAnnotations struct{ Annotations []*TypeAnnotation }

func (c *RuntimeVisibleTypeAnnotations) AttributeName() string {
	return "RuntimeVisibleTypeAnnotations"
}
func (c *RuntimeVisibleTypeAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeTypeAnnotationList(s, pool, c.Annotations)
}
func decodeRuntimeVisibleTypeAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	list, err := decodeTypeAnnotationList(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleTypeAnnotations{Annotations: list}, nil
}

func (c *RuntimeInvisibleTypeAnnotations) AttributeName() string {
	return "RuntimeInvisibleTypeAnnotations"
}
func (c *RuntimeInvisibleTypeAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeTypeAnnotationList(s, pool, c.Annotations)
}
func decodeRuntimeInvisibleTypeAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	list, err := decodeTypeAnnotationList(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleTypeAnnotations{Annotations: list}, nil
}

func encodeTypeAnnotationList(s Stream, pool *ConstantPool, list []*TypeAnnotation) error {
	if err := WriteU16(s, uint16(len(list))); err != nil {
		return err
	}
	for _, a := range list {
		if err := encodeTypeAnnotation(s, pool, a); err != nil {
			return err
		}
	}
	return nil
}

func decodeTypeAnnotationList(s Stream, pool *ConstantPool, meta *Metadata) ([]*TypeAnnotation, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]*TypeAnnotation, count)
	for i := range out {
		a, err := decodeTypeAnnotation(s, pool, meta)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}
