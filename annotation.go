// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

func init() {
	registerAttribute("RuntimeVisibleAnnotations", Version5, annotationLocations(), decodeRuntimeVisibleAnnotations)
	registerAttribute("RuntimeInvisibleAnnotations", Version5, annotationLocations(), decodeRuntimeInvisibleAnnotations)
	registerAttribute("RuntimeVisibleParameterAnnotations", Version5, []Location{LocationMethod}, decodeRuntimeVisibleParameterAnnotations)
	registerAttribute("RuntimeInvisibleParameterAnnotations", Version5, []Location{LocationMethod}, decodeRuntimeInvisibleParameterAnnotations)
	registerAttribute("AnnotationDefault", Version5, []Location{LocationMethod}, decodeAnnotationDefault)
}

func annotationLocations() []Location {
	return []Location{LocationClass, LocationField, LocationMethod, LocationRecordComponent}
}

// Element-value tag characters (§4.7.16.1 of the JVM spec this mirrors).
const (
	EVByte       = 'B'
	EVChar       = 'C'
	EVDouble     = 'D'
	EVFloat      = 'F'
	EVInt        = 'I'
	EVLong       = 'J'
	EVShort      = 'S'
	EVBoolean    = 'Z'
	EVString     = 's'
	EVEnum       = 'e'
	EVClass      = 'c'
	EVAnnotation = '@'
	EVArray      = '['
)

// NamedElement is one (name, value) pair inside an Annotation.
type NamedElement struct {
	Name  ConstantEntry // → Utf8
	Value ElementValue
}

// Annotation is a type descriptor plus its named element values.
type Annotation struct {
	Type     ConstantEntry // → Utf8
	Elements []NamedElement
}

// ElementValue is the recursive sum type every annotation element value
// is one variant of. Exactly one of the fields below is meaningful,
// selected by Tag.
type ElementValue struct {
	Tag uint8

	ConstValue ConstantEntry // const-value tags: → Integer/Long/Float/Double/Utf8

	EnumTypeName  ConstantEntry // 'e': → Utf8
	EnumConstName ConstantEntry // 'e': → Utf8

	ClassInfo ConstantEntry // 'c': → Utf8

	NestedAnnotation *Annotation // '@'

	ArrayValues []ElementValue // '['
}

func decodeAnnotation(s Stream, pool *ConstantPool, meta *Metadata) (*Annotation, error) {
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
		elements[i] = NamedElement{Name: pool.resolveChecked(meta, "Annotation.Element.Name", nameIdx), Value: value}
	}
	return &Annotation{Type: pool.resolveChecked(meta, "Annotation.Type", typeIdx), Elements: elements}, nil
}

func encodeAnnotation(s Stream, pool *ConstantPool, a *Annotation) error {
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

func decodeElementValue(s Stream, pool *ConstantPool, meta *Metadata) (ElementValue, error) {
	tag, err := ReadU8(s)
	if err != nil {
		return ElementValue{}, err
	}
	ev := ElementValue{Tag: tag}
	switch tag {
	case EVByte, EVChar, EVDouble, EVFloat, EVInt, EVLong, EVShort, EVBoolean, EVString:
		idx, err := ReadU16(s)
		if err != nil {
			return ElementValue{}, err
		}
		ev.ConstValue = pool.resolveChecked(meta, "ElementValue.ConstValue", idx)
	case EVEnum:
		typeIdx, err := ReadU16(s)
		if err != nil {
			return ElementValue{}, err
		}
		constIdx, err := ReadU16(s)
		if err != nil {
			return ElementValue{}, err
		}
		ev.EnumTypeName = pool.resolveChecked(meta, "ElementValue.EnumTypeName", typeIdx)
		ev.EnumConstName = pool.resolveChecked(meta, "ElementValue.EnumConstName", constIdx)
	case EVClass:
		idx, err := ReadU16(s)
		if err != nil {
			return ElementValue{}, err
		}
		ev.ClassInfo = pool.resolveChecked(meta, "ElementValue.ClassInfo", idx)
	case EVAnnotation:
		nested, err := decodeAnnotation(s, pool, meta)
		if err != nil {
			return ElementValue{}, err
		}
		ev.NestedAnnotation = nested
	case EVArray:
		count, err := ReadU16(s)
		if err != nil {
			return ElementValue{}, err
		}
		values := make([]ElementValue, count)
		for i := range values {
			v, err := decodeElementValue(s, pool, meta)
			if err != nil {
				return ElementValue{}, err
			}
			values[i] = v
		}
		ev.ArrayValues = values
	default:
		return ElementValue{}, ErrUnknownTag
	}
	return ev, nil
}

func encodeElementValue(s Stream, pool *ConstantPool, ev ElementValue) error {
	if err := WriteU8(s, ev.Tag); err != nil {
		return err
	}
	switch ev.Tag {
	case EVByte, EVChar, EVDouble, EVFloat, EVInt, EVLong, EVShort, EVBoolean, EVString:
		return WriteU16(s, pool.indexOrAdd(ev.ConstValue))
	case EVEnum:
		if err := WriteU16(s, pool.indexOrAdd(ev.EnumTypeName)); err != nil {
			return err
		}
		return WriteU16(s, pool.indexOrAdd(ev.EnumConstName))
	case EVClass:
		return WriteU16(s, pool.indexOrAdd(ev.ClassInfo))
	case EVAnnotation:
		return encodeAnnotation(s, pool, ev.NestedAnnotation)
	case EVArray:
		if err := WriteU16(s, uint16(len(ev.ArrayValues))); err != nil {
			return err
		}
		for _, v := range ev.ArrayValues {
			if err := encodeElementValue(s, pool, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrUnknownTag
	}
}

// RuntimeVisibleAnnotations / RuntimeInvisibleAnnotations hold a simple
// annotation list; the two differ only in whether a runtime
// RetentionPolicy makes them reflectively visible, which this package has
// no opinion on.
type RuntimeVisibleAnnotations struct{ Annotations []*Annotation }
type RuntimeInvisibleAnnotations struct{ Annotations []*Annotation }

func (c *RuntimeVisibleAnnotations) AttributeName() string { return "RuntimeVisibleAnnotations" }
func (c *RuntimeVisibleAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeAnnotationList(s, pool, c.Annotations)
}
func decodeRuntimeVisibleAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	list, err := decodeAnnotationList(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleAnnotations{Annotations: list}, nil
}

func (c *RuntimeInvisibleAnnotations) AttributeName() string { return "RuntimeInvisibleAnnotations" }
func (c *RuntimeInvisibleAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeAnnotationList(s, pool, c.Annotations)
}
func decodeRuntimeInvisibleAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	list, err := decodeAnnotationList(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleAnnotations{Annotations: list}, nil
}

func encodeAnnotationList(s Stream, pool *ConstantPool, list []*Annotation) error {
	if err := WriteU16(s, uint16(len(list))); err != nil {
		return err
	}
	for _, a := range list {
		if err := encodeAnnotation(s, pool, a); err != nil {
			return err
		}
	}
	return nil
}

func decodeAnnotationList(s Stream, pool *ConstantPool, meta *Metadata) ([]*Annotation, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]*Annotation, count)
	for i := range out {
		a, err := decodeAnnotation(s, pool, meta)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// RuntimeVisibleParameterAnnotations / RuntimeInvisibleParameterAnnotations
// hold one annotation list per formal parameter.
type RuntimeVisibleParameterAnnotations struct{ Parameters [][]*Annotation }
type RuntimeInvisibleParameterAnnotations struct{ Parameters [][]*Annotation }

func (c *RuntimeVisibleParameterAnnotations) AttributeName() string {
	return "RuntimeVisibleParameterAnnotations"
}
func (c *RuntimeVisibleParameterAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeParameterAnnotations(s, pool, c.Parameters)
}
func decodeRuntimeVisibleParameterAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	params, err := decodeParameterAnnotations(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleParameterAnnotations{Parameters: params}, nil
}

func (c *RuntimeInvisibleParameterAnnotations) AttributeName() string {
	return "RuntimeInvisibleParameterAnnotations"
}
func (c *RuntimeInvisibleParameterAnnotations) encode(s Stream, pool *ConstantPool) error {
	return encodeParameterAnnotations(s, pool, c.Parameters)
}
func decodeRuntimeInvisibleParameterAnnotations(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	params, err := decodeParameterAnnotations(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleParameterAnnotations{Parameters: params}, nil
}

func encodeParameterAnnotations(s Stream, pool *ConstantPool, params [][]*Annotation) error {
	if err := WriteU8(s, uint8(len(params))); err != nil {
		return err
	}
	for _, list := range params {
		if err := encodeAnnotationList(s, pool, list); err != nil {
			return err
		}
	}
	return nil
}

func decodeParameterAnnotations(s Stream, pool *ConstantPool, meta *Metadata) ([][]*Annotation, error) {
	count, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	out := make([][]*Annotation, count)
	for i := range out {
		list, err := decodeAnnotationList(s, pool, meta)
		if err != nil {
			return nil, err
		}
		out[i] = list
	}
	return out, nil
}

// AnnotationDefault holds a single element value: the default value of an
// annotation-interface method.
type AnnotationDefault struct {
	Value ElementValue
}

func (c *AnnotationDefault) AttributeName() string { return "AnnotationDefault" }
func (c *AnnotationDefault) encode(s Stream, pool *ConstantPool) error {
	return encodeElementValue(s, pool, c.Value)
}
func decodeAnnotationDefault(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	v, err := decodeElementValue(s, pool, meta)
	if err != nil {
		return nil, err
	}
	return &AnnotationDefault{Value: v}, nil
}
