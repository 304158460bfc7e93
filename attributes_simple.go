// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

func allLocations() []Location {
	return []Location{LocationClass, LocationField, LocationMethod, LocationCode, LocationRecordComponent}
}

func init() {
	registerAttribute("ConstantValue", Version1_0, []Location{LocationField}, decodeConstantValue)
	registerAttribute("Synthetic", Version1_1, allLocations(), decodeSynthetic)
	registerAttribute("Deprecated", Version1_1, allLocations(), decodeDeprecated)
	registerAttribute("SourceFile", Version1_0, []Location{LocationClass}, decodeSourceFile)
	registerAttribute("SourceDebugExtension", Version5, []Location{LocationClass}, decodeSourceDebugExtension)
	registerAttribute("Exceptions", Version1_0, []Location{LocationMethod}, decodeExceptions)
	registerAttribute("InnerClasses", Version1_1, []Location{LocationClass}, decodeInnerClasses)
	registerAttribute("EnclosingMethod", Version5, []Location{LocationClass}, decodeEnclosingMethod)
	registerAttribute("Signature", Version5, []Location{LocationClass, LocationField, LocationMethod, LocationRecordComponent}, decodeSignature)
	registerAttribute("NestHost", Version11, []Location{LocationClass}, decodeNestHost)
	registerAttribute("NestMembers", Version11, []Location{LocationClass}, decodeNestMembers)
	registerAttribute("PermittedSubclasses", Version17, []Location{LocationClass}, decodePermittedSubclasses)
	registerAttribute("MethodParameters", Version8, []Location{LocationMethod}, decodeMethodParameters)
	registerAttribute("Module", Version9, []Location{LocationClass}, decodeModuleAttribute)
	registerAttribute("ModulePackages", Version9, []Location{LocationClass}, decodeModulePackages)
	registerAttribute("ModuleMainClass", Version9, []Location{LocationClass}, decodeModuleMainClass)
	registerAttribute("BootstrapMethods", Version7, []Location{LocationClass}, decodeBootstrapMethods)
	registerAttribute("Record", Version16, []Location{LocationClass}, decodeRecord)
	registerAttribute("Documentation", Version1_0, allLocations(), decodeDocumentation)
}

// ConstantValue (§4.7.2): a single constant-pool reference, legal only on
// fields.
type ConstantValue struct {
	Value ConstantEntry
}

func (c *ConstantValue) AttributeName() string { return "ConstantValue" }
func (c *ConstantValue) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Value))
}
func decodeConstantValue(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &ConstantValue{Value: pool.resolveChecked(meta, "ConstantValue.Value", idx)}, nil
}

// Synthetic and Deprecated carry no body at all.
type Synthetic struct{}

func (Synthetic) AttributeName() string              { return "Synthetic" }
func (Synthetic) encode(Stream, *ConstantPool) error { return nil }
func decodeSynthetic(Stream, *ConstantPool, Version, uint32, *Metadata) (AttributeBody, error) {
	return Synthetic{}, nil
}

type Deprecated struct{}

func (Deprecated) AttributeName() string              { return "Deprecated" }
func (Deprecated) encode(Stream, *ConstantPool) error { return nil }
func decodeDeprecated(Stream, *ConstantPool, Version, uint32, *Metadata) (AttributeBody, error) {
	return Deprecated{}, nil
}

// SourceFile names the source file a class was compiled from.
type SourceFile struct {
	Name ConstantEntry // → Utf8
}

func (c *SourceFile) AttributeName() string { return "SourceFile" }
func (c *SourceFile) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Name))
}
func decodeSourceFile(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &SourceFile{Name: pool.resolveChecked(meta, "SourceFile.Name", idx)}, nil
}

// SourceDebugExtension is an opaque, vendor-defined byte blob (commonly
// UTF-8 debug info for JSR-045 source maps, but never parsed further).
type SourceDebugExtension struct {
	Bytes []byte
}

func (c *SourceDebugExtension) AttributeName() string { return "SourceDebugExtension" }
func (c *SourceDebugExtension) encode(s Stream, _ *ConstantPool) error {
	return WriteBytes(s, c.Bytes)
}
func decodeSourceDebugExtension(s Stream, _ *ConstantPool, _ Version, length uint32, _ *Metadata) (AttributeBody, error) {
	b, err := ReadBytes(s, int(length))
	if err != nil {
		return nil, err
	}
	return &SourceDebugExtension{Bytes: b}, nil
}

// Exceptions lists the checked exception classes a method declares.
type Exceptions struct {
	Classes []ConstantEntry // → Class
}

func (c *Exceptions) AttributeName() string { return "Exceptions" }
func (c *Exceptions) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Classes))); err != nil {
		return err
	}
	for _, cls := range c.Classes {
		if err := WriteU16(s, pool.indexOrAdd(cls)); err != nil {
			return err
		}
	}
	return nil
}
func decodeExceptions(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]ConstantEntry, count)
	for i := range out {
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = pool.resolveChecked(meta, "Exceptions.Classes", idx)
	}
	return &Exceptions{Classes: out}, nil
}

// InnerClassRecord is one entry of an InnerClasses attribute.
type InnerClassRecord struct {
	Inner      ConstantEntry // → Class
	Outer      ConstantEntry // → Class, nil if not a member
	Name       ConstantEntry // → Utf8, nil if anonymous
	AccessFlag uint16
}

type InnerClasses struct {
	Classes []InnerClassRecord
}

func (c *InnerClasses) AttributeName() string { return "InnerClasses" }
func (c *InnerClasses) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Classes))); err != nil {
		return err
	}
	for _, ic := range c.Classes {
		if err := WriteU16(s, refIndex(pool, ic.Inner)); err != nil {
			return err
		}
		if err := WriteU16(s, refIndex(pool, ic.Outer)); err != nil {
			return err
		}
		if err := WriteU16(s, refIndex(pool, ic.Name)); err != nil {
			return err
		}
		if err := WriteU16(s, ic.AccessFlag); err != nil {
			return err
		}
	}
	return nil
}
func decodeInnerClasses(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]InnerClassRecord, count)
	for i := range out {
		inner, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		outer, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		name, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		flags, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = InnerClassRecord{
			Inner:      pool.resolveChecked(meta, "InnerClasses.Inner", inner),
			Outer:      maybeResolve(pool, meta, "InnerClasses.Outer", outer),
			Name:       maybeResolve(pool, meta, "InnerClasses.Name", name),
			AccessFlag: flags,
		}
	}
	return &InnerClasses{Classes: out}, nil
}

// refIndex returns 0 for a nil entry (the "absent" sentinel per §4.7.6),
// otherwise the entry's pool slot.
func refIndex(pool *ConstantPool, e ConstantEntry) uint16 {
	if e == nil {
		return 0
	}
	return pool.indexOrAdd(e)
}

// maybeResolve is resolveChecked for the optional-reference idiom (§4.7.6):
// index 0 means absent and resolves to nil rather than being reported.
func maybeResolve(pool *ConstantPool, meta *Metadata, location string, idx uint16) ConstantEntry {
	if idx == 0 {
		return nil
	}
	return pool.resolveChecked(meta, location, idx)
}

// EnclosingMethod names the innermost class and method that lexically
// encloses an anonymous or local class.
type EnclosingMethod struct {
	Class       ConstantEntry // → Class
	NameAndType ConstantEntry // → NameAndType, nil if not enclosed by a method
}

func (c *EnclosingMethod) AttributeName() string { return "EnclosingMethod" }
func (c *EnclosingMethod) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, refIndex(pool, c.Class)); err != nil {
		return err
	}
	return WriteU16(s, refIndex(pool, c.NameAndType))
}
func decodeEnclosingMethod(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	cls, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	nat, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &EnclosingMethod{
		Class:       pool.resolveChecked(meta, "EnclosingMethod.Class", cls),
		NameAndType: maybeResolve(pool, meta, "EnclosingMethod.NameAndType", nat),
	}, nil
}

// Signature carries the generic-type signature of a class, field, method,
// or record component.
type Signature struct {
	Value ConstantEntry // → Utf8
}

func (c *Signature) AttributeName() string { return "Signature" }
func (c *Signature) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Value))
}
func decodeSignature(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &Signature{Value: pool.resolveChecked(meta, "Signature.Value", idx)}, nil
}

// NestHost names the nest's host class.
type NestHost struct {
	Host ConstantEntry // → Class
}

func (c *NestHost) AttributeName() string { return "NestHost" }
func (c *NestHost) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Host))
}
func decodeNestHost(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &NestHost{Host: pool.resolveChecked(meta, "NestHost.Host", idx)}, nil
}

// NestMembers lists every class that is a member of the host's nest.
type NestMembers struct {
	Members []ConstantEntry // → Class
}

func (c *NestMembers) AttributeName() string { return "NestMembers" }
func (c *NestMembers) encode(s Stream, pool *ConstantPool) error {
	return encodeClassList(s, pool, c.Members)
}
func decodeNestMembers(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	members, err := decodeClassList(s, pool, meta, "NestMembers.Members")
	if err != nil {
		return nil, err
	}
	return &NestMembers{Members: members}, nil
}

// PermittedSubclasses lists the classes a sealed class permits to extend it.
type PermittedSubclasses struct {
	Subclasses []ConstantEntry // → Class
}

func (c *PermittedSubclasses) AttributeName() string { return "PermittedSubclasses" }
func (c *PermittedSubclasses) encode(s Stream, pool *ConstantPool) error {
	return encodeClassList(s, pool, c.Subclasses)
}
func decodePermittedSubclasses(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	subclasses, err := decodeClassList(s, pool, meta, "PermittedSubclasses.Subclasses")
	if err != nil {
		return nil, err
	}
	return &PermittedSubclasses{Subclasses: subclasses}, nil
}

func encodeClassList(s Stream, pool *ConstantPool, classes []ConstantEntry) error {
	if err := WriteU16(s, uint16(len(classes))); err != nil {
		return err
	}
	for _, c := range classes {
		if err := WriteU16(s, pool.indexOrAdd(c)); err != nil {
			return err
		}
	}
	return nil
}

func decodeClassList(s Stream, pool *ConstantPool, meta *Metadata, location string) ([]ConstantEntry, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]ConstantEntry, count)
	for i := range out {
		idx, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = pool.resolveChecked(meta, location, idx)
	}
	return out, nil
}

// MethodParameterRecord is one formal parameter's name and access flags.
type MethodParameterRecord struct {
	Name       ConstantEntry // → Utf8, nil if unnamed
	AccessFlag uint16
}

type MethodParameters struct {
	Parameters []MethodParameterRecord
}

func (c *MethodParameters) AttributeName() string { return "MethodParameters" }
func (c *MethodParameters) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU8(s, uint8(len(c.Parameters))); err != nil {
		return err
	}
	for _, p := range c.Parameters {
		if err := WriteU16(s, refIndex(pool, p.Name)); err != nil {
			return err
		}
		if err := WriteU16(s, p.AccessFlag); err != nil {
			return err
		}
	}
	return nil
}
func decodeMethodParameters(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU8(s)
	if err != nil {
		return nil, err
	}
	out := make([]MethodParameterRecord, count)
	for i := range out {
		name, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		flags, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		out[i] = MethodParameterRecord{Name: maybeResolve(pool, meta, "MethodParameters.Name", name), AccessFlag: flags}
	}
	return &MethodParameters{Parameters: out}, nil
}

// RequiresRecord, ExportsRecord and OpensRecord are Module's three
// variable-length clause kinds (§4.7.25 of the JVM spec this mirrors).
type RequiresRecord struct {
	Module  ConstantEntry // → Module
	Flags   uint16
	Version ConstantEntry // → Utf8, nil if unspecified
}

type ExportsRecord struct {
	Package ConstantEntry // → Package
	Flags   uint16
	To      []ConstantEntry // → Module
}

type OpensRecord struct {
	Package ConstantEntry // → Package
	Flags   uint16
	To      []ConstantEntry // → Module
}

type ProvidesRecord struct {
	Service ConstantEntry   // → Class
	With    []ConstantEntry // → Class
}

// Module describes a module-info.class's module declaration.
type Module struct {
	Name     ConstantEntry // → Module
	Flags    uint16
	Version  ConstantEntry // → Utf8, nil if unspecified
	Requires []RequiresRecord
	Exports  []ExportsRecord
	Opens    []OpensRecord
	Uses     []ConstantEntry // → Class
	Provides []ProvidesRecord
}

func (c *Module) AttributeName() string { return "Module" }
func (c *Module) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, pool.indexOrAdd(c.Name)); err != nil {
		return err
	}
	if err := WriteU16(s, c.Flags); err != nil {
		return err
	}
	if err := WriteU16(s, refIndex(pool, c.Version)); err != nil {
		return err
	}

	if err := WriteU16(s, uint16(len(c.Requires))); err != nil {
		return err
	}
	for _, r := range c.Requires {
		if err := WriteU16(s, pool.indexOrAdd(r.Module)); err != nil {
			return err
		}
		if err := WriteU16(s, r.Flags); err != nil {
			return err
		}
		if err := WriteU16(s, refIndex(pool, r.Version)); err != nil {
			return err
		}
	}

	if err := WriteU16(s, uint16(len(c.Exports))); err != nil {
		return err
	}
	for _, e := range c.Exports {
		if err := WriteU16(s, pool.indexOrAdd(e.Package)); err != nil {
			return err
		}
		if err := WriteU16(s, e.Flags); err != nil {
			return err
		}
		if err := encodeClassList(s, pool, e.To); err != nil {
			return err
		}
	}

	if err := WriteU16(s, uint16(len(c.Opens))); err != nil {
		return err
	}
	for _, o := range c.Opens {
		if err := WriteU16(s, pool.indexOrAdd(o.Package)); err != nil {
			return err
		}
		if err := WriteU16(s, o.Flags); err != nil {
			return err
		}
		if err := encodeClassList(s, pool, o.To); err != nil {
			return err
		}
	}

	if err := encodeClassList(s, pool, c.Uses); err != nil {
		return err
	}

	if err := WriteU16(s, uint16(len(c.Provides))); err != nil {
		return err
	}
	for _, p := range c.Provides {
		if err := WriteU16(s, pool.indexOrAdd(p.Service)); err != nil {
			return err
		}
		if err := encodeClassList(s, pool, p.With); err != nil {
			return err
		}
	}
	return nil
}

func decodeModuleAttribute(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	name, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	flags, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	vidx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	m := &Module{
		Name:    pool.resolveChecked(meta, "Module.Name", name),
		Flags:   flags,
		Version: maybeResolve(pool, meta, "Module.Version", vidx),
	}

	reqCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	m.Requires = make([]RequiresRecord, reqCount)
	for i := range m.Requires {
		mod, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		rflags, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		rver, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		m.Requires[i] = RequiresRecord{
			Module:  pool.resolveChecked(meta, "Module.Requires.Module", mod),
			Flags:   rflags,
			Version: maybeResolve(pool, meta, "Module.Requires.Version", rver),
		}
	}

	expCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	m.Exports = make([]ExportsRecord, expCount)
	for i := range m.Exports {
		pkg, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		eflags, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		to, err := decodeClassList(s, pool, meta, "Module.Exports.To")
		if err != nil {
			return nil, err
		}
		m.Exports[i] = ExportsRecord{Package: pool.resolveChecked(meta, "Module.Exports.Package", pkg), Flags: eflags, To: to}
	}

	openCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	m.Opens = make([]OpensRecord, openCount)
	for i := range m.Opens {
		pkg, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		oflags, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		to, err := decodeClassList(s, pool, meta, "Module.Opens.To")
		if err != nil {
			return nil, err
		}
		m.Opens[i] = OpensRecord{Package: pool.resolveChecked(meta, "Module.Opens.Package", pkg), Flags: oflags, To: to}
	}

	uses, err := decodeClassList(s, pool, meta, "Module.Uses")
	if err != nil {
		return nil, err
	}
	m.Uses = uses

	provCount, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	m.Provides = make([]ProvidesRecord, provCount)
	for i := range m.Provides {
		svc, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		with, err := decodeClassList(s, pool, meta, "Module.Provides.With")
		if err != nil {
			return nil, err
		}
		m.Provides[i] = ProvidesRecord{Service: pool.resolveChecked(meta, "Module.Provides.Service", svc), With: with}
	}

	return m, nil
}

// ModulePackages lists every package a module's classfile exposes or uses.
type ModulePackages struct {
	Packages []ConstantEntry // → Package
}

func (c *ModulePackages) AttributeName() string { return "ModulePackages" }
func (c *ModulePackages) encode(s Stream, pool *ConstantPool) error {
	return encodeClassList(s, pool, c.Packages)
}
func decodeModulePackages(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	pkgs, err := decodeClassList(s, pool, meta, "ModulePackages.Packages")
	if err != nil {
		return nil, err
	}
	return &ModulePackages{Packages: pkgs}, nil
}

// ModuleMainClass names the entry point class for an executable module.
type ModuleMainClass struct {
	Class ConstantEntry // → Class
}

func (c *ModuleMainClass) AttributeName() string { return "ModuleMainClass" }
func (c *ModuleMainClass) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Class))
}
func decodeModuleMainClass(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &ModuleMainClass{Class: pool.resolveChecked(meta, "ModuleMainClass.Class", idx)}, nil
}

// BootstrapMethod is one entry referenced by Dynamic/InvokeDynamic
// constant pool entries' bootstrap_method_attr_index.
type BootstrapMethod struct {
	Method    ConstantEntry // → MethodHandle
	Arguments []ConstantEntry
}

type BootstrapMethods struct {
	Methods []BootstrapMethod
}

func (c *BootstrapMethods) AttributeName() string { return "BootstrapMethods" }
func (c *BootstrapMethods) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Methods))); err != nil {
		return err
	}
	for _, m := range c.Methods {
		if err := WriteU16(s, pool.indexOrAdd(m.Method)); err != nil {
			return err
		}
		if err := encodeClassList(s, pool, m.Arguments); err != nil {
			return err
		}
	}
	return nil
}
func decodeBootstrapMethods(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]BootstrapMethod, count)
	for i := range out {
		method, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		args, err := decodeClassList(s, pool, meta, "BootstrapMethods.Arguments")
		if err != nil {
			return nil, err
		}
		out[i] = BootstrapMethod{Method: pool.resolveChecked(meta, "BootstrapMethods.Method", method), Arguments: args}
	}
	return &BootstrapMethods{Methods: out}, nil
}

// RecordComponent is one component of a Record attribute; its own
// attributes (Signature, annotations) are read with location
// RecordComponent.
type RecordComponent struct {
	Name       ConstantEntry // → Utf8
	Descriptor ConstantEntry // → Utf8
	Attributes []*AttributeRecord
}

type Record struct {
	Components []RecordComponent
}

func (c *Record) AttributeName() string { return "Record" }
func (c *Record) encode(s Stream, pool *ConstantPool) error {
	if err := WriteU16(s, uint16(len(c.Components))); err != nil {
		return err
	}
	for _, comp := range c.Components {
		if err := WriteU16(s, pool.indexOrAdd(comp.Name)); err != nil {
			return err
		}
		if err := WriteU16(s, pool.indexOrAdd(comp.Descriptor)); err != nil {
			return err
		}
		if err := writeAttributeList(s, pool, comp.Attributes); err != nil {
			return err
		}
	}
	return nil
}
func decodeRecord(s Stream, pool *ConstantPool, version Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	out := make([]RecordComponent, count)
	for i := range out {
		name, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		desc, err := ReadU16(s)
		if err != nil {
			return nil, err
		}
		attrs, err := readAttributeList(s, pool, version, LocationRecordComponent, meta)
		if err != nil {
			return nil, err
		}
		out[i] = RecordComponent{
			Name:       pool.resolveChecked(meta, "Record.Name", name),
			Descriptor: pool.resolveChecked(meta, "Record.Descriptor", desc),
			Attributes: attrs,
		}
	}
	return &Record{Components: out}, nil
}

// Documentation is a legacy, pre-standard free-text attribute some very
// old tooling emitted; kept only so a roundtrip through this package
// doesn't silently drop it to RawBody (supplemented per the original
// implementation's handling of unrecognized-but-named legacy bodies).
type Documentation struct {
	Text ConstantEntry // → Utf8
}

func (c *Documentation) AttributeName() string { return "Documentation" }
func (c *Documentation) encode(s Stream, pool *ConstantPool) error {
	return WriteU16(s, pool.indexOrAdd(c.Text))
}
func decodeDocumentation(s Stream, pool *ConstantPool, _ Version, _ uint32, meta *Metadata) (AttributeBody, error) {
	idx, err := ReadU16(s)
	if err != nil {
		return nil, err
	}
	return &Documentation{Text: pool.resolveChecked(meta, "Documentation.Text", idx)}, nil
}
