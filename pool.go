// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"io"
)

// ConstantPool is the indexed store described in §3/§4.3: a
// slot -> ConstantEntry map where wide entries (Long, Double) reserve the
// slot behind them with a Placeholder, slot 0 is never user-addressable,
// and insertion prefers returning an existing slot over duplicating a
// value-equal entry.
type ConstantPool struct {
	slots   map[uint16]ConstantEntry
	maxSlot int // next insertion index; slots [0, maxSlot) are defined
}

// NewConstantPool returns an empty pool with slot 0 reserved.
func NewConstantPool() *ConstantPool {
	p := &ConstantPool{slots: make(map[uint16]ConstantEntry)}
	p.slots[0] = Placeholder{Index: 0}
	p.maxSlot = 1
	return p
}

// At returns the entry at slot i. Indices at or beyond maxSlot return an
// ephemeral (unregistered) Placeholder rather than an error, per §4.3;
// indices above 65535 fail with ErrPoolOutOfBounds.
func (p *ConstantPool) At(i int) (ConstantEntry, error) {
	if i < 0 || i > 65535 {
		return nil, ErrPoolOutOfBounds
	}
	if e, ok := p.slots[uint16(i)]; ok {
		return e, nil
	}
	return Placeholder{Index: uint16(i)}, nil
}

// resolveOrPlaceholder is the read-path helper: during the pool's own
// first pass, a referenced slot may not yet be populated, so a forward
// reference becomes a Placeholder{index} that the second pass (patch)
// later replaces in every entry that holds one.
func (p *ConstantPool) resolveOrPlaceholder(i uint16) ConstantEntry {
	if e, ok := p.slots[i]; ok {
		return e
	}
	return Placeholder{Index: i}
}

// resolveChecked is resolveOrPlaceholder for call sites that run after the
// constant pool has already been fully read and patched (ClassFile, Field/
// Method, attribute bodies): at that point a Placeholder result can only
// mean the index never resolved to a real entry, a genuine out-of-range
// reference (§7 IndexOutOfRange) rather than an in-progress forward
// reference, so it is reported to meta under location.
func (p *ConstantPool) resolveChecked(meta *Metadata, location string, i uint16) ConstantEntry {
	e := p.resolveOrPlaceholder(i)
	if _, isPlaceholder := e.(Placeholder); isPlaceholder {
		meta.Add(LevelError, "pool", "%s references out-of-range constant pool index %d", location, i)
	}
	return e
}

// MaxSlot returns the next free insertion index (the pool's logical
// length).
func (p *ConstantPool) MaxSlot() int { return p.maxSlot }

// appendRaw places entry at the end of the pool (appending a Placeholder behind
// it if it is wide) and returns its slot.
func (p *ConstantPool) appendRaw(entry ConstantEntry) uint16 {
	slot := uint16(p.maxSlot)
	p.slots[slot] = entry
	entry.setOriginalIndex(int(slot))
	p.maxSlot++
	if entry.Wide() {
		p.slots[uint16(p.maxSlot)] = Placeholder{Index: uint16(p.maxSlot)}
		p.maxSlot++
	}
	return slot
}

// Add returns an existing slot if a value-equal entry already occupies
// one — preferring an entry whose OriginalIndex also matches, per §4.3's
// "this enables exact round-trip ordering" — and otherwise appends entry
// as a new slot.
func (p *ConstantPool) Add(entry ConstantEntry) uint16 {
	if slot, ok := p.findExisting(entry); ok {
		return slot
	}
	return p.appendRaw(entry)
}

// indexOrAdd is the write-path helper attribute/entry encoders call: it
// adds entry if the pool doesn't already hold an equal one, so
// re-serialization is idempotent even starting from an empty pool (§4.7).
func (p *ConstantPool) indexOrAdd(entry ConstantEntry) uint16 {
	if ph, ok := entry.(Placeholder); ok {
		return ph.Index
	}
	return p.Add(entry)
}

// findExisting implements the two-tier match Add/Index both need: exact
// (value, OriginalIndex) match first, then a value-only fallback.
func (p *ConstantPool) findExisting(entry ConstantEntry) (uint16, bool) {
	var valueMatch uint16
	haveValueMatch := false
	for i := 1; i < p.maxSlot; i++ {
		slot := uint16(i)
		cur, ok := p.slots[slot]
		if !ok {
			continue
		}
		if _, isPlaceholder := cur.(Placeholder); isPlaceholder {
			continue
		}
		if cur.Tag() != entry.Tag() || !cur.equalValue(entry) {
			continue
		}
		if cur.originalIndex() == entry.originalIndex() {
			return slot, true
		}
		if !haveValueMatch {
			valueMatch, haveValueMatch = slot, true
		}
	}
	if haveValueMatch {
		return valueMatch, true
	}
	return 0, false
}

// Index returns the slot of a value-equal entry, or -1 if none exists.
func (p *ConstantPool) Index(entry ConstantEntry) int {
	if slot, ok := p.findExisting(entry); ok {
		return int(slot)
	}
	return -1
}

// Extend adds every entry in entries to the pool.
func (p *ConstantPool) Extend(entries []ConstantEntry) {
	for _, e := range entries {
		p.Add(e)
	}
}

// ExtendPool adds every non-placeholder entry of other, in slot order.
func (p *ConstantPool) ExtendPool(other *ConstantPool) {
	for _, e := range other.Entries() {
		p.Add(e.Entry)
	}
}

// Clear removes every entry and restores slot 0 as a placeholder.
func (p *ConstantPool) Clear() {
	p.slots = map[uint16]ConstantEntry{0: Placeholder{Index: 0}}
	p.maxSlot = 1
}

// Entries returns every non-placeholder entry in ascending slot order,
// paired with its slot.
func (p *ConstantPool) Entries() []struct {
	Slot  uint16
	Entry ConstantEntry
} {
	out := make([]struct {
		Slot  uint16
		Entry ConstantEntry
	}, 0, p.maxSlot)
	for i := 1; i < p.maxSlot; i++ {
		slot := uint16(i)
		e, ok := p.slots[slot]
		if !ok {
			continue
		}
		if _, isPlaceholder := e.(Placeholder); isPlaceholder {
			continue
		}
		out = append(out, struct {
			Slot  uint16
			Entry ConstantEntry
		}{slot, e})
	}
	return out
}

// ReadConstantPool implements §4.3 Read: read u16 count, then loop reading
// tagged entries into contiguous slots (advancing by 2 for wide entries),
// followed by a second pass that replaces every Placeholder reference
// still held by an entry with the now-resolved target. Forward references
// are expected in well-formed files (§9) and are never resolved inline.
func ReadConstantPool(s Stream, meta *Metadata) (*ConstantPool, error) {
	count, err := ReadU16(s)
	if err != nil {
		return nil, err
	}

	pool := NewConstantPool()
	slot := uint16(1)
	for slot < count {
		entry, err := decodeEntryAt(s, pool)
		if err != nil {
			meta.Add(LevelError, "pool", "failed to decode constant at slot %d: %v", slot, err)
			return pool, err
		}
		pool.slots[slot] = entry
		entry.setOriginalIndex(int(slot))
		if entry.Wide() {
			pool.slots[slot+1] = Placeholder{Index: slot + 1}
			slot += 2
		} else {
			slot++
		}
	}
	pool.maxSlot = int(slot)

	pool.patchForwardReferences(meta)
	return pool, nil
}

// patchForwardReferences is the second pass of §4.3's read algorithm:
// every entry's sub-references that are still Placeholder{index} get
// replaced by whatever slot now holds (this runs only after the whole
// pool has been read, never interleaved with the first pass, per §9).
func (p *ConstantPool) patchForwardReferences(meta *Metadata) {
	for i := 1; i < p.maxSlot; i++ {
		slot := uint16(i)
		entry, ok := p.slots[slot]
		if !ok {
			continue
		}

		// resolve patches one sub-reference of the entry at this iteration's
		// slot. If it is still unresolved once every slot has been placed,
		// it was never a legitimate forward reference, only an
		// out-of-range index (§7 IndexOutOfRange), so it is reported here.
		resolve := func(fieldName string, ref ConstantEntry) ConstantEntry {
			ph, ok := ref.(Placeholder)
			if !ok {
				return ref
			}
			if real, exists := p.slots[ph.Index]; exists {
				if _, stillPlaceholder := real.(Placeholder); !stillPlaceholder {
					return real
				}
			}
			meta.Add(LevelError, "pool", "slot %d's %s references out-of-range constant pool index %d", slot, fieldName, ph.Index)
			return ref
		}

		switch e := entry.(type) {
		case *ClassEntry:
			e.Name = resolve("Name", e.Name)
		case *StringEntry:
			e.Value = resolve("Value", e.Value)
		case *NameAndTypeEntry:
			e.Name = resolve("Name", e.Name)
			e.Descriptor = resolve("Descriptor", e.Descriptor)
		case *FieldRefEntry:
			e.Class = resolve("Class", e.Class)
			e.NameAndType = resolve("NameAndType", e.NameAndType)
		case *MethodRefEntry:
			e.Class = resolve("Class", e.Class)
			e.NameAndType = resolve("NameAndType", e.NameAndType)
		case *InterfaceMethodRefEntry:
			e.Class = resolve("Class", e.Class)
			e.NameAndType = resolve("NameAndType", e.NameAndType)
		case *MethodHandleEntry:
			e.Reference = resolve("Reference", e.Reference)
		case *MethodTypeEntry:
			e.Descriptor = resolve("Descriptor", e.Descriptor)
		case *DynamicEntry:
			e.NameAndType = resolve("NameAndType", e.NameAndType)
		case *InvokeDynamicEntry:
			e.NameAndType = resolve("NameAndType", e.NameAndType)
		case *ModuleEntry:
			e.Name = resolve("Name", e.Name)
		case *PackageEntry:
			e.Name = resolve("Name", e.Name)
		}
	}
}

// Write implements §4.3 Write: reserve two bytes for count, write every
// non-placeholder slot in ascending order, then patch the reserved count
// to maxSlot. Requires s to be an io.WriteSeeker so the count can be
// patched after the fact, the same length-patch idiom attribute encoding
// uses (§4.4 write_one).
func (p *ConstantPool) Write(s Stream) error {
	if p.maxSlot > 65535 {
		return ErrPoolTooLarge
	}
	countPos, err := tell(s)
	if err != nil {
		return err
	}
	if err := WriteU16(s, 0); err != nil { // placeholder, patched below
		return err
	}

	for i := 1; i < p.maxSlot; i++ {
		entry, ok := p.slots[uint16(i)]
		if !ok {
			continue
		}
		if _, isPlaceholder := entry.(Placeholder); isPlaceholder {
			continue
		}
		if err := WriteU8(s, entry.Tag()); err != nil {
			return err
		}
		if err := entry.encode(s, p); err != nil {
			return err
		}
	}

	endPos, err := tell(s)
	if err != nil {
		return err
	}
	if _, err := s.Seek(countPos, io.SeekStart); err != nil {
		return err
	}
	if err := WriteU16(s, uint16(p.maxSlot)); err != nil {
		return err
	}
	_, err = s.Seek(endPos, io.SeekStart)
	return err
}
