// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"fmt"

	"github.com/platinasystems/serdes/lane"
)

// Word holds the value of one register; 16 bit registers use the low half.
type Word uint32

type RegisterId uint16

// Id names one field of a Table.
type Id uint16

type Kind uint8

const (
	// Unsigned magnitude.
	Unsigned Kind = iota
	// Two's complement; sign extended on read.
	Signed
	// Opaque bit pattern or enumeration.
	Enum
)

var kindStrings = [...]string{
	Unsigned: "unsigned",
	Signed:   "signed",
	Enum:     "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindStrings) {
		return kindStrings[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
	// Self clearing pulses and the like; reading them means nothing.
	WriteOnly
)

var accessStrings = [...]string{
	ReadWrite: "rw",
	ReadOnly:  "ro",
	WriteOnly: "wo",
}

func (a Access) String() string {
	if int(a) < len(accessStrings) {
		return accessStrings[a]
	}
	return fmt.Sprintf("access(%d)", uint8(a))
}

func (a Access) Readable() bool { return a != WriteOnly }
func (a Access) Writable() bool { return a != ReadOnly }

type Register struct {
	Id   RegisterId
	Name string
	// Offset in the core's register map.
	Address uint16
	// 16 or 32.
	Width   uint8
	IsPmd   bool
	PerLane bool
}

func (r *Register) Location() lane.Location {
	return lane.Location{
		Reg:     r.Address,
		Width:   r.Width,
		IsPmd:   r.IsPmd,
		PerLane: r.PerLane,
	}
}

func (r *Register) Mask() Word { return Word(widthMask(r.Width)) }

func (r *Register) String() string { return r.Name }

// Descriptor is the static layout of one field: bits
// [Offset+Width-1:Offset] of Register.
type Descriptor struct {
	Id       Id
	Name     string
	Register RegisterId
	Offset   uint8
	Width    uint8
	Kind     Kind
	Access   Access
}

func widthMask(width uint8) uint32 { return uint32(uint64(1)<<width - 1) }

// Mask returns the field's bits right justified.
func (d *Descriptor) Mask() uint32 { return widthMask(d.Width) }

// WordMask returns the field's bits in place within the register word.
func (d *Descriptor) WordMask() Word { return Word(d.Mask()) << d.Offset }

// Extract returns the field's value from w, sign extended for Signed fields.
func (d *Descriptor) Extract(w Word) uint32 {
	m := d.Mask()
	v := uint32(w>>d.Offset) & m
	if d.Kind == Signed && v&(1<<(d.Width-1)) != 0 {
		v |= ^m
	}
	return v
}

// Check reports whether v is representable in the field's width and
// signedness. Signed values are given in two's complement.
func (d *Descriptor) Check(v uint32) error {
	if d.Kind == Signed {
		s := int64(int32(v))
		lo := -(int64(1) << (d.Width - 1))
		hi := int64(1)<<(d.Width-1) - 1
		if s < lo || s > hi {
			return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrRange,
				d.Name, s, lo, hi)
		}
		return nil
	}
	if v&^d.Mask() != 0 {
		return fmt.Errorf("%w: %s 0x%x > 0x%x", ErrRange, d.Name, v, d.Mask())
	}
	return nil
}

// Insert replaces the field's bits in *w with v leaving all other bits
// alone. Out of range values are rejected and *w is not modified.
func (d *Descriptor) Insert(w *Word, v uint32) error {
	if err := d.Check(v); err != nil {
		return err
	}
	*w = *w&^d.WordMask() | Word(v&d.Mask())<<d.Offset
	return nil
}

// Format renders v as decimal for signed fields and single bits, hex
// otherwise unless hex is forced.
func (d *Descriptor) Format(v uint32, hex bool) string {
	switch {
	case d.Kind == Signed && !hex:
		return fmt.Sprint(int32(v))
	case d.Kind == Signed:
		return fmt.Sprintf("0x%x", v&d.Mask())
	case d.Width == 1 && !hex:
		return fmt.Sprint(v)
	case hex || d.Kind == Enum:
		return fmt.Sprintf("0x%x", v)
	}
	return fmt.Sprint(v)
}

func (d *Descriptor) String() string {
	if d.Width == 1 {
		return fmt.Sprintf("%s[%d]", d.Name, d.Offset)
	}
	return fmt.Sprintf("%s[%d:%d]", d.Name, d.Offset+d.Width-1, d.Offset)
}
