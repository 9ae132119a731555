// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"fmt"
	"sort"
)

// Table is the single source of field layout. Ids index directly into the
// register and field slices.
type Table struct {
	registers []Register
	fields    []Descriptor

	byName      map[string]Id
	regByName   map[string]RegisterId
	fieldsByReg [][]Id
}

// NewTable validates the given rows: ids must equal their slice index,
// names must be unique, fields must fit in their register and fields of one
// register must not overlap.
func NewTable(registers []Register, fields []Descriptor) (*Table, error) {
	t := &Table{
		registers:   registers,
		fields:      fields,
		byName:      make(map[string]Id, len(fields)),
		regByName:   make(map[string]RegisterId, len(registers)),
		fieldsByReg: make([][]Id, len(registers)),
	}
	for i := range registers {
		r := &registers[i]
		if r.Id != RegisterId(i) {
			return nil, fmt.Errorf("register %s: id %d at index %d",
				r.Name, r.Id, i)
		}
		if r.Width != 16 && r.Width != 32 {
			return nil, fmt.Errorf("register %s: width %d", r.Name, r.Width)
		}
		if _, dup := t.regByName[r.Name]; dup {
			return nil, fmt.Errorf("register %s: duplicate name", r.Name)
		}
		t.regByName[r.Name] = r.Id
	}
	used := make([]Word, len(registers))
	for i := range fields {
		d := &fields[i]
		if d.Id != Id(i) {
			return nil, fmt.Errorf("field %s: id %d at index %d",
				d.Name, d.Id, i)
		}
		if int(d.Register) >= len(registers) {
			return nil, fmt.Errorf("field %s: %w %d", d.Name,
				ErrUnknownRegister, d.Register)
		}
		r := &registers[d.Register]
		if d.Width == 0 || int(d.Offset)+int(d.Width) > int(r.Width) {
			return nil, fmt.Errorf("field %s: bits [%d+%d] outside %d bit register %s",
				d.Name, d.Offset, d.Width, r.Width, r.Name)
		}
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("field %s: duplicate name", d.Name)
		}
		m := d.WordMask()
		if used[d.Register]&m != 0 {
			return nil, fmt.Errorf("field %s: overlaps bits 0x%x of register %s",
				d.Name, used[d.Register]&m, r.Name)
		}
		used[d.Register] |= m
		t.byName[d.Name] = d.Id
		t.fieldsByReg[d.Register] = append(t.fieldsByReg[d.Register], d.Id)
	}
	for _, ids := range t.fieldsByReg {
		sort.Slice(ids, func(i, j int) bool {
			return fields[ids[i]].Offset < fields[ids[j]].Offset
		})
	}
	return t, nil
}

// MustTable is NewTable for compiled in tables where a bad row is a
// programming error.
func MustTable(registers []Register, fields []Descriptor) *Table {
	t, err := NewTable(registers, fields)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Field(id Id) (*Descriptor, error) {
	if int(id) >= len(t.fields) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownField, id)
	}
	return &t.fields[id], nil
}

func (t *Table) Register(id RegisterId) (*Register, error) {
	if int(id) >= len(t.registers) {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownRegister, id)
	}
	return &t.registers[id], nil
}

// Lookup finds a field by name.
func (t *Table) Lookup(name string) (*Descriptor, error) {
	id, found := t.byName[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return &t.fields[id], nil
}

func (t *Table) LookupRegister(name string) (*Register, error) {
	id, found := t.regByName[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	return &t.registers[id], nil
}

// FieldsOf returns the ids of a register's fields in bit order.
func (t *Table) FieldsOf(id RegisterId) []Id {
	if int(id) >= len(t.fieldsByReg) {
		return nil
	}
	return t.fieldsByReg[id]
}

func (t *Table) NFields() int    { return len(t.fields) }
func (t *Table) NRegisters() int { return len(t.registers) }
