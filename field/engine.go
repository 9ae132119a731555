// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field reads and writes named bit fields of serdes registers that
// are only reachable a whole word at a time through an indirect bus.
//
// Every access takes a lane address and a field id. Get and Set operate on
// a caller owned register Word so that several fields of one register cost
// a single bus read and a single bus write:
//
//	var w field.Word
//	e.Get(a, tsc.TxFirPreOverride, &w, true)       // one read
//	e.Set(a, tsc.TxFirPreOverride, &w, 2, false)   // no bus I/O
//	e.Set(a, tsc.TxFirPostOverride, &w, 10, true)  // one write
//
// ReadModifyWrite is the one-off form: one read, one write.
package field

import (
	"github.com/platinasystems/serdes/lane"
)

// Transport moves whole register words over the indirect bus. Reads and
// writes are word atomic.
type Transport interface {
	ReadWord(t lane.Target) (uint32, error)
	WriteWord(t lane.Target, w uint32) error
}

// Engine holds no state between calls; it is safe to share as long as
// callers do not share word slots.
type Engine struct {
	Table    *Table
	Resolver lane.Resolver
	Transport
}

func New(t *Table, r lane.Resolver, x Transport) *Engine {
	return &Engine{Table: t, Resolver: r, Transport: x}
}

func (e *Engine) fail(op string, a lane.Address, name string, err error) error {
	return &Error{Op: op, Addr: a, Name: name, Err: err}
}

func (e *Engine) lookup(op string, a lane.Address, id Id) (d *Descriptor, r *Register, err error) {
	if d, err = e.Table.Field(id); err != nil {
		err = e.fail(op, a, "", err)
		return
	}
	if r, err = e.Table.Register(d.Register); err != nil {
		err = e.fail(op, a, d.Name, err)
	}
	return
}

func (e *Engine) resolve(op string, a lane.Address, name string, r *Register) (t lane.Target, err error) {
	if t, err = e.Resolver.Resolve(a, r.Location()); err != nil {
		err = e.fail(op, a, name, err)
	}
	return
}

func (e *Engine) read(t lane.Target, r *Register, w *Word) error {
	v, err := e.ReadWord(t)
	if err != nil {
		return err
	}
	*w = Word(v) & r.Mask()
	return nil
}

func (e *Engine) write(t lane.Target, r *Register, w Word) error {
	return e.WriteWord(t, uint32(w&r.Mask()))
}

// Get returns the value of field id. With fetch the register is first read
// into *w, otherwise *w is trusted and no bus I/O is done. Signed fields
// are sign extended.
func (e *Engine) Get(a lane.Address, id Id, w *Word, fetch bool) (v uint32, err error) {
	const op = "get"
	d, r, err := e.lookup(op, a, id)
	if err != nil {
		return
	}
	if !d.Access.Readable() {
		err = e.fail(op, a, d.Name, ErrAccess)
		return
	}
	t, err := e.resolve(op, a, d.Name, r)
	if err != nil {
		return
	}
	if fetch {
		if err = e.read(t, r, w); err != nil {
			err = e.fail(op, a, d.Name, err)
			return
		}
	}
	v = d.Extract(*w)
	return
}

// Set replaces field id in *w with v leaving sibling fields untouched and,
// with commit, writes *w back with one bus write. Set never reads the
// register: *w must already hold the register's value.
func (e *Engine) Set(a lane.Address, id Id, w *Word, v uint32, commit bool) error {
	const op = "set"
	d, r, err := e.lookup(op, a, id)
	if err != nil {
		return err
	}
	if !d.Access.Writable() {
		return e.fail(op, a, d.Name, ErrAccess)
	}
	t, err := e.resolve(op, a, d.Name, r)
	if err != nil {
		return err
	}
	if err = d.Insert(w, v); err != nil {
		return e.fail(op, a, d.Name, err)
	}
	if commit {
		if err = e.write(t, r, *w); err != nil {
			return e.fail(op, a, d.Name, err)
		}
	}
	return nil
}

// ReadModifyWrite sets field id to v starting from a freshly read register
// word: exactly one read and one write. Nothing is written if the read
// fails.
func (e *Engine) ReadModifyWrite(a lane.Address, id Id, v uint32) error {
	const op = "rmw"
	d, r, err := e.lookup(op, a, id)
	if err != nil {
		return err
	}
	if !d.Access.Writable() {
		return e.fail(op, a, d.Name, ErrAccess)
	}
	if err = d.Check(v); err != nil {
		return e.fail(op, a, d.Name, err)
	}
	t, err := e.resolve(op, a, d.Name, r)
	if err != nil {
		return err
	}
	var w Word
	if err = e.read(t, r, &w); err != nil {
		return e.fail(op, a, d.Name, err)
	}
	if err = d.Insert(&w, v); err != nil {
		return e.fail(op, a, d.Name, err)
	}
	if err = e.write(t, r, w); err != nil {
		return e.fail(op, a, d.Name, err)
	}
	return nil
}

// Fetch reads register id into *w.
func (e *Engine) Fetch(a lane.Address, id RegisterId, w *Word) error {
	const op = "fetch"
	r, err := e.Table.Register(id)
	if err != nil {
		return e.fail(op, a, "", err)
	}
	t, err := e.resolve(op, a, r.Name, r)
	if err != nil {
		return err
	}
	if err = e.read(t, r, w); err != nil {
		return e.fail(op, a, r.Name, err)
	}
	return nil
}

// Commit writes w to register id.
func (e *Engine) Commit(a lane.Address, id RegisterId, w Word) error {
	const op = "commit"
	r, err := e.Table.Register(id)
	if err != nil {
		return e.fail(op, a, "", err)
	}
	t, err := e.resolve(op, a, r.Name, r)
	if err != nil {
		return err
	}
	if err = e.write(t, r, w); err != nil {
		return e.fail(op, a, r.Name, err)
	}
	return nil
}
