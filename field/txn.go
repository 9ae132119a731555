// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"github.com/platinasystems/serdes/lane"
)

// Txn batches field accesses to one register of one lane: at most one
// read when it begins and one write when it commits.
//
//	x, err := e.Begin(a, tsc.TxEqualizerControl0)
//	if err != nil {
//		return err
//	}
//	defer x.Discard()
//	x.Set(tsc.TxFirPreOverride, 2)
//	x.Set(tsc.TxFirPostOverride, 10)
//	return x.Commit()
//
// A Txn is not safe for concurrent use.
type Txn struct {
	e     *Engine
	addr  lane.Address
	reg   *Register
	word  Word
	dirty bool
	done  bool
}

// Begin starts a transaction on register id, reading its current value.
func (e *Engine) Begin(a lane.Address, id RegisterId) (*Txn, error) {
	x, err := e.newTxn(a, id)
	if err != nil {
		return nil, err
	}
	if err = e.Fetch(a, id, &x.word); err != nil {
		return nil, err
	}
	return x, nil
}

// BeginWith starts a transaction trusting w as the register's current
// value; no bus I/O.
func (e *Engine) BeginWith(a lane.Address, id RegisterId, w Word) (*Txn, error) {
	x, err := e.newTxn(a, id)
	if err != nil {
		return nil, err
	}
	x.word = w & x.reg.Mask()
	return x, nil
}

func (e *Engine) newTxn(a lane.Address, id RegisterId) (*Txn, error) {
	const op = "begin"
	r, err := e.Table.Register(id)
	if err != nil {
		return nil, e.fail(op, a, "", err)
	}
	if _, err = e.resolve(op, a, r.Name, r); err != nil {
		return nil, err
	}
	return &Txn{e: e, addr: a, reg: r}, nil
}

// Update runs fn in a transaction on register id and commits when fn
// returns nil.
func (e *Engine) Update(a lane.Address, id RegisterId, fn func(x *Txn) error) error {
	x, err := e.Begin(a, id)
	if err != nil {
		return err
	}
	defer x.Discard()
	if err = fn(x); err != nil {
		return err
	}
	return x.Commit()
}

func (x *Txn) check(op string, id Id) error {
	if x.done {
		return x.e.fail(op, x.addr, x.reg.Name, ErrClosed)
	}
	d, err := x.e.Table.Field(id)
	if err != nil {
		return x.e.fail(op, x.addr, x.reg.Name, err)
	}
	if d.Register != x.reg.Id {
		return x.e.fail(op, x.addr, d.Name, ErrWrongRegister)
	}
	return nil
}

func (x *Txn) Get(id Id) (uint32, error) {
	if err := x.check("get", id); err != nil {
		return 0, err
	}
	return x.e.Get(x.addr, id, &x.word, false)
}

func (x *Txn) Set(id Id, v uint32) error {
	if err := x.check("set", id); err != nil {
		return err
	}
	if err := x.e.Set(x.addr, id, &x.word, v, false); err != nil {
		return err
	}
	x.dirty = true
	return nil
}

// Commit writes the word back if any field was set. A failed write leaves
// the transaction open.
func (x *Txn) Commit() error {
	if x.done {
		return x.e.fail("commit", x.addr, x.reg.Name, ErrClosed)
	}
	if x.dirty {
		if err := x.e.Commit(x.addr, x.reg.Id, x.word); err != nil {
			return err
		}
	}
	x.done = true
	return nil
}

// Discard drops uncommitted changes. It is a no-op after Commit.
func (x *Txn) Discard() { x.done = true }

func (x *Txn) Word() Word          { return x.word }
func (x *Txn) Register() *Register { return x.reg }
func (x *Txn) Addr() lane.Address  { return x.addr }
func (x *Txn) Dirty() bool         { return x.dirty && !x.done }
