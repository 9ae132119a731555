// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/field/fieldtest"
)

func TestTxnCommit(t *testing.T) {
	e, x := newEngine(t)
	tg := target(t, e, addr, rControl)
	x.Poke(tg, 0x00a5)

	txn, err := e.Begin(addr, rControl)
	require.NoError(t, err)
	defer txn.Discard()
	assert.Equal(t, 1, x.Reads)

	v, err := txn.Get(f0)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)

	require.NoError(t, txn.Set(f1, 3))
	require.NoError(t, txn.Set(f0, 0xc))
	assert.True(t, txn.Dirty())
	assert.Zero(t, x.Writes)

	require.NoError(t, txn.Commit())
	assert.False(t, txn.Dirty())
	assert.Equal(t, 1, x.Reads)
	assert.Equal(t, 1, x.Writes)
	assert.Equal(t, uint32(0x003c), x.Peek(tg))
}

func TestTxnCleanCommit(t *testing.T) {
	e, x := newEngine(t)
	txn, err := e.BeginWith(addr, rControl, 0x1234)
	require.NoError(t, err)
	v, err := txn.Get(f1)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v)
	require.NoError(t, txn.Commit())
	assert.Zero(t, x.Reads)
	assert.Zero(t, x.Writes)
}

func TestTxnClosed(t *testing.T) {
	e, x := newEngine(t)
	txn, err := e.BeginWith(addr, rControl, 0)
	require.NoError(t, err)
	require.NoError(t, txn.Set(f0, 1))
	txn.Discard()

	assert.ErrorIs(t, txn.Set(f0, 2), field.ErrClosed)
	_, err = txn.Get(f0)
	assert.ErrorIs(t, err, field.ErrClosed)
	assert.ErrorIs(t, txn.Commit(), field.ErrClosed)
	assert.Zero(t, x.Writes)
}

func TestTxnWrongRegister(t *testing.T) {
	e, _ := newEngine(t)
	txn, err := e.BeginWith(addr, rControl, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, txn.Set(fHi, 1), field.ErrWrongRegister)
	_, err = txn.Get(fLock)
	assert.ErrorIs(t, err, field.ErrWrongRegister)
	assert.ErrorIs(t, txn.Set(field.Id(1000), 1), field.ErrUnknownField)
	assert.False(t, txn.Dirty())
}

func TestTxnRangeLeavesWord(t *testing.T) {
	e, _ := newEngine(t)
	txn, err := e.BeginWith(addr, rControl, 0x00a5)
	require.NoError(t, err)
	assert.ErrorIs(t, txn.Set(f0, 0x10), field.ErrRange)
	assert.Equal(t, field.Word(0x00a5), txn.Word())
	assert.False(t, txn.Dirty())
}

func TestTxnCommitRetry(t *testing.T) {
	e, x := newEngine(t)
	tg := target(t, e, addr, rControl)
	txn, err := e.BeginWith(addr, rControl, 0)
	require.NoError(t, err)
	require.NoError(t, txn.Set(f1, 7))

	x.WriteErr = fieldtest.FailAlways
	assert.ErrorIs(t, txn.Commit(), fieldtest.ErrInjected)
	assert.True(t, txn.Dirty(), "failed commit keeps the transaction open")

	x.WriteErr = nil
	require.NoError(t, txn.Commit())
	assert.Equal(t, uint32(0x70), x.Peek(tg))
}

func TestTxnBeginErrors(t *testing.T) {
	e, x := newEngine(t)
	_, err := e.Begin(badAddr, rControl)
	assert.ErrorIs(t, err, field.ErrUnresolvable)
	_, err = e.BeginWith(addr, field.RegisterId(9), 0)
	assert.ErrorIs(t, err, field.ErrUnknownRegister)
	assert.Zero(t, x.Reads)

	x.ReadErr = fieldtest.FailAlways
	_, err = e.Begin(addr, rControl)
	assert.ErrorIs(t, err, fieldtest.ErrInjected)
}

func TestUpdate(t *testing.T) {
	e, x := newEngine(t)
	tg := target(t, e, addr, rControl)
	x.Poke(tg, 0x00a5)

	require.NoError(t, e.Update(addr, rControl, func(txn *field.Txn) error {
		return txn.Set(f1, 3)
	}))
	assert.Equal(t, uint32(0x0035), x.Peek(tg))
	assert.Equal(t, 1, x.Writes)

	abort := errors.New("abort")
	err := e.Update(addr, rControl, func(txn *field.Txn) error {
		if err := txn.Set(f0, 0); err != nil {
			return err
		}
		return abort
	})
	assert.ErrorIs(t, err, abort)
	assert.Equal(t, uint32(0x0035), x.Peek(tg))
	assert.Equal(t, 1, x.Writes)
	assert.Equal(t, 2, x.Reads)
}
