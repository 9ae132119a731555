// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package i2cbus

import (
	"errors"
	"testing"

	"github.com/platinasystems/i2c"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/serdes/lane"
	"github.com/platinasystems/serdes/mdio"
)

type key struct {
	sel, reg uint16
}

// bridge simulates the bridge's register file and the mdio bus behind it.
type bridge struct {
	regs   [4]uint16
	mdio   map[key]uint16
	busy   int
	opens  int
	closes int
	fail   error
}

func newBridge() *bridge { return &bridge{mdio: make(map[key]uint16)} }

func (b *bridge) open(index, addr int) (Device, error) {
	if index != 3 || addr != 0x44 {
		return nil, errors.New("no such device")
	}
	b.opens++
	return b, nil
}

func (b *bridge) Close() { b.closes++ }

func (b *bridge) Do(rw i2c.RW, offset uint8, size i2c.SMBusSize, data *i2c.SMBusData) error {
	if b.fail != nil {
		return b.fail
	}
	if offset == RegCommand {
		if rw == i2c.Read {
			if b.busy > 0 {
				b.busy--
				data[0] = 1
			} else {
				data[0] = 0
			}
			return nil
		}
		k := key{b.regs[RegSelect], b.regs[RegAddress]}
		switch data[0] {
		case CmdRead:
			b.regs[RegData] = b.mdio[k]
		case CmdWrite:
			b.mdio[k] = b.regs[RegData]
		}
		return nil
	}
	if rw == i2c.Read {
		v := b.regs[offset]
		data[0], data[1] = uint8(v), uint8(v>>8)
		return nil
	}
	b.regs[offset] = uint16(data[0]) | uint16(data[1])<<8
	return nil
}

func TestBridge(t *testing.T) {
	sim := newBridge()
	b := &Bridge{Index: 3, Addr: 0x44, Open: sim.open}

	require.NoError(t, b.Write(2, 0x11, 1, 0xd110, 0xabcd))
	assert.Equal(t, uint16(0xabcd), sim.mdio[key{2<<13 | 0x11<<8 | 1, 0xd110}])

	v, err := b.Read(2, 0x11, 1, 0xd110)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xabcd), v)
	assert.Equal(t, 2, sim.opens)
	assert.Equal(t, 2, sim.closes)

	_, err = b.Read(8, 0, 1, 0)
	assert.Error(t, err)
}

func TestBridgeBusy(t *testing.T) {
	sim := newBridge()
	b := &Bridge{Index: 3, Addr: 0x44, Open: sim.open, Polls: 3}

	sim.busy = 2
	require.NoError(t, b.Write(0, 1, 1, 0, 1))

	sim.busy = 5
	assert.ErrorIs(t, b.Write(0, 1, 1, 0, 1), ErrBusy)
}

func TestBridgeErrors(t *testing.T) {
	sim := newBridge()
	b := &Bridge{Index: 1, Addr: 0x44, Open: sim.open}
	_, err := b.Read(0, 1, 1, 0)
	assert.Error(t, err)

	b.Index = 3
	sim.fail = errors.New("nak")
	assert.ErrorIs(t, b.Write(0, 1, 1, 0, 0), sim.fail)
	assert.Equal(t, 1, sim.closes)
}

func TestBridgeTransport(t *testing.T) {
	sim := newBridge()
	x := mdio.NewTransport(&Bridge{Index: 3, Addr: 0x44, Open: sim.open})
	tg := lane.Target{Bus: 1, Phy: 5, DevAd: lane.DevAdPcs, Lane: 2, Reg: 0xc113, Width: 16}
	require.NoError(t, x.WriteWord(tg, 0x0401))
	w, err := x.ReadWord(tg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x0401), w)
	assert.Equal(t, uint16(3<<11|2), sim.mdio[key{1<<13 | 5<<8 | 3, mdio.AerReg}])
}
