// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdio

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/field/fieldtest"
	"github.com/platinasystems/serdes/lane"
	"github.com/platinasystems/serdes/tsc"
)

// core simulates serdes cores whose per-lane registers are banked behind
// the AER register.
type core struct {
	aer  map[uint8]uint16
	regs map[string]uint16
	ops  []string
	fail func(op string, reg uint16) error
}

func newCore() *core {
	return &core{aer: make(map[uint8]uint16), regs: make(map[string]uint16)}
}

func (c *core) key(bus, phy, devad uint8, reg uint16) string {
	return fmt.Sprintf("%d.%d.%d.%04x.%04x", bus, phy, devad, c.aer[phy], reg)
}

func (c *core) Read(bus, phy, devad uint8, reg uint16) (uint16, error) {
	c.ops = append(c.ops, fmt.Sprintf("r %04x", reg))
	if c.fail != nil {
		if err := c.fail("r", reg); err != nil {
			return 0, err
		}
	}
	return c.regs[c.key(bus, phy, devad, reg)], nil
}

func (c *core) Write(bus, phy, devad uint8, reg, v uint16) error {
	c.ops = append(c.ops, fmt.Sprintf("w %04x %04x", reg, v))
	if c.fail != nil {
		if err := c.fail("w", reg); err != nil {
			return err
		}
	}
	if reg == AerReg {
		c.aer[phy] = v
		return nil
	}
	c.regs[c.key(bus, phy, devad, reg)] = v
	return nil
}

func TestTransportSelectsLane(t *testing.T) {
	c := newCore()
	x := NewTransport(c)
	t0 := lane.Target{Bus: 1, Phy: 3, DevAd: lane.DevAdPmd, Lane: 0, Reg: 0xd110, Width: 16}
	t2 := t0
	t2.Lane = 2

	require.NoError(t, x.WriteWord(t0, 0x1111))
	require.NoError(t, x.WriteWord(t2, 0x2222))
	w, err := x.ReadWord(t0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1111), w)
	w, err = x.ReadWord(t2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x2222), w)

	assert.Equal(t, []string{
		"w ffde 0800", "w d110 1111",
		"w ffde 0802", "w d110 2222",
		"w ffde 0800", "r d110",
		"w ffde 0802", "r d110",
	}, c.ops)
}

func TestTransportWide(t *testing.T) {
	c := newCore()
	x := NewTransport(c)
	tg := lane.Target{Bus: 0, Phy: 1, DevAd: lane.DevAdPcs, Reg: 0x9240, Width: 32}

	require.NoError(t, x.WriteWord(tg, 0xaabbccdd))
	assert.Equal(t, []string{"w ffde 1800", "w 9241 aabb", "w 9240 ccdd"}, c.ops)

	c.ops = nil
	w, err := x.ReadWord(tg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xaabbccdd), w)
	assert.Equal(t, []string{"w ffde 1800", "r 9240", "r 9241"}, c.ops)
}

func TestTransportErrors(t *testing.T) {
	c := newCore()
	x := NewTransport(c)
	tg := lane.Target{Phy: 1, DevAd: lane.DevAdPmd, Reg: 0xd110, Width: 16}
	bad := errors.New("nak")

	c.fail = func(op string, reg uint16) error {
		if reg == AerReg {
			return bad
		}
		return nil
	}
	_, err := x.ReadWord(tg)
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, []string{"w ffde 0800"}, c.ops, "no access without lane select")

	c.ops = nil
	c.fail = func(op string, reg uint16) error {
		if op == "r" {
			return bad
		}
		return nil
	}
	_, err = x.ReadWord(tg)
	assert.ErrorIs(t, err, bad)
}

// With the engine on top: one read and one write for a read-modify-write,
// each preceded by a lane select.
func TestTransportEngine(t *testing.T) {
	c := newCore()
	topo := &lane.Topology{Devices: map[uint]lane.Device{
		0: {Bus: 2, Ports: map[uint]lane.Port{0: {Phy: 4, Lanes: lane.AllLanes}}},
	}}
	e := field.New(tsc.Table, topo, NewTransport(c))
	a := lane.Address{Lane: 1}
	require.NoError(t, e.ReadModifyWrite(a, tsc.TxFirPostOverride, 0x40))
	assert.Equal(t, []string{"w ffde 0801", "r d110", "w ffde 0801", "w d110 0800"}, c.ops)

	v, err := e.Get(a, tsc.TxFirPostOverride, new(field.Word), true)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x40), v)
}

// cmic simulates the controller's register file over a core.
type cmic struct {
	regs    map[uint]uint32
	bus     Bus
	stuck   bool
	lastErr error
}

func (m *cmic) Get(o uint) uint32 { return m.regs[o] }

func (m *cmic) Set(o uint, v uint32) {
	m.regs[o] = v
	if o != CmicControl {
		return
	}
	if v == 0 {
		m.regs[CmicStatus] = 0
		return
	}
	if m.stuck {
		return
	}
	p := m.regs[CmicParam]
	a := m.regs[CmicAddress]
	bus, phy := uint8(p>>22&7), uint8(p>>16&0x1f)
	devad, reg := uint8(a>>16&0x1f), uint16(a)
	if v&cmicReadStart != 0 {
		var d uint16
		d, m.lastErr = m.bus.Read(bus, phy, devad, reg)
		m.regs[CmicReadData] = uint32(d)
	} else {
		m.lastErr = m.bus.Write(bus, phy, devad, reg, uint16(p))
	}
	m.regs[CmicStatus] = cmicDone
}

func TestCmic(t *testing.T) {
	c := newCore()
	m := &cmic{regs: make(map[uint]uint32), bus: c}
	b := &Cmic{Regs: m}

	require.NoError(t, b.Write(5, 0x1f, 3, 0x9000, 0xbeef))
	p := m.regs[CmicParam]
	assert.Equal(t, uint32(1<<25|5<<22|1<<21|0x1f<<16|0xbeef), p)
	assert.Equal(t, uint32(3<<16|0x9000), m.regs[CmicAddress])
	assert.Zero(t, m.regs[CmicControl], "start bits cleared")

	v, err := b.Read(5, 0x1f, 3, 0x9000)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), v)

	_, err = b.Read(0, 0x20, 1, 0)
	assert.Error(t, err)
	assert.Error(t, b.Write(8, 0, 1, 0, 0))
}

func TestCmicTimeout(t *testing.T) {
	m := &cmic{regs: make(map[uint]uint32), bus: newCore(), stuck: true}
	b := &Cmic{Regs: m, Timeout: 100 * time.Microsecond}
	_, err := b.Read(0, 1, 1, 0xd110)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Zero(t, m.regs[CmicControl])
}

func TestCmicTransport(t *testing.T) {
	c := newCore()
	x := NewTransport(&Cmic{Regs: &cmic{regs: make(map[uint]uint32), bus: c}})
	tg := lane.Target{Bus: 1, Phy: 2, DevAd: lane.DevAdPmd, Lane: 3, Reg: 0xd111, Width: 16}
	require.NoError(t, x.WriteWord(tg, 0x8123))
	w, err := x.ReadWord(tg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x8123), w)
	assert.Equal(t, uint16(0x0803), c.aer[2])
}

func TestRetry(t *testing.T) {
	x := fieldtest.New()
	tg := lane.Target{Phy: 1, Reg: 0x9000, Width: 16}
	x.Poke(tg, 0x55)

	n := 0
	x.ReadErr = func(lane.Target) error {
		if n++; n < 3 {
			return fieldtest.ErrInjected
		}
		return nil
	}
	r := &Retry{Transport: x, Attempts: 3, Min: time.Microsecond, Max: time.Millisecond}
	w, err := r.ReadWord(tg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x55), w)
	assert.Equal(t, 3, x.Reads)

	x.WriteErr = fieldtest.FailAlways
	assert.ErrorIs(t, r.WriteWord(tg, 1), fieldtest.ErrInjected)
	assert.Equal(t, 3, x.Writes)

	r.Attempts = 0
	x.Reset()
	assert.Error(t, r.WriteWord(tg, 1))
	assert.Equal(t, 1, x.Writes)
}
