// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrTimeout = errors.New("mdio timeout")

// Regs32 accesses the 32 bit registers of the switch CMIC MDIO controller
// by byte offset.
type Regs32 interface {
	Get(offset uint) uint32
	Set(offset uint, v uint32)
}

const (
	/* [25] 1 => internal, 0 => external
	   [24:22] bus id
	   [21] 1 => clause45, 0 => clause 22
	   [20:16] phy id
	   [15:0] phy write data */
	CmicParam uint = 0x0
	// [15:0] phy read data
	CmicReadData uint = 0x4
	// clause 45 [20:16] DTYPE, [15:0] register address
	CmicAddress uint = 0x8
	// [1] read start, [0] write start
	CmicControl uint = 0xc
	// [0] operation done; cleared by clearing control start bits.
	CmicStatus uint = 0x10
)

const (
	cmicInternal  = 1 << 25
	cmicClause45  = 1 << 21
	cmicReadStart = 1 << 1
	cmicWrStart   = 1 << 0
	cmicDone      = 1 << 0
)

// Cmic is a Bus driven through the CMIC MDIO controller by polling.
type Cmic struct {
	Regs Regs32
	// Phys on the external buses.
	ExternalPhy bool
	// Zero means one millisecond.
	Timeout time.Duration

	mu sync.Mutex
}

func (c *Cmic) param(bus, phy uint8) (p uint32, err error) {
	if phy > 0x1f {
		return 0, fmt.Errorf("phy id > 0x1f: %x", phy)
	}
	if bus > 0x7 {
		return 0, fmt.Errorf("bus id > 0x7: %x", bus)
	}
	if !c.ExternalPhy {
		p |= cmicInternal
	}
	p |= cmicClause45
	p |= uint32(bus) << 22
	p |= uint32(phy) << 16
	return
}

// do starts one operation and polls for done. Read data, when v is not
// nil, is fetched before the start bits are cleared.
func (c *Cmic) do(p uint32, devad uint8, reg uint16, v *uint16) error {
	if devad > 0x1f {
		return fmt.Errorf("devad > 0x1f: %x", devad)
	}
	r := c.Regs
	r.Set(CmicParam, p)
	r.Set(CmicAddress, uint32(devad)<<16|uint32(reg))
	if v == nil {
		r.Set(CmicControl, cmicWrStart)
	} else {
		r.Set(CmicControl, cmicReadStart)
	}
	defer r.Set(CmicControl, 0)

	timeout := c.Timeout
	if timeout == 0 {
		timeout = time.Millisecond
	}
	deadline := time.Now().Add(timeout)
	for r.Get(CmicStatus)&cmicDone == 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("devad %d reg 0x%04x: %w", devad, reg, ErrTimeout)
		}
	}
	if v != nil {
		*v = uint16(r.Get(CmicReadData))
	}
	return nil
}

func (c *Cmic) Read(bus, phy, devad uint8, reg uint16) (uint16, error) {
	p, err := c.param(bus, phy)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var v uint16
	err = c.do(p, devad, reg, &v)
	return v, err
}

func (c *Cmic) Write(bus, phy, devad uint8, reg, v uint16) error {
	p, err := c.param(bus, phy)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.do(p|uint32(v), devad, reg, nil)
}
