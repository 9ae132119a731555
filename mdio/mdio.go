// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdio carries serdes register words over clause 45 MDIO.
package mdio

import (
	"fmt"
	"sync"

	"github.com/platinasystems/serdes/lane"
)

// Bus performs single 16 bit clause 45 register accesses.
type Bus interface {
	Read(bus, phy, devad uint8, reg uint16) (uint16, error)
	Write(bus, phy, devad uint8, reg, v uint16) error
}

// Address extension register: selects the lane and MMD of following
// accesses to the core.
const AerReg = 0xffde

func aer(t lane.Target) uint16 {
	return uint16(t.DevAd)<<11 | uint16(t.Lane)
}

// Transport implements field.Transport over a Bus. Lane selection is a
// separate bus write so each select and access pair is done under a lock.
type Transport struct {
	Bus Bus
	mu  sync.Mutex
}

func NewTransport(b Bus) *Transport { return &Transport{Bus: b} }

func (x *Transport) sel(t lane.Target) error {
	if err := x.Bus.Write(t.Bus, t.Phy, t.DevAd, AerReg, aer(t)); err != nil {
		return fmt.Errorf("aer %s: %w", t, err)
	}
	return nil
}

// ReadWord reads the low half of a 32 bit register first.
func (x *Transport) ReadWord(t lane.Target) (w uint32, err error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err = x.sel(t); err != nil {
		return
	}
	lo, err := x.Bus.Read(t.Bus, t.Phy, t.DevAd, t.Reg)
	if err != nil {
		return
	}
	w = uint32(lo)
	if t.Width == 32 {
		var hi uint16
		if hi, err = x.Bus.Read(t.Bus, t.Phy, t.DevAd, t.Reg+1); err != nil {
			return 0, err
		}
		w |= uint32(hi) << 16
	}
	return
}

// WriteWord writes the low half of a 32 bit register last.
func (x *Transport) WriteWord(t lane.Target, w uint32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.sel(t); err != nil {
		return err
	}
	if t.Width == 32 {
		if err := x.Bus.Write(t.Bus, t.Phy, t.DevAd, t.Reg+1, uint16(w>>16)); err != nil {
			return err
		}
	}
	return x.Bus.Write(t.Bus, t.Phy, t.DevAd, t.Reg, uint16(w))
}
