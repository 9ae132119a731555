// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lane resolves a (device, port, lane) address and a register
// location into the bus target of one physical serdes register instance.
package lane

import (
	"errors"
	"fmt"
)

var ErrUnresolvable = errors.New("unresolvable address")

// Clause 45 device addresses for the two register blocks of a serdes core.
const (
	DevAdPmd uint8 = 1
	DevAdPcs uint8 = 3
)

// Number of serdes lanes per core.
const N_lane = 4

type Address struct {
	Device uint
	Port   uint
	Lane   uint
}

func (a Address) String() string {
	return fmt.Sprintf("%d/%d/%d", a.Device, a.Port, a.Lane)
}

// Location is where a register lives within the per-lane register bank.
type Location struct {
	// Register offset in the core's register map.
	Reg uint16
	// 16 or 32.
	Width uint8
	// PMD registers use DEVAD 1, PCS registers DEVAD 3.
	IsPmd bool
	// Core-wide registers are only reachable through the first lane of a port.
	PerLane bool
}

// Target is everything the indirect bus needs to access one register word.
type Target struct {
	Bus   uint8
	Phy   uint8
	DevAd uint8
	Lane  uint8
	Reg   uint16
	Width uint8
}

func (t Target) String() string {
	return fmt.Sprintf("bus %d phy 0x%02x devad %d lane %d reg 0x%04x",
		t.Bus, t.Phy, t.DevAd, t.Lane, t.Reg)
}

type Port struct {
	// MDIO phy address of the serdes core serving this port.
	Phy uint8
	// Physical lanes of the core that belong to the port.
	Lanes LaneMask
}

type Device struct {
	// MDIO bus id the device's serdes cores hang off.
	Bus   uint8
	Ports map[uint]Port
}

// Resolver maps an address and register location to a bus target without
// doing any bus I/O.
type Resolver interface {
	Resolve(a Address, l Location) (Target, error)
}

// Topology is a static Resolver built from the board description.
type Topology struct {
	Devices map[uint]Device
}

func (t *Topology) lookup(device, port uint) (d Device, p Port, err error) {
	var found bool
	if d, found = t.Devices[device]; !found {
		err = fmt.Errorf("%w: no device %d", ErrUnresolvable, device)
		return
	}
	if p, found = d.Ports[port]; !found {
		err = fmt.Errorf("%w: device %d has no port %d", ErrUnresolvable,
			device, port)
	}
	return
}

func (t *Topology) port(a Address) (d Device, p Port, err error) {
	if d, p, err = t.lookup(a.Device, a.Port); err != nil {
		return
	}
	if a.Lane >= N_lane || p.Lanes&(1<<a.Lane) == 0 {
		err = fmt.Errorf("%w: port %d/%d has no lane %d (lanes 0x%x)",
			ErrUnresolvable, a.Device, a.Port, a.Lane, uint32(p.Lanes))
	}
	return
}

func (t *Topology) Resolve(a Address, l Location) (x Target, err error) {
	d, p, err := t.port(a)
	if err != nil {
		return
	}
	x = Target{
		Bus:   d.Bus,
		Phy:   p.Phy,
		DevAd: DevAdPcs,
		Lane:  uint8(a.Lane),
		Reg:   l.Reg,
		Width: l.Width,
	}
	if l.IsPmd {
		x.DevAd = DevAdPmd
	}
	if !l.PerLane {
		x.Lane = uint8(p.Lanes.FirstLane())
	}
	return
}

// Lanes returns the lane mask of the addressed port.
func (t *Topology) Lanes(device, port uint) (LaneMask, error) {
	_, p, err := t.lookup(device, port)
	return p.Lanes, err
}

// Validate checks that every port names a phy address and at least one lane
// of its core.
func (t *Topology) Validate() error {
	for dn, d := range t.Devices {
		for pn, p := range d.Ports {
			if p.Phy > 0x1f {
				return fmt.Errorf("device %d port %d: phy 0x%x > 0x1f",
					dn, pn, p.Phy)
			}
			if p.Lanes == 0 || p.Lanes&^AllLanes != 0 {
				return fmt.Errorf("device %d port %d: bad lane mask 0x%x",
					dn, pn, uint32(p.Lanes))
			}
		}
	}
	return nil
}
