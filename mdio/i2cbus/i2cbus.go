// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package i2cbus provides an mdio.Bus through an I2C attached MDIO
// bridge, for boards whose management cpu does not own the switch's
// MDIO controller.
package i2cbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/platinasystems/i2c"
)

// Bridge registers, SMBus word data unless noted.
const (
	// [15:13] mdio bus, [12:8] phy, [4:0] devad
	RegSelect  uint8 = 0
	RegAddress uint8 = 1
	RegData    uint8 = 2
	// Byte data. Write CmdRead or CmdWrite; reads 0 when done.
	RegCommand uint8 = 3
)

const (
	CmdRead  = 1
	CmdWrite = 2
)

var ErrBusy = errors.New("mdio bridge busy")

// Device is an open I2C device at the bridge's slave address.
type Device interface {
	Do(rw i2c.RW, offset uint8, size i2c.SMBusSize, data *i2c.SMBusData) error
	Close()
}

type device struct {
	bus i2c.Bus
}

func (d *device) Do(rw i2c.RW, offset uint8, size i2c.SMBusSize, data *i2c.SMBusData) error {
	return d.bus.Do(rw, offset, size, data)
}

func (d *device) Close() { d.bus.Close() }

// Open opens the bridge at addr on I2C bus index.
func Open(index, addr int) (Device, error) {
	d := new(device)
	if err := d.bus.Open(index); err != nil {
		return nil, err
	}
	if err := d.bus.ForceSlaveAddress(addr); err != nil {
		d.bus.Close()
		return nil, err
	}
	return d, nil
}

type Bridge struct {
	// I2C bus index and slave address.
	Index int
	Addr  int
	// Command polls before giving up; zero means 10.
	Polls int
	// Delay between polls.
	Delay time.Duration

	// Opens the device for each access; nil means Open.
	Open func(index, addr int) (Device, error)

	mu sync.Mutex
}

func (b *Bridge) open() (Device, error) {
	open := b.Open
	if open == nil {
		open = Open
	}
	d, err := open(b.Index, b.Addr)
	if err != nil {
		return nil, fmt.Errorf("i2c %d.%#x: %w", b.Index, b.Addr, err)
	}
	return d, nil
}

func word(d Device, rw i2c.RW, offset uint8, v *uint16) error {
	var data i2c.SMBusData
	data[0] = uint8(*v)
	data[1] = uint8(*v >> 8)
	if err := d.Do(rw, offset, i2c.WordData, &data); err != nil {
		return err
	}
	*v = uint16(data[0]) | uint16(data[1])<<8
	return nil
}

func (b *Bridge) setup(d Device, bus, phy, devad uint8, reg uint16) error {
	if bus > 7 || phy > 0x1f || devad > 0x1f {
		return fmt.Errorf("bad mdio address bus %d phy %#x devad %d", bus, phy, devad)
	}
	sel := uint16(bus)<<13 | uint16(phy)<<8 | uint16(devad)
	if err := word(d, i2c.Write, RegSelect, &sel); err != nil {
		return err
	}
	return word(d, i2c.Write, RegAddress, &reg)
}

func (b *Bridge) command(d Device, cmd uint8) error {
	var data i2c.SMBusData
	data[0] = cmd
	if err := d.Do(i2c.Write, RegCommand, i2c.ByteData, &data); err != nil {
		return err
	}
	polls := b.Polls
	if polls == 0 {
		polls = 10
	}
	for i := 0; i < polls; i++ {
		if err := d.Do(i2c.Read, RegCommand, i2c.ByteData, &data); err != nil {
			return err
		}
		if data[0] == 0 {
			return nil
		}
		time.Sleep(b.Delay)
	}
	return ErrBusy
}

func (b *Bridge) Read(bus, phy, devad uint8, reg uint16) (v uint16, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.open()
	if err != nil {
		return
	}
	defer d.Close()
	if err = b.setup(d, bus, phy, devad, reg); err != nil {
		return
	}
	if err = b.command(d, CmdRead); err != nil {
		return
	}
	err = word(d, i2c.Read, RegData, &v)
	return
}

func (b *Bridge) Write(bus, phy, devad uint8, reg, v uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.open()
	if err != nil {
		return err
	}
	defer d.Close()
	if err = b.setup(d, bus, phy, devad, reg); err != nil {
		return err
	}
	if err = word(d, i2c.Write, RegData, &v); err != nil {
		return err
	}
	return b.command(d, CmdWrite)
}
