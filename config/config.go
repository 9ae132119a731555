// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the serdes topology and bus settings from YAML.
//
//	transport:
//	  i2c: {bus: 1, addr: 0x44}
//	  retry: {attempts: 3, min: 10ms, max: 1s}
//
// or, for the switch's own MDIO controller,
//
//	transport:
//	  cmic: {resource: /sys/bus/pci/devices/0000:03:00.0/resource0, offset: 0x32000}
//	redis:
//	  address: 127.0.0.1:6379
//	devices:
//	  - id: 0
//	    bus: 2
//	    ports:
//	      - {id: 0, phy: 0x01, lanes: "0xf"}
//	      - {id: 1, phy: 0x05, lanes: "0x3"}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/garyburd/redigo/redis"
	"gopkg.in/yaml.v3"

	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/lane"
	"github.com/platinasystems/serdes/mdio"
	"github.com/platinasystems/serdes/mdio/i2cbus"
)

const DefaultPath = "/etc/goes/serdes.yaml"

var ErrNoRedis = errors.New("redis not configured")

type Config struct {
	Transport Transport `yaml:"transport"`
	Redis     Redis     `yaml:"redis"`
	Devices   []Device  `yaml:"devices"`
}

// Transport selects exactly one of I2c and Cmic.
type Transport struct {
	I2c   I2c   `yaml:"i2c"`
	Cmic  Cmic  `yaml:"cmic"`
	Retry Retry `yaml:"retry"`
}

// I2c locates the I2C to MDIO bridge.
type I2c struct {
	Bus   int           `yaml:"bus"`
	Addr  int           `yaml:"addr"`
	Polls int           `yaml:"polls"`
	Delay time.Duration `yaml:"delay"`
}

// Cmic locates the CMIC MDIO controller within a mapped PCI resource.
type Cmic struct {
	Resource string `yaml:"resource"`
	// Byte offset of the controller's registers.
	Offset   uint          `yaml:"offset"`
	External bool          `yaml:"external"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Retry of failed bus words; Attempts of 1 disables it.
type Retry struct {
	Attempts int           `yaml:"attempts"`
	Min      time.Duration `yaml:"min"`
	Max      time.Duration `yaml:"max"`
}

type Redis struct {
	// Empty disables publishing.
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

type Device struct {
	Id    uint   `yaml:"id"`
	Bus   uint8  `yaml:"bus"`
	Ports []Port `yaml:"ports"`
}

type Port struct {
	Id  uint  `yaml:"id"`
	Phy uint8 `yaml:"phy"`
	// Lane mask, e.g. "0xf".
	Lanes string `yaml:"lanes"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes, defaults and validates a configuration. Unknown keys are
// errors.
func Parse(b []byte) (*Config, error) {
	c := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, err
	}
	c.defaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) defaults() {
	r := &c.Transport.Retry
	if r.Attempts == 0 {
		r.Attempts = 1
	}
	if r.Min == 0 {
		r.Min = 10 * time.Millisecond
	}
	if r.Max == 0 {
		r.Max = time.Second
	}
	if c.Transport.I2c.Polls == 0 {
		c.Transport.I2c.Polls = 10
	}
	if c.Redis.Timeout == 0 {
		c.Redis.Timeout = 500 * time.Millisecond
	}
}

func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return errors.New("no devices")
	}
	if c.Transport.Cmic.Resource != "" {
		if c.Transport.I2c.Addr != 0 {
			return errors.New("transport: both i2c and cmic")
		}
		if o := c.Transport.Cmic.Offset; o%4 != 0 {
			return fmt.Errorf("transport.cmic.offset %#x: not word aligned", o)
		}
	} else if a := c.Transport.I2c.Addr; a <= 0 || a > 0x7f {
		return fmt.Errorf("transport.i2c.addr %#x: not a 7 bit address", a)
	}
	if r := c.Transport.Retry; r.Attempts < 1 || r.Min > r.Max {
		return fmt.Errorf("transport.retry: attempts %d min %s max %s",
			r.Attempts, r.Min, r.Max)
	}
	_, err := c.Topology()
	return err
}

// Topology returns the lane resolver described by the devices section.
func (c *Config) Topology() (*lane.Topology, error) {
	t := &lane.Topology{Devices: make(map[uint]lane.Device, len(c.Devices))}
	for _, d := range c.Devices {
		if _, dup := t.Devices[d.Id]; dup {
			return nil, fmt.Errorf("device %d: duplicate", d.Id)
		}
		ld := lane.Device{Bus: d.Bus, Ports: make(map[uint]lane.Port, len(d.Ports))}
		for _, p := range d.Ports {
			if _, dup := ld.Ports[p.Id]; dup {
				return nil, fmt.Errorf("device %d port %d: duplicate", d.Id, p.Id)
			}
			m, err := lane.ParseLaneMask(p.Lanes)
			if err != nil {
				return nil, fmt.Errorf("device %d port %d: %w", d.Id, p.Id, err)
			}
			ld.Ports[p.Id] = lane.Port{Phy: p.Phy, Lanes: m}
		}
		t.Devices[d.Id] = ld
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Bus returns the configured MDIO bus. A CMIC bus maps its resource file
// for the life of the program.
func (c *Config) Bus() (mdio.Bus, error) {
	if m := c.Transport.Cmic; m.Resource != "" {
		w, err := mdio.OpenWindow(m.Resource, m.Offset)
		if err != nil {
			return nil, fmt.Errorf("transport.cmic: %w", err)
		}
		return &mdio.Cmic{
			Regs:        w,
			ExternalPhy: m.External,
			Timeout:     m.Timeout,
		}, nil
	}
	i := c.Transport.I2c
	return &i2cbus.Bridge{
		Index: i.Bus,
		Addr:  i.Addr,
		Polls: i.Polls,
		Delay: i.Delay,
	}, nil
}

// NewTransport layers lane selection and, when configured, retries over
// bus.
func (c *Config) NewTransport(bus mdio.Bus) field.Transport {
	var x field.Transport = mdio.NewTransport(bus)
	if r := c.Transport.Retry; r.Attempts > 1 {
		x = &mdio.Retry{
			Transport: x,
			Attempts:  r.Attempts,
			Min:       r.Min,
			Max:       r.Max,
		}
	}
	return x
}

func (c *Config) DialRedis() (redis.Conn, error) {
	if c.Redis.Address == "" {
		return nil, ErrNoRedis
	}
	t := c.Redis.Timeout
	return redis.Dial("tcp", c.Redis.Address,
		redis.DialConnectTimeout(t),
		redis.DialReadTimeout(t),
		redis.DialWriteTimeout(t))
}
