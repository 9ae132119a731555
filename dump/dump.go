// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump decodes every readable field of a lane with one bus read per
// register.
package dump

import (
	"fmt"
	"time"

	"github.com/platinasystems/log"
	uuid "github.com/satori/go.uuid"

	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/lane"
)

type Value struct {
	Field *field.Descriptor
	Value uint32
}

func (v Value) Format(hex bool) string { return v.Field.Format(v.Value, hex) }

type Register struct {
	Register *field.Register
	Word     field.Word
	// Empty when Err is set.
	Values []Value
	Err    error
}

type Snapshot struct {
	Id        uuid.UUID
	Time      time.Time
	Addr      lane.Address
	Registers []Register
}

// Failed counts the registers that could not be read.
func (s *Snapshot) Failed() (n int) {
	for i := range s.Registers {
		if s.Registers[i].Err != nil {
			n++
		}
	}
	return
}

// Err returns the first register error.
func (s *Snapshot) Err() error {
	for i := range s.Registers {
		if err := s.Registers[i].Err; err != nil {
			if n := s.Failed(); n > 1 {
				return fmt.Errorf("%w (and %d more)", err, n-1)
			}
			return err
		}
	}
	return nil
}

func readable(t *field.Table, id field.RegisterId) (ids []field.Id) {
	for _, fid := range t.FieldsOf(id) {
		if d, err := t.Field(fid); err == nil && d.Access.Readable() {
			ids = append(ids, fid)
		}
	}
	return
}

// Lane reads each register holding a readable field once and decodes its
// fields from the fetched word. A register that fails to read is logged,
// recorded and skipped.
func Lane(e *field.Engine, a lane.Address) *Snapshot {
	s := &Snapshot{
		Id:   uuid.NewV4(),
		Time: time.Now(),
		Addr: a,
	}
	for i := 0; i < e.Table.NRegisters(); i++ {
		id := field.RegisterId(i)
		ids := readable(e.Table, id)
		if len(ids) == 0 {
			continue
		}
		r, _ := e.Table.Register(id)
		d := Register{Register: r}
		if d.Err = e.Fetch(a, id, &d.Word); d.Err != nil {
			log.Print("warning: dump ", a, ": ", d.Err)
			s.Registers = append(s.Registers, d)
			continue
		}
		for _, fid := range ids {
			v, err := e.Get(a, fid, &d.Word, false)
			if err != nil {
				d.Err = err
				d.Values = nil
				break
			}
			f, _ := e.Table.Field(fid)
			d.Values = append(d.Values, Value{Field: f, Value: v})
		}
		s.Registers = append(s.Registers, d)
	}
	return s
}

// Lanes dumps each lane of m on the given port.
func Lanes(e *field.Engine, device, port uint, m lane.LaneMask) []*Snapshot {
	var ss []*Snapshot
	m.Foreach(func(l lane.LaneMask) {
		ss = append(ss, Lane(e, lane.Address{Device: device, Port: port, Lane: uint(l)}))
	})
	return ss
}
