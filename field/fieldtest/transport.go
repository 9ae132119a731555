// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fieldtest provides an in-memory register file that counts bus
// transactions, for testing code built on package field.
package fieldtest

import (
	"errors"
	"sync"

	"github.com/platinasystems/serdes/lane"
)

var ErrInjected = errors.New("injected bus error")

// Transport is a register file keyed by bus target.
type Transport struct {
	mu     sync.Mutex
	words  map[lane.Target]uint32
	Reads  int
	Writes int

	// When set, called before each access; a non-nil return fails it.
	ReadErr  func(t lane.Target) error
	WriteErr func(t lane.Target) error

	// Every successful write in order.
	Log []Write
}

type Write struct {
	Target lane.Target
	Word   uint32
}

func New() *Transport {
	return &Transport{words: make(map[lane.Target]uint32)}
}

func (x *Transport) ReadWord(t lane.Target) (uint32, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Reads++
	if x.ReadErr != nil {
		if err := x.ReadErr(t); err != nil {
			return 0, err
		}
	}
	return x.words[t], nil
}

func (x *Transport) WriteWord(t lane.Target, w uint32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Writes++
	if x.WriteErr != nil {
		if err := x.WriteErr(t); err != nil {
			return err
		}
	}
	x.words[t] = w
	x.Log = append(x.Log, Write{t, w})
	return nil
}

// Poke sets a register without counting a transaction.
func (x *Transport) Poke(t lane.Target, w uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.words[t] = w
}

// Peek returns a register without counting a transaction.
func (x *Transport) Peek(t lane.Target) uint32 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.words[t]
}

// Reset zeroes the counters and write log.
func (x *Transport) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.Reads, x.Writes, x.Log = 0, 0, nil
}

// FailAlways returns an error hook that always fails with ErrInjected.
func FailAlways(lane.Target) error { return ErrInjected }
