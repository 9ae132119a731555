// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdio

import (
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"

	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/lane"
)

// Retry repeats failed word accesses of the underlying transport with
// exponential backoff. A retried write may reach the register twice; only
// wrap transports whose failures leave the register untouched.
type Retry struct {
	field.Transport
	// Total tries per access; less than 1 means 1.
	Attempts int
	Min, Max time.Duration
}

func (r *Retry) backoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    r.Min,
		Max:    r.Max,
		Factor: 2,
		Jitter: false,
	}
}

func (r *Retry) retry(op string, t lane.Target, fn func() error) (err error) {
	b := r.backoff()
	for i := 1; ; i++ {
		if err = fn(); err == nil || i >= r.Attempts {
			return
		}
		d := b.Duration()
		log.Print("warning: ", op, " ", t, ": ", err, "; retry in ", d)
		time.Sleep(d)
	}
}

func (r *Retry) ReadWord(t lane.Target) (w uint32, err error) {
	err = r.retry("read", t, func() (err error) {
		w, err = r.Transport.ReadWord(t)
		return
	})
	return
}

func (r *Retry) WriteWord(t lane.Target, w uint32) error {
	return r.retry("write", t, func() error {
		return r.Transport.WriteWord(t, w)
	})
}
