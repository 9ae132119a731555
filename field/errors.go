// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"errors"
	"fmt"

	"github.com/platinasystems/serdes/lane"
)

var (
	ErrUnresolvable    = lane.ErrUnresolvable
	ErrRange           = errors.New("value out of range")
	ErrAccess          = errors.New("access not permitted")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownRegister = errors.New("unknown register")
	ErrWrongRegister   = errors.New("field not in transaction register")
	ErrClosed          = errors.New("transaction closed")
)

// Error records the operation, lane address and field or register name of
// a failed access. Transport errors are kept as is in Err.
type Error struct {
	Op   string
	Addr lane.Address
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Addr, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
