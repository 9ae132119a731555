// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdio

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Window is the Regs32 of a CMIC MDIO controller mapped from a PCI
// resource file, e.g. /sys/bus/pci/devices/0000:03:00.0/resource0.
type Window struct {
	mem  []byte
	base uint
}

// OpenWindow maps all of fn; register offsets are relative to base.
func OpenWindow(fn string, base uint) (*Window, error) {
	if base%4 != 0 {
		return nil, fmt.Errorf("%s: base %#x: not word aligned", fn, base)
	}
	f, err := os.OpenFile(fn, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if end := int64(base + CmicStatus + 4); size < end {
		return nil, fmt.Errorf("%s: size %#x: controller at %#x out of range",
			fn, size, base)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", fn, err)
	}
	return &Window{mem: mem, base: base}, nil
}

func (w *Window) reg(offset uint) *uint32 {
	return (*uint32)(unsafe.Pointer(&w.mem[w.base+offset]))
}

func (w *Window) Get(offset uint) uint32 { return atomic.LoadUint32(w.reg(offset)) }

func (w *Window) Set(offset uint, v uint32) { atomic.StoreUint32(w.reg(offset), v) }

func (w *Window) Close() error {
	if w.mem == nil {
		return nil
	}
	err := unix.Munmap(w.mem)
	w.mem = nil
	return err
}
