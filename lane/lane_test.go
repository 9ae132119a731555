// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lane

import (
	"errors"
	"fmt"
	"testing"
)

func testTopology() *Topology {
	return &Topology{
		Devices: map[uint]Device{
			0: {
				Bus: 2,
				Ports: map[uint]Port{
					0: {Phy: 0x01, Lanes: 0xf},
					1: {Phy: 0x05, Lanes: 0x3},
					2: {Phy: 0x05, Lanes: 0xc},
				},
			},
		},
	}
}

func TestResolve(t *testing.T) {
	topo := testTopology()
	for _, x := range []struct {
		a    Address
		l    Location
		want Target
	}{
		{
			a:    Address{0, 0, 2},
			l:    Location{Reg: 0xd110, Width: 16, IsPmd: true, PerLane: true},
			want: Target{Bus: 2, Phy: 0x01, DevAd: DevAdPmd, Lane: 2, Reg: 0xd110, Width: 16},
		},
		{
			a:    Address{0, 1, 1},
			l:    Location{Reg: 0xc113, Width: 16, PerLane: true},
			want: Target{Bus: 2, Phy: 0x05, DevAd: DevAdPcs, Lane: 1, Reg: 0xc113, Width: 16},
		},
		{
			// core register: always the port's first lane
			a:    Address{0, 2, 3},
			l:    Location{Reg: 0x9000, Width: 16},
			want: Target{Bus: 2, Phy: 0x05, DevAd: DevAdPcs, Lane: 2, Reg: 0x9000, Width: 16},
		},
		{
			a:    Address{0, 0, 0},
			l:    Location{Reg: 0x9240, Width: 32},
			want: Target{Bus: 2, Phy: 0x01, DevAd: DevAdPcs, Lane: 0, Reg: 0x9240, Width: 32},
		},
	} {
		got, err := topo.Resolve(x.a, x.l)
		if err != nil {
			t.Errorf("Resolve(%v): %v", x.a, err)
			continue
		}
		if got != x.want {
			t.Errorf("Resolve(%v) = %v; want %v", x.a, got, x.want)
		}
	}
}

func TestResolveIsPure(t *testing.T) {
	topo := testTopology()
	a := Address{0, 1, 0}
	l := Location{Reg: 0xd0f4, Width: 16, IsPmd: true, PerLane: true}
	first, err := topo.Resolve(a, l)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if got, _ := topo.Resolve(a, l); got != first {
			t.Fatalf("resolve #%d: %v != %v", i, got, first)
		}
	}
}

func TestResolveUnresolvable(t *testing.T) {
	topo := testTopology()
	l := Location{Reg: 0x9000, Width: 16}
	for _, a := range []Address{
		{1, 0, 0}, // no device
		{0, 7, 0}, // no port
		{0, 1, 2}, // lane not in port
		{0, 0, 4}, // lane beyond core
	} {
		_, err := topo.Resolve(a, l)
		if !errors.Is(err, ErrUnresolvable) {
			t.Errorf("Resolve(%v): got %v; want %v", a, err, ErrUnresolvable)
		}
	}
}

func TestLanes(t *testing.T) {
	topo := testTopology()
	if lm, err := topo.Lanes(0, 2); err != nil || lm != 0xc {
		t.Errorf("Lanes(0, 2) = %v, %v", lm, err)
	}
	if _, err := topo.Lanes(0, 9); !errors.Is(err, ErrUnresolvable) {
		t.Errorf("Lanes(0, 9): %v", err)
	}
}

func TestValidate(t *testing.T) {
	topo := testTopology()
	if err := topo.Validate(); err != nil {
		t.Fatal(err)
	}
	topo.Devices[0].Ports[3] = Port{Phy: 0x20, Lanes: 1}
	if err := topo.Validate(); err == nil {
		t.Error("phy 0x20 accepted")
	}
	topo.Devices[0].Ports[3] = Port{Phy: 0x2, Lanes: 0x10}
	if err := topo.Validate(); err == nil {
		t.Error("lane mask 0x10 accepted")
	}
}

func TestLaneMask(t *testing.T) {
	var lanes, masks []LaneMask
	lm := LaneMask(0xa)
	lm.Foreach(func(l LaneMask) { lanes = append(lanes, l) })
	lm.ForeachMask(func(l LaneMask) { masks = append(masks, l) })
	if fmt.Sprint(lanes) != "[0x1 0x3]" {
		t.Errorf("Foreach: %v", lanes)
	}
	if fmt.Sprint(masks) != "[0x2 0x8]" {
		t.Errorf("ForeachMask: %v", masks)
	}
	if lm.FirstLane() != 1 || lm.NLanes() != 2 {
		t.Errorf("FirstLane %d NLanes %d", lm.FirstLane(), lm.NLanes())
	}
	if _, err := ParseLaneMask("0x1f"); err == nil {
		t.Error("0x1f accepted")
	}
	if got, err := ParseLaneMask("0xc"); err != nil || got != 0xc {
		t.Errorf("ParseLaneMask(0xc) = %v, %v", got, err)
	}
}
