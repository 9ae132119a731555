// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lane

import (
	"fmt"
	"math/bits"
	"strconv"
)

type LaneMask uint32

const AllLanes LaneMask = 1<<N_lane - 1

func (lm LaneMask) foreach(f func(lane LaneMask), isMask bool) {
	m := uint32(lm)
	for m != 0 {
		i := bits.TrailingZeros32(m)
		m &^= 1 << uint(i)
		l := LaneMask(i)
		if isMask {
			l = 1 << l
		}
		f(l)
	}
}

// Foreach calls f with the index of each lane in the mask.
func (lm LaneMask) Foreach(f func(lane LaneMask))     { lm.foreach(f, false) }
func (lm LaneMask) ForeachMask(f func(lane LaneMask)) { lm.foreach(f, true) }

func (lm LaneMask) FirstLane() uint { return uint(bits.TrailingZeros32(uint32(lm))) }
func (lm LaneMask) NLanes() uint    { return uint(bits.OnesCount32(uint32(lm))) }

func (lm LaneMask) String() string { return fmt.Sprintf("0x%x", uint32(lm)) }

// ParseLaneMask accepts a mask in any base strconv understands, e.g. "0xf".
func ParseLaneMask(s string) (LaneMask, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	lm := LaneMask(v)
	if lm == 0 || lm&^AllLanes != 0 {
		return 0, fmt.Errorf("lane mask %s: must be within 0x%x", s, uint32(AllLanes))
	}
	return lm, nil
}
