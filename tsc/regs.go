// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tsc describes the registers and bit fields of the TSC-E serdes
// core as a field.Table.
package tsc

import (
	"github.com/platinasystems/serdes/field"
)

const (
	MainSetup field.RegisterId = iota
	MainLoopbackControl
	MainSerdesId
	PmdX1Reset
	PmdX1Status
	AnX1Oui
	TxX4Misc
	RxX4PcsLiveStatus
	AnX4Enables
	Cl93n72Control
	Cl93n72Status
	LaneResetPowerdownPinDisable
	AmsTxControl2
	DigTopUserControl
	TxEqualizerControl0
	TxEqualizerControl1
	TxEqualizerControl2
	TxEqualizerMiscControl
	TxEqualizerControl4
	UcCommand1
	UcFsmStatus
	UcCommand3
	UcCommand4
	MdioAer
	MdioBlockAddress
	nRegister
)

func pcs(id field.RegisterId, name string, address uint16) field.Register {
	return field.Register{Id: id, Name: name, Address: address, Width: 16}
}

func pcsLane(id field.RegisterId, name string, address uint16) field.Register {
	return field.Register{Id: id, Name: name, Address: address, Width: 16, PerLane: true}
}

func pmd(id field.RegisterId, name string, address uint16) field.Register {
	return field.Register{Id: id, Name: name, Address: address, Width: 16, IsPmd: true}
}

func pmdLane(id field.RegisterId, name string, address uint16) field.Register {
	return field.Register{Id: id, Name: name, Address: address, Width: 16, IsPmd: true, PerLane: true}
}

var registers = [nRegister]field.Register{
	MainSetup:           pcs(MainSetup, "main.setup", 0x9000),
	MainLoopbackControl: pcs(MainLoopbackControl, "main.loopback_control", 0x9009),
	MainSerdesId:        pcs(MainSerdesId, "main.serdes_id", 0x900e),
	PmdX1Reset:          pcs(PmdX1Reset, "pmd_x1.reset", 0x9010),
	PmdX1Status:         pcs(PmdX1Status, "pmd_x1.status", 0x9012),
	AnX1Oui: {
		Id:      AnX1Oui,
		Name:    "an_x1.oui",
		Address: 0x9240,
		Width:   32,
	},
	TxX4Misc:                     pcsLane(TxX4Misc, "tx_x4.misc", 0xc113),
	RxX4PcsLiveStatus:            pcsLane(RxX4PcsLiveStatus, "rx_x4.pcs_live_status", 0xc154),
	AnX4Enables:                  pcsLane(AnX4Enables, "an_x4.enables", 0xc180),
	Cl93n72Control:               pmdLane(Cl93n72Control, "cl93n72.control", 0x0096),
	Cl93n72Status:                pmdLane(Cl93n72Status, "cl93n72.status", 0x0097),
	LaneResetPowerdownPinDisable: pmdLane(LaneResetPowerdownPinDisable, "clock_and_reset.lane_reset_and_powerdown_pin_disable", 0xd083),
	AmsTxControl2:                pmdLane(AmsTxControl2, "ams_tx.control2", 0xd0a2),
	DigTopUserControl:            pmd(DigTopUserControl, "dig.top_user_control", 0xd0f4),
	TxEqualizerControl0:          pmdLane(TxEqualizerControl0, "tx_equalizer.control0", 0xd110),
	TxEqualizerControl1:          pmdLane(TxEqualizerControl1, "tx_equalizer.control1", 0xd111),
	TxEqualizerControl2:          pmdLane(TxEqualizerControl2, "tx_equalizer.control2", 0xd112),
	TxEqualizerMiscControl:       pmdLane(TxEqualizerMiscControl, "tx_equalizer.misc_control", 0xd118),
	TxEqualizerControl4:          pmdLane(TxEqualizerControl4, "tx_equalizer.control4", 0xd119),
	UcCommand1:                   pmd(UcCommand1, "uc.command1", 0xd202),
	UcFsmStatus:                  pmd(UcFsmStatus, "uc.mdio_8051_fsm_status", 0xd205),
	UcCommand3:                   pmd(UcCommand3, "uc.command3", 0xd20c),
	UcCommand4:                   pmd(UcCommand4, "uc.command4", 0xd20d),
	MdioAer:                      pmdLane(MdioAer, "mdio.aer", 0xffde),
	MdioBlockAddress:             pmdLane(MdioBlockAddress, "mdio.block_address", 0xffdf),
}
