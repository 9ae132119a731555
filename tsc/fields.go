// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsc

import (
	"github.com/platinasystems/serdes/field"
)

const (
	// main.setup
	RefclkSelect field.Id = iota
	Cl37HighVco
	Cl73LowVco
	PllResetEnable
	MasterPortNum
	PortMode
	SinglePortMode
	Standalone

	// main.loopback_control
	RemoteLoopback
	LocalLoopback

	// main.serdes_id
	SerdesModel
	SerdesRevision

	// pmd_x1.reset
	UcPramEnable
	CorePowerOnResetN
	CoreDatapathResetN

	// pmd_x1.status
	RxClockValid
	PllLock

	// an_x1.oui
	AnOui

	// tx_x4.misc
	ScramblerMode
	FecEnable
	TxRemoteFault
	TxLocalFault
	TxLinkInterrupt
	TxFifoWatermark
	TxLaneResetN
	TxLaneEnable

	// rx_x4.pcs_live_status
	RxSyncStatus
	RxLinkStatus
	RxHiBer
	RxDeskewAchieved
	RxAmLock
	RxLpiReceived
	RxLinkInterrupt
	RxRemoteFault
	RxLocalFault

	// an_x4.enables
	AnLog2Lanes
	Cl37BamEnable
	Cl73BamEnable
	Cl73HpamEnable
	Cl73Enable
	SgmiiEnable
	Cl37Enable
	Cl37Restart
	Cl73Restart

	// cl93n72.control
	Cl72TrainingEnable
	Cl72RestartTraining

	// cl93n72.status
	Cl72ReceiverStatus
	Cl72FrameLock
	Cl72StartupProtocol
	Cl72TrainingFailure

	// clock_and_reset.lane_reset_and_powerdown_pin_disable
	LaneResetPinDisable

	// ams_tx.control2
	AmsTxAmplitude
	AmsTxPost3Coeff
	AmsTxPost3Sign
	AmsTxPost2Coeff
	AmsTxPost2Sign
	AmsTxDriverMode
	AmsTxForceElecIdle

	// dig.top_user_control
	UcActive

	// tx_equalizer.control0
	TxFirPreOverride
	TxFirPostOverride

	// tx_equalizer.control1
	TxFirMainOverride
	TxFirPost2Override
	TxFirOverrideEnable

	// tx_equalizer.control2
	TxFirPreOffset
	TxFirMainOffset
	TxFirPostOffset
	TxFirPost2Offset

	// tx_equalizer.misc_control
	SwTxDisable
	PinTxDisable
	TxDisableUnits
	TxDisableTimerUnits
	EeeQuiet
	EeeAlert
	TxDisableOutputSel
	DpResetTxDisable

	// tx_equalizer.control4
	TxFirPost3Override
	TxFirPost3Offset

	// uc.command1
	Uc8051Reset
	UcRamAccessMode
	UcZeroProgramRam

	// uc.mdio_8051_fsm_status
	UcFsmState
	UcInitDone

	// uc.command3
	UcPramIfEnable
	UcPramIfSelect
	UcPramIfResetN

	// uc.command4
	UcClockEnable
	UcResetN

	// mdio.aer
	AerLane
	AerDevAd

	// mdio.block_address
	BlockAddress

	nField
)

type bits struct {
	reg    field.RegisterId
	offset uint8
	width  uint8
	kind   field.Kind
	access field.Access
}

func rw(reg field.RegisterId, offset, width uint8) bits {
	return bits{reg: reg, offset: offset, width: width}
}

func ro(reg field.RegisterId, offset, width uint8) bits {
	return bits{reg: reg, offset: offset, width: width, access: field.ReadOnly}
}

// Self clearing.
func pulse(reg field.RegisterId, offset uint8) bits {
	return bits{reg: reg, offset: offset, width: 1, access: field.WriteOnly}
}

func (b bits) signed() bits { b.kind = field.Signed; return b }
func (b bits) enum() bits   { b.kind = field.Enum; return b }

var layout = [nField]struct {
	name string
	bits
}{
	RefclkSelect:   {"refclk_select", rw(MainSetup, 13, 3).enum()},
	Cl37HighVco:    {"cl37_high_vco", rw(MainSetup, 12, 1)},
	Cl73LowVco:     {"cl73_low_vco", rw(MainSetup, 11, 1)},
	PllResetEnable: {"pll_reset_enable", rw(MainSetup, 10, 1)},
	MasterPortNum:  {"master_port_num", rw(MainSetup, 8, 2)},
	PortMode:       {"port_mode", rw(MainSetup, 4, 3).enum()},
	SinglePortMode: {"single_port_mode", rw(MainSetup, 3, 1)},
	Standalone:     {"standalone", rw(MainSetup, 2, 1)},

	RemoteLoopback: {"remote_loopback", rw(MainLoopbackControl, 4, 4).enum()},
	LocalLoopback:  {"local_loopback", rw(MainLoopbackControl, 0, 4).enum()},

	SerdesModel:    {"serdes_model", ro(MainSerdesId, 0, 6).enum()},
	SerdesRevision: {"serdes_revision", ro(MainSerdesId, 14, 2)},

	UcPramEnable:       {"uc_pram_enable", rw(PmdX1Reset, 8, 1)},
	CorePowerOnResetN:  {"core_power_on_reset_n", rw(PmdX1Reset, 1, 1)},
	CoreDatapathResetN: {"core_datapath_reset_n", rw(PmdX1Reset, 0, 1)},

	RxClockValid: {"rx_clock_valid", ro(PmdX1Status, 1, 1)},
	PllLock:      {"pll_lock", ro(PmdX1Status, 0, 1)},

	AnOui: {"an_oui", rw(AnX1Oui, 0, 24).enum()},

	ScramblerMode:   {"scrambler_mode", rw(TxX4Misc, 14, 2).enum()},
	FecEnable:       {"fec_enable", rw(TxX4Misc, 10, 1)},
	TxRemoteFault:   {"tx_remote_fault", rw(TxX4Misc, 8, 1)},
	TxLocalFault:    {"tx_local_fault", rw(TxX4Misc, 7, 1)},
	TxLinkInterrupt: {"tx_link_interrupt", rw(TxX4Misc, 6, 1)},
	TxFifoWatermark: {"tx_fifo_watermark", rw(TxX4Misc, 2, 2)},
	TxLaneResetN:    {"tx_lane_reset_n", rw(TxX4Misc, 1, 1)},
	TxLaneEnable:    {"tx_lane_enable", rw(TxX4Misc, 0, 1)},

	RxSyncStatus:     {"rx_sync_status", ro(RxX4PcsLiveStatus, 0, 1)},
	RxLinkStatus:     {"rx_link_status", ro(RxX4PcsLiveStatus, 1, 1)},
	RxHiBer:          {"rx_hi_ber", ro(RxX4PcsLiveStatus, 2, 1)},
	RxDeskewAchieved: {"rx_deskew_achieved", ro(RxX4PcsLiveStatus, 3, 1)},
	RxAmLock:         {"rx_am_lock", ro(RxX4PcsLiveStatus, 4, 1)},
	RxLpiReceived:    {"rx_lpi_received", ro(RxX4PcsLiveStatus, 5, 1)},
	RxLinkInterrupt:  {"rx_link_interrupt", ro(RxX4PcsLiveStatus, 6, 1)},
	RxRemoteFault:    {"rx_remote_fault", ro(RxX4PcsLiveStatus, 7, 1)},
	RxLocalFault:     {"rx_local_fault", ro(RxX4PcsLiveStatus, 8, 1)},

	AnLog2Lanes:    {"an_log2_lanes", rw(AnX4Enables, 12, 2)},
	Cl37BamEnable:  {"cl37_bam_enable", rw(AnX4Enables, 11, 1)},
	Cl73BamEnable:  {"cl73_bam_enable", rw(AnX4Enables, 10, 1)},
	Cl73HpamEnable: {"cl73_hpam_enable", rw(AnX4Enables, 9, 1)},
	Cl73Enable:     {"cl73_enable", rw(AnX4Enables, 8, 1)},
	SgmiiEnable:    {"sgmii_enable", rw(AnX4Enables, 7, 1)},
	Cl37Enable:     {"cl37_enable", rw(AnX4Enables, 6, 1)},
	Cl37Restart:    {"cl37_restart", pulse(AnX4Enables, 1)},
	Cl73Restart:    {"cl73_restart", pulse(AnX4Enables, 0)},

	Cl72TrainingEnable:  {"cl72_training_enable", rw(Cl93n72Control, 1, 1)},
	Cl72RestartTraining: {"cl72_restart_training", pulse(Cl93n72Control, 0)},

	Cl72ReceiverStatus:  {"cl72_receiver_status", ro(Cl93n72Status, 0, 1)},
	Cl72FrameLock:       {"cl72_frame_lock", ro(Cl93n72Status, 1, 1)},
	Cl72StartupProtocol: {"cl72_startup_protocol", ro(Cl93n72Status, 2, 1)},
	Cl72TrainingFailure: {"cl72_training_failure", ro(Cl93n72Status, 3, 1)},

	LaneResetPinDisable: {"lane_reset_pin_disable", rw(LaneResetPowerdownPinDisable, 0, 1)},

	AmsTxAmplitude:     {"ams_tx_amplitude", rw(AmsTxControl2, 0, 4)},
	AmsTxPost3Coeff:    {"ams_tx_post3_coeff", rw(AmsTxControl2, 4, 3)},
	AmsTxPost3Sign:     {"ams_tx_post3_sign", rw(AmsTxControl2, 7, 1)},
	AmsTxPost2Coeff:    {"ams_tx_post2_coeff", rw(AmsTxControl2, 8, 4)},
	AmsTxPost2Sign:     {"ams_tx_post2_sign", rw(AmsTxControl2, 12, 1)},
	AmsTxDriverMode:    {"ams_tx_driver_mode", rw(AmsTxControl2, 13, 2).enum()},
	AmsTxForceElecIdle: {"ams_tx_force_elec_idle", rw(AmsTxControl2, 15, 1)},

	UcActive: {"uc_active", rw(DigTopUserControl, 15, 1)},

	TxFirPreOverride:  {"tx_fir_pre_override", rw(TxEqualizerControl0, 0, 5)},
	TxFirPostOverride: {"tx_fir_post_override", rw(TxEqualizerControl0, 5, 7)},

	TxFirMainOverride:   {"tx_fir_main_override", rw(TxEqualizerControl1, 0, 7)},
	TxFirPost2Override:  {"tx_fir_post2_override", rw(TxEqualizerControl1, 7, 5).signed()},
	TxFirOverrideEnable: {"tx_fir_override_enable", rw(TxEqualizerControl1, 15, 1)},

	TxFirPreOffset:   {"tx_fir_pre_offset", rw(TxEqualizerControl2, 0, 4).signed()},
	TxFirMainOffset:  {"tx_fir_main_offset", rw(TxEqualizerControl2, 4, 4).signed()},
	TxFirPostOffset:  {"tx_fir_post_offset", rw(TxEqualizerControl2, 8, 4).signed()},
	TxFirPost2Offset: {"tx_fir_post2_offset", rw(TxEqualizerControl2, 12, 4).signed()},

	SwTxDisable:         {"sw_tx_disable", rw(TxEqualizerMiscControl, 0, 1)},
	PinTxDisable:        {"pin_tx_disable", rw(TxEqualizerMiscControl, 1, 1)},
	TxDisableUnits:      {"tx_disable_units", rw(TxEqualizerMiscControl, 2, 5)},
	TxDisableTimerUnits: {"tx_disable_timer_units", rw(TxEqualizerMiscControl, 7, 1)},
	EeeQuiet:            {"eee_quiet", rw(TxEqualizerMiscControl, 8, 1)},
	EeeAlert:            {"eee_alert", rw(TxEqualizerMiscControl, 9, 1)},
	TxDisableOutputSel:  {"tx_disable_output_sel", rw(TxEqualizerMiscControl, 10, 2).enum()},
	DpResetTxDisable:    {"dp_reset_tx_disable", rw(TxEqualizerMiscControl, 12, 1)},

	TxFirPost3Override: {"tx_fir_post3_override", rw(TxEqualizerControl4, 0, 4).signed()},
	TxFirPost3Offset:   {"tx_fir_post3_offset", rw(TxEqualizerControl4, 8, 4).signed()},

	Uc8051Reset:      {"uc_8051_reset", rw(UcCommand1, 4, 1)},
	UcRamAccessMode:  {"uc_ram_access_mode", rw(UcCommand1, 7, 2).enum()},
	UcZeroProgramRam: {"uc_zero_program_ram", pulse(UcCommand1, 15)},

	UcFsmState: {"uc_fsm_state", ro(UcFsmStatus, 2, 4).enum()},
	UcInitDone: {"uc_init_done", ro(UcFsmStatus, 15, 1)},

	UcPramIfEnable: {"uc_pram_if_enable", rw(UcCommand3, 0, 1)},
	UcPramIfSelect: {"uc_pram_if_select", rw(UcCommand3, 1, 1)},
	UcPramIfResetN: {"uc_pram_if_reset_n", rw(UcCommand3, 2, 1)},

	UcClockEnable: {"uc_clock_enable", rw(UcCommand4, 0, 1)},
	UcResetN:      {"uc_reset_n", rw(UcCommand4, 1, 1)},

	AerLane:  {"aer_lane", rw(MdioAer, 0, 11)},
	AerDevAd: {"aer_devad", rw(MdioAer, 11, 5)},

	BlockAddress: {"block_address", rw(MdioBlockAddress, 4, 12).enum()},
}

func descriptors() []field.Descriptor {
	ds := make([]field.Descriptor, nField)
	for i := range layout {
		l := &layout[i]
		ds[i] = field.Descriptor{
			Id:       field.Id(i),
			Name:     l.name,
			Register: l.reg,
			Offset:   l.offset,
			Width:    l.width,
			Kind:     l.kind,
			Access:   l.access,
		}
	}
	return ds
}

// Table is the TSC-E register map.
var Table = field.MustTable(registers[:], descriptors())
