// Copyright © 2015-2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package serdes provides the serdes command: named field access to the
// serdes registers of a port's lanes.
package serdes

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/garyburd/redigo/redis"
	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"

	"github.com/platinasystems/serdes/dump"
	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/lane"
)

var ErrUsage = errors.New("usage")

type Command struct {
	Engine   *field.Engine
	Topology *lane.Topology
	// Dials redis for dump -publish; nil disables publishing.
	Redis func() (redis.Conn, error)
	// Nil means os.Stdout.
	Stdout io.Writer
}

func (Command) String() string { return "serdes" }

func (Command) Usage() string {
	return `serdes [-device N] [-port N] [-lane N] [-x] COMMAND ...
	get FIELD...
	set FIELD=VALUE...
	rmw FIELD VALUE
	dump [-lanes MASK] [-publish]
	fields [REGISTER]`
}

func (Command) Apropos() string { return "serdes register field access" }

func (Command) Man() string {
	return `
DESCRIPTION
	Read and write named bit fields of the serdes registers of a lane.

	The -device, -port and -lane parameters select the lane; each
	defaults to 0.

	get prints each FIELD. Fields of the same register share one read.

	set assigns each FIELD. Fields of the same register share one read
	and one write. Signed fields accept negative values.

	rmw assigns a single FIELD with one read and one write.

	dump prints every readable field of the lanes in MASK, by default all
	lanes of the port. With -publish the dump is also written to the
	redis hash serdes.DEVICE.PORT.LANE.

	fields lists the registers and fields known to the command, or only
	those of REGISTER.

	The -x flag prints values in hex.`
}

type command struct {
	Command
	w    io.Writer
	tty  bool
	hex  bool
	addr lane.Address
	red  *color.Color
}

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-x", "-publish")
	parm, args := parms.New(args, "-device", "-port", "-lane", "-lanes")
	x := &command{
		Command: c,
		w:       c.Stdout,
		hex:     flag.ByName["-x"],
		red:     color.New(color.FgRed),
	}
	if x.w == nil {
		x.w = os.Stdout
		x.tty = isatty.IsTerminal(os.Stdout.Fd())
	}
	if !x.tty {
		x.red.DisableColor()
	}
	if c.Engine == nil || c.Topology == nil {
		return fmt.Errorf("%s: not configured", c)
	}
	for _, p := range []struct {
		name string
		v    *uint
	}{
		{"-device", &x.addr.Device},
		{"-port", &x.addr.Port},
		{"-lane", &x.addr.Lane},
	} {
		if s := parm.ByName[p.name]; s != "" {
			u, err := strconv.ParseUint(s, 0, 32)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", c, p.name, err)
			}
			*p.v = uint(u)
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("%s: %w: %s", c, ErrUsage, c.Usage())
	}
	var err error
	switch cmd, args := args[0], args[1:]; cmd {
	case "get":
		err = x.get(args)
	case "set":
		err = x.set(args)
	case "rmw":
		err = x.rmw(args)
	case "dump":
		err = x.dump(parm.ByName["-lanes"], flag.ByName["-publish"], args)
	case "fields":
		err = x.fields(args)
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	return nil
}

func (x *command) table() *tabwriter.Writer {
	if x.tty {
		return tabwriter.NewWriter(x.w, 0, 8, 2, ' ', 0)
	}
	// One space between columns.
	return tabwriter.NewWriter(x.w, 0, 0, 1, ' ', tabwriter.DiscardEmptyColumns)
}

func (x *command) lookup(name string) (*field.Descriptor, error) {
	return x.Engine.Table.Lookup(name)
}

// ParseValue accepts unsigned values in any base and negative decimal for
// signed fields, returned in two's complement.
func ParseValue(s string) (uint32, error) {
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 0, 32)
		return uint32(int32(v)), err
	}
	v, err := strconv.ParseUint(s, 0, 32)
	return uint32(v), err
}

// group orders field names by register, keeping first appearance order.
func (x *command) group(names []string) (regs []field.RegisterId, byReg map[field.RegisterId][]*field.Descriptor, err error) {
	byReg = make(map[field.RegisterId][]*field.Descriptor)
	for _, name := range names {
		d, err := x.lookup(name)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := byReg[d.Register]; !seen {
			regs = append(regs, d.Register)
		}
		byReg[d.Register] = append(byReg[d.Register], d)
	}
	return
}

func (x *command) get(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: get FIELD...", ErrUsage)
	}
	regs, byReg, err := x.group(names)
	if err != nil {
		return err
	}
	for _, r := range regs {
		for _, d := range byReg[r] {
			if !d.Access.Readable() {
				return &field.Error{Op: "get", Addr: x.addr, Name: d.Name, Err: field.ErrAccess}
			}
		}
	}
	words := make(map[field.RegisterId]*field.Word, len(regs))
	for _, r := range regs {
		w := new(field.Word)
		if err = x.Engine.Fetch(x.addr, r, w); err != nil {
			return err
		}
		words[r] = w
	}
	tw := x.table()
	for _, name := range names {
		d, _ := x.lookup(name)
		v, err := x.Engine.Get(x.addr, d.Id, words[d.Register], false)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Format(v, x.hex))
	}
	return tw.Flush()
}

func (x *command) set(assignments []string) error {
	if len(assignments) == 0 {
		return fmt.Errorf("%w: set FIELD=VALUE...", ErrUsage)
	}
	values := make(map[string]uint32, len(assignments))
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		eq := strings.IndexByte(a, '=')
		if eq < 0 {
			return fmt.Errorf("%w: %q: expected FIELD=VALUE", ErrUsage, a)
		}
		name := a[:eq]
		if _, dup := values[name]; dup {
			return fmt.Errorf("%w: %s assigned twice", ErrUsage, name)
		}
		v, err := ParseValue(a[eq+1:])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		values[name] = v
		names = append(names, name)
	}
	regs, byReg, err := x.group(names)
	if err != nil {
		return err
	}
	for _, r := range regs {
		err = x.Engine.Update(x.addr, r, func(txn *field.Txn) error {
			for _, d := range byReg[r] {
				if err := txn.Set(d.Id, values[d.Name]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (x *command) rmw(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: rmw FIELD VALUE", ErrUsage)
	}
	d, err := x.lookup(args[0])
	if err != nil {
		return err
	}
	v, err := ParseValue(args[1])
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	return x.Engine.ReadModifyWrite(x.addr, d.Id, v)
}

func (x *command) dump(mask string, publish bool, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: dump [-lanes MASK] [-publish]", ErrUsage)
	}
	var m lane.LaneMask
	var err error
	if mask == "" {
		m, err = x.Topology.Lanes(x.addr.Device, x.addr.Port)
	} else {
		m, err = lane.ParseLaneMask(mask)
	}
	if err != nil {
		return err
	}
	ss := dump.Lanes(x.Engine, x.addr.Device, x.addr.Port, m)
	tw := x.table()
	for _, s := range ss {
		for _, r := range s.Registers {
			if r.Err != nil {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Addr, r.Register.Name,
					x.red.Sprint(r.Err))
				continue
			}
			for _, v := range r.Values {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Addr, v.Field.Name,
					v.Format(x.hex))
			}
		}
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	failed := 0
	for _, s := range ss {
		failed += s.Failed()
	}
	if failed > 0 {
		log.Print("warning: serdes dump: ", failed, " registers unreadable")
	}
	if !publish {
		return nil
	}
	if x.Redis == nil {
		return errors.New("publish: redis not configured")
	}
	conn, err := x.Redis()
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	defer conn.Close()
	return dump.Publish(conn, x.hex, ss...)
}

func (x *command) fields(args []string) error {
	t := x.Engine.Table
	var regs []field.RegisterId
	switch len(args) {
	case 0:
		for i := 0; i < t.NRegisters(); i++ {
			regs = append(regs, field.RegisterId(i))
		}
	case 1:
		r, err := t.LookupRegister(args[0])
		if err != nil {
			return err
		}
		regs = append(regs, r.Id)
	default:
		return fmt.Errorf("%w: fields [REGISTER]", ErrUsage)
	}
	tw := x.table()
	for _, id := range regs {
		r, _ := t.Register(id)
		block, scope := "pcs", "core"
		if r.IsPmd {
			block = "pmd"
		}
		if r.PerLane {
			scope = "lane"
		}
		fmt.Fprintf(tw, "%s\t0x%04x\t%d\t%s\t%s\n", r.Name, r.Address, r.Width,
			block, scope)
		for _, fid := range t.FieldsOf(id) {
			d, _ := t.Field(fid)
			fmt.Fprintf(tw, "  %s\t\t\t%s\t%s\n", d, d.Kind, d.Access)
		}
	}
	return tw.Flush()
}
