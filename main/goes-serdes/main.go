// Copyright © 2015-2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// goes-serdes runs the serdes command against the topology described by
// /etc/goes/serdes.yaml or the file given with -config.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"

	"github.com/platinasystems/serdes/cmd/serdes"
	"github.com/platinasystems/serdes/config"
	"github.com/platinasystems/serdes/field"
	"github.com/platinasystems/serdes/tsc"
)

func goes(args ...string) error {
	parm, args := parms.New(args, "-config")
	fn := parm.ByName["-config"]
	if fn == "" {
		fn = config.DefaultPath
	}
	cfg, err := config.Load(fn)
	if err != nil {
		return err
	}
	topo, err := cfg.Topology()
	if err != nil {
		return err
	}
	bus, err := cfg.Bus()
	if err != nil {
		return err
	}
	c := serdes.Command{
		Engine:   field.New(tsc.Table, topo, cfg.NewTransport(bus)),
		Topology: topo,
	}
	if cfg.Redis.Address != "" {
		c.Redis = cfg.DialRedis
	}
	return c.Main(args...)
}

func main() {
	if err := goes(os.Args[1:]...); err != nil {
		log.Print("err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
