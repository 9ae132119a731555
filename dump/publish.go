// Copyright 2016 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
)

// Key is the redis hash a lane's snapshot is published to.
func Key(s *Snapshot) string {
	return fmt.Sprintf("serdes.%d.%d.%d", s.Addr.Device, s.Addr.Port, s.Addr.Lane)
}

// Args returns the HSET arguments for s: snapshot id and time, then
// field=value pairs and one error entry per failed register.
func Args(s *Snapshot, hex bool) redis.Args {
	args := redis.Args{}.Add(Key(s))
	args = args.Add("snapshot", s.Id.String())
	args = args.Add("time", s.Time.UTC().Format(time.RFC3339))
	for i := range s.Registers {
		r := &s.Registers[i]
		if r.Err != nil {
			args = args.Add(r.Register.Name+".error", r.Err.Error())
			continue
		}
		for _, v := range r.Values {
			args = args.Add(v.Field.Name, v.Format(hex))
		}
	}
	return args
}

// Publish replaces each snapshot's hash in one pipelined round trip. A
// command the server rejects fails the publish.
func Publish(c redis.Conn, hex bool, ss ...*Snapshot) error {
	for _, s := range ss {
		if err := c.Send("DEL", Key(s)); err != nil {
			return err
		}
		if err := c.Send("HSET", Args(s, hex)...); err != nil {
			return err
		}
	}
	reply, err := c.Do("")
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	replies, _ := reply.([]interface{})
	for _, r := range replies {
		if err, ok := r.(redis.Error); ok {
			return fmt.Errorf("publish: %w", err)
		}
	}
	return nil
}
