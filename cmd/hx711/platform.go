// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/warthog618/hx711"
	"github.com/warthog618/hx711/gpiocdev"
	"github.com/warthog618/hx711/periphio"
	"github.com/warthog618/hx711/rpi"
	"github.com/warthog618/hx711/sim"
	"periph.io/x/host/v3"
)

// openPlatform opens the configured backend and resolves the data and clock
// pins to the numbering used by that backend.
func openPlatform() (hx711.Platform, int, int, func(), error) {
	switch rootOpts.Backend {
	case "rpi":
		data, clock, err := parsePins(rpi.ParsePin)
		if err != nil {
			return nil, 0, 0, nil, err
		}
		c, err := rpi.Open()
		if err != nil {
			return nil, 0, 0, nil, err
		}
		return c, data, clock, func() { c.Close() }, nil
	case "cdev":
		data, clock, err := parsePins(parseOffset)
		if err != nil {
			return nil, 0, 0, nil, err
		}
		c, err := gpiocdev.Open(rootOpts.Chip)
		if err != nil {
			return nil, 0, 0, nil, err
		}
		return c, data, clock, func() { c.Close() }, nil
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, 0, 0, nil, err
		}
		pp, err := periphio.ByName(periphName(rootOpts.Data), periphName(rootOpts.Clock))
		if err != nil {
			return nil, 0, 0, nil, err
		}
		return pp, 0, 1, func() {}, nil
	case "sim":
		c := sim.New(0, 1,
			sim.WithChannelA(sim.Constant(rootOpts.SimA)),
			sim.WithChannelB(sim.Constant(rootOpts.SimB)))
		return c, 0, 1, func() {}, nil
	}
	return nil, 0, 0, nil, fmt.Errorf("unknown backend '%s'", rootOpts.Backend)
}

func parsePins(parse func(string) (int, error)) (int, int, error) {
	data, err := parse(rootOpts.Data)
	if err != nil {
		return 0, 0, err
	}
	clock, err := parse(rootOpts.Clock)
	if err != nil {
		return 0, 0, err
	}
	if data == clock {
		return 0, 0, errors.New("data and clock must be different pins")
	}
	return data, clock, nil
}

// parseOffset accepts J8 names as well as line offsets, as the offsets of
// the Raspberry Pi gpiochip0 match the BCM pin numbers.
func parseOffset(arg string) (int, error) {
	if o, err := rpi.ParsePin(arg); err == nil {
		return o, nil
	}
	o, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse offset '%s'", arg)
	}
	return int(o), nil
}

// periphName maps J8 names to the BCM names registered in gpioreg, and
// passes other names through unchanged.
func periphName(arg string) string {
	if n, err := rpi.ParsePin(arg); err == nil {
		return fmt.Sprintf("GPIO%d", n)
	}
	return arg
}
