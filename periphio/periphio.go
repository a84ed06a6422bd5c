// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package periphio provides an hx711.Platform over periph.io GPIO pins.
//
// The pins must be provided by the caller, typically from gpioreg after
// the periph host drivers have been initialised, and are identified to the
// hx711 driver by the number they are registered with.
package periphio

import (
	"errors"
	"fmt"
	"time"

	"github.com/warthog618/hx711"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// ErrUnknownPin indicates a pin number that has not been registered.
var ErrUnknownPin = errors.New("unknown pin")

// Pins maps pin numbers to periph.io pins.
type Pins map[int]gpio.PinIO

// ByName returns the pins registered in gpioreg with the given names,
// numbered from zero in the order given.
func ByName(names ...string) (Pins, error) {
	pp := make(Pins, len(names))
	for i, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPin, n)
		}
		pp[i] = p
	}
	return pp, nil
}

func (pp Pins) pin(n int) (gpio.PinIO, error) {
	if p, ok := pp[n]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPin, n)
}

// SetDirection sets the pin as an input or output.
//
// Pins set as outputs are initially driven low.
func (pp Pins) SetDirection(n int, d hx711.Direction) error {
	p, err := pp.pin(n)
	if err != nil {
		return err
	}
	if d == hx711.Output {
		return p.Out(gpio.Low)
	}
	return p.In(gpio.PullNoChange, gpio.NoEdge)
}

// Write sets the level of the pin.
func (pp Pins) Write(n int, l hx711.Level) error {
	p, err := pp.pin(n)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(l))
}

// Read returns the level of the pin.
func (pp Pins) Read(n int) (hx711.Level, error) {
	p, err := pp.pin(n)
	if err != nil {
		return hx711.Low, err
	}
	return hx711.Level(p.Read()), nil
}

// DelayMicroseconds sleeps for at least us microseconds.
func (pp Pins) DelayMicroseconds(us int) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
