// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package sim provides a simulated HX711 that can stand in for the
// hardware platform.
//
// The Chip models the chip as seen from its DOUT and PD_SCK lines:
// conversions are signalled by DOUT going low, sample bits are presented
// on DOUT on each rising clock edge, and the pulse count of each read
// cycle selects the channel and gain of the next conversion.
// A conversion completes as soon as the data line is polled after a read
// cycle, optionally after a number of polls reporting busy.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/hx711"
)

// Source provides the samples converted by a channel.
type Source func() int32

// Constant returns a Source that always returns v.
func Constant(v int32) Source {
	return func() int32 {
		return v
	}
}

// Sequence returns a Source that returns the values in order, then repeats
// the last value.
func Sequence(vv ...int32) Source {
	var mu sync.Mutex
	i := 0
	return func() int32 {
		mu.Lock()
		defer mu.Unlock()
		if len(vv) == 0 {
			return 0
		}
		v := vv[i]
		if i < len(vv)-1 {
			i++
		}
		return v
	}
}

// Cycle records a completed read cycle.
type Cycle struct {
	// Channel and Gain of the conversion that was read.
	Channel hx711.Channel
	Gain    hx711.Gain
	// Sample presented on the data line, sign extended.
	Sample int32
	// Pulses is the number of clock pulses in the cycle.
	Pulses int
}

// Chip is a simulated HX711 connected to a data and clock line.
//
// Chip implements hx711.Platform.
type Chip struct {
	mu sync.Mutex
	// Immutable fields
	data  int
	clock int
	busy  int
	src   [2]Source
	// Mutable fields
	dirs     map[int]hx711.Direction
	clk      hx711.Level
	ch       hx711.Channel
	gain     hx711.Gain
	loaded   bool
	sample   uint32
	pulses   int
	busyLeft int
	resets   int
	cycles   []Cycle
}

// Option alters the configuration of a Chip.
type Option func(*Chip)

// WithChannelA sets the source of channel A samples.
func WithChannelA(s Source) Option {
	return func(c *Chip) {
		c.src[hx711.ChannelA] = s
	}
}

// WithChannelB sets the source of channel B samples.
func WithChannelB(s Source) Option {
	return func(c *Chip) {
		c.src[hx711.ChannelB] = s
	}
}

// WithBusyPolls sets the number of polls of the data line that report the
// chip busy before each conversion becomes ready.
func WithBusyPolls(n int) Option {
	return func(c *Chip) {
		c.busy = n
	}
}

var (
	// ErrUnknownPin indicates a pin not connected to the chip.
	ErrUnknownPin = errors.New("unknown pin")

	// ErrNotOutput indicates a write to a line not set as an output.
	ErrNotOutput = errors.New("line is not an output")
)

// New creates a Chip with its DOUT connected to data and PD_SCK to clock.
//
// Unless overridden, both channels convert zero.
func New(data, clock int, options ...Option) *Chip {
	c := &Chip{
		data:  data,
		clock: clock,
		src:   [2]Source{Constant(0), Constant(0)},
		dirs:  map[int]hx711.Direction{data: hx711.Input, clock: hx711.Input},
		ch:    hx711.ChannelA,
		gain:  hx711.GainA128,
	}
	for _, option := range options {
		option(c)
	}
	c.busyLeft = c.busy
	return c
}

// SetDirection sets the direction of the line.
func (c *Chip) SetDirection(pin int, d hx711.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pin != c.data && pin != c.clock {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	c.dirs[pin] = d
	return nil
}

// Write drives the clock line.
func (c *Chip) Write(pin int, l hx711.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pin != c.data && pin != c.clock {
		return fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	if c.dirs[pin] != hx711.Output {
		return fmt.Errorf("%w: %d", ErrNotOutput, pin)
	}
	if pin == c.data {
		// DOUT is driven by the chip
		return nil
	}
	if l == hx711.High && c.clk == hx711.Low && c.loaded {
		c.pulses++
	}
	c.clk = l
	return nil
}

// Read returns the level of a line.
func (c *Chip) Read(pin int) (hx711.Level, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch pin {
	case c.clock:
		return c.clk, nil
	case c.data:
		return c.dout(), nil
	}
	return hx711.Low, fmt.Errorf("%w: %d", ErrUnknownPin, pin)
}

// DelayMicroseconds returns immediately.
//
// Holding the clock high for 60us or more resets the chip.
func (c *Chip) DelayMicroseconds(us int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clk == hx711.High && us >= 60 {
		c.reset()
	}
}

// Cycles returns the read cycles completed so far.
func (c *Chip) Cycles() []Cycle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Cycle(nil), c.cycles...)
}

// Resets returns the number of times the chip has been reset.
func (c *Chip) Resets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets
}

// Direction returns the direction of the line.
func (c *Chip) Direction(pin int) hx711.Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirs[pin]
}

// Config returns the channel and gain of the next conversion.
func (c *Chip) Config() (hx711.Channel, hx711.Gain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch, c.gain
}

// Assumes caller holds the mu lock.
func (c *Chip) reset() {
	c.resets++
	c.ch = hx711.ChannelA
	c.gain = hx711.GainA128
	c.loaded = false
	c.pulses = 0
	c.busyLeft = c.busy
}

// dout returns the level the chip is driving on DOUT.
// Assumes caller holds the mu lock.
func (c *Chip) dout() hx711.Level {
	if c.clk == hx711.High {
		return c.bit(c.pulses)
	}
	if c.loaded {
		if c.pulses == 0 {
			return hx711.Low
		}
		if c.pulses < 24 {
			return c.bit(c.pulses)
		}
		c.endCycle()
	}
	// converting
	if c.busyLeft > 0 {
		c.busyLeft--
		return hx711.High
	}
	c.sample = uint32(c.src[c.ch]()) & 0x00ffffff
	c.loaded = true
	c.pulses = 0
	return hx711.Low
}

// bit returns the level presented on DOUT after the nth pulse of a cycle.
// Assumes caller holds the mu lock.
func (c *Chip) bit(n int) hx711.Level {
	if !c.loaded || n < 1 || n > 24 {
		return hx711.High
	}
	return c.sample&(1<<uint(24-n)) != 0
}

// Assumes caller holds the mu lock.
func (c *Chip) endCycle() {
	c.cycles = append(c.cycles, Cycle{
		Channel: c.ch,
		Gain:    c.gain,
		Sample:  hx711.SignExtend24(c.sample),
		Pulses:  c.pulses,
	})
	if ch, g, ok := hx711.NextConversion(c.pulses); ok {
		c.ch = ch
		c.gain = g
	}
	c.loaded = false
	c.pulses = 0
	c.busyLeft = c.busy
}
