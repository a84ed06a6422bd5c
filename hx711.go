// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package hx711 provides a bit bashed driver for the HX711 dual channel
// 24-bit ADC, as commonly used with load cells.
//
// The HX711 is driven by two lines, DOUT (data) and PD_SCK (clock).
// The chip signals a conversion is ready by pulling DOUT low, and the
// sample is then clocked out MSB first. The number of clock pulses in a
// read cycle selects the channel and gain for the following conversion:
//
//	25 pulses => channel A, gain 128
//	26 pulses => channel B, gain 32
//	27 pulses => channel A, gain 64
//
// The driver does not access hardware directly, but through a Platform,
// so it may be used with any GPIO backend.
//
// Example of use:
//
//	adc, err := hx711.New(platform, dataPin, clockPin)
//	if err != nil {
//		return err
//	}
//	defer adc.Close()
//	adc.Calibrate(hx711.ChannelA, hx711.DefaultCalibrationSamples)
//	w, err := adc.Read(hx711.ChannelA)
//
package hx711

import (
	"errors"
	"sync"
)

// Level represents the high (true) or low (false) level of a line.
type Level bool

// Level of line, High / Low
const (
	Low  Level = false
	High Level = true
)

// Direction defines the direction of a line.
type Direction int

// Line direction, Input or Output
const (
	Input Direction = iota
	Output
)

// Platform provides the GPIO and timing primitives used to drive the chip.
//
// Pins are identified by whatever numbering the Platform uses.
type Platform interface {
	// SetDirection sets the line as an input or output.
	SetDirection(pin int, d Direction) error

	// Write sets the level of an output line.
	Write(pin int, l Level) error

	// Read returns the current level of a line.
	Read(pin int) (Level, error)

	// DelayMicroseconds blocks for at least us microseconds.
	DelayMicroseconds(us int)
}

// Channel identifies one of the two measurement channels.
type Channel int

// Measurement channels.
const (
	ChannelA Channel = iota
	ChannelB
)

func (ch Channel) String() string {
	switch ch {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	}
	return "unknown"
}

// Gain selects the amplification applied to a channel.
//
// The value of a Gain is the number of clock pulses in the read cycle
// that selects it.
type Gain int

// Gains supported by the HX711.
// GainA128 and GainA64 are only valid for channel A, and GainB32 only for
// channel B.
const (
	GainA128 Gain = 25
	GainB32  Gain = 26
	GainA64  Gain = 27
)

// Pulses returns the number of clock pulses that select the gain.
func (g Gain) Pulses() int {
	return int(g)
}

func (g Gain) String() string {
	switch g {
	case GainA128:
		return "128"
	case GainB32:
		return "32"
	case GainA64:
		return "64"
	}
	return "unknown"
}

// validFor returns true if the gain may be applied to the channel.
func (g Gain) validFor(ch Channel) bool {
	switch ch {
	case ChannelA:
		return g == GainA128 || g == GainA64
	case ChannelB:
		return g == GainB32
	}
	return false
}

const (
	// DefaultCalibrationSamples is the number of samples conventionally
	// averaged to establish the zero offset.
	DefaultCalibrationSamples = 16

	// DefaultAverageFactor is the number of readings conventionally
	// averaged by Average.
	DefaultAverageFactor = 16

	// resetPulse is the width of the clock pulse issued to reset the chip.
	// The chip requires at least 60us.
	resetPulse = 100
)

var (
	// ErrClosed indicates the Converter is closed.
	ErrClosed = errors.New("closed")

	// ErrInvalidCount indicates a sample or average count less than one.
	ErrInvalidCount = errors.New("invalid count")
)

// Converter reads calibrated values from a connected HX711.
//
// Operations on the Converter are serialised, and each holds the lines
// for a full chip interaction, so the clock timing is not disturbed by
// other callers. Waits for the chip to become ready are unbounded unless
// a Context variant is used.
type Converter struct {
	mu sync.Mutex
	p  Platform
	// Immutable fields
	data  int
	clock int
	// Mutable fields
	gainA   Gain
	gainB   Gain
	offsetA int32
	offsetB int32
	closed  bool
}

// Option alters the initial configuration of a Converter.
type Option func(*Converter)

// WithGainA sets the initial gain of channel A.
//
// Gains not valid for channel A revert to GainA128.
func WithGainA(g Gain) Option {
	return func(c *Converter) {
		c.gainA = g
	}
}

// WithGainB sets the initial gain of channel B.
//
// As channel B only supports GainB32 this is only provided for symmetry.
func WithGainB(g Gain) Option {
	return func(c *Converter) {
		c.gainB = g
	}
}

// New creates a Converter using the data and clock pins of the platform.
//
// The data pin is set as an input and the clock pin as an output, and the
// chip is reset with a single long clock pulse.
func New(p Platform, data, clock int, options ...Option) (*Converter, error) {
	c := &Converter{
		p:     p,
		data:  data,
		clock: clock,
		gainA: GainA128,
		gainB: GainB32,
	}
	for _, option := range options {
		option(c)
	}
	if !c.gainA.validFor(ChannelA) {
		c.gainA = GainA128
	}
	if !c.gainB.validFor(ChannelB) {
		c.gainB = GainB32
	}
	if err := p.SetDirection(data, Input); err != nil {
		return nil, err
	}
	if err := p.SetDirection(clock, Output); err != nil {
		return nil, err
	}
	if err := c.reset(); err != nil {
		p.SetDirection(data, Input)
		p.SetDirection(clock, Input)
		return nil, err
	}
	return c, nil
}

// reset holds the clock high long enough to power down the chip, then
// releases it so the chip powers up converting channel A at gain 128.
func (c *Converter) reset() error {
	if err := c.p.Write(c.clock, High); err != nil {
		return err
	}
	c.p.DelayMicroseconds(resetPulse)
	return c.p.Write(c.clock, Low)
}

// Close returns the lines used to drive the chip to inputs.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	err := c.p.SetDirection(c.data, Input)
	if err2 := c.p.SetDirection(c.clock, Input); err == nil {
		err = err2
	}
	return err
}

// SetGain sets the gain of a channel.
//
// Gains not supported by the channel are ignored and the current gain is
// retained. The new gain is applied to the chip by the next read of the
// channel.
func (c *Converter) SetGain(ch Channel, g Gain) {
	if !g.validFor(ch) {
		return
	}
	c.mu.Lock()
	if ch == ChannelA {
		c.gainA = g
	} else {
		c.gainB = g
	}
	c.mu.Unlock()
}

// Gain returns the current gain of a channel.
func (c *Converter) Gain(ch Channel) Gain {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gain(ch)
}

// Offset returns the zero offset of a channel.
func (c *Converter) Offset(ch Channel) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset(ch)
}

// SetOffset sets the zero offset of a channel, e.g. to restore a
// previously determined calibration.
func (c *Converter) SetOffset(ch Channel, offset int32) {
	c.mu.Lock()
	c.setOffset(ch, offset)
	c.mu.Unlock()
}

// Assumes caller holds the mu lock.
func (c *Converter) gain(ch Channel) Gain {
	if ch == ChannelB {
		return c.gainB
	}
	return c.gainA
}

// Assumes caller holds the mu lock.
func (c *Converter) offset(ch Channel) int32 {
	if ch == ChannelB {
		return c.offsetB
	}
	return c.offsetA
}

// Assumes caller holds the mu lock.
func (c *Converter) setOffset(ch Channel, offset int32) {
	if ch == ChannelB {
		c.offsetB = offset
	} else {
		c.offsetA = offset
	}
}
