// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package hx711

import (
	"context"
)

// conversions maps the number of clock pulses in a read cycle to the
// channel and gain of the following conversion.
var conversions = map[int]struct {
	ch Channel
	g  Gain
}{
	GainA128.Pulses(): {ChannelA, GainA128},
	GainB32.Pulses():  {ChannelB, GainB32},
	GainA64.Pulses():  {ChannelA, GainA64},
}

// NextConversion returns the channel and gain the chip selects for its next
// conversion after a read cycle of the given number of clock pulses.
//
// Returns false if the pulse count does not select a conversion, in which
// case the chip configuration is unchanged.
func NextConversion(pulses int) (Channel, Gain, bool) {
	if c, ok := conversions[pulses]; ok {
		return c.ch, c.g, true
	}
	return ChannelA, 0, false
}

// SignExtend24 interprets the low 24 bits of v as a two's complement value.
func SignExtend24(v uint32) int32 {
	v &= 0x00ffffff
	if v&0x00800000 != 0 {
		// negative number - extend sign over 32 bits
		v |= 0xff000000
	}
	return int32(v)
}

// selectChannel waits for a conversion then clocks out the pulses that
// select the channel and its current gain for the following conversion.
// Assumes caller holds the mu lock.
func (c *Converter) selectChannel(ctx context.Context, ch Channel) error {
	n := c.gain(ch).Pulses()
	if err := c.waitReady(ctx); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := c.pulse(); err != nil {
			return err
		}
	}
	return nil
}

// shiftIn waits for a conversion then clocks in the sample, MSB first.
//
// Only bits 23 down to 1 are sampled. The trailing pulse that would carry
// bit 0 is issued but not read, so bit 0 is always zero.
// Assumes caller holds the mu lock.
func (c *Converter) shiftIn(ctx context.Context) (int32, error) {
	if err := c.waitReady(ctx); err != nil {
		return 0, err
	}
	var d uint32
	for bit := 23; bit > 0; bit-- {
		if err := c.p.Write(c.clock, High); err != nil {
			return 0, err
		}
		l, err := c.p.Read(c.data) // chip shifts out on the rising edge
		if err != nil {
			return 0, err
		}
		if l {
			d |= 1 << uint(bit)
		}
		if err := c.p.Write(c.clock, Low); err != nil {
			return 0, err
		}
	}
	if err := c.pulse(); err != nil {
		return 0, err
	}
	return SignExtend24(d), nil
}

// waitReady polls the data line until the chip pulls it low.
//
// The wait is only bounded by the context, so with a context that is never
// done it blocks until the chip responds.
// Assumes caller holds the mu lock.
func (c *Converter) waitReady(ctx context.Context) error {
	done := ctx.Done()
	for {
		l, err := c.p.Read(c.data)
		if err != nil {
			return err
		}
		if l == Low {
			return nil
		}
		if done == nil {
			continue
		}
		select {
		case <-done:
			return ctx.Err()
		default:
		}
	}
}

// pulse issues a single clock pulse.
// No delay is inserted between edges as the chip tolerates pulses as short
// as 0.2us and the platform write is slower than that.
// Assumes caller holds the mu lock.
func (c *Converter) pulse() error {
	if err := c.p.Write(c.clock, High); err != nil {
		return err
	}
	return c.p.Write(c.clock, Low)
}
