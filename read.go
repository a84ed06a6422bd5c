// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package hx711

import (
	"context"
	"errors"
)

// ErrInvalidChannel indicates a channel other than ChannelA or ChannelB.
var ErrInvalidChannel = errors.New("invalid channel")

// Divisor returns the scaling applied to offset corrected samples read from
// the channel with the given gain.
func Divisor(ch Channel, g Gain) float64 {
	if ch == ChannelB {
		return 32.0
	}
	switch g {
	case GainA128:
		return 128.0
	case GainA64:
		return 64.0
	default:
		return 1.0
	}
}

// ReadRaw returns the raw sample read from the channel.
//
// Blocks until the chip signals it is ready.
func (c *Converter) ReadRaw(ch Channel) (int32, error) {
	return c.ReadRawContext(context.Background(), ch)
}

// ReadRawA returns the raw sample read from channel A.
func (c *Converter) ReadRawA() (int32, error) {
	return c.ReadRaw(ChannelA)
}

// ReadRawB returns the raw sample read from channel B.
func (c *Converter) ReadRawB() (int32, error) {
	return c.ReadRaw(ChannelB)
}

// ReadRawContext returns the raw sample read from the channel.
//
// Waits for the chip are abandoned, and the context error returned, if the
// context is done.
func (c *Converter) ReadRawContext(ctx context.Context, ch Channel) (int32, error) {
	if ch != ChannelA && ch != ChannelB {
		return 0, ErrInvalidChannel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	return c.readRaw(ctx, ch)
}

// Read returns the calibrated value read from the channel.
//
// The value is the raw sample, less the channel offset, scaled by the
// Divisor for the channel and its current gain.
func (c *Converter) Read(ch Channel) (float64, error) {
	return c.ReadContext(context.Background(), ch)
}

// ReadA returns the calibrated value read from channel A.
func (c *Converter) ReadA() (float64, error) {
	return c.Read(ChannelA)
}

// ReadB returns the calibrated value read from channel B.
func (c *Converter) ReadB() (float64, error) {
	return c.Read(ChannelB)
}

// ReadContext returns the calibrated value read from the channel, with the
// waits bound by the context.
func (c *Converter) ReadContext(ctx context.Context, ch Channel) (float64, error) {
	if ch != ChannelA && ch != ChannelB {
		return 0, ErrInvalidChannel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	v, err := c.readRaw(ctx, ch)
	if err != nil {
		return 0, err
	}
	return float64(int64(v)-int64(c.offset(ch))) / Divisor(ch, c.gain(ch)), nil
}

// Calibrate sets the zero offset of the channel to the average of a number
// of raw samples.
//
// The offset is left unchanged if any read fails.
func (c *Converter) Calibrate(ch Channel, samples int) error {
	return c.CalibrateContext(context.Background(), ch, samples)
}

// CalibrateContext performs a Calibrate with the waits bound by the context.
func (c *Converter) CalibrateContext(ctx context.Context, ch Channel, samples int) error {
	if ch != ChannelA && ch != ChannelB {
		return ErrInvalidChannel
	}
	if samples < 1 {
		return ErrInvalidCount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	var sum int64
	for i := 0; i < samples; i++ {
		v, err := c.readRaw(ctx, ch)
		if err != nil {
			return err
		}
		sum += int64(v)
	}
	c.setOffset(ch, int32(sum/int64(samples)))
	return nil
}

// Assumes caller holds the mu lock.
func (c *Converter) readRaw(ctx context.Context, ch Channel) (int32, error) {
	if err := c.selectChannel(ctx, ch); err != nil {
		return 0, err
	}
	return c.shiftIn(ctx)
}
