// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package gpiocdev provides an hx711.Platform using the Linux GPIO
// character device.
//
// Lines are requested from the chip on first use, and reconfigured
// thereafter. This is slower than the memory mapped rpi platform, but works
// on any platform with a GPIO character device, and coexists safely with
// other users of the chip.
package gpiocdev

import (
	"errors"
	"sync"
	"time"

	"github.com/warthog618/gpiod"
	"github.com/warthog618/hx711"
)

var (
	// ErrClosed indicates the Chip is closed.
	ErrClosed = errors.New("closed")

	// ErrNotRequested indicates a line that has not been requested by
	// SetDirection.
	ErrNotRequested = errors.New("line not requested")
)

// Chip provides access to lines of a GPIO chip.
type Chip struct {
	mu    sync.Mutex
	c     *gpiod.Chip
	lines map[int]*gpiod.Line
}

// Open opens the named GPIO chip, e.g. gpiochip0.
func Open(name string) (*Chip, error) {
	c, err := gpiod.NewChip(name, gpiod.WithConsumer("hx711"))
	if err != nil {
		return nil, err
	}
	return &Chip{c: c, lines: make(map[int]*gpiod.Line)}, nil
}

// Close releases all lines requested from the chip, and the chip itself.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.c == nil {
		return ErrClosed
	}
	var err error
	for _, l := range c.lines {
		if err2 := l.Close(); err == nil {
			err = err2
		}
	}
	c.lines = nil
	if err2 := c.c.Close(); err == nil {
		err = err2
	}
	c.c = nil
	return err
}

// SetDirection sets the line as an input or output.
//
// Lines set as outputs are initially driven low.
func (c *Chip) SetDirection(offset int, d hx711.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.c == nil {
		return ErrClosed
	}
	l := c.lines[offset]
	if l == nil {
		var err error
		if d == hx711.Output {
			l, err = c.c.RequestLine(offset, gpiod.AsOutput(0))
		} else {
			l, err = c.c.RequestLine(offset, gpiod.AsInput)
		}
		if err != nil {
			return err
		}
		c.lines[offset] = l
		return nil
	}
	if d == hx711.Output {
		return l.Reconfigure(gpiod.AsOutput(0))
	}
	return l.Reconfigure(gpiod.AsInput)
}

// Write sets the level of the line.
func (c *Chip) Write(offset int, lvl hx711.Level) error {
	l, err := c.line(offset)
	if err != nil {
		return err
	}
	v := 0
	if lvl == hx711.High {
		v = 1
	}
	return l.SetValue(v)
}

// Read returns the level of the line.
func (c *Chip) Read(offset int) (hx711.Level, error) {
	l, err := c.line(offset)
	if err != nil {
		return hx711.Low, err
	}
	v, err := l.Value()
	if err != nil {
		return hx711.Low, err
	}
	return v != 0, nil
}

// DelayMicroseconds sleeps for at least us microseconds.
func (c *Chip) DelayMicroseconds(us int) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// line returns the requested line.
func (c *Chip) line(offset int) (*gpiod.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.c == nil {
		return nil, ErrClosed
	}
	l := c.lines[offset]
	if l == nil {
		return nil, ErrNotRequested
	}
	return l, nil
}
