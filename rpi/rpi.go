// SPDX-License-Identifier: MIT
//
// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package rpi provides access to the GPIO pins of the Raspberry Pi (rev 2
// and later) by mapping the GPIO registers from /dev/gpiomem.
//
// Chip implements hx711.Platform, and is the fastest of the available
// platforms for bit bashing as pin writes and reads are single register
// accesses.
//
// The package uses the raw BCM2835 pin numbers, not the ports as they are
// mapped on the J8 output pins for the Raspberry Pi.
// A mapping from J8 to BCM is provided for those wanting to use the J8
// numbering.
//
// See the datasheet for full details of the BCM2835 controller:
// http://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
package rpi

import (
	"errors"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/warthog618/hx711"
	"golang.org/x/sys/unix"
)

// Mode defines the IO mode of a pin.
type Mode int

// Pin Mode, a pin can be set in Input or Output mode, or an alternate
// function.
const (
	Input Mode = iota
	Output
	Alt5
	Alt4
	Alt0
	Alt1
	Alt2
	Alt3
)

const (
	memLength = 4096

	modeMask uint32 = 7 // pin mode is 3 bits wide
)

var (
	// ErrClosed indicates the chip is closed.
	ErrClosed = errors.New("closed")

	// ErrInvalidPin indicates a pin number outside the range of GPIO pins.
	ErrInvalidPin = errors.New("invalid pin")
)

// Chip provides access to the GPIO pins via the mapped GPIO registers.
type Chip struct {
	// The memlock covers read/modify/write access to the mem block, and
	// unmapping of mem on Close.
	// Individual reads and writes only take the read lock on the assumption
	// that concurrent register writes are atomic. e.g. Read, Write and Mode.
	memlock sync.RWMutex
	mem     []uint32
	mem8    []byte
}

// Open memory maps the GPIO registers from /dev/gpiomem.
func Open() (*Chip, error) {
	file, err := os.OpenFile("/dev/gpiomem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem8, err := unix.Mmap(
		int(file.Fd()),
		0,
		memLength,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	c := newChip(unsafe.Slice((*uint32)(unsafe.Pointer(&mem8[0])), len(mem8)/4))
	c.mem8 = mem8
	return c, nil
}

func newChip(mem []uint32) *Chip {
	return &Chip{mem: mem}
}

// Close unmaps the GPIO registers.
func (c *Chip) Close() error {
	c.memlock.Lock()
	defer c.memlock.Unlock()
	if c.mem == nil {
		return ErrClosed
	}
	c.mem = nil
	if c.mem8 == nil {
		return nil
	}
	mem8 := c.mem8
	c.mem8 = nil
	return unix.Munmap(mem8)
}

// pin contains the register addresses and mask for a pin.
type pin struct {
	fsel      int
	modeShift uint
	levelReg  int
	clearReg  int
	setReg    int
	mask      uint32
}

func pinRegs(p int) (pin, error) {
	if p < 0 || p >= MaxGPIOPin {
		return pin{}, ErrInvalidPin
	}
	// This seems like overkill given the J8 pins are all on the first bank...
	bank := p / 32
	return pin{
		// Pin fsel register, 0 - 5 depending on pin
		fsel:      p / 10,
		modeShift: uint(p%10) * 3,
		// Input level register offset (13 / 14 depending on bank)
		levelReg: 13 + bank,
		// Clear register, 10 / 11 depending on bank
		clearReg: 10 + bank,
		// Set register, 7 / 8 depending on bank
		setReg: 7 + bank,
		mask:   uint32(1 << uint(p&0x1f)),
	}, nil
}

// SetMode sets the mode of the pin.
func (c *Chip) SetMode(p int, mode Mode) error {
	r, err := pinRegs(p)
	if err != nil {
		return err
	}
	c.memlock.Lock()
	defer c.memlock.Unlock()
	if c.mem == nil {
		return ErrClosed
	}
	c.mem[r.fsel] = c.mem[r.fsel]&^(modeMask<<r.modeShift) | uint32(mode)<<r.modeShift
	return nil
}

// Mode returns the mode of the pin in the Function Select register.
func (c *Chip) Mode(p int) (Mode, error) {
	r, err := pinRegs(p)
	if err != nil {
		return Input, err
	}
	c.memlock.RLock()
	defer c.memlock.RUnlock()
	if c.mem == nil {
		return Input, ErrClosed
	}
	return Mode(c.mem[r.fsel] >> r.modeShift & modeMask), nil
}

// SetDirection sets the pin as an input or output.
func (c *Chip) SetDirection(p int, d hx711.Direction) error {
	if d == hx711.Output {
		return c.SetMode(p, Output)
	}
	return c.SetMode(p, Input)
}

// Write sets the level of the pin.
func (c *Chip) Write(p int, l hx711.Level) error {
	r, err := pinRegs(p)
	if err != nil {
		return err
	}
	c.memlock.RLock()
	defer c.memlock.RUnlock()
	if c.mem == nil {
		return ErrClosed
	}
	if l == hx711.Low {
		c.mem[r.clearReg] = r.mask
	} else {
		c.mem[r.setReg] = r.mask
	}
	return nil
}

// Read returns the level of the pin.
func (c *Chip) Read(p int) (hx711.Level, error) {
	r, err := pinRegs(p)
	if err != nil {
		return hx711.Low, err
	}
	c.memlock.RLock()
	defer c.memlock.RUnlock()
	if c.mem == nil {
		return hx711.Low, ErrClosed
	}
	return (c.mem[r.levelReg] & r.mask) != 0, nil
}

// DelayMicroseconds sleeps for at least us microseconds.
func (c *Chip) DelayMicroseconds(us int) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
