// SPDX-License-Identifier: MIT
//
// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Test suite for the rpi platform, using an in-memory register block in
// place of the mapped GPIO registers.
package rpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/hx711"
)

var _ hx711.Platform = (*Chip)(nil)

func newMemChip() (*Chip, []uint32) {
	mem := make([]uint32, memLength/4)
	return newChip(mem), mem
}

func TestMode(t *testing.T) {
	c, mem := newMemChip()
	require.Nil(t, c.SetMode(J8p7, Output))
	// GPIO4 is fsel0, bits 12-14
	assert.Equal(t, uint32(1<<12), mem[0])
	m, err := c.Mode(J8p7)
	assert.Nil(t, err)
	assert.Equal(t, Output, m)

	require.Nil(t, c.SetMode(GPIO17, Alt3))
	assert.Equal(t, uint32(Alt3)<<21, mem[1])
	m, err = c.Mode(GPIO17)
	assert.Nil(t, err)
	assert.Equal(t, Alt3, m)

	require.Nil(t, c.SetDirection(J8p7, hx711.Input))
	assert.Equal(t, uint32(0), mem[0])
	require.Nil(t, c.SetDirection(J8p7, hx711.Output))
	m, err = c.Mode(J8p7)
	assert.Nil(t, err)
	assert.Equal(t, Output, m)
	// neighbours untouched
	m, err = c.Mode(GPIO5)
	assert.Nil(t, err)
	assert.Equal(t, Input, m)
}

func TestWrite(t *testing.T) {
	c, mem := newMemChip()
	require.Nil(t, c.Write(GPIO6, hx711.High))
	assert.Equal(t, uint32(1<<6), mem[7])
	assert.Equal(t, uint32(0), mem[10])
	require.Nil(t, c.Write(GPIO27, hx711.Low))
	assert.Equal(t, uint32(1<<27), mem[10])
}

func TestRead(t *testing.T) {
	c, mem := newMemChip()
	l, err := c.Read(GPIO5)
	assert.Nil(t, err)
	assert.Equal(t, hx711.Low, l)
	mem[13] = 1 << 5
	l, err = c.Read(GPIO5)
	assert.Nil(t, err)
	assert.Equal(t, hx711.High, l)
	l, err = c.Read(GPIO6)
	assert.Nil(t, err)
	assert.Equal(t, hx711.Low, l)
}

func TestInvalidPin(t *testing.T) {
	c, _ := newMemChip()
	assert.Equal(t, ErrInvalidPin, c.SetMode(-1, Output))
	assert.Equal(t, ErrInvalidPin, c.SetDirection(MaxGPIOPin, hx711.Output))
	assert.Equal(t, ErrInvalidPin, c.Write(MaxGPIOPin, hx711.High))
	_, err := c.Read(-1)
	assert.Equal(t, ErrInvalidPin, err)
	_, err = c.Mode(99)
	assert.Equal(t, ErrInvalidPin, err)
}

func TestClose(t *testing.T) {
	c, _ := newMemChip()
	assert.Nil(t, c.Close())
	assert.Equal(t, ErrClosed, c.Close())
	assert.Equal(t, ErrClosed, c.SetMode(GPIO4, Output))
	assert.Equal(t, ErrClosed, c.Write(GPIO4, hx711.High))
	_, err := c.Read(GPIO4)
	assert.Equal(t, ErrClosed, err)
	_, err = c.Mode(GPIO4)
	assert.Equal(t, ErrClosed, err)
}

func TestConverter(t *testing.T) {
	c, mem := newMemChip()
	// data held low by the chip, so reads as all zeros
	adc, err := hx711.New(c, GPIO5, GPIO6)
	require.Nil(t, err)
	m, _ := c.Mode(GPIO5)
	assert.Equal(t, Input, m)
	m, _ = c.Mode(GPIO6)
	assert.Equal(t, Output, m)
	// clock left low
	assert.Equal(t, uint32(1<<6), mem[10])
	v, err := adc.ReadRaw(hx711.ChannelA)
	assert.Nil(t, err)
	assert.Equal(t, int32(0), v)
	require.Nil(t, adc.Close())
	m, _ = c.Mode(GPIO6)
	assert.Equal(t, Input, m)
}
