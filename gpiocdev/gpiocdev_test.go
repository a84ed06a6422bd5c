// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Test suite for the gpiocdev platform.
//
// Tests require a GPIO chip, by default gpiochip0, with lines 5 and 6
// free for use, and are skipped if none is available.
// The chip can be overridden with the HX711_TEST_CHIP environment variable.
package gpiocdev_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/hx711"
	"github.com/warthog618/hx711/gpiocdev"
)

var _ hx711.Platform = (*gpiocdev.Chip)(nil)

func openChip(t *testing.T) *gpiocdev.Chip {
	t.Helper()
	name := os.Getenv("HX711_TEST_CHIP")
	if name == "" {
		name = "gpiochip0"
	}
	c, err := gpiocdev.Open(name)
	if err != nil {
		t.Skipf("no GPIO chip available: %s", err)
	}
	return c
}

func TestOpenBad(t *testing.T) {
	c, err := gpiocdev.Open("nonexistent")
	assert.NotNil(t, err)
	assert.Nil(t, c)
}

func TestNotRequested(t *testing.T) {
	c := openChip(t)
	defer c.Close()
	err := c.Write(6, hx711.High)
	assert.Equal(t, gpiocdev.ErrNotRequested, err)
	_, err = c.Read(5)
	assert.Equal(t, gpiocdev.ErrNotRequested, err)
}

func TestWriteRead(t *testing.T) {
	c := openChip(t)
	defer c.Close()
	require.Nil(t, c.SetDirection(6, hx711.Output))
	require.Nil(t, c.Write(6, hx711.High))
	l, err := c.Read(6)
	assert.Nil(t, err)
	assert.Equal(t, hx711.High, l)
	require.Nil(t, c.Write(6, hx711.Low))
	l, err = c.Read(6)
	assert.Nil(t, err)
	assert.Equal(t, hx711.Low, l)
	// reconfigure existing line
	require.Nil(t, c.SetDirection(6, hx711.Input))
	_, err = c.Read(6)
	assert.Nil(t, err)
}

func TestClose(t *testing.T) {
	c := openChip(t)
	require.Nil(t, c.SetDirection(5, hx711.Input))
	assert.Nil(t, c.Close())
	assert.Equal(t, gpiocdev.ErrClosed, c.Close())
	assert.Equal(t, gpiocdev.ErrClosed, c.SetDirection(5, hx711.Input))
	assert.Equal(t, gpiocdev.ErrClosed, c.Write(5, hx711.High))
	_, err := c.Read(5)
	assert.Equal(t, gpiocdev.ErrClosed, err)
}
