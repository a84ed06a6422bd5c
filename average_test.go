// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package hx711_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/hx711"
	"github.com/warthog618/hx711/sim"
)

// readings returns successive values to Average.
type readings struct {
	vv  []float64
	chs []hx711.Channel
	err error
}

func (r *readings) Read(ch hx711.Channel) (float64, error) {
	r.chs = append(r.chs, ch)
	if r.err != nil {
		return 0, r.err
	}
	v := r.vv[0]
	r.vv = r.vv[1:]
	return v, nil
}

func TestAverage(t *testing.T) {
	r := &readings{vv: []float64{100, 200, 300, 400}}
	v, err := hx711.Average(r, hx711.ChannelA, 4)
	require.Nil(t, err)
	assert.Equal(t, 250.0, v)
	assert.Equal(t, []hx711.Channel{
		hx711.ChannelA, hx711.ChannelA, hx711.ChannelA, hx711.ChannelA}, r.chs)

	r = &readings{vv: []float64{1.5, -0.5}}
	v, err = hx711.AverageB(r, 2)
	require.Nil(t, err)
	assert.Equal(t, 0.5, v)
	assert.Equal(t, []hx711.Channel{hx711.ChannelB, hx711.ChannelB}, r.chs)
}

func TestAverageInvalidFactor(t *testing.T) {
	r := &readings{}
	_, err := hx711.Average(r, hx711.ChannelA, 0)
	assert.Equal(t, hx711.ErrInvalidCount, err)
	_, err = hx711.AverageA(r, -3)
	assert.Equal(t, hx711.ErrInvalidCount, err)
	assert.Empty(t, r.chs)
}

func TestAverageFault(t *testing.T) {
	r := &readings{err: errFault}
	_, err := hx711.AverageA(r, hx711.DefaultAverageFactor)
	assert.Equal(t, errFault, err)
	assert.Len(t, r.chs, 1)
}

func TestAverageConverter(t *testing.T) {
	adc, _, _ := newConverter(t, []sim.Option{
		// A select, A sample, ...
		sim.WithChannelA(sim.Sequence(0, 12800, 0, 25600, 0, 38400, 0, 51200)),
	})
	defer adc.Close()
	v, err := hx711.Average(adc, hx711.ChannelA, 4)
	require.Nil(t, err)
	assert.Equal(t, 250.0, v)
}
