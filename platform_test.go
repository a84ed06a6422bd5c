// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package hx711_test

import (
	"errors"
	"fmt"

	"github.com/warthog618/hx711"
)

// call records a single call to the platform.
type call struct {
	op  string
	pin int
	arg string
}

func (c call) String() string {
	return fmt.Sprintf("%s(%d,%s)", c.op, c.pin, c.arg)
}

// recorder records the calls made to the platform it wraps.
type recorder struct {
	hx711.Platform
	calls []call
}

func (r *recorder) SetDirection(pin int, d hx711.Direction) error {
	arg := "in"
	if d == hx711.Output {
		arg = "out"
	}
	r.calls = append(r.calls, call{"dir", pin, arg})
	return r.Platform.SetDirection(pin, d)
}

func (r *recorder) Write(pin int, l hx711.Level) error {
	r.calls = append(r.calls, call{"write", pin, level(l)})
	return r.Platform.Write(pin, l)
}

func (r *recorder) Read(pin int) (hx711.Level, error) {
	l, err := r.Platform.Read(pin)
	r.calls = append(r.calls, call{"read", pin, level(l)})
	return l, err
}

func (r *recorder) DelayMicroseconds(us int) {
	r.calls = append(r.calls, call{"delay", 0, fmt.Sprint(us)})
	r.Platform.DelayMicroseconds(us)
}

func (r *recorder) reset() {
	r.calls = nil
}

// risingEdges returns the number of times the pin was driven high.
func (r *recorder) risingEdges(pin int) int {
	n := 0
	for _, c := range r.calls {
		if c.op == "write" && c.pin == pin && c.arg == "hi" {
			n++
		}
	}
	return n
}

func level(l hx711.Level) string {
	if l {
		return "hi"
	}
	return "lo"
}

var errFault = errors.New("line fault")

// faulty fails calls to the platform it wraps once armed.
type faulty struct {
	hx711.Platform
	failRead  bool
	failWrite bool
}

func (f *faulty) Write(pin int, l hx711.Level) error {
	if f.failWrite {
		return errFault
	}
	return f.Platform.Write(pin, l)
}

func (f *faulty) Read(pin int) (hx711.Level, error) {
	if f.failRead {
		return hx711.Low, errFault
	}
	return f.Platform.Read(pin)
}
