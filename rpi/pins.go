// SPDX-License-Identifier: MIT
//
// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.

package rpi

import (
	"fmt"
	"strconv"
	"strings"
)

// Convenience mapping from J8 pinouts to BCM pinouts.
const (
	J8p27 = iota
	J8p28
	J8p3
	J8p5
	J8p7
	J8p29
	J8p31
	J8p26
	J8p24
	J8p21
	J8p19
	J8p23
	J8p32
	J8p33
	J8p8
	J8p10
	J8p36
	J8p11
	J8p12
	J8p35
	J8p38
	J8p40
	J8p15
	J8p16
	J8p18
	J8p22
	J8p37
	J8p13
	MaxGPIOPin
)

// GPIO aliases to J8 pins
const (
	GPIO2  = J8p3
	GPIO3  = J8p5
	GPIO4  = J8p7
	GPIO5  = J8p29
	GPIO6  = J8p31
	GPIO7  = J8p26
	GPIO8  = J8p24
	GPIO9  = J8p21
	GPIO10 = J8p19
	GPIO11 = J8p23
	GPIO12 = J8p32
	GPIO13 = J8p33
	GPIO14 = J8p8
	GPIO15 = J8p10
	GPIO16 = J8p36
	GPIO17 = J8p11
	GPIO18 = J8p12
	GPIO19 = J8p35
	GPIO20 = J8p38
	GPIO21 = J8p40
	GPIO22 = J8p15
	GPIO23 = J8p16
	GPIO24 = J8p18
	GPIO25 = J8p22
	GPIO26 = J8p37
	GPIO27 = J8p13
)

// J8Names maps the J8 header names to BCM pin numbers.
var J8Names = map[string]int{
	"J8P3":  J8p3,
	"J8P5":  J8p5,
	"J8P7":  J8p7,
	"J8P8":  J8p8,
	"J8P10": J8p10,
	"J8P11": J8p11,
	"J8P12": J8p12,
	"J8P13": J8p13,
	"J8P15": J8p15,
	"J8P16": J8p16,
	"J8P18": J8p18,
	"J8P19": J8p19,
	"J8P21": J8p21,
	"J8P22": J8p22,
	"J8P23": J8p23,
	"J8P24": J8p24,
	"J8P26": J8p26,
	"J8P27": J8p27,
	"J8P28": J8p28,
	"J8P29": J8p29,
	"J8P31": J8p31,
	"J8P32": J8p32,
	"J8P33": J8p33,
	"J8P35": J8p35,
	"J8P36": J8p36,
	"J8P37": J8p37,
	"J8P38": J8p38,
	"J8P40": J8p40,
}

// ParsePin converts a J8 name, e.g. J8p7 or J8P07, a GPIO name, e.g.
// GPIO4, or a BCM number, e.g. 4, to the BCM pin number.
func ParsePin(s string) (int, error) {
	u := strings.ToUpper(s)
	if strings.HasPrefix(u, "J8P0") {
		u = "J8P" + u[4:]
	}
	if p, ok := J8Names[u]; ok {
		return p, nil
	}
	u = strings.TrimPrefix(u, "GPIO")
	p, err := strconv.ParseUint(u, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse pin '%s'", s)
	}
	if p >= MaxGPIOPin {
		return 0, fmt.Errorf("unknown pin '%s'", s)
	}
	return int(p), nil
}
