// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/warthog618/hx711/rpi"
)

func init() {
	pinsCmd.Flags().BoolVarP(&pinsOpts.Modes, "modes", "m", false, "also report the current mode of each pin")
	rootCmd.AddCommand(pinsCmd)
}

var (
	pinsCmd = &cobra.Command{
		Use:   "pins",
		Short: "List the Raspberry Pi J8 pin names accepted for --data and --clock",
		Args:  cobra.NoArgs,
		RunE:  pins,
	}
	pinsOpts = struct {
		Modes bool
	}{}
)

func pins(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(rpi.J8Names))
	for n := range rpi.J8Names {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return rpi.J8Names[names[i]] < rpi.J8Names[names[j]]
	})
	var c *rpi.Chip
	if pinsOpts.Modes {
		var err error
		c, err = rpi.Open()
		if err != nil {
			return err
		}
		defer c.Close()
	}
	for _, n := range names {
		p := rpi.J8Names[n]
		if c == nil {
			fmt.Printf("%-5s GPIO%d\n", n, p)
			continue
		}
		m, err := c.Mode(p)
		if err != nil {
			return err
		}
		fmt.Printf("%-5s GPIO%-2d %s\n", n, p, modeNames[m])
	}
	return nil
}

var modeNames = map[rpi.Mode]string{
	rpi.Input:  "input",
	rpi.Output: "output",
	rpi.Alt0:   "alt0",
	rpi.Alt1:   "alt1",
	rpi.Alt2:   "alt2",
	rpi.Alt3:   "alt3",
	rpi.Alt4:   "alt4",
	rpi.Alt5:   "alt5",
}
