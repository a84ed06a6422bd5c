// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// hx711 is a utility to read load cells via an HX711 connected to GPIO pins.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warthog618/hx711"
)

var version = "undefined"

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	log = zerolog.New(cw).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootOpts.Backend, "backend", "b", "rpi", "GPIO backend [rpi|cdev|periph|sim]")
	pf.StringVar(&rootOpts.Chip, "chip", "gpiochip0", "GPIO chip for the cdev backend")
	pf.StringVarP(&rootOpts.Data, "data", "d", "J8p29", "pin connected to DOUT (J8 name or BCM number)")
	pf.StringVarP(&rootOpts.Clock, "clock", "k", "J8p31", "pin connected to PD_SCK (J8 name or BCM number)")
	pf.UintVarP(&rootOpts.GainA, "gain-a", "g", 128, "channel A gain [128|64]")
	pf.Int32Var(&rootOpts.OffsetA, "offset-a", 0, "channel A zero offset")
	pf.Int32Var(&rootOpts.OffsetB, "offset-b", 0, "channel B zero offset")
	pf.Int32Var(&rootOpts.SimA, "sim-a", 0, "raw value converted by channel A of the sim backend")
	pf.Int32Var(&rootOpts.SimB, "sim-b", 0, "raw value converted by channel B of the sim backend")
	pf.BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "log debug detail")
}

var (
	rootCmd = &cobra.Command{
		Use:   "hx711",
		Short: "hx711 is a utility to read an HX711 load cell amplifier",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootOpts.Verbose {
				log = log.Level(zerolog.DebugLevel)
			}
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
	}
	rootOpts = struct {
		Backend string
		Chip    string
		Data    string
		Clock   string
		GainA   uint
		OffsetA int32
		OffsetB int32
		SimA    int32
		SimB    int32
		Verbose bool
	}{}
)

func main() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		logErr(cmd, err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	log.Error().Err(err).Str("cmd", cmd.Name()).Msg("failed")
}

// openConverter creates a Converter on the configured backend and pins,
// restoring any offsets provided.
// The returned close releases both the Converter and the backend.
func openConverter() (*hx711.Converter, func(), error) {
	gainA, err := parseGain(rootOpts.GainA)
	if err != nil {
		return nil, nil, err
	}
	p, data, clock, pclose, err := openPlatform()
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Str("backend", rootOpts.Backend).
		Int("data", data).
		Int("clock", clock).
		Stringer("gainA", gainA).
		Msg("opening converter")
	adc, err := hx711.New(p, data, clock, hx711.WithGainA(gainA))
	if err != nil {
		pclose()
		return nil, nil, err
	}
	adc.SetOffset(hx711.ChannelA, rootOpts.OffsetA)
	adc.SetOffset(hx711.ChannelB, rootOpts.OffsetB)
	return adc, func() {
		if err := adc.Close(); err != nil {
			log.Warn().Err(err).Msg("closing converter")
		}
		pclose()
	}, nil
}

func parseChannel(s string) (hx711.Channel, error) {
	switch strings.ToUpper(s) {
	case "A":
		return hx711.ChannelA, nil
	case "B":
		return hx711.ChannelB, nil
	}
	return hx711.ChannelA, fmt.Errorf("can't parse channel '%s'", s)
}

func parseGain(g uint) (hx711.Gain, error) {
	switch g {
	case 128:
		return hx711.GainA128, nil
	case 64:
		return hx711.GainA64, nil
	}
	return hx711.GainA128, fmt.Errorf("unsupported channel A gain '%d'", g)
}
