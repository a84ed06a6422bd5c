// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/warthog618/hx711"
)

func init() {
	readCmd.Flags().StringVarP(&readOpts.Channel, "channel", "c", "A", "channel to read [A|B]")
	readCmd.Flags().BoolVarP(&readOpts.Raw, "raw", "r", false, "report the raw sample rather than the calibrated value")
	readCmd.Flags().IntVarP(&readOpts.Average, "average", "n", 1, "number of readings to average")
	readCmd.Flags().BoolVarP(&readOpts.Tare, "tare", "t", false, "calibrate the channel before reading")
	readCmd.SetHelpTemplate(readCmd.HelpTemplate() + extendedReadHelp)
	rootCmd.AddCommand(readCmd)
}

var extendedReadHelp = `
Readings:
  Calibrated readings are the raw sample, less the channel offset, scaled by
  the channel gain (128 or 64 for channel A, 32 for channel B).
  Offsets may be provided with --offset-a and --offset-b, as reported by
  the calibrate command, or determined on the fly with --tare.
`

var (
	readCmd = &cobra.Command{
		Use:     "read",
		Short:   "Read a channel",
		Args:    cobra.NoArgs,
		RunE:    read,
		Example: "  hx711 read -c B -n 16",
	}
	readOpts = struct {
		Channel string
		Raw     bool
		Average int
		Tare    bool
	}{}
)

func read(cmd *cobra.Command, args []string) error {
	ch, err := parseChannel(readOpts.Channel)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	adc, closer, err := openConverter()
	if err != nil {
		return err
	}
	defer closer()
	if readOpts.Tare {
		err = adc.CalibrateContext(ctx, ch, hx711.DefaultCalibrationSamples)
		if err != nil {
			return err
		}
		log.Debug().Int32("offset", adc.Offset(ch)).Stringer("channel", ch).Msg("tared")
	}
	if readOpts.Raw {
		if readOpts.Average != 1 {
			log.Warn().Msg("raw samples are not averaged")
		}
		v, err := adc.ReadRawContext(ctx, ch)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d\n", ch, v)
		return nil
	}
	v, err := hx711.Average(contextReader{ctx, adc}, ch, readOpts.Average)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %.3f\n", ch, v)
	return nil
}

// contextReader binds a context to the reads of a Converter.
type contextReader struct {
	ctx context.Context
	adc *hx711.Converter
}

func (r contextReader) Read(ch hx711.Channel) (float64, error) {
	return r.adc.ReadContext(r.ctx, ch)
}
