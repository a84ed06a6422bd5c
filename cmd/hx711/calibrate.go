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
	calibrateCmd.Flags().StringVarP(&calibrateOpts.Channel, "channel", "c", "A", "channel to calibrate [A|B]")
	calibrateCmd.Flags().IntVarP(&calibrateOpts.Samples, "samples", "n", hx711.DefaultCalibrationSamples, "number of samples to average")
	rootCmd.AddCommand(calibrateCmd)
}

var (
	calibrateCmd = &cobra.Command{
		Use:   "calibrate",
		Short: "Determine the zero offset of a channel",
		Long: `Determine the zero offset of a channel by averaging raw samples.

The channel should be unloaded. The reported offset may be passed to other
commands using --offset-a or --offset-b.`,
		Args:    cobra.NoArgs,
		RunE:    calibrate,
		Example: "  hx711 calibrate -c A -n 32",
	}
	calibrateOpts = struct {
		Channel string
		Samples int
	}{}
)

func calibrate(cmd *cobra.Command, args []string) error {
	ch, err := parseChannel(calibrateOpts.Channel)
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
	err = adc.CalibrateContext(ctx, ch, calibrateOpts.Samples)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d\n", ch, adc.Offset(ch))
	return nil
}
