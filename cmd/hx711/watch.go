// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/warthog618/hx711"
)

func init() {
	watchCmd.Flags().StringVarP(&watchOpts.Channel, "channel", "c", "A", "channel to watch [A|B]")
	watchCmd.Flags().DurationVarP(&watchOpts.Interval, "interval", "i", time.Second, "time between readings")
	watchCmd.Flags().IntVarP(&watchOpts.Average, "average", "a", 1, "number of readings averaged for each report")
	watchCmd.Flags().UintVarP(&watchOpts.Count, "count", "n", 0, "exit after n readings")
	watchCmd.Flags().BoolVarP(&watchOpts.Tare, "tare", "t", false, "calibrate the channel before watching")
	rootCmd.AddCommand(watchCmd)
}

var (
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Periodically read a channel",
		Long:  `Read a channel at regular intervals and print the readings to standard output.`,
		Args:  cobra.NoArgs,
		RunE:  watch,
	}
	watchOpts = struct {
		Channel  string
		Interval time.Duration
		Average  int
		Count    uint
		Tare     bool
	}{}
)

func watch(cmd *cobra.Command, args []string) error {
	ch, err := parseChannel(watchOpts.Channel)
	if err != nil {
		return err
	}
	if watchOpts.Average < 1 {
		return hx711.ErrInvalidCount
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	adc, closer, err := openConverter()
	if err != nil {
		return err
	}
	defer closer()
	if watchOpts.Tare {
		err = adc.CalibrateContext(ctx, ch, hx711.DefaultCalibrationSamples)
		if err != nil {
			return ignoreCancel(err)
		}
		log.Info().Int32("offset", adc.Offset(ch)).Stringer("channel", ch).Msg("tared")
	}
	r := contextReader{ctx, adc}
	ticker := time.NewTicker(watchOpts.Interval)
	defer ticker.Stop()
	count := uint(0)
	for {
		v, err := hx711.Average(r, ch, watchOpts.Average)
		if err != nil {
			return ignoreCancel(err)
		}
		fmt.Printf("%s %s: %.3f\n", time.Now().Format(time.RFC3339Nano), ch, v)
		count++
		if watchOpts.Count > 0 && count >= watchOpts.Count {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

// ignoreCancel drops the error resulting from an interrupt.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
