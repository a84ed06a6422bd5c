// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
	"github.com/warthog618/hx711"
	"github.com/warthog618/hx711/rpi"
)

// This example reads a load cell connected to channel A of an HX711 that is
// connected to the RPI by two lines - DOUT and PD_SCK. The default pin
// assignments are defined in loadConfig, but can be altered via
// configuration (env, flag or config file).
// The scale is zeroed on startup, so should be unloaded when started, and
// the weight is reported in grams using the scale factor from the
// configuration, which is the number of calibrated counts per gram.
// The clock pin is an output so do not run this example on a board where
// that pin serves other purposes.
func main() {
	cfg := loadConfig(os.Args[1:])
	c, err := rpi.Open()
	if err != nil {
		panic(err)
	}
	defer c.Close()
	gain := hx711.GainA128
	if cfg.MustGet("gain").Int() == 64 {
		gain = hx711.GainA64
	}
	adc, err := hx711.New(
		c,
		cfg.MustGet("dout").Int(),
		cfg.MustGet("sck").Int(),
		hx711.WithGainA(gain))
	if err != nil {
		panic(err)
	}
	defer adc.Close()
	err = adc.Calibrate(hx711.ChannelA, cfg.MustGet("samples").Int())
	if err != nil {
		panic(err)
	}
	scale := cfg.MustGet("scale").Float()
	average := cfg.MustGet("average").Int()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	for {
		select {
		case <-time.After(cfg.MustGet("period").Duration()):
			v, err := hx711.AverageA(adc, average)
			if err != nil {
				fmt.Println("read failed:", err)
				continue
			}
			fmt.Printf("%.1fg\n", v/scale)
		case <-quit:
			return
		}
	}
}

func loadConfig(args []string) *config.Config {
	defaultConfig := map[string]interface{}{
		"dout":    rpi.GPIO5,
		"sck":     rpi.GPIO6,
		"gain":    128,
		"samples": hx711.DefaultCalibrationSamples,
		"average": hx711.DefaultAverageFactor,
		"scale":   1.0,
		"period":  "1s",
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		pflag.New(
			pflag.WithCommandLine(args),
			pflag.WithFlags([]pflag.Flag{{Short: 'c', Name: "config-file"}})),
		env.New(env.WithEnvPrefix("HX711_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "scale.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}
