// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v3"

	"cunicu.li/go-ecsig"
)

const envPrefix = "ECSIG"

var errUnknownCurve = errors.New("unknown curve")

// Keys which can be set in the config file, the environment and by flags.
// Flags take precedence over the environment and the config file.
//
//nolint:gochecknoglobals
var configKeys = []string{"width", "curve", "lenient", "strict", "reader", "debug"}

type config struct {
	Width   int
	Curve   string
	Lenient bool
	Strict  bool
	Reader  string
	Debug   bool
}

func loadConfig(cmd *cli.Command) (*config, error) {
	v := viper.New()
	v.SetDefault("curve", "P-256")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path := cmd.String("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for _, key := range configKeys {
		if cmd.IsSet(key) {
			v.Set(key, cmd.Value(key))
		}
	}

	return &config{
		Width:   v.GetInt("width"),
		Curve:   v.GetString("curve"),
		Lenient: v.GetBool("lenient"),
		Strict:  v.GetBool("strict"),
		Reader:  v.GetString("reader"),
		Debug:   v.GetBool("debug"),
	}, nil
}

func curveByName(name string) (elliptic.Curve, error) {
	switch strings.ToUpper(name) {
	case "P-224", "P224", "SECP224R1":
		return elliptic.P224(), nil
	case "P-256", "P256", "SECP256R1", "PRIME256V1":
		return elliptic.P256(), nil
	case "P-384", "P384", "SECP384R1":
		return elliptic.P384(), nil
	case "P-521", "P521", "SECP521R1":
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownCurve, name)
	}
}

// codec returns a codec for the configured width. An explicit width takes
// precedence over the curve.
func (c *config) codec() (*ecsig.Codec, error) {
	var (
		codec *ecsig.Codec
		err   error
	)

	if c.Width > 0 {
		codec, err = ecsig.NewCodec(c.Width)
	} else {
		var curve elliptic.Curve
		if curve, err = curveByName(c.Curve); err != nil {
			return nil, err
		}

		codec, err = ecsig.CodecForCurve(curve)
	}
	if err != nil {
		return nil, err
	}

	codec.AllowTrailingData = c.Lenient
	codec.Strict = c.Strict

	return codec, nil
}

func (c *config) logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if c.Debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
