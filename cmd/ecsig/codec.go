// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

var (
	errNoInput        = errors.New("either --hex or --base64 must be provided")
	errAmbiguousInput = errors.New("only one of --hex or --base64 should be provided")
	errUnknownFormat  = errors.New("unknown output format")
)

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "hex",
			Usage: "Hex-encoded input",
		},
		&cli.StringFlag{
			Name:  "base64",
			Usage: "Base64-encoded input",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output format (hex or base64)",
			Value: "hex",
		},
		&cli.BoolFlag{
			Name:  "sequence",
			Usage: "DER signature is wrapped in an ASN.1 SEQUENCE",
		},
	}
}

// EncodeCommand converts raw R || S signatures to DER.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:   "encode",
		Usage:  "Convert a raw R || S signature to DER",
		Flags:  inputFlags(),
		Action: runEncodeCommand,
	}
}

// DecodeCommand converts DER signatures to raw R || S.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:   "decode",
		Usage:  "Convert a DER signature to raw R || S",
		Flags:  inputFlags(),
		Action: runDecodeCommand,
	}
}

func runEncodeCommand(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	codec, err := cfg.codec()
	if err != nil {
		return err
	}

	rs, err := readInput(cmd)
	if err != nil {
		return err
	}

	var der []byte
	if cmd.Bool("sequence") {
		der, err = codec.MarshalASN1(rs)
	} else {
		der, err = codec.Marshal(rs)
	}
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}

	log := cfg.logger(cmd.Root().ErrWriter)
	log.Debug().
		Int("width", codec.Width).
		Int("raw_len", len(rs)).
		Int("der_len", len(der)).
		Msg("Encoded signature")

	return writeOutput(cmd, der)
}

func runDecodeCommand(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	codec, err := cfg.codec()
	if err != nil {
		return err
	}

	der, err := readInput(cmd)
	if err != nil {
		return err
	}

	var rs []byte
	if cmd.Bool("sequence") {
		rs, err = codec.UnmarshalASN1(der)
	} else {
		rs, err = codec.Unmarshal(der)
	}
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	log := cfg.logger(cmd.Root().ErrWriter)
	log.Debug().
		Int("width", codec.Width).
		Int("der_len", len(der)).
		Bool("lenient", codec.AllowTrailingData).
		Bool("strict", codec.Strict).
		Msg("Decoded signature")

	return writeOutput(cmd, rs)
}

func readInput(cmd *cli.Command) ([]byte, error) {
	h := strings.TrimSpace(cmd.String("hex"))
	b64 := strings.TrimSpace(cmd.String("base64"))

	switch {
	case h == "" && b64 == "":
		return nil, errNoInput

	case h != "" && b64 != "":
		return nil, errAmbiguousInput

	case h != "":
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex input: %w", err)
		}

		return b, nil

	default:
		b, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 input: %w", err)
		}

		return b, nil
	}
}

func formatOutput(format string, b []byte) (string, error) {
	switch format {
	case "hex":
		return hex.EncodeToString(b), nil
	case "base64":
		return base64.StdEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
}

func writeOutput(cmd *cli.Command, b []byte) error {
	out, err := formatOutput(cmd.String("output"), b)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.Root().Writer, out)

	return err
}
