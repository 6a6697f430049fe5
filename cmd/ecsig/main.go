// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

// Command ecsig converts ECDSA signatures between raw R || S and DER and
// signs digests with keys stored on smart cards.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ecsig",
		Usage: "ECDSA signature conversion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "Length of a single signature component in bytes (overrides --curve)",
			},
			&cli.StringFlag{
				Name:  "curve",
				Usage: "Curve of the signing key (P-224, P-256, P-384 or P-521)",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "Accept zero padding after DER signatures",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Reject DER integers which are not minimally encoded",
			},
		},
		Commands: []*cli.Command{
			EncodeCommand(),
			DecodeCommand(),
			SignCommand(),
			ReadersCommand(),
		},
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
