// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	iso "cunicu.li/go-iso7816"
	"github.com/urfave/cli/v3"

	"cunicu.li/go-ecsig/card"
)

var (
	errNoReaders      = errors.New("no smart card readers found")
	errUnknownApplet  = errors.New("unknown applet")
	errInvalidPEM     = errors.New("no PEM block found")
	errNotECDSAPubKey = errors.New("not an ECDSA public key")
)

type cardSigner interface {
	crypto.Signer
	SignRaw(digest []byte) ([]byte, error)
}

// SignCommand signs a digest with a key on a smart card.
func SignCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign",
		Usage: "Sign a digest with a key stored on a smart card",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "reader",
				Usage: "PC/SC reader name (default: first reader)",
			},
			&cli.StringFlag{
				Name:  "applet",
				Usage: "Applet holding the key (openpgp or piv)",
				Value: "openpgp",
			},
			&cli.StringFlag{
				Name:  "slot",
				Usage: "Hex-encoded PIV key slot",
				Value: "9c",
			},
			&cli.StringFlag{
				Name:     "pubkey",
				Usage:    "Path to PEM encoded public key of the signing key",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "digest",
				Usage:    "Hex-encoded digest to sign",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "pin",
				Usage:   "PIN to unlock the key",
				Sources: cli.EnvVars(envPrefix + "_PIN"),
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Output the signature as R || S instead of ASN.1",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output format (hex or base64)",
				Value: "hex",
			},
		},
		Action: runSignCommand,
	}
}

// ReadersCommand lists the available PC/SC readers.
func ReadersCommand() *cli.Command {
	return &cli.Command{
		Name:  "readers",
		Usage: "List smart card readers",
		Action: func(_ context.Context, cmd *cli.Command) error {
			readers, err := card.Readers()
			if err != nil {
				return err
			}

			for _, reader := range readers {
				if _, err := fmt.Fprintln(cmd.Root().Writer, reader); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func runSignCommand(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := cfg.logger(cmd.Root().ErrWriter)

	pub, err := readPublicKey(cmd.String("pubkey"))
	if err != nil {
		return err
	}

	digest, err := hex.DecodeString(strings.TrimSpace(cmd.String("digest")))
	if err != nil {
		return fmt.Errorf("failed to decode digest: %w", err)
	}

	slot, err := parseSlot(cmd.String("slot"))
	if err != nil {
		return err
	}

	reader := cfg.Reader
	if reader == "" {
		readers, err := card.Readers()
		if err != nil {
			return err
		}

		if len(readers) == 0 {
			return errNoReaders
		}

		reader = readers[0]
	}

	sess, err := card.Open(reader)
	if err != nil {
		return err
	}

	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close card")
		}
	}()

	applet := cmd.String("applet")

	signer, err := newCardSigner(sess, applet, slot, pub, cmd.String("pin"))
	if err != nil {
		return err
	}

	log.Debug().
		Str("reader", reader).
		Str("applet", applet).
		Int("digest_len", len(digest)).
		Msg("Signing digest")

	var sig []byte
	if cmd.Bool("raw") {
		sig, err = signer.SignRaw(digest)
	} else {
		sig, err = signer.Sign(nil, digest, crypto.Hash(0))
	}
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	return writeOutput(cmd, sig)
}

func appletAID(applet string) ([]byte, error) {
	switch strings.ToLower(applet) {
	case "openpgp":
		return card.AidOpenPGP, nil
	case "piv":
		return iso.AidPIV, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownApplet, applet)
	}
}

// newCardSigner selects the applet on tx, unlocks it if a PIN is given and
// returns a signer for the key matching pub.
func newCardSigner(tx card.Selector, applet string, slot byte, pub *ecdsa.PublicKey, pin string) (cardSigner, error) {
	aid, err := appletAID(applet)
	if err != nil {
		return nil, err
	}

	if err := card.SelectApplet(tx, aid); err != nil {
		return nil, err
	}

	if bytes.Equal(aid, iso.AidPIV) {
		if pin != "" {
			if err := card.VerifyPIVPIN(tx, pin); err != nil {
				return nil, err
			}
		}

		k, err := card.NewPIVKey(tx, slot, pub)
		if err != nil {
			return nil, err
		}

		return k, nil
	}

	if pin != "" {
		if err := card.VerifyOpenPGPPIN(tx, pin); err != nil {
			return nil, err
		}
	}

	k, err := card.NewOpenPGPKey(tx, pub)
	if err != nil {
		return nil, err
	}

	return k, nil
}

func parseSlot(s string) (byte, error) {
	slot, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", s, err)
	}

	return byte(slot), nil
}

func readPublicKey(path string) (*ecdsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}

	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errInvalidPEM
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, errNotECDSAPubKey
	}

	return pub, nil
}
