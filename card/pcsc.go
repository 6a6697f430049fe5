// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/drivers/pcsc"
	"github.com/ebfe/scard"
)

// AidOpenPGP identifies the OpenPGP card applet.
//
// https://gnupg.org/ftp/specs/OpenPGP-smart-card-application-3.4.1.pdf#page=11
//
//nolint:gochecknoglobals
var AidOpenPGP = []byte{0xd2, 0x76, 0x00, 0x01, 0x24, 0x01}

// Selector is a Transmitter which can select applets.
//
// It is implemented by *iso.Transaction and *Session.
type Selector interface {
	Transmitter
	Select(aid []byte) ([]byte, error)
}

// SelectApplet selects the applet aid on tx.
func SelectApplet(tx Selector, aid []byte) error {
	if _, err := tx.Select(aid); err != nil {
		return fmt.Errorf("failed to select applet: %w", wrapCode(err))
	}

	return nil
}

// Readers lists all smart card readers available via the PC/SC interface.
func Readers() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PC/SC: %w", err)
	}

	readers, err := ctx.ListReaders()

	if err := ctx.Release(); err != nil {
		return nil, fmt.Errorf("failed to release context: %w", err)
	}

	if errors.Is(err, scard.ErrNoReadersAvailable) {
		return nil, nil
	}

	return readers, err
}

// Session is an exclusive transaction with a card in a PC/SC reader.
//
// To release the card, call the Close method.
type Session struct {
	*iso.Transaction

	ctx  *scard.Context
	card *iso.Card
}

var _ Selector = (*Session)(nil)

// Open connects to the card in the named reader and begins a transaction.
func Open(reader string) (*Session, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PC/SC: %w", err)
	}

	sc, err := pcsc.NewCard(ctx, reader, false)
	if err != nil {
		ctx.Release() //nolint:errcheck
		return nil, fmt.Errorf("failed to connect to smart card: %w", err)
	}

	card := iso.NewCard(sc)

	tx, err := card.NewTransaction()
	if err != nil {
		card.Close()  //nolint:errcheck
		ctx.Release() //nolint:errcheck
		return nil, fmt.Errorf("failed to begin smart card transaction: %w", err)
	}

	return &Session{
		Transaction: tx,
		ctx:         ctx,
		card:        card,
	}, nil
}

// Close ends the transaction and releases the card.
func (s *Session) Close() error {
	return errors.Join(
		s.Transaction.Close(),
		s.card.Close(),
		s.ctx.Release(),
	)
}
