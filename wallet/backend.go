// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"io"

	"github.com/pkg/errors"
	"perun.network/go-perun/wallet"

	"perun.network/perun-chia-backend/bls"
)

// Backend implements the go-perun wallet backend for BLS identities.
type Backend struct{}

var _ wallet.Backend = Backend{}

func init() {
	wallet.SetBackend(Backend{})
}

func (Backend) NewAddress() wallet.Address {
	return new(Address)
}

// DecodeSig reads a compressed signature of exactly bls.SignatureLen bytes.
func (Backend) DecodeSig(r io.Reader) (wallet.Sig, error) {
	sig := make([]byte, bls.SignatureLen)
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, errors.WithMessage(err, "reading signature")
	}
	return wallet.Sig(sig), nil
}

// VerifySignature checks an augmented scheme signature of msg by a. It
// fails with an error only for malformed signatures.
func (Backend) VerifySignature(msg []byte, sign wallet.Sig, a wallet.Address) (bool, error) {
	addr, ok := a.(*Address)
	if !ok {
		return false, errors.Errorf("unexpected address type %T", a)
	}
	sig, err := bls.SignatureFromBytes(sign)
	if err != nil {
		return false, err
	}
	return bls.Verify(addr.PublicKey(), msg, sig), nil
}
