// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/ledger"
)

// SignCoinSpend signs every signature condition of spend and returns the
// aggregate. ownerSk must be the private key of the wallet's owner key.
// keys holds the private keys of further signers, it is not modified.
func (w *Wallet) SignCoinSpend(spend ledger.CoinSpend, extraData []byte, ownerSk bls.PrivateKey, keys KeyTable) (bls.Signature, error) {
	if !ownerSk.PublicKey().Equal(w.publicKey) {
		return bls.Signature{}, errors.WithStack(ErrAuthorization)
	}

	table := keys.Clone()
	table[w.SyntheticPublicKey().Bytes()] = SyntheticPrivateKey(ownerSk, DefaultHiddenPuzzleHash)

	puzzle, err := spend.PuzzleReveal.Program()
	if err != nil {
		return bls.Signature{}, withKind(ErrInterpreter, err, "decoding puzzle reveal")
	}
	solution, err := spend.Solution.Program()
	if err != nil {
		return bls.Signature{}, withKind(ErrInterpreter, err, "decoding solution")
	}
	obligations, err := ExtractSignableConditions(puzzle, solution, spend.Coin, extraData)
	if err != nil {
		return bls.Signature{}, err
	}

	sigs := make([]bls.Signature, 0, len(obligations))
	for _, o := range obligations {
		sk, ok := table.Lookup(o.PublicKey)
		if !ok {
			return bls.Signature{}, withKind(ErrKeyNotFound, nil, "%v", o.PublicKey)
		}
		sigs = append(sigs, bls.Sign(sk, o.Message))
	}

	w.Log().WithField("coin", spend.Coin.ID()).
		WithField("signatures", len(sigs)).
		Debug("Signed coin spend")
	return bls.Aggregate(sigs...), nil
}
