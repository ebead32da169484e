// SPDX-License-Identifier: Apache-2.0

package wallet

import (
	"perun.network/go-perun/log"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/puzzles"
)

// MainnetAggSigMeExtraData is the genesis challenge of mainnet, appended
// to AGG_SIG_ME messages.
var MainnetAggSigMeExtraData = clvm.MustBytes32FromHex("ccd5bb71183532bff220ba46c268991a3ff07eb358e8255a65c30a2dce0e5fbb")

// Wallet is the standard puzzle of one derived key. It signs spends of the
// coins locked by that puzzle.
type Wallet struct {
	log.Embedding

	publicKey bls.PublicKey
	index     uint32
	hardened  bool
	puzzle    *puzzles.Standard
}

// NewWallet builds the wallet of the owner key pk, which was derived at
// index.
func NewWallet(pk bls.PublicKey, index uint32, hardened bool) (*Wallet, error) {
	synthetic, err := SyntheticPublicKey(pk, DefaultHiddenPuzzleHash)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Embedding: log.MakeEmbedding(log.Default().WithField("index", index)),
		publicKey: pk,
		index:     index,
		hardened:  hardened,
		puzzle:    puzzles.NewStandard(synthetic),
	}, nil
}

// DeriveWallet derives the key at index from master and builds its wallet.
func DeriveWallet(master KeyPair, index uint32, hardened bool) (*Wallet, error) {
	kp, err := Derive(master, index, hardened)
	if err != nil {
		return nil, err
	}
	return NewWallet(kp.PublicKey, index, hardened)
}

// PublicKey returns the owner key.
func (w *Wallet) PublicKey() bls.PublicKey {
	return w.publicKey
}

// Index returns the derivation index.
func (w *Wallet) Index() uint32 {
	return w.index
}

// Hardened reports whether the owner key was derived hardened.
func (w *Wallet) Hardened() bool {
	return w.hardened
}

// SyntheticPublicKey returns the key curried into the puzzle.
func (w *Wallet) SyntheticPublicKey() bls.PublicKey {
	return w.puzzle.SyntheticPublicKey()
}

// Puzzle returns the standard puzzle of the wallet.
func (w *Wallet) Puzzle() *puzzles.Standard {
	return w.puzzle
}

// PuzzleHash returns the address the wallet receives coins at.
func (w *Wallet) PuzzleHash() clvm.Bytes32 {
	return w.puzzle.PuzzleHash()
}

// SolutionForConditions returns the standard solution whose delegated
// puzzle outputs conditions.
func (w *Wallet) SolutionForConditions(conditions ...*clvm.Program) (*clvm.Program, error) {
	delegated, err := puzzles.DelegatedPuzzleForConditions(conditions...)
	if err != nil {
		return nil, withKind(ErrInterpreter, err, "building delegated puzzle")
	}
	return puzzles.StandardSolution(delegated, clvm.Nil), nil
}
