// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
)

// The TAIL puzzles below authorize minting and melting of a CAT. Each
// curries a single parameter and its puzzle hash is the asset id.

// GenesisByCoinID permits a single issuance from the given coin.
type GenesisByCoinID struct {
	curried
	coinID clvm.Bytes32
}

// NewGenesisByCoinID curries coinID into template.
func NewGenesisByCoinID(template *Template, coinID clvm.Bytes32) *GenesisByCoinID {
	return &GenesisByCoinID{
		curried: newCurried(template, []*clvm.Program{clvm.Atom(coinID[:])}, nil),
		coinID:  coinID,
	}
}

// CoinID returns the id of the issuing coin.
func (g *GenesisByCoinID) CoinID() clvm.Bytes32 {
	return g.coinID
}

// GenesisByPuzzleHash permits issuance from coins whose parent has the
// given puzzle hash.
type GenesisByPuzzleHash struct {
	curried
	parentPuzzleHash clvm.Bytes32
}

// NewGenesisByPuzzleHash curries the parent puzzle hash into template.
func NewGenesisByPuzzleHash(template *Template, parentPuzzleHash clvm.Bytes32) *GenesisByPuzzleHash {
	return &GenesisByPuzzleHash{
		curried:          newCurried(template, []*clvm.Program{clvm.Atom(parentPuzzleHash[:])}, nil),
		parentPuzzleHash: parentPuzzleHash,
	}
}

// ParentPuzzleHash returns the curried puzzle hash.
func (g *GenesisByPuzzleHash) ParentPuzzleHash() clvm.Bytes32 {
	return g.parentPuzzleHash
}

// EverythingWithSignature permits any mint or melt signed by the curried
// public key.
type EverythingWithSignature struct {
	curried
	publicKey bls.PublicKey
}

// NewEverythingWithSignature curries pk into template.
func NewEverythingWithSignature(template *Template, pk bls.PublicKey) *EverythingWithSignature {
	raw := pk.Bytes()
	return &EverythingWithSignature{
		curried:   newCurried(template, []*clvm.Program{clvm.Atom(raw[:])}, nil),
		publicKey: pk,
	}
}

// PublicKey returns the authorizing key.
func (e *EverythingWithSignature) PublicKey() bls.PublicKey {
	return e.publicKey
}

// NewDelegatedTail returns the TAIL delegating authority to pk. It is
// built from the everything_with_signature template, so its asset id
// equals NewEverythingWithSignature(template, pk).PuzzleHash().
func NewDelegatedTail(everythingWithSignature *Template, pk bls.PublicKey) *EverythingWithSignature {
	return NewEverythingWithSignature(everythingWithSignature, pk)
}
