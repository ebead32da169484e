// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"perun.network/perun-chia-backend/clvm"
)

// CAT wraps an inner puzzle into a token of the given asset. The asset id
// is the puzzle hash of the token's TAIL.
type CAT struct {
	curried
	assetID clvm.Bytes32
	inner   Puzzle
}

// NewCAT curries (template hash, asset id, inner puzzle) into template,
// which must be the loaded CAT program.
func NewCAT(template *Template, assetID clvm.Bytes32, inner Puzzle) *CAT {
	modHash := template.Hash()
	return &CAT{
		curried: newCurried(template,
			[]*clvm.Program{clvm.Atom(modHash[:]), clvm.Atom(assetID[:]), inner.Program()},
			[]clvm.Bytes32{{}, {}, inner.PuzzleHash()}),
		assetID: assetID,
		inner:   inner,
	}
}

// CATPuzzleHash returns the puzzle hash of the CAT with outer puzzle hash
// modHash wrapping an inner puzzle with hash innerHash, without building
// the program.
func CATPuzzleHash(modHash, assetID, innerHash clvm.Bytes32) clvm.Bytes32 {
	return clvm.CurriedTreeHash(modHash,
		clvm.HashAtom(modHash[:]),
		clvm.HashAtom(assetID[:]),
		innerHash)
}

// AssetID returns the TAIL puzzle hash.
func (c *CAT) AssetID() clvm.Bytes32 {
	return c.assetID
}

// Inner returns the wrapped puzzle.
func (c *CAT) Inner() Puzzle {
	return c.inner
}
