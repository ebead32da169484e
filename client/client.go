// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/ledger"
	"perun.network/perun-chia-backend/puzzles"
	"perun.network/perun-chia-backend/wallet"
	chiawire "perun.network/perun-chia-backend/wire"
)

// CoinSource looks up coin records by puzzle hash. ledger.FullNode is a
// CoinSource.
type CoinSource interface {
	GetCoinRecordsByPuzzleHash(ctx context.Context, puzzleHash clvm.Bytes32, q ledger.CoinRecordQuery) ([]ledger.CoinRecord, error)
	GetCoinRecordsByPuzzleHashes(ctx context.Context, puzzleHashes []clvm.Bytes32, q ledger.CoinRecordQuery) ([]ledger.CoinRecord, error)
}

var _ CoinSource = (*ledger.FullNode)(nil)

// Client watches the coins of the wallets derived from a master key. An
// observer master key suffices for unhardened derivation.
type Client struct {
	log.Embedding

	master    wallet.KeyPair
	hardened  bool
	source    CoinSource
	templates *puzzles.TemplateSet
	cache     *puzzles.HashCache
}

// New creates a client. With nil templates CATs are matched against the
// CAT v2 mod hash.
func New(master wallet.KeyPair, hardened bool, source CoinSource, templates *puzzles.TemplateSet) (*Client, error) {
	if hardened && master.IsObserver() {
		return nil, errors.WithMessage(wallet.ErrPrivateKeyRequired, "hardened scan")
	}
	cache, err := puzzles.NewHashCache(puzzles.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		Embedding: log.MakeEmbedding(log.Default().
			WithField("fingerprint", master.PublicKey.Fingerprint()).
			WithField("peer", chiawire.AsAddress(master.PublicKey))),
		master:    master,
		hardened:  hardened,
		source:    source,
		templates: templates,
		cache:     cache,
	}, nil
}

// PeerAddress returns the wire address the master key is known by to
// other peers.
func (c *Client) PeerAddress() *chiawire.Address {
	return chiawire.AsAddress(c.master.PublicKey)
}

// Wallet returns the wallet at index.
func (c *Client) Wallet(index uint32) (*wallet.Wallet, error) {
	return wallet.DeriveWallet(c.master, index, c.hardened)
}

func (c *Client) childKey(index uint32) (bls.PublicKey, error) {
	if !c.hardened {
		return wallet.DeriveParent(c.master.PublicKey, index), nil
	}
	child, err := wallet.Derive(c.master, index, true)
	if err != nil {
		return bls.PublicKey{}, err
	}
	return child.PublicKey, nil
}

// PuzzleHash returns the standard puzzle hash at index.
func (c *Client) PuzzleHash(index uint32) (clvm.Bytes32, error) {
	child, err := c.childKey(index)
	if err != nil {
		return clvm.Bytes32{}, err
	}
	synthetic, err := wallet.SyntheticPublicKey(child, wallet.DefaultHiddenPuzzleHash)
	if err != nil {
		return clvm.Bytes32{}, err
	}
	raw := synthetic.Bytes()
	return c.cache.PuzzleHash(puzzles.StandardTemplate, clvm.Atom(raw[:])), nil
}

// CATPuzzleHash returns the puzzle hash of the CAT of assetID wrapping the
// standard puzzle at index.
func (c *Client) CATPuzzleHash(assetID clvm.Bytes32, index uint32) (clvm.Bytes32, error) {
	inner, err := c.PuzzleHash(index)
	if err != nil {
		return clvm.Bytes32{}, err
	}
	return puzzles.CATPuzzleHash(c.templates.CATModHash(), assetID, inner), nil
}

// Records returns the coin records locked by puzzleHash.
func (c *Client) Records(ctx context.Context, puzzleHash clvm.Bytes32, includeSpent bool) ([]ledger.CoinRecord, error) {
	return c.source.GetCoinRecordsByPuzzleHash(ctx, puzzleHash, ledger.CoinRecordQuery{IncludeSpent: includeSpent})
}
