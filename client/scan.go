// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/ledger"
)

// ScanResult holds the coins found at one derivation index.
type ScanResult struct {
	Index      uint32
	PuzzleHash clvm.Bytes32
	Records    []ledger.CoinRecord
}

// ScanStandard looks up the coins of the standard wallets at indices
// [start, start+count).
func (c *Client) ScanStandard(ctx context.Context, start, count uint32, includeSpent bool) ([]ScanResult, error) {
	return c.scan(ctx, start, count, includeSpent, c.PuzzleHash)
}

// ScanCAT looks up the CAT coins of assetID held by the wallets at indices
// [start, start+count).
func (c *Client) ScanCAT(ctx context.Context, assetID clvm.Bytes32, start, count uint32, includeSpent bool) ([]ScanResult, error) {
	return c.scan(ctx, start, count, includeSpent, func(index uint32) (clvm.Bytes32, error) {
		return c.CATPuzzleHash(assetID, index)
	})
}

func (c *Client) scan(ctx context.Context, start, count uint32, includeSpent bool, puzzleHash func(uint32) (clvm.Bytes32, error)) ([]ScanResult, error) {
	if count == 0 {
		return nil, nil
	}
	if uint64(start)+uint64(count)-1 > math.MaxUint32 {
		return nil, errors.Wrapf(ErrIndexRange, "start %d count %d", start, count)
	}

	results := make([]ScanResult, count)
	hashes := make([]clvm.Bytes32, count)
	byHash := make(map[clvm.Bytes32]int, count)
	for i := range results {
		index := start + uint32(i)
		ph, err := puzzleHash(index)
		if err != nil {
			return nil, err
		}
		results[i] = ScanResult{Index: index, PuzzleHash: ph}
		hashes[i] = ph
		byHash[ph] = i
	}

	c.Log().WithField("start", start).WithField("count", count).Debug("Scanning puzzle hashes")
	records, err := c.source.GetCoinRecordsByPuzzleHashes(ctx, hashes, ledger.CoinRecordQuery{IncludeSpent: includeSpent})
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		i, ok := byHash[r.Coin.PuzzleHash]
		if !ok {
			c.Log().WithField("coin", r.Coin.ID()).Warn("Ignoring coin of unrequested puzzle hash")
			continue
		}
		results[i].Records = append(results[i].Records, r)
	}
	return results, nil
}
