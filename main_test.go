// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/ledger"
	"perun.network/perun-chia-backend/puzzles"
	"perun.network/perun-chia-backend/setup"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	puzzleHash0     = "792931431ba2976e36e3abc0b35c811948536bcf77f39a8d99ec2a15af0e84bc"
	catAssetID      = "1abe38c422fd3325d3f827b5fd9dfea46723d2aa46fd344e0e931f7b76b16ad2"
)

// memorySource serves fixed coin records.
type memorySource map[clvm.Bytes32][]ledger.CoinRecord

func (m memorySource) GetCoinRecordsByPuzzleHash(ctx context.Context, ph clvm.Bytes32, q ledger.CoinRecordQuery) ([]ledger.CoinRecord, error) {
	return m.GetCoinRecordsByPuzzleHashes(ctx, []clvm.Bytes32{ph}, q)
}

func (m memorySource) GetCoinRecordsByPuzzleHashes(_ context.Context, phs []clvm.Bytes32, q ledger.CoinRecordQuery) ([]ledger.CoinRecord, error) {
	var out []ledger.CoinRecord
	for _, ph := range phs {
		for _, r := range m[ph] {
			if q.IncludeSpent || !r.Spent {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func TestScanStandard(t *testing.T) {
	ph := clvm.MustBytes32FromHex(puzzleHash0)
	coin := ledger.Coin{
		ParentCoinInfo: clvm.MustBytes32FromHex("1111111111111111111111111111111111111111111111111111111111111111"),
		PuzzleHash:     ph,
		Amount:         1750000000000,
	}
	source := memorySource{ph: {{Coin: coin, ConfirmedBlockIndex: 10}}}
	cfg := &setup.Config{Mnemonic: abandonMnemonic, ScanCount: 2}

	var out bytes.Buffer
	require.NoError(t, scan(context.Background(), cfg, source, &out))
	assert.Contains(t, out.String(), "0 0x"+puzzleHash0+" coins=1 balance=1.750000000000 XCH")
	assert.Contains(t, out.String(), "coin "+coin.ID().String()+" amount=1750000000000 spent=false height=10")
	assert.Contains(t, out.String(), "coins=0 balance=0.000000000000 XCH")
	assert.Contains(t, out.String(), "total 1.750000000000 XCH")
}

func TestScanCAT(t *testing.T) {
	ph := clvm.MustBytes32FromHex("d82861539706a93765b1265fd9e9a4f414b23621516510bbd7f8ad9037ba85cf")
	coin := ledger.Coin{
		ParentCoinInfo: clvm.MustBytes32FromHex("2222222222222222222222222222222222222222222222222222222222222222"),
		PuzzleHash:     ph,
		Amount:         2500,
	}
	source := memorySource{ph: {{Coin: coin, ConfirmedBlockIndex: 7}}}
	assetID := clvm.MustBytes32FromHex(catAssetID)
	cfg := &setup.Config{Mnemonic: abandonMnemonic, ScanCount: 3, AssetID: &assetID}

	var out bytes.Buffer
	require.NoError(t, scan(context.Background(), cfg, source, &out))
	assert.Contains(t, out.String(), "0 0x"+ph.Hex()+" coins=1 balance=2.500 CAT")
	assert.Contains(t, out.String(), "total 2.500 CAT")
	assert.NotContains(t, out.String(), puzzleHash0, "CAT puzzle hashes wrap the standard ones")
}

func TestScanCATTemplateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, puzzles.CATName+puzzles.TemplateExt), []byte("ff02ff0bff1780"), 0o600))
	assetID := clvm.MustBytes32FromHex(catAssetID)
	cfg := &setup.Config{Mnemonic: abandonMnemonic, ScanCount: 3, AssetID: &assetID, PuzzleDir: dir}

	var out bytes.Buffer
	require.NoError(t, scan(context.Background(), cfg, memorySource{}, &out))
	assert.Contains(t, out.String(), "total 0.000 CAT")
	assert.NotContains(t, out.String(), "d82861539706a93765b1265fd9e9a4f414b23621516510bbd7f8ad9037ba85cf")

	require.NoError(t, os.WriteFile(filepath.Join(dir, puzzles.CATName+puzzles.TemplateExt), []byte("ff01"), 0o600))
	err := scan(context.Background(), cfg, memorySource{}, &out)
	assert.ErrorIs(t, err, puzzles.ErrInvalidTemplate)
}

func TestScanInvalidMnemonic(t *testing.T) {
	cfg := &setup.Config{Mnemonic: "abandon", ScanCount: 1}
	err := scan(context.Background(), cfg, memorySource{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, setup.ErrConfiguration)
}
