// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"time"

	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/ledger"
)

// Unit describes how an amount of mojos is displayed.
type Unit struct {
	Symbol   string
	Decimals int
}

var (
	// XCH has 10^12 mojos per coin.
	XCH = Unit{Symbol: "XCH", Decimals: 12}
	// CAT has 10^3 mojos per token.
	CAT = Unit{Symbol: "CAT", Decimals: 3}
)

// Balance sums the amounts of the unspent records.
func Balance(records []ledger.CoinRecord) uint64 {
	var sum uint64
	for _, r := range records {
		if !r.Spent {
			sum += r.Coin.Amount
		}
	}
	return sum
}

// TotalBalance sums the unspent amounts of all scan results.
func TotalBalance(results []ScanResult) uint64 {
	var sum uint64
	for _, r := range results {
		sum += Balance(r.Records)
	}
	return sum
}

// FormatBalance formats mojos in unit.
func FormatBalance(mojos uint64, unit Unit) string {
	if unit.Decimals <= 0 {
		return fmt.Sprintf("%d %s", mojos, unit.Symbol)
	}
	scale := uint64(1)
	for i := 0; i < unit.Decimals; i++ {
		scale *= 10
	}
	return fmt.Sprintf("%d.%0*d %s", mojos/scale, unit.Decimals, mojos%scale, unit.Symbol)
}

// PollBalance reports the unspent balance of puzzleHash to notify whenever
// it changes. It polls every interval until ctx is done and returns the
// context's error. Failed lookups are logged and retried at the next tick.
func (c *Client) PollBalance(ctx context.Context, puzzleHash clvm.Bytes32, interval time.Duration, notify func(uint64)) error {
	defer c.Log().WithField("puzzleHash", puzzleHash).Debug("PollBalance: stopped")

	var (
		last  uint64
		known bool
	)
	update := func() {
		records, err := c.Records(ctx, puzzleHash, false)
		if err != nil {
			if ctx.Err() == nil {
				c.Log().WithError(err).Warn("PollBalance: lookup failed")
			}
			return
		}
		if bal := Balance(records); !known || bal != last {
			last, known = bal, true
			notify(bal)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		update()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
