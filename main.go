// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"perun.network/go-perun/log"
	plogrus "perun.network/go-perun/log/logrus"

	"perun.network/perun-chia-backend/client"
	"perun.network/perun-chia-backend/ledger"
	"perun.network/perun-chia-backend/puzzles"
	"perun.network/perun-chia-backend/setup"
	"perun.network/perun-chia-backend/wallet"
)

func main() {
	plogrus.Set(logrus.InfoLevel, &logrus.TextFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := setup.LoadConfig(".env")
	if err != nil {
		log.WithError(err).Fatal("Loading configuration")
	}
	nodeCfg, err := ledger.LoadNodeConfig(cfg.ChiaRoot)
	if err != nil {
		log.WithError(err).Fatal("Loading node configuration")
	}
	node, err := ledger.NewFullNode(nodeCfg)
	if err != nil {
		log.WithError(err).Fatal("Connecting to full node")
	}
	if err := scan(ctx, cfg, node, os.Stdout); err != nil {
		log.WithError(err).Fatal("Scanning wallets")
	}
}

// scan looks up the coins of the first cfg.ScanCount wallets and prints
// them with their balances.
func scan(ctx context.Context, cfg *setup.Config, source client.CoinSource, out io.Writer) error {
	sk, err := cfg.MasterKey()
	if err != nil {
		return err
	}

	var (
		templates *puzzles.TemplateSet
		unit      = client.XCH
	)
	if cfg.AssetID != nil {
		templates = puzzles.DefaultTemplates()
		if dir := cfg.TemplateDir(); dir != "" {
			if templates, err = puzzles.LoadTemplates(dir); err != nil {
				return err
			}
		}
		unit = client.CAT
	}

	c, err := client.New(wallet.NewKeyPair(sk), cfg.Hardened, source, templates)
	if err != nil {
		return err
	}
	var results []client.ScanResult
	if cfg.AssetID != nil {
		log.WithField("assetID", cfg.AssetID).Info("Scanning CAT wallets")
		results, err = c.ScanCAT(ctx, *cfg.AssetID, 0, cfg.ScanCount, true)
	} else {
		log.Info("Scanning standard wallets")
		results, err = c.ScanStandard(ctx, 0, cfg.ScanCount, true)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(out, "%4d %s coins=%d balance=%s\n",
			r.Index, r.PuzzleHash, len(r.Records), client.FormatBalance(client.Balance(r.Records), unit))
		for _, rec := range r.Records {
			fmt.Fprintf(out, "     coin %s amount=%d spent=%t height=%d\n",
				rec.Coin.ID(), rec.Coin.Amount, rec.Spent, rec.ConfirmedBlockIndex)
		}
	}
	fmt.Fprintf(out, "total %s\n", client.FormatBalance(client.TotalBalance(results), unit))
	return nil
}
