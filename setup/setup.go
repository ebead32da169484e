// SPDX-License-Identifier: Apache-2.0

package setup

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/bls"
	"perun.network/perun-chia-backend/clvm"
	"perun.network/perun-chia-backend/utils"
	"perun.network/perun-chia-backend/wallet"
)

// Environment variables read by LoadConfig.
const (
	EnvMnemonic   = "MNEMONIC_PHRASE"
	EnvPassphrase = "MNEMONIC_PASSPHRASE"
	EnvChiaRoot   = "CHIA_ROOT"
	EnvAssetID    = "CAT_ASSET_ID"
	EnvPuzzleDir  = "PUZZLE_DIR"
	EnvScanCount  = "SCAN_COUNT"
	EnvHardened   = "HARDENED"
)

// Defaults of the optional settings.
const (
	DefaultChiaRoot  = "~/.chia/mainnet"
	DefaultPuzzleDir = ""
	DefaultScanCount = 50
)

// ErrConfiguration a setting is missing or malformed.
var ErrConfiguration = errors.New("invalid configuration")

// Config holds the settings of a wallet scan.
type Config struct {
	Mnemonic   string
	Passphrase string
	// ChiaRoot is the node's root directory holding config/config.yaml.
	ChiaRoot  string
	AssetID   *clvm.Bytes32 // nil scans plain XCH coins
	PuzzleDir string
	ScanCount uint32
	Hardened  bool
}

// LoadConfig loads the given .env files into the environment and reads the
// configuration from it. Missing files are skipped and variables that are
// already set are not overridden.
func LoadConfig(files ...string) (*Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "loading %s: %v", f, err)
		}
	}

	cfg := &Config{
		Mnemonic:   strings.TrimSpace(os.Getenv(EnvMnemonic)),
		Passphrase: os.Getenv(EnvPassphrase),
		ChiaRoot:   utils.ExpandHome(getenv(EnvChiaRoot, DefaultChiaRoot)),
		PuzzleDir:  getenv(EnvPuzzleDir, DefaultPuzzleDir),
		ScanCount:  DefaultScanCount,
	}
	if cfg.Mnemonic == "" {
		return nil, errors.Wrapf(ErrConfiguration, "%s not set", EnvMnemonic)
	}
	if v := os.Getenv(EnvAssetID); v != "" {
		id, err := clvm.Bytes32FromHex(v)
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "%s: %v", EnvAssetID, err)
		}
		cfg.AssetID = &id
	}
	if v := os.Getenv(EnvScanCount); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "%s: %v", EnvScanCount, err)
		}
		cfg.ScanCount = uint32(n)
	}
	if v := os.Getenv(EnvHardened); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "%s: %v", EnvHardened, err)
		}
		cfg.Hardened = b
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// MasterKey derives the master private key from the mnemonic.
func (c *Config) MasterKey() (bls.PrivateKey, error) {
	sk, err := wallet.MasterKeyFromMnemonic(c.Mnemonic, c.Passphrase)
	if err != nil {
		return bls.PrivateKey{}, errors.Wrap(ErrConfiguration, err.Error())
	}
	return sk, nil
}

// TemplateDir returns the directory of template overrides, or "" if the
// embedded templates are used. A relative PuzzleDir is taken relative to
// the working directory.
func (c *Config) TemplateDir() string {
	if c.PuzzleDir == "" {
		return ""
	}
	return filepath.Clean(c.PuzzleDir)
}
