// SPDX-License-Identifier: Apache-2.0

// Package client scans the chain for the coins of a hierarchical wallet. It
// derives the standard and CAT puzzle hashes of a range of indices from the
// master key and looks them up at a full node.
package client // import "perun.network/perun-chia-backend/client"
