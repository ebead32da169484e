// SPDX-License-Identifier: Apache-2.0

// Package ledger contains the coin types of the chain and a client for the
// RPC interface of a full node. The client authenticates with the private
// full node certificate of a local chia installation.
package ledger // import "perun.network/perun-chia-backend/ledger"
