// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"github.com/pkg/errors"
)

var (
	// ErrTransport a full node request failed or was rejected by the node.
	ErrTransport = errors.New("full node request failed")
	// ErrNodeConfig the chia configuration could not be read.
	ErrNodeConfig = errors.New("invalid node configuration")
)
