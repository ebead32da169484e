// SPDX-License-Identifier: Apache-2.0

package client

import (
	"github.com/pkg/errors"
)

// ErrIndexRange a scan range reaches past the last derivation index.
var ErrIndexRange = errors.New("derivation index out of range")
