// SPDX-License-Identifier: Apache-2.0

package utils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"perun.network/perun-chia-backend/utils"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, utils.SetHomeDir())
	assert.Equal(t, home, utils.ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, ".chia", "mainnet"), utils.ExpandHome("~/.chia/mainnet"))
	assert.Equal(t, "/srv/chia", utils.ExpandHome("/srv/chia"))
	assert.Equal(t, "~other/chia", utils.ExpandHome("~other/chia"))
}
