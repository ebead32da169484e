// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// SetHomeDir returns the user's home directory. It panics if there is none.
func SetHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}

// ExpandHome replaces a leading "~" in path by the home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return SetHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(SetHomeDir(), path[2:])
	}
	return path
}
