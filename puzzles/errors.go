// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidTemplate a template file did not hold a valid program.
	ErrInvalidTemplate = errors.New("invalid puzzle template")
	// ErrTemplateNotFound a template file could not be read.
	ErrTemplateNotFound = errors.New("puzzle template not found")
	// ErrTemplateMismatch a program is not an instance of the expected template.
	ErrTemplateMismatch = errors.New("program does not match template")
)
