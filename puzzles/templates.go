// SPDX-License-Identifier: Apache-2.0

package puzzles

import (
	"embed"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"perun.network/perun-chia-backend/clvm"
)

// Template is a named, uncurried puzzle program.
type Template struct {
	name    string
	program *clvm.Program

	hashOnce sync.Once
	hash     clvm.Bytes32
}

// NewTemplate wraps program as a template.
func NewTemplate(name string, program *clvm.Program) *Template {
	return &Template{name: name, program: program}
}

// ParseTemplate decodes a hex serialized template.
func ParseTemplate(name string, hexText string) (*Template, error) {
	p, err := clvm.DeserializeHex(hexText)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTemplate, "%s: %v", name, err)
	}
	return NewTemplate(name, p), nil
}

// Name returns the template name, which is the file name without suffix.
func (t *Template) Name() string {
	return t.name
}

// Program returns the uncurried program.
func (t *Template) Program() *clvm.Program {
	return t.program
}

// Hash returns the tree hash of the uncurried program.
func (t *Template) Hash() clvm.Bytes32 {
	t.hashOnce.Do(func() {
		t.hash = t.program.TreeHash()
	})
	return t.hash
}

// TemplateExt is the file suffix of hex serialized templates.
const TemplateExt = ".clvm.hex"

//go:embed hex/*.clvm.hex
var embedded embed.FS

func mustEmbedded(name string) *Template {
	data, err := embedded.ReadFile("hex/" + name + TemplateExt)
	if err != nil {
		panic("logic error: missing embedded template " + name)
	}
	t, err := ParseTemplate(name, string(data))
	if err != nil {
		panic(err)
	}
	return t
}

var (
	// StandardTemplate is p2_delegated_puzzle_or_hidden_puzzle, the
	// ownership puzzle of standard wallets.
	StandardTemplate = mustEmbedded("p2_delegated_puzzle_or_hidden_puzzle")
	// SyntheticPublicKeyTemplate computes pk + G1·sha256(pk ‖ hidden hash).
	SyntheticPublicKeyTemplate = mustEmbedded("calculate_synthetic_public_key")
	// PayToConditionsTemplate quotes its argument, (c (q . 1) 2).
	PayToConditionsTemplate = mustEmbedded("p2_conditions")
	// DefaultHiddenPuzzle always fails.
	DefaultHiddenPuzzle = mustEmbedded("default_hidden_puzzle")
)

// Template names of the token wrapper and minting authority puzzles.
const (
	CATName                     = "cat"
	GenesisByCoinIDName         = "genesis_by_coin_id"
	GenesisByPuzzleHashName     = "genesis_by_puzzle_hash"
	EverythingWithSignatureName = "everything_with_signature"
)

var (
	// GenesisByCoinIDTemplate is the single issuance TAIL.
	GenesisByCoinIDTemplate = mustEmbedded(GenesisByCoinIDName)
	// GenesisByPuzzleHashTemplate is the TAIL bound to a parent puzzle hash.
	GenesisByPuzzleHashTemplate = mustEmbedded(GenesisByPuzzleHashName)
	// EverythingWithSignatureTemplate is the signature authorized TAIL.
	EverythingWithSignatureTemplate = mustEmbedded(EverythingWithSignatureName)
)

// CATModHash is the tree hash of the CAT v2 outer puzzle. Puzzle hashes of
// CATs only need this hash, the program itself is loaded with
// LoadTemplates.
var CATModHash = clvm.MustBytes32FromHex("37bef360ee858133b69d595a906dc45d01af50379dad515eb9518abb7c1d2a7a")

// TemplateSet holds the token wrapper and minting authority templates. CAT
// is nil unless it was loaded.
type TemplateSet struct {
	CAT                     *Template
	GenesisByCoinID         *Template
	GenesisByPuzzleHash     *Template
	EverythingWithSignature *Template
}

// DefaultTemplates returns the embedded TAIL templates.
func DefaultTemplates() *TemplateSet {
	return &TemplateSet{
		GenesisByCoinID:         GenesisByCoinIDTemplate,
		GenesisByPuzzleHash:     GenesisByPuzzleHashTemplate,
		EverythingWithSignature: EverythingWithSignatureTemplate,
	}
}

// CATModHash returns the hash of the loaded CAT template, or the CAT v2
// hash if none was loaded.
func (s *TemplateSet) CATModHash() clvm.Bytes32 {
	if s == nil || s.CAT == nil {
		return CATModHash
	}
	return s.CAT.Hash()
}

// LoadTemplates reads <name>.clvm.hex files from dir. Each file present
// overrides the default template of its name, missing files keep the
// defaults of DefaultTemplates.
func LoadTemplates(dir string) (*TemplateSet, error) {
	set := DefaultTemplates()
	for _, slot := range []struct {
		name   string
		target **Template
	}{
		{CATName, &set.CAT},
		{GenesisByCoinIDName, &set.GenesisByCoinID},
		{GenesisByPuzzleHashName, &set.GenesisByPuzzleHash},
		{EverythingWithSignatureName, &set.EverythingWithSignature},
	} {
		path := filepath.Join(dir, slot.name+TemplateExt)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, errors.Wrapf(ErrTemplateNotFound, "%s: %v", path, err)
		}
		if *slot.target, err = ParseTemplate(slot.name, string(data)); err != nil {
			return nil, err
		}
	}
	return set, nil
}
