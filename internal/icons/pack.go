package icons

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/picturedesk/picturedesk/internal/errors"
)

// Pack is an icon pack file:
//
//	prefix: far
//	icons:
//	  - name: heart
//	    codepoint: f004
//
// Entries without a prefix inherit the pack prefix.
type Pack struct {
	Prefix string       `yaml:"prefix"`
	Icons  []Definition `yaml:"icons"`
}

// Definitions returns the pack's icons with the pack prefix applied.
func (p Pack) Definitions() []Definition {
	defs := make([]Definition, len(p.Icons))
	for i, d := range p.Icons {
		if d.Prefix == "" {
			d.Prefix = p.Prefix
		}
		defs[i] = d
	}
	return defs
}

// DecodePack reads a YAML icon pack. Unknown fields are rejected.
func DecodePack(r io.Reader) (Pack, error) {
	var p Pack
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Pack{}, nil
		}
		return Pack{}, errors.New(fmt.Errorf("parse icon pack: %w", err)).
			Component("icons").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return p, nil
}

// LoadPackFile reads and decodes the icon pack at path.
func LoadPackFile(path string) (Pack, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from config
	if err != nil {
		return Pack{}, errors.FileError(fmt.Errorf("read icon pack: %w", err), path, 0)
	}
	return DecodePack(bytes.NewReader(data))
}

// LoadPacks registers the icons of every pack file into r, in order.
func LoadPacks(r *Registry, paths ...string) (int, error) {
	added := 0
	for _, path := range paths {
		p, err := LoadPackFile(path)
		if err != nil {
			return added, err
		}
		defs := p.Definitions()
		if err := r.AddAll(defs...); err != nil {
			return added, fmt.Errorf("icon pack %s: %w", path, err)
		}
		added += len(defs)
	}
	return added, nil
}
