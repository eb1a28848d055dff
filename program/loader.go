// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package program

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wdamron/coherence/types"
)

// Format is the encoding of a program file.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf infers a file's format from its extension. Unrecognized extensions are read
// as program syntax.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatText
}

// File is the structured form of a program, as read from YAML or TOML:
//
//	traits:
//	  - name: Convert
//	    params: [T]
//	impls:
//	  - generics: [T]
//	    trait: Convert
//	    args: [u32]
//	    for: Vec<T>
//	    where: ["T: Clone"]
//
// Types and where-clauses are written in program syntax.
type File struct {
	Traits []TraitDecl `yaml:"traits" toml:"traits"`
	Impls  []ImplDecl  `yaml:"impls" toml:"impls"`
	// Source holds further declarations in program syntax, read after Traits and Impls.
	Source string `yaml:"source" toml:"source"`
}

type TraitDecl struct {
	Name   string   `yaml:"name" toml:"name"`
	Params []string `yaml:"params" toml:"params"`
	Marker bool     `yaml:"marker" toml:"marker"`
}

type ImplDecl struct {
	// Generics declares the implementation's generic parameters: `T`, `'a` or `const N`.
	Generics []string `yaml:"generics" toml:"generics"`
	Negative bool     `yaml:"negative" toml:"negative"`
	Foreign  bool     `yaml:"foreign" toml:"foreign"`
	Trait    string   `yaml:"trait" toml:"trait"`
	Args     []string `yaml:"args" toml:"args"`
	SelfType string   `yaml:"for" toml:"for"`
	Where    []string `yaml:"where" toml:"where"`
}

// Load reads a program from a file, choosing the format by extension.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read program")
	}
	p, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return p, nil
}

// Parse reads a program in the given format.
func Parse(data []byte, format Format) (*Program, error) {
	var f File
	switch format {
	case FormatText:
		return ParseProgram(string(data))
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML program")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(err, "failed to parse TOML program")
		}
	default:
		return nil, errors.Newf("unknown program format %q", format)
	}
	p := New()
	if err := p.DeclareFile(&f); err != nil {
		return nil, err
	}
	return p, nil
}

// DeclareFile adds the declarations of a structured program file to p.
func (p *Program) DeclareFile(f *File) error {
	for _, decl := range f.Traits {
		if _, err := p.DeclareTrait(decl.Name, len(decl.Params)+1, types.TraitFlags{Marker: decl.Marker}); err != nil {
			return err
		}
	}
	for i, decl := range f.Impls {
		if err := p.declareImpl(decl); err != nil {
			return errors.Wrapf(err, "impls[%d]", i)
		}
	}
	if strings.TrimSpace(f.Source) != "" {
		return errors.Wrap(p.Declare(f.Source), "source")
	}
	return nil
}

func (p *Program) declareImpl(decl ImplDecl) error {
	trait, ok := p.LookupTrait(decl.Trait)
	if !ok {
		return errors.Wrap(ErrUnknownTrait, decl.Trait)
	}
	if decl.SelfType == "" {
		return errors.WithHint(errors.Wrap(ErrMalformedImpl, "missing self type"), "set `for` to the implementing type")
	}

	bs := make([]binder, len(decl.Generics))
	for i, g := range decl.Generics {
		bs[i] = binderOf(g)
	}
	names := namesOf(bs)
	params := make([]types.Type, 0, len(decl.Args)+1)
	for _, src := range append([]string{decl.SelfType}, decl.Args...) {
		t, err := p.ParseType(src, decl.Generics...)
		if err != nil {
			return errors.Wrapf(err, "type %q", src)
		}
		params = append(params, t)
	}
	wcs := make([]types.WhereClause, 0, len(decl.Where))
	for _, src := range decl.Where {
		wc, err := p.ParseWhereClause(src, decl.Generics...)
		if err != nil {
			return errors.Wrapf(err, "where-clause %q", src)
		}
		wcs = append(wcs, wc)
	}

	polarity := types.Positive
	if decl.Negative {
		polarity = types.Negative
	}
	_, err := p.DeclareImpl(types.ImplDatum{
		Polarity: polarity,
		Foreign:  decl.Foreign,
		Binders: types.Binders[types.ImplBound]{
			Kinds: kindsOf(bs),
			Value: types.ImplBound{
				TraitRef:     types.TraitRef{Trait: trait.Id, Params: types.TypeListOf(params...)},
				WhereClauses: wcs,
			},
		},
		Names: names,
	})
	return err
}
