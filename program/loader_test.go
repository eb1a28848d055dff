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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/coherence/types"
)

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("b.YML"))
	assert.Equal(t, FormatTOML, FormatOf("b.toml"))
	assert.Equal(t, FormatText, FormatOf("b.coh"))
	assert.Equal(t, FormatText, FormatOf("b"))
}

func TestLoadStructured(t *testing.T) {
	expected := []string{
		"impl Clone for u32",
		"impl<T> Clone for Vec<T> where T: Clone",
		"impl<T> Convert<u64> for Vec<T> where T: Clone",
		"impl Convert<u64> for Vec<u32>",
		"impl !Convert<u64> for Vec<String>",
		"extern impl Clone for String",
		"impl<'a> Clone for Ref<'a, u32>",
	}
	for _, path := range []string{"testdata/conversions.yaml", "testdata/conversions.toml"} {
		t.Run(path, func(t *testing.T) {
			p, err := Load(path)
			require.NoError(t, err)

			convert, ok := p.LookupTrait("Convert")
			require.True(t, ok)
			assert.Equal(t, 2, convert.Arity)

			var impls []string
			for id := 0; p.ImplDatum(types.ImplId(id)) != nil; id++ {
				impls = append(impls, p.ImplString(types.ImplId(id)))
			}
			assert.Equal(t, expected, impls)

			clone, _ := p.LookupTrait("Clone")
			assert.Equal(t, []types.ImplId{0, 1, 6}, p.LocalImplsToCoherenceCheck(clone.Id))
		})
	}
}

func TestLoadText(t *testing.T) {
	p, err := Load("testdata/specialization.coh")
	require.NoError(t, err)
	display, ok := p.LookupTrait("Display")
	require.True(t, ok)
	assert.Len(t, p.LocalImplsToCoherenceCheck(display.Id), 3)
	send, _ := p.LookupTrait("Send")
	assert.True(t, send.Flags.Marker)
}

func TestParseErrors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = Parse([]byte("traits: [{name: Clone}]\nimpls: [{trait: Copy, for: u8}]"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "impls[0]")

	_, err = Parse([]byte("traits: [{name: Clone}]\nimpls: [{trait: Clone}]"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing self type")

	_, err = Parse([]byte(`[[impls]`), FormatTOML)
	assert.Error(t, err)

	_, err = Parse(nil, Format("json"))
	assert.Error(t, err)
}
