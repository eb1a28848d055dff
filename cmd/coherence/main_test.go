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

package main

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COHERENCE_LOG_LEVEL", "error")
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "../../program/testdata/specialization.coh")
	require.NoError(t, err)
	assert.Contains(t, out, "trait Display: coherent\n")
	assert.Contains(t, out, "  impl Display for Vec<u8>\n    specializes impl<T> Display for Vec<T> where T: Clone\n")
	assert.Contains(t, out, "  low  impl<T> Display for T\n")
	assert.Contains(t, out, "  high impl Display for Vec<u8>\n")
	assert.Contains(t, out, "trait Clone: coherent\n  low  impl Clone for u8\n  low  impl<T> Clone for Vec<T> where T: Clone\n")
	assert.Contains(t, out, "trait Send: marker\n")
}

func TestCheckSelectedTraitWithStats(t *testing.T) {
	out, err := run(t, "check", "../../program/testdata/conversions.yaml", "--trait", "Clone", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "trait Clone: coherent\n")
	assert.NotContains(t, out, "trait Convert")
	assert.Contains(t, out, "statistics:\n")
	assert.Contains(t, out, "coherence_traits_checked_total{outcome=coherent} 1\n")

	_, err = run(t, "check", "../../program/testdata/conversions.toml", "--trait", "Missing")
	assert.Error(t, err)
}

func TestCheckOverlapping(t *testing.T) {
	out, err := run(t, "check", "../../program/testdata/overlapping.coh")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errIncoherent))
	assert.Contains(t, out, "trait Foo: error: overlapping implementations of trait Foo\n")
	assert.Contains(t, out, "trait Bar: coherent\n")
}

func TestProve(t *testing.T) {
	out, err := run(t, "prove", "../../program/testdata/specialization.coh", "Vec<u8>: Clone")
	require.NoError(t, err)
	assert.Equal(t, "unique\n", out)

	out, err = run(t, "prove", "../../program/testdata/specialization.coh", "exists<T> { T: Clone, Vec<T> = Vec<u8> }")
	require.NoError(t, err)
	assert.Equal(t, "unique\nwitness: u8\n", out)

	out, err = run(t, "prove", "../../program/testdata/specialization.coh", "Vec<u16>: Clone")
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)

	_, err = run(t, "prove", "../../program/testdata/specialization.coh", "Vec<u8>: Copy")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "coherence dev\n", out)
}

func TestBadConfig(t *testing.T) {
	_, err := run(t, "check", "--config", "missing.toml", "../../program/testdata/specialization.coh")
	assert.Error(t, err)
}
