// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferWrite(t *testing.T) {
	a := newFixed(t, 4096)
	defer a.Release()

	b := NewBuffer(a)
	n, err := b.Write([]byte("hello "))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	n, err = b.WriteString("world")
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.NoError(t, b.WriteByte('!'))

	require.Equal(t, "hello world!", b.String())
	require.Equal(t, 12, b.Len())
	require.NotZero(t, a.Len())
}

func TestBufferNilArena(t *testing.T) {
	b := NewBuffer(nil)
	_, err := b.WriteString("heap backed")
	require.NoError(t, err)
	require.Equal(t, "heap backed", b.String())
}

func TestBufferEmptyWrites(t *testing.T) {
	a := newFixed(t, 64)
	defer a.Release()

	b := NewBuffer(a)
	n, err := b.Write(nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	n, err = b.WriteString("")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.Equal(t, 0, b.Len())
	require.Equal(t, 0, a.Len())
}

func TestBufferReadFrom(t *testing.T) {
	a := newFixed(t, 1<<16)
	defer a.Release()

	src := strings.Repeat("0123456789", 1000)
	b := NewBuffer(a)
	n, err := b.ReadFrom(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, int64(len(src)), n)
	require.Equal(t, src, b.String())
}

func TestBufferWriteTo(t *testing.T) {
	a := newFixed(t, 1024)
	defer a.Release()

	b := NewBuffer(a)
	_, err := b.WriteString("drain me")
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := b.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(8), n)
	require.Equal(t, "drain me", out.String())
	require.Equal(t, 0, b.Len())
}

func TestBufferTruncateAndReset(t *testing.T) {
	a := newFixed(t, 1024)
	defer a.Release()

	b := NewBuffer(a)
	_, err := b.WriteString("abcdef")
	require.NoError(t, err)

	b.Truncate(3)
	require.Equal(t, "abc", b.String())

	require.Panics(t, func() { b.Truncate(10) })
	require.Panics(t, func() { b.Truncate(-1) })

	b.Reset()
	require.Equal(t, 0, b.Len())

	// Storage survives Reset; appending again reuses it.
	used := a.Len()
	_, err = b.WriteString("xy")
	require.NoError(t, err)
	require.Equal(t, used, a.Len())
	require.Equal(t, "xy", b.String())
}

func TestBufferBytesAliasesArena(t *testing.T) {
	a := newFixed(t, 1024)
	defer a.Release()

	b := NewBuffer(a)
	_, err := b.WriteString("aliased")
	require.NoError(t, err)

	raw := b.Bytes()
	raw[0] = 'A'
	require.Equal(t, "Aliased", b.String())
}
