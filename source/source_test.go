package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	c := in.Intern("foo")

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, "foo", in.Lookup(a))
	require.Equal(t, "bar", in.Lookup(b))
	require.Equal(t, 2, in.Len())
}

func TestFileLineCol(t *testing.T) {
	f := NewFile(0, "test.php", KindPath, "<?php\necho 1;\n")
	line, col := f.LineCol(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = f.LineCol(6) // 'e' of echo
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)
}

func TestSpanContainsAndJoin(t *testing.T) {
	outer := NewSpan(0, 0, 10)
	inner := NewSpan(0, 2, 5)
	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))

	joined := NewSpan(0, 2, 5).Join(NewSpan(0, 7, 9))
	require.Equal(t, NewSpan(0, 2, 9), joined)
}

func TestSpanZero(t *testing.T) {
	require.True(t, NewSpan(0, 4, 4).Zero())
	require.False(t, NewSpan(0, 4, 5).Zero())
}
