package linebased

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIdenticalSidesShortcuts(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	result, err := Merge(strings.NewReader("same\n"), strings.NewReader("same\n"), strings.NewReader("same\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, "same\n", out.String())
}

func TestMergeDisjointEditsBothApply(t *testing.T) {
	t.Parallel()

	base := "one\ntwo\nthree\n"
	left := "one\nTWO\nthree\n"
	right := "one\ntwo\nTHREE\n"

	var out strings.Builder

	result, err := Merge(strings.NewReader(left), strings.NewReader(base), strings.NewReader(right), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, "one\nTWO\nTHREE\n", out.String())
}

func TestMergeOverlappingEditsConflict(t *testing.T) {
	t.Parallel()

	base := "one\ntwo\nthree\n"
	left := "one\nLEFT\nthree\n"
	right := "one\nRIGHT\nthree\n"

	var out strings.Builder

	result, err := Merge(strings.NewReader(left), strings.NewReader(base), strings.NewReader(right), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Conflicts)

	text := out.String()
	assert.Contains(t, text, leftMarker+"LEFT\n")
	assert.Contains(t, text, midMarker)
	assert.Contains(t, text, rightMarker+"RIGHT\n")
	assert.Contains(t, text, "LEFT\n")
	assert.Contains(t, text, "RIGHT\n")
}

func TestMergeIdenticalOverlappingEditsCollapse(t *testing.T) {
	t.Parallel()

	base := "one\ntwo\nthree\n"
	left := "one\nCHANGED\nthree\n"
	right := "one\nCHANGED\nthree\n"

	var out strings.Builder

	result, err := Merge(strings.NewReader(left), strings.NewReader(base), strings.NewReader(right), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, "one\nCHANGED\nthree\n", out.String())
}

func TestMergeNoBaseDisjointTextsBothKept(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	result, err := Merge(strings.NewReader("hello"), nil, strings.NewReader("goodbye"), &out)
	require.NoError(t, err)
	assert.Positive(t, result.Conflicts)
	assert.Contains(t, out.String(), leftMarker)
	assert.Contains(t, out.String(), rightMarker)
}

func TestMergeNoBaseIdenticalTextsShortcut(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	result, err := Merge(strings.NewReader("same"), nil, strings.NewReader("same"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Conflicts)
	assert.Equal(t, "same", out.String())
}

func TestWriteConflictLabelsBothMarkersCorrectly(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	writeConflict(&b, "mine text", "", "theirs text", "MINE", "THEIRS", false)

	text := b.String()
	assert.Contains(t, text, leftMarker+"MINE\n")
	assert.Contains(t, text, rightMarker+"THEIRS\n")
	assert.NotContains(t, text, rightMarker+"MINE\n")
}
