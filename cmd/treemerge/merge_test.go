package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTriplesThreeWay(t *testing.T) {
	t.Parallel()

	triples, err := groupTriples([]string{"l1", "b1", "r1", "l2", "b2", "r2"}, false)
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, triple{left: "l1", base: "b1", right: "r1"}, triples[0])
	assert.Equal(t, triple{left: "l2", base: "b2", right: "r2"}, triples[1])
}

func TestGroupTriplesRejectsWrongCount(t *testing.T) {
	t.Parallel()

	_, err := groupTriples([]string{"l1", "b1"}, false)
	assert.ErrorIs(t, err, ErrTripleArgCount)

	_, err = groupTriples(nil, false)
	assert.ErrorIs(t, err, ErrTripleArgCount)
}

func TestGroupTriplesTwoWay(t *testing.T) {
	t.Parallel()

	triples, err := groupTriples([]string{"l1", "r1", "l2", "r2"}, true)
	require.NoError(t, err)
	require.Len(t, triples, 2)
	assert.Equal(t, triple{left: "l1", right: "r1"}, triples[0])
	assert.Equal(t, triple{left: "l2", right: "r2"}, triples[1])
}

func TestGroupTriplesTwoWayRejectsOddCount(t *testing.T) {
	t.Parallel()

	_, err := groupTriples([]string{"l1", "r1", "l2"}, true)
	assert.ErrorIs(t, err, ErrTripleArgCount)
}

func TestWriteResultToStdoutWhenNoOutDir(t *testing.T) {
	t.Parallel()

	err := writeResult("left.java", "", "merged text", true)
	assert.NoError(t, err)
}

func TestWriteResultWritesFileUnderOutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := writeResult(filepath.Join("some", "path", "Left.java"), dir, "merged text", true)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Left.java"))
	require.NoError(t, err)
	assert.Equal(t, "merged text", string(data))
}
