package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherMatchesIsomorphicSubtrees(t *testing.T) {
	t.Parallel()

	left := branch("class_body", false, leaf("identifier", "a"), leaf("identifier", "b"))
	right := branch("class_body", false, leaf("identifier", "a"), leaf("identifier", "b"))

	num := NewNumbering()
	l := BuildTree[*fakeNode](Left, left, num)
	r := BuildTree[*fakeNode](Right, right, num)

	ms := NewMatcher[*fakeNode]().Match(l, r)

	require.True(t, ms.Contains(l))
	img, ok := ms.Image(l)
	require.True(t, ok)
	assert.Same(t, r, img)

	require.Len(t, ms.Links(), 3)
}

func TestMatcherOrderedChildrenAlignByLCS(t *testing.T) {
	t.Parallel()

	// right drops the middle statement; the surrounding two should still
	// align to their left counterparts.
	left := branch("block", true, leaf("identifier", "a"), leaf("identifier", "b"), leaf("identifier", "c"))
	right := branch("block", true, leaf("identifier", "a"), leaf("identifier", "c"))

	num := NewNumbering()
	l := BuildTree[*fakeNode](Left, left, num)
	r := BuildTree[*fakeNode](Right, right, num)

	ms := NewMatcher[*fakeNode]().Match(l, r)

	aImg, ok := ms.Image(l.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "a", aImg.Node().Label())

	cImg, ok := ms.Image(l.Children()[2])
	require.True(t, ok)
	assert.Equal(t, "c", cImg.Node().Label())

	_, ok = ms.Image(l.Children()[1])
	assert.False(t, ok, "the dropped middle statement should be left unmatched")
}

func TestMatcherUnorderedChildrenUseHungarianAssignment(t *testing.T) {
	t.Parallel()

	leftMembers := []*fakeNode{leaf("method", "foo"), leaf("method", "bar")}
	rightMembers := []*fakeNode{leaf("method", "bar"), leaf("method", "foo")}

	for _, m := range leftMembers {
		m.unique = true
	}

	for _, m := range rightMembers {
		m.unique = true
	}

	left := branch("class_body", false, leftMembers...)
	right := branch("class_body", false, rightMembers...)

	num := NewNumbering()
	l := BuildTree[*fakeNode](Left, left, num)
	r := BuildTree[*fakeNode](Right, right, num)

	ms := NewMatcher[*fakeNode]().Match(l, r)

	fooImg, ok := ms.Image(l.Children()[0])
	require.True(t, ok)
	assert.Equal(t, "foo", fooImg.Node().Label())

	barImg, ok := ms.Image(l.Children()[1])
	require.True(t, ok)
	assert.Equal(t, "bar", barImg.Node().Label())
}

func TestMatcherLookAheadRecoversMatchAfterMismatch(t *testing.T) {
	t.Parallel()

	// left wraps an extra "wrapper" level around a "block" that right has
	// at its root directly: the roots themselves never correspond, but
	// the nested block is isomorphic to right's whole tree.
	newTrees := func() (*Artifact[*fakeNode], *Artifact[*fakeNode]) {
		left := branch("wrapper", true, branch("block", true, leaf("identifier", "x")))
		right := branch("block", true, leaf("identifier", "x"))

		num := NewNumbering()

		return BuildTree[*fakeNode](Left, left, num), BuildTree[*fakeNode](Right, right, num)
	}

	l, r := newTrees()
	ms := NewMatcher[*fakeNode]().Match(l, r)
	_, matched := ms.Image(l.Children()[0])
	assert.False(t, matched, "no look-ahead: the nested block is left unmatched")

	l2, r2 := newTrees()
	ms2 := NewMatcherWithLookAhead[*fakeNode](2).Match(l2, r2)
	img, matched2 := ms2.Image(l2.Children()[0])
	require.True(t, matched2, "look-ahead should recover the nested block as r's match")
	assert.Same(t, r2, img)
}

func TestMatcherDoesNotRematchAlreadyMatchedNodes(t *testing.T) {
	t.Parallel()

	num := NewNumbering()
	l := BuildTree[*fakeNode](Left, leaf("identifier", "a"), num)
	r := BuildTree[*fakeNode](Right, leaf("identifier", "a"), num)

	m := NewMatcher[*fakeNode]()
	ms := NewMatchings[*fakeNode]()
	ms.Add(l, r, 5)

	m.matchNode(l, r, ms)

	assert.Len(t, ms.Links(), 1)
	assert.Equal(t, 5, ms.Links()[0].Score)
}
