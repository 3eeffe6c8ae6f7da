package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingsAddAndImage(t *testing.T) {
	t.Parallel()

	num := NewNumbering()
	l := CreateEmpty[*fakeNode](Left, leaf("identifier", "x"), num)
	r := CreateEmpty[*fakeNode](Right, leaf("identifier", "x"), num)

	ms := NewMatchings[*fakeNode]()
	m := ms.Add(l, r, 3)

	require.True(t, ms.Contains(l))
	require.True(t, ms.Contains(r))

	img, ok := ms.Image(l)
	require.True(t, ok)
	assert.Same(t, r, img)

	other, ok := m.Other(l)
	require.True(t, ok)
	assert.Same(t, r, other)

	_, ok = m.Other(CreateEmpty[*fakeNode](Left, leaf("identifier", "y"), num))
	assert.False(t, ok)
}

func TestMatchingsAddPanicsOnDoubleMatch(t *testing.T) {
	t.Parallel()

	num := NewNumbering()
	l := CreateEmpty[*fakeNode](Left, leaf("identifier", "x"), num)
	r := CreateEmpty[*fakeNode](Right, leaf("identifier", "x"), num)
	r2 := CreateEmpty[*fakeNode](Right, leaf("identifier", "y"), num)

	ms := NewMatchings[*fakeNode]()
	ms.Add(l, r, 1)

	assert.Panics(t, func() {
		ms.Add(l, r2, 1)
	})
}

func TestMatchingsTotalScore(t *testing.T) {
	t.Parallel()

	num := NewNumbering()
	ms := NewMatchings[*fakeNode]()

	for i := 0; i < 3; i++ {
		l := CreateEmpty[*fakeNode](Left, leaf("identifier", "x"), num)
		r := CreateEmpty[*fakeNode](Right, leaf("identifier", "x"), num)
		ms.Add(l, r, i+1)
	}

	assert.Equal(t, 6, ms.TotalScore())
	assert.Len(t, ms.Links(), 3)
}

func TestScenarioTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "two-way", TwoWay.String())
	assert.Equal(t, "three-way", ThreeWay.String())
}

func TestNewScenarioConstructors(t *testing.T) {
	t.Parallel()

	num := NewNumbering()
	l := BuildTree[*fakeNode](Left, leaf("identifier", "x"), num)
	b := BuildTree[*fakeNode](Base, leaf("identifier", "x"), num)
	r := BuildTree[*fakeNode](Right, leaf("identifier", "x"), num)

	three := NewThreeWayScenario(l, b, r)
	assert.Equal(t, ThreeWay, three.Type)
	assert.Same(t, b, three.Base)

	two := NewTwoWayScenario(l, r)
	assert.Equal(t, TwoWay, two.Type)
	assert.Nil(t, two.Base)
}
