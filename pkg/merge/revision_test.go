package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionIsSentinel(t *testing.T) {
	t.Parallel()

	assert.True(t, Choice.IsSentinel())
	assert.True(t, Conflict.IsSentinel())
	assert.False(t, Left.IsSentinel())
	assert.False(t, Base.IsSentinel())
	assert.False(t, Right.IsSentinel())
	assert.False(t, Revision("mine").IsSentinel())
}

func TestRevisionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LEFT", Left.String())
	assert.Equal(t, "mine", Revision("mine").String())
}
