package clipboard

import (
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := &Memory{}
	assert.Empty(t, m.Text())

	require.NoError(t, m.Copy(" latitude: 1.00000"))
	require.NoError(t, m.Copy(" longitude: 2.00000"))
	assert.Equal(t, " longitude: 2.00000", m.Text())
	assert.Equal(t, 2, m.Copies())
}

func TestDetect(t *testing.T) {
	c := Detect()
	if clipboard.Unsupported {
		assert.IsType(t, &Memory{}, c)
		assert.ErrorIs(t, System{}.Copy("x"), ErrUnsupported)
		return
	}
	assert.IsType(t, System{}, c)
}
