package clipboard

import (
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Writer = System{}
	_ Writer = (*Memory)(nil)
)

func TestMemory_KeepsLastWrite(t *testing.T) {
	var m Memory
	assert.Empty(t, m.Last())

	require.NoError(t, m.Write("#fff"))
	require.NoError(t, m.Write("#000"))
	assert.Equal(t, "#000", m.Last())
}

func TestNew_FallsBackWhenUnsupported(t *testing.T) {
	sink := New()
	if clipboard.Unsupported {
		assert.IsType(t, &Memory{}, sink)
		return
	}
	assert.IsType(t, System{}, sink)
}

func TestSystem_UnsupportedIsAnError(t *testing.T) {
	if !clipboard.Unsupported {
		t.Skip("system clipboard available")
	}
	require.Error(t, System{}.Write("#fff"))
}
