package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseParams_Empty(t *testing.T) {
	p, err := ParseParams("  ")

	require.NoError(t, err)
	assert.Equal(t, DefaultStyle(), p.Style())
	assert.True(t, p.isFSM())
	assert.True(t, p.isDirected())
}

func TestParseParams_Values(t *testing.T) {
	p, err := ParseParams(`{"noderadius": 30, "fontsize": 16, "isfsm": false, "isdirected": false, "locknodes": true}`)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	st := p.Style()
	assert.Equal(t, 30.0, st.NodeRadius)
	assert.Equal(t, 16.0, st.FontSize)
	assert.Equal(t, DefaultTextOffset, st.TextOffset)
	assert.False(t, st.Directed)
	assert.False(t, p.isFSM())

	n := p.normalized()
	assert.True(t, n.LockNodePositions)
	assert.False(t, n.LockEdgePositions)
}

func TestParseParams_Malformed(t *testing.T) {
	_, err := ParseParams(`{"noderadius": "big"}`)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParams_Validate_Ranges(t *testing.T) {
	assert.ErrorIs(t, Params{NodeRadius: -1}.Validate(), ErrInvalidParams)
	assert.ErrorIs(t, Params{FontSize: 1000}.Validate(), ErrInvalidParams)
	assert.ErrorIs(t, Params{TextOffset: 101}.Validate(), ErrInvalidParams)
	assert.NoError(t, Params{NodeRadius: 40, FontSize: 12, TextOffset: -3}.Validate())
}

func TestParams_YAML(t *testing.T) {
	var p Params
	err := yaml.Unmarshal([]byte("noderadius: 20\nisfsm: false\nlockedgeset: true\n"), &p)

	require.NoError(t, err)
	assert.Equal(t, 20.0, p.Style().NodeRadius)
	assert.False(t, p.isFSM())
	assert.True(t, p.LockEdgeSet)
}
