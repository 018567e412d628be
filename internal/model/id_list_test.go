package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDListValueScan(t *testing.T) {
	l := IDList{"aaa", "bbb", "ccc"}

	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "aaa,bbb,ccc", v)

	var back IDList
	require.NoError(t, back.Scan(v))
	assert.Equal(t, l, back)
}

func TestIDListEmpty(t *testing.T) {
	v, err := IDList{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "", v)

	var back IDList
	require.NoError(t, back.Scan(""))
	assert.Empty(t, back)

	require.NoError(t, back.Scan(nil))
	assert.Empty(t, back)
}

func TestIDListRejectsComma(t *testing.T) {
	_, err := IDList{"a,b"}.Value()
	assert.Error(t, err)
}

func TestIDListSetSemantics(t *testing.T) {
	var l IDList

	assert.True(t, l.Add("abc"))
	assert.False(t, l.Add("abc"))
	assert.Equal(t, IDList{"abc"}, l)
	assert.True(t, l.Contains("abc"))

	assert.True(t, l.Remove("abc"))
	assert.False(t, l.Remove("abc"))
	assert.False(t, l.Contains("abc"))
}
