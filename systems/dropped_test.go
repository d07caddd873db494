package systems

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDroppedModel(t *testing.T) {
	e := newWorld(t)
	files := fstest.MapFS{
		"notes.txt":  {Data: []byte("hello")},
		"Avatar.GLB": {Data: boxGLB(t, [3]float32{}, [3]float32{1, 1, 1}, true)},
	}

	name, err := LoadDroppedModel(e, NewLoaders(nil), files)

	require.NoError(t, err)
	assert.Equal(t, "Avatar.GLB", name)
	assert.Equal(t, 1, countTagged(e, tags.Model))
}

func TestLoadDroppedModelWithoutGLB(t *testing.T) {
	e := newWorld(t)
	_, err := LoadDroppedModel(e, NewLoaders(nil), fstest.MapFS{"a.txt": {}})
	assert.ErrorIs(t, err, ErrNoModelFile)
}

func TestLoadDroppedModelKeepsCurrentOnFailure(t *testing.T) {
	e := newWorld(t)
	entry, err := LoadModel(e, NewLoaders(nil), boxGLB(t, [3]float32{}, [3]float32{1, 1, 1}, false))
	require.NoError(t, err)
	current := components.Model.Get(entry).Asset

	name, err := LoadDroppedModel(e, NewLoaders(nil), fstest.MapFS{"broken.glb": {Data: []byte("xx")}})

	assert.Equal(t, "broken.glb", name)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.False(t, current.Destroyed())
}
