package glbgen

import (
	"bytes"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrips(t *testing.T) {
	data, err := Box([3]float32{1, 2, 3}, [3]float32{1, 1, 1}, true)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("glTF")), "binary container magic")

	var doc gltf.Document
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc))
	assert.Len(t, doc.Nodes, 1)
	assert.Len(t, doc.Meshes, 1)
	require.Len(t, doc.Animations, 1)
	assert.Equal(t, "spin", doc.Animations[0].Name)
	assert.Len(t, doc.Animations[0].Channels, 1)
}

func TestBuilderHierarchy(t *testing.T) {
	b := New("test")
	root := b.AddNode("root", -1, [3]float32{0, 1, 0})
	child := b.AddBox("child", root, [3]float32{}, [3]float32{0.5, 0.5, 0.5}, [4]float32{1, 0, 0, 1})

	doc := b.Document()
	assert.Equal(t, []uint32{uint32(root)}, doc.Scenes[0].Nodes)
	assert.Equal(t, []uint32{uint32(child)}, doc.Nodes[root].Children)
}
