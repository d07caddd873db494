package assets

import (
	"bytes"
	"testing"

	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine/gltfio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarLoads(t *testing.T) {
	require.True(t, bytes.HasPrefix(Avatar, []byte("glTF")))

	a, err := gltfio.NewAssetLoader(nil).CreateAsset(Avatar)
	require.NoError(t, err)
	require.NoError(t, gltfio.NewResourceLoader(config.Render.DefaultColor, nil).LoadResources(a))

	assert.Len(t, a.Renderables(), 4)
	animator, ok := a.Animator()
	require.True(t, ok)
	require.Equal(t, 1, animator.AnimationCount())
	assert.Equal(t, "Walk", animator.AnimationName(0))
	assert.InDelta(t, 2, animator.AnimationDuration(0), 1e-6)
	assert.NoError(t, animator.ApplyAnimation(0, 0.75))
}

func TestDefaultConfigApplies(t *testing.T) {
	t.Cleanup(config.Reset)
	require.NoError(t, config.Apply(DefaultConfig))
	assert.Equal(t, 10.0, config.Camera.DefaultPitch)
	assert.Equal(t, "Avatar Viewer", config.C.Title)
}
