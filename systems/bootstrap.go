package systems

import (
	"math"

	"github.com/automoto/avatarview/archetypes"
	"github.com/automoto/avatarview/components"
	"github.com/automoto/avatarview/config"
	"github.com/automoto/avatarview/engine/gltfio"
	"github.com/automoto/avatarview/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/zap"
)

// AssetDecoder parses a GLB container into an asset.
type AssetDecoder interface {
	CreateAsset(data []byte) (*gltfio.Asset, error)
}

// ResourceReader loads the geometry and animation data of a decoded asset.
type ResourceReader interface {
	LoadResources(a *gltfio.Asset) error
}

// Loaders groups the collaborators LoadModel needs.
type Loaders struct {
	Assets    AssetDecoder
	Resources ResourceReader
	Logger    *zap.Logger
}

// NewLoaders returns the gltfio backed loaders.
func NewLoaders(logger *zap.Logger) Loaders {
	return Loaders{
		Assets:    gltfio.NewAssetLoader(logger),
		Resources: gltfio.NewResourceLoader(config.Render.DefaultColor, logger),
		Logger:    logger,
	}
}

// LoadModel decodes data, loads its resources, normalizes it into a cube of
// config.Asset.NormalizedSize centered on the origin and registers it with
// the world. Nothing is registered unless every step succeeds; a model that
// was already loaded is replaced only then.
func LoadModel(e *ecs.ECS, loaders Loaders, data []byte) (*donburi.Entry, error) {
	logger := loaders.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	asset, err := loaders.Assets.CreateAsset(data)
	if err != nil {
		return nil, &LoadError{Kind: DecodeError, Err: err}
	}
	if asset == nil {
		return nil, &LoadError{Kind: DecodeError, Err: gltfio.ErrEmptyAsset}
	}

	if err := loaders.Resources.LoadResources(asset); err != nil {
		asset.Destroy()
		return nil, &LoadError{Kind: ResourceLoadError, Err: err}
	}

	var animator components.Animator
	if a, ok := asset.Animator(); ok {
		animator = a
	} else {
		logger.Info("asset has no animator", zap.String("asset", asset.Name()))
	}

	box := asset.BoundingBox()
	normalization := UnitScaleTransform(box, config.Asset.NormalizedSize, config.Asset.SizeEpsilon)
	asset.SetRootTransform(normalization)
	asset.ReleaseSourceData()

	UnloadModel(e)

	entry := archetypes.Model.Spawn(e)
	model := components.Model.Get(entry)
	model.Asset = asset
	model.Animator = animator
	model.Normalization = normalization
	for _, r := range asset.Renderables() {
		node := archetypes.MeshNode.Spawn(e)
		components.MeshNode.SetValue(node, components.MeshNodeData{Asset: asset, Renderable: r})
		model.Nodes = append(model.Nodes, node.Entity())
	}

	size := box.Size()
	logger.Info("model loaded",
		zap.String("asset", asset.Name()),
		zap.Int("renderables", len(model.Nodes)),
		zap.Float64s("size", size[:]),
	)
	return entry, nil
}

// UnloadModel detaches the entities of the loaded model from the world and
// destroys its asset. It does nothing when no model is loaded.
func UnloadModel(e *ecs.ECS) {
	entries := make([]*donburi.Entry, 0, 1)
	tags.Model.Each(e.World, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})
	for _, entry := range entries {
		model := components.Model.Get(entry)
		for _, node := range model.Nodes {
			if e.World.Valid(node) {
				e.World.Remove(node)
			}
		}
		if model.Asset != nil {
			model.Asset.Destroy()
		}
		e.World.Remove(entry.Entity())
	}
}

// UnitScaleTransform returns the matrix that moves the center of box to the
// origin and scales its largest side to size. Sides smaller than epsilon
// count as epsilon, so degenerate boxes stay finite.
func UnitScaleTransform(box gltfio.AABB, size, epsilon float64) mgl64.Mat4 {
	extent := box.Size()
	maxSide := math.Max(extent.X(), math.Max(extent.Y(), extent.Z()))
	maxSide = math.Max(maxSide, epsilon)
	scale := size / maxSide
	center := box.Center()
	return mgl64.Scale3D(scale, scale, scale).Mul4(mgl64.Translate3D(-center.X(), -center.Y(), -center.Z()))
}
