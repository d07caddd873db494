// Package gltfio loads binary glTF (GLB) assets for the engine: decoding,
// resource loading, bounds and animation playback.
package gltfio

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/automoto/avatarview/logging"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

var (
	// ErrEmptyAsset is returned for documents whose scene holds no triangle
	// primitive to show.
	ErrEmptyAsset = errors.New("asset has no triangle meshes")
	// ErrInvalidHierarchy is returned when a node has several parents or is its own ancestor.
	ErrInvalidHierarchy = errors.New("invalid node hierarchy")
)

// AssetLoader decodes glTF documents into assets.
type AssetLoader struct {
	logger *zap.Logger
}

// NewAssetLoader returns a loader. A nil logger disables logging.
func NewAssetLoader(logger *zap.Logger) *AssetLoader {
	return &AssetLoader{logger: logging.OrNop(logger).Named("gltfio")}
}

// CreateAsset decodes GLB (or embedded JSON glTF) bytes. Buffers are parsed
// but their contents are not interpreted until ResourceLoader.LoadResources.
func (l *AssetLoader) CreateAsset(data []byte) (*Asset, error) {
	if len(data) == 0 {
		return nil, errors.New("decode glTF: empty input")
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode glTF: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, ErrEmptyAsset
	}

	a := &Asset{
		doc:   doc,
		nodes: make([]node, len(doc.Nodes)),
		root:  mgl64.Ident4(),
		dirty: true,
	}
	for i, n := range doc.Nodes {
		a.nodes[i] = newNode(n)
	}
	if err := a.link(doc); err != nil {
		return nil, err
	}
	a.roots = sceneRoots(doc, a.nodes)
	a.name = assetName(doc)
	if !a.hasTriangles() {
		return nil, ErrEmptyAsset
	}

	l.logger.Debug("asset decoded",
		zap.String("name", a.name),
		zap.Int("nodes", len(a.nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("animations", len(doc.Animations)),
	)
	return a, nil
}

func newNode(n *gltf.Node) node {
	out := node{
		parent: -1,
		mesh:   -1,
		skin:   -1,
		scale:  mgl64.Vec3{1, 1, 1},
		world:  mgl64.Ident4(),
	}
	if n.Mesh != nil {
		out.mesh = int(*n.Mesh)
	}
	if n.Skin != nil {
		out.skin = int(*n.Skin)
	}

	m := n.MatrixOrDefault()
	var mat mgl64.Mat4
	for i := range m {
		mat[i] = float64(m[i])
	}
	if mat != mgl64.Ident4() {
		out.matrix = &mat
		return out
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	out.translation = mgl64.Vec3{float64(t[0]), float64(t[1]), float64(t[2])}
	out.rotation = mgl64.Quat{W: float64(r[3]), V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])}}
	out.scale = mgl64.Vec3{float64(s[0]), float64(s[1]), float64(s[2])}
	return out
}

func (a *Asset) link(doc *gltf.Document) error {
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			child := int(c)
			if child < 0 || child >= len(a.nodes) || child == i {
				return fmt.Errorf("%w: node %d has child %d", ErrInvalidHierarchy, i, child)
			}
			if a.nodes[child].parent != -1 {
				return fmt.Errorf("%w: node %d has several parents", ErrInvalidHierarchy, child)
			}
			a.nodes[child].parent = i
			a.nodes[i].children = append(a.nodes[i].children, child)
		}
	}
	// Every node must reach a parentless ancestor.
	for i := range a.nodes {
		steps := 0
		for p := a.nodes[i].parent; p != -1; p = a.nodes[p].parent {
			steps++
			if steps > len(a.nodes) {
				return fmt.Errorf("%w: cycle through node %d", ErrInvalidHierarchy, i)
			}
		}
	}
	return nil
}

// hasTriangles reports whether a scene node references a mesh with at least
// one triangle primitive carrying positions.
func (a *Asset) hasTriangles() bool {
	for i := range a.nodes {
		mi := a.nodes[i].mesh
		if mi < 0 || mi >= len(a.doc.Meshes) || !a.inScene(i) {
			continue
		}
		for _, prim := range a.doc.Meshes[mi].Primitives {
			if _, ok := prim.Attributes[gltf.POSITION]; ok && prim.Mode == gltf.PrimitiveTriangles {
				return true
			}
		}
	}
	return false
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene, or every parentless node when the document has no scenes.
func sceneRoots(doc *gltf.Document, nodes []node) []int {
	scene := -1
	if doc.Scene != nil {
		scene = int(*doc.Scene)
	} else if len(doc.Scenes) > 0 {
		scene = 0
	}

	var roots []int
	if scene >= 0 && scene < len(doc.Scenes) {
		for _, r := range doc.Scenes[scene].Nodes {
			if i := int(r); i >= 0 && i < len(nodes) && nodes[i].parent == -1 {
				roots = append(roots, i)
			}
		}
		return roots
	}
	for i := range nodes {
		if nodes[i].parent == -1 {
			roots = append(roots, i)
		}
	}
	return roots
}

func assetName(doc *gltf.Document) string {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	for _, s := range doc.Scenes {
		if s.Name != "" {
			return s.Name
		}
	}
	return doc.Asset.Generator
}
