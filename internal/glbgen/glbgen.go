// Package glbgen builds small box-based glTF scenes, rigid or skinned. It
// backs the avatar generator and test fixtures.
package glbgen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Builder accumulates nodes, box meshes and animation tracks.
type Builder struct {
	doc        *gltf.Document
	animations map[string]*gltf.Animation
}

// New returns an empty builder with a single default scene.
func New(generator string) *Builder {
	doc := gltf.NewDocument()
	doc.Asset.Generator = generator
	return &Builder{doc: doc, animations: make(map[string]*gltf.Animation)}
}

// AddNode adds an empty node under parent (-1 for a scene root) and returns
// its index.
func (b *Builder) AddNode(name string, parent int, translation [3]float32) int {
	n := &gltf.Node{Name: name, Translation: translation}
	return b.attach(n, parent)
}

// AddBox adds a node under parent carrying an axis-aligned box mesh with the
// given center and half extent, in the node's space.
func (b *Builder) AddBox(name string, parent int, center, half [3]float32, color [4]float32) int {
	positions := make([][3]float32, 0, 8)
	for i := 0; i < 8; i++ {
		positions = append(positions, boxCorner(center, half, i))
	}

	pos := modeler.WritePosition(b.doc, positions)
	idx := modeler.WriteIndices(b.doc, boxIndices)

	b.doc.Materials = append(b.doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
	})
	material := uint32(len(b.doc.Materials) - 1)

	b.doc.Meshes = append(b.doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{gltf.POSITION: pos},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(material),
		}},
	})
	mesh := uint32(len(b.doc.Meshes) - 1)

	return b.attach(&gltf.Node{Name: name, Mesh: gltf.Index(mesh)}, parent)
}

// AddMaterial adds a material with a base color factor and, when png is not
// empty, a base color texture read from png. It returns the material index.
func (b *Builder) AddMaterial(name string, color [4]float32, png []byte) (int, error) {
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &color,
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	if len(png) > 0 {
		img, err := modeler.WriteImage(b.doc, name, "image/png", bytes.NewReader(png))
		if err != nil {
			return 0, fmt.Errorf("write image %s: %w", name, err)
		}
		b.doc.Textures = append(b.doc.Textures, &gltf.Texture{Name: name, Source: gltf.Index(img)})
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: uint32(len(b.doc.Textures) - 1)}
	}
	b.doc.Materials = append(b.doc.Materials, &gltf.Material{Name: name, PBRMetallicRoughness: pbr})
	return len(b.doc.Materials) - 1, nil
}

// AddSkin adds a skin over joints. Inverse bind matrices undo the joints'
// rest translations, so joint nodes must carry translations only.
func (b *Builder) AddSkin(name string, joints []int) int {
	s := &gltf.Skin{Name: name, Joints: make([]uint32, len(joints))}
	ibm := make([][4][4]float32, len(joints))
	for i, j := range joints {
		s.Joints[i] = uint32(j)
		t := b.restTranslation(j)
		ibm[i] = [4][4]float32{
			{1, 0, 0, -t[0]},
			{0, 1, 0, -t[1]},
			{0, 0, 1, -t[2]},
			{0, 0, 0, 1},
		}
	}
	s.InverseBindMatrices = gltf.Index(modeler.WriteAccessor(b.doc, gltf.TargetNone, ibm))
	b.doc.Skins = append(b.doc.Skins, s)
	return len(b.doc.Skins) - 1
}

// SkinnedBox is a box in mesh space bound rigidly to one joint of a skin.
type SkinnedBox struct {
	Joint        uint16
	Center, Half [3]float32
}

// SkinnedPart is one primitive of a skinned mesh.
type SkinnedPart struct {
	Material int
	Boxes    []SkinnedBox
}

// AddSkinnedMesh adds a node under parent carrying a mesh with one primitive
// per part, skinned by skin. Box faces carry their own texture coordinates
// covering the whole texture.
func (b *Builder) AddSkinnedMesh(name string, parent, skin int, parts []SkinnedPart) int {
	mesh := &gltf.Mesh{Name: name}
	for _, part := range parts {
		var (
			positions [][3]float32
			uvs       [][2]float32
			joints    [][4]uint16
			weights   [][4]float32
			indices   []uint16
		)
		for _, box := range part.Boxes {
			for _, face := range boxFaces {
				base := uint16(len(positions))
				for k, corner := range face {
					positions = append(positions, boxCorner(box.Center, box.Half, corner))
					uvs = append(uvs, faceUVs[k])
					joints = append(joints, [4]uint16{box.Joint})
					weights = append(weights, [4]float32{1})
				}
				indices = append(indices, base, base+1, base+2, base, base+2, base+3)
			}
		}
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION:   modeler.WritePosition(b.doc, positions),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(b.doc, uvs),
				gltf.JOINTS_0:   modeler.WriteJoints(b.doc, joints),
				gltf.WEIGHTS_0:  modeler.WriteWeights(b.doc, weights),
			},
			Indices:  gltf.Index(modeler.WriteIndices(b.doc, indices)),
			Material: gltf.Index(uint32(part.Material)),
		})
	}
	b.doc.Meshes = append(b.doc.Meshes, mesh)
	n := &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(b.doc.Meshes) - 1)), Skin: gltf.Index(uint32(skin))}
	return b.attach(n, parent)
}

// restTranslation sums the translations from the scene root down to node.
func (b *Builder) restTranslation(node int) [3]float32 {
	var t [3]float32
	for n := node; n >= 0; n = b.parent(n) {
		tr := b.doc.Nodes[n].Translation
		t[0] += tr[0]
		t[1] += tr[1]
		t[2] += tr[2]
	}
	return t
}

func (b *Builder) parent(node int) int {
	for i, n := range b.doc.Nodes {
		for _, c := range n.Children {
			if int(c) == node {
				return i
			}
		}
	}
	return -1
}

// AddRotationTrack adds a linear rotation channel for node to the named
// animation. Rotations are quaternions in x, y, z, w order.
func (b *Builder) AddRotationTrack(animation string, node int, times []float32, rotations [][4]float32) {
	b.addTrack(animation, node, gltf.TRSRotation, times, rotations)
}

// AddTranslationTrack adds a linear translation channel for node.
func (b *Builder) AddTranslationTrack(animation string, node int, times []float32, translations [][3]float32) {
	b.addTrack(animation, node, gltf.TRSTranslation, times, translations)
}

func (b *Builder) addTrack(name string, node int, path gltf.TRSProperty, times []float32, values any) {
	anim, ok := b.animations[name]
	if !ok {
		anim = &gltf.Animation{Name: name}
		b.animations[name] = anim
		b.doc.Animations = append(b.doc.Animations, anim)
	}
	in := modeler.WriteAccessor(b.doc, gltf.TargetNone, times)
	out := modeler.WriteAccessor(b.doc, gltf.TargetNone, values)
	anim.Samplers = append(anim.Samplers, &gltf.AnimationSampler{
		Input:         in,
		Output:        out,
		Interpolation: gltf.InterpolationLinear,
	})
	anim.Channels = append(anim.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(anim.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(uint32(node)),
			Path: path,
		},
	})
}

// Document returns the document built so far.
func (b *Builder) Document() *gltf.Document {
	return b.doc
}

// Encode writes the document as GLB.
func (b *Builder) Encode(w io.Writer) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(b.doc); err != nil {
		return fmt.Errorf("encode glb: %w", err)
	}
	return nil
}

// Bytes returns the document encoded as GLB.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) attach(n *gltf.Node, parent int) int {
	b.doc.Nodes = append(b.doc.Nodes, n)
	i := uint32(len(b.doc.Nodes) - 1)
	if parent < 0 {
		b.doc.Scenes[0].Nodes = append(b.doc.Scenes[0].Nodes, i)
	} else {
		p := b.doc.Nodes[parent]
		p.Children = append(p.Children, i)
	}
	return int(i)
}

// Corner i of a box has bit 0 set for +X, bit 1 for +Y, bit 2 for +Z.
// Faces wind counter-clockwise seen from outside.
var boxIndices = []uint16{
	0, 2, 3, 0, 3, 1, // -Z
	4, 5, 7, 4, 7, 6, // +Z
	0, 4, 6, 0, 6, 2, // -X
	1, 3, 7, 1, 7, 5, // +X
	0, 1, 5, 0, 5, 4, // -Y
	2, 6, 7, 2, 7, 3, // +Y
}

// boxFaces lists the corners of each box face, counter-clockwise seen from
// outside, starting at the corner mapped to UV (0, 1).
var boxFaces = [6][4]int{
	{1, 0, 2, 3}, // -Z
	{4, 5, 7, 6}, // +Z
	{0, 4, 6, 2}, // -X
	{5, 1, 3, 7}, // +X
	{0, 1, 5, 4}, // -Y
	{6, 7, 3, 2}, // +Y
}

var faceUVs = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

func boxCorner(center, half [3]float32, corner int) [3]float32 {
	p := center
	for axis := 0; axis < 3; axis++ {
		if corner&(1<<axis) != 0 {
			p[axis] += half[axis]
		} else {
			p[axis] -= half[axis]
		}
	}
	return p
}

// Box returns a GLB holding one box with the given center and half extent,
// optionally spinning about Y for one second.
func Box(center, half [3]float32, animated bool) ([]byte, error) {
	b := New("glbgen")
	n := b.AddBox("box", -1, center, half, [4]float32{0.8, 0.8, 0.8, 1})
	if animated {
		b.AddRotationTrack("spin", n,
			[]float32{0, 0.5, 1},
			[][4]float32{{0, 0, 0, 1}, {0, 1, 0, 0}, {0, 0, 0, 1}},
		)
	}
	return b.Bytes()
}
