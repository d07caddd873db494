package gltfio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/automoto/avatarview/engine"
	"github.com/automoto/avatarview/logging"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// ErrSourceReleased is returned when resources are requested after the
// decoded document was dropped.
var ErrSourceReleased = errors.New("asset source data already released")

// ResourceLoader reads buffer contents: geometry, skins, textures and
// animation samplers.
type ResourceLoader struct {
	// DefaultColor is used for primitives without a base color.
	DefaultColor color.RGBA
	logger       *zap.Logger
}

// NewResourceLoader returns a loader. A nil logger disables logging.
func NewResourceLoader(defaultColor color.RGBA, logger *zap.Logger) *ResourceLoader {
	return &ResourceLoader{
		DefaultColor: defaultColor,
		logger:       logging.OrNop(logger).Named("gltfio"),
	}
}

// LoadResources reads geometry, skins, textures and animations of a. It runs
// synchronously. On error the asset is left without resources.
func (l *ResourceLoader) LoadResources(a *Asset) error {
	if a == nil || a.destroyed {
		return errors.New("load resources: asset destroyed")
	}
	if a.resourcesLoaded {
		return nil
	}
	if a.doc == nil {
		return ErrSourceReleased
	}

	skins, err := readSkins(a)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	r := &meshReader{loader: l, doc: a.doc, meshes: make(map[int][]*engine.Mesh), textures: make(map[int]*image.NRGBA)}
	renderables, err := r.readRenderables(a, skins)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}
	animations, err := l.readAnimations(a)
	if err != nil {
		return fmt.Errorf("load resources: %w", err)
	}

	a.skins = skins
	a.renderables = renderables
	a.animations = animations
	a.resourcesLoaded = true
	a.bounds = a.bindPoseBounds()
	a.dirty = true
	return nil
}

func readSkins(a *Asset) ([]skin, error) {
	doc := a.doc
	out := make([]skin, len(doc.Skins))
	for si, s := range doc.Skins {
		if len(s.Joints) == 0 {
			return nil, fmt.Errorf("skin %d has no joints", si)
		}
		sk := skin{
			joints:      make([]int, len(s.Joints)),
			inverseBind: make([]mgl64.Mat4, len(s.Joints)),
			matrices:    make([]mgl64.Mat4, len(s.Joints)),
		}
		for j, n := range s.Joints {
			if int(n) >= len(a.nodes) {
				return nil, fmt.Errorf("skin %d joint %d: missing node %d", si, j, n)
			}
			sk.joints[j] = int(n)
			sk.inverseBind[j] = mgl64.Ident4()
			sk.matrices[j] = mgl64.Ident4()
		}

		if s.InverseBindMatrices != nil {
			if int(*s.InverseBindMatrices) >= len(doc.Accessors) {
				return nil, fmt.Errorf("skin %d: missing inverse bind accessor %d", si, *s.InverseBindMatrices)
			}
			raw, err := modeler.ReadAccessor(doc, doc.Accessors[*s.InverseBindMatrices], nil)
			if err != nil {
				return nil, fmt.Errorf("skin %d inverse bind matrices: %w", si, err)
			}
			mats, ok := raw.([][4][4]float32)
			if !ok || len(mats) < len(s.Joints) {
				return nil, fmt.Errorf("skin %d: inverse bind matrices have type %T", si, raw)
			}
			for j := range s.Joints {
				sk.inverseBind[j] = mat4(mats[j])
			}
		}
		out[si] = sk
	}
	return out, nil
}

// mat4 converts an accessor element, indexed [row][column].
func mat4(m [4][4]float32) mgl64.Mat4 {
	var out mgl64.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = float64(m[r][c])
		}
	}
	return out
}

type meshReader struct {
	loader   *ResourceLoader
	doc      *gltf.Document
	meshes   map[int][]*engine.Mesh
	textures map[int]*image.NRGBA
}

func (r *meshReader) readRenderables(a *Asset, skins []skin) ([]Renderable, error) {
	doc := r.doc
	var out []Renderable

	for i := range a.nodes {
		mi := a.nodes[i].mesh
		if mi < 0 || !a.inScene(i) {
			continue
		}
		if mi >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d references missing mesh %d", i, mi)
		}
		si := a.nodes[i].skin
		if si >= len(skins) {
			return nil, fmt.Errorf("node %d references missing skin %d", i, si)
		}
		prims, ok := r.meshes[mi]
		if !ok {
			var err error
			prims, err = r.readMesh(doc.Meshes[mi])
			if err != nil {
				return nil, fmt.Errorf("mesh %d: %w", mi, err)
			}
			r.meshes[mi] = prims
		}
		for _, m := range prims {
			skinIdx := -1
			if si >= 0 && m.Skinned() {
				if err := checkJoints(m, len(skins[si].joints)); err != nil {
					return nil, fmt.Errorf("node %d: %w", i, err)
				}
				skinIdx = si
			}
			out = append(out, Renderable{Node: i, Skin: skinIdx, Mesh: m})
		}
	}
	return out, nil
}

func checkJoints(m *engine.Mesh, count int) error {
	for vi, js := range m.Joints {
		for k, j := range js {
			if m.Weights[vi][k] != 0 && int(j) >= count {
				return fmt.Errorf("vertex %d uses joint %d of %d", vi, j, count)
			}
		}
	}
	return nil
}

func (r *meshReader) readMesh(mesh *gltf.Mesh) ([]*engine.Mesh, error) {
	doc := r.doc
	var out []*engine.Mesh
	for pi, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			r.loader.logger.Debug("skipping non-triangle primitive", zap.String("mesh", mesh.Name), zap.Int("primitive", pi))
			continue
		}
		posAcc, ok, err := r.accessor(prim, gltf.POSITION)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, posAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			if int(*prim.Indices) >= len(doc.Accessors) {
				return nil, fmt.Errorf("primitive %d: missing index accessor %d", pi, *prim.Indices)
			}
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("primitive %d: index %d out of range", pi, idx)
			}
		}

		m := &engine.Mesh{
			Positions: make([]mgl64.Vec3, len(positions)),
			Indices:   indices,
			Color:     r.baseColor(prim),
		}
		for i, p := range positions {
			m.Positions[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		}
		if err := r.readSkinning(prim, m); err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		if err := r.readTexture(prim, m); err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// accessor returns the accessor bound to attribute name, if any.
func (r *meshReader) accessor(prim *gltf.Primitive, name string) (*gltf.Accessor, bool, error) {
	idx, ok := prim.Attributes[name]
	if !ok {
		return nil, false, nil
	}
	if int(idx) >= len(r.doc.Accessors) {
		return nil, false, fmt.Errorf("missing %s accessor %d", name, idx)
	}
	return r.doc.Accessors[idx], true, nil
}

func (r *meshReader) readSkinning(prim *gltf.Primitive, m *engine.Mesh) error {
	jointAcc, hasJoints, err := r.accessor(prim, gltf.JOINTS_0)
	if err != nil {
		return err
	}
	weightAcc, hasWeights, err := r.accessor(prim, gltf.WEIGHTS_0)
	if err != nil {
		return err
	}
	if !hasJoints || !hasWeights {
		return nil
	}
	joints, err := modeler.ReadJoints(r.doc, jointAcc, nil)
	if err != nil {
		return fmt.Errorf("joints: %w", err)
	}
	weights, err := modeler.ReadWeights(r.doc, weightAcc, nil)
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if len(joints) != len(m.Positions) || len(weights) != len(m.Positions) {
		return fmt.Errorf("%d joints and %d weights for %d positions", len(joints), len(weights), len(m.Positions))
	}
	m.Joints = joints
	m.Weights = weights
	return nil
}

func (r *meshReader) readTexture(prim *gltf.Primitive, m *engine.Mesh) error {
	info := r.baseColorTexture(prim)
	if info == nil {
		return nil
	}
	uvAcc, ok, err := r.accessor(prim, fmt.Sprintf("TEXCOORD_%d", info.TexCoord))
	if err != nil {
		return err
	}
	if !ok {
		r.loader.logger.Debug("textured primitive has no texture coordinates")
		return nil
	}
	uvs, err := modeler.ReadTextureCoord(r.doc, uvAcc, nil)
	if err != nil {
		return fmt.Errorf("texture coordinates: %w", err)
	}
	if len(uvs) != len(m.Positions) {
		return fmt.Errorf("%d texture coordinates for %d positions", len(uvs), len(m.Positions))
	}
	tex, err := r.texture(int(info.Index))
	if err != nil {
		return fmt.Errorf("texture %d: %w", info.Index, err)
	}
	m.UVs = uvs
	m.Texture = tex
	return nil
}

func (r *meshReader) baseColorTexture(prim *gltf.Primitive) *gltf.TextureInfo {
	if prim.Material == nil || int(*prim.Material) >= len(r.doc.Materials) {
		return nil
	}
	pbr := r.doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil {
		return nil
	}
	return pbr.BaseColorTexture
}

// texture decodes the image behind texture i once per asset.
func (r *meshReader) texture(i int) (*image.NRGBA, error) {
	if tex, ok := r.textures[i]; ok {
		return tex, nil
	}
	doc := r.doc
	if i >= len(doc.Textures) {
		return nil, errors.New("missing texture")
	}
	src := doc.Textures[i].Source
	if src == nil || int(*src) >= len(doc.Images) {
		return nil, errors.New("texture has no image")
	}
	img := doc.Images[*src]

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		if int(*img.BufferView) >= len(doc.BufferViews) {
			return nil, fmt.Errorf("missing buffer view %d", *img.BufferView)
		}
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		data, err = img.MarshalData()
	default:
		return nil, fmt.Errorf("external image %q is not supported", img.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("image data: %w", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := decoded.Bounds()
	tex := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(tex, tex.Bounds(), decoded, b.Min, draw.Src)
	r.textures[i] = tex
	return tex, nil
}

func (r *meshReader) baseColor(prim *gltf.Primitive) color.RGBA {
	if prim.Material == nil || int(*prim.Material) >= len(r.doc.Materials) {
		return r.loader.DefaultColor
	}
	pbr := r.doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil {
		return r.loader.DefaultColor
	}
	if pbr.BaseColorFactor == nil {
		if pbr.BaseColorTexture != nil {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return r.loader.DefaultColor
	}
	f := *pbr.BaseColorFactor
	return color.RGBA{
		R: unitToByte(float64(f[0])),
		G: unitToByte(float64(f[1])),
		B: unitToByte(float64(f[2])),
		A: unitToByte(float64(f[3])),
	}
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func (l *ResourceLoader) readAnimations(a *Asset) ([]animation, error) {
	doc := a.doc
	out := make([]animation, 0, len(doc.Animations))
	for ai, anim := range doc.Animations {
		decoded := animation{name: anim.Name}
		for ci, ch := range anim.Channels {
			if ch.Target.Node == nil || ch.Sampler == nil {
				continue
			}
			path := ch.Target.Path
			if path == gltf.TRSWeights {
				l.logger.Debug("skipping morph weight channel", zap.Int("animation", ai), zap.Int("channel", ci))
				continue
			}
			nodeIdx := int(*ch.Target.Node)
			samplerIdx := int(*ch.Sampler)
			if nodeIdx >= len(a.nodes) || samplerIdx >= len(anim.Samplers) {
				return nil, fmt.Errorf("animation %d channel %d: dangling reference", ai, ci)
			}
			c, err := readChannel(doc, anim.Samplers[samplerIdx], nodeIdx, path)
			if err != nil {
				return nil, fmt.Errorf("animation %d channel %d: %w", ai, ci, err)
			}
			decoded.channels = append(decoded.channels, c)
			if end := c.times[len(c.times)-1]; end > decoded.duration {
				decoded.duration = end
			}
		}
		out = append(out, decoded)
	}
	return out, nil
}

func readChannel(doc *gltf.Document, s *gltf.AnimationSampler, nodeIdx int, path gltf.TRSProperty) (channel, error) {
	if int(s.Input) >= len(doc.Accessors) || int(s.Output) >= len(doc.Accessors) {
		return channel{}, errors.New("sampler accessor missing")
	}

	in, err := modeler.ReadAccessor(doc, doc.Accessors[s.Input], nil)
	if err != nil {
		return channel{}, fmt.Errorf("sampler input: %w", err)
	}
	rawTimes, ok := in.([]float32)
	if !ok || len(rawTimes) == 0 {
		return channel{}, fmt.Errorf("sampler input has unsupported type %T", in)
	}
	times := make([]float64, len(rawTimes))
	for i, t := range rawTimes {
		times[i] = float64(t)
		if i > 0 && times[i] < times[i-1] {
			return channel{}, errors.New("sampler input is not increasing")
		}
	}

	outAcc := doc.Accessors[s.Output]
	out, err := modeler.ReadAccessor(doc, outAcc, nil)
	if err != nil {
		return channel{}, fmt.Errorf("sampler output: %w", err)
	}
	values, width, err := samplerValues(out, outAcc.Normalized)
	if err != nil {
		return channel{}, err
	}

	c := channel{
		node:          nodeIdx,
		path:          pathOf(path),
		interpolation: interpolationOf(s.Interpolation),
		times:         times,
		values:        values,
	}
	want := len(times)
	if c.interpolation == interpolateCubic {
		want *= 3
	}
	if len(values) != want {
		return channel{}, fmt.Errorf("sampler has %d outputs for %d keyframes", len(values), len(times))
	}
	if c.path == pathRotation && width != 4 {
		return channel{}, errors.New("rotation sampler output must be VEC4")
	}
	return c, nil
}

// samplerValues widens VEC3 and VEC4 sampler outputs to float64. Integer
// outputs are dequantized when the accessor is normalized.
func samplerValues(out any, normalized bool) ([][4]float64, int, error) {
	switch v := out.(type) {
	case [][3]float32:
		return widen3(v, func(x float32) float64 { return float64(x) }), 3, nil
	case [][4]float32:
		return widen4(v, func(x float32) float64 { return float64(x) }), 4, nil
	case [][3]int8:
		return widen3(v, bytes8(normalized)), 3, nil
	case [][4]int8:
		return widen4(v, bytes8(normalized)), 4, nil
	case [][3]uint8:
		return widen3(v, ubytes8(normalized)), 3, nil
	case [][4]uint8:
		return widen4(v, ubytes8(normalized)), 4, nil
	case [][3]int16:
		return widen3(v, shorts(normalized)), 3, nil
	case [][4]int16:
		return widen4(v, shorts(normalized)), 4, nil
	case [][3]uint16:
		return widen3(v, ushorts(normalized)), 3, nil
	case [][4]uint16:
		return widen4(v, ushorts(normalized)), 4, nil
	}
	return nil, 0, fmt.Errorf("sampler output has unsupported type %T", out)
}

func bytes8(normalized bool) func(int8) float64 {
	return func(x int8) float64 {
		if normalized {
			return float64(gltf.DenormalizeByte(x))
		}
		return float64(x)
	}
}

func ubytes8(normalized bool) func(uint8) float64 {
	return func(x uint8) float64 {
		if normalized {
			return float64(gltf.DenormalizeUbyte(x))
		}
		return float64(x)
	}
}

func shorts(normalized bool) func(int16) float64 {
	return func(x int16) float64 {
		if normalized {
			return float64(gltf.DenormalizeShort(x))
		}
		return float64(x)
	}
}

func ushorts(normalized bool) func(uint16) float64 {
	return func(x uint16) float64 {
		if normalized {
			return float64(gltf.DenormalizeUshort(x))
		}
		return float64(x)
	}
}

func widen3[T any](in [][3]T, conv func(T) float64) [][4]float64 {
	out := make([][4]float64, len(in))
	for i, v := range in {
		for k, x := range v {
			out[i][k] = conv(x)
		}
	}
	return out
}

func widen4[T any](in [][4]T, conv func(T) float64) [][4]float64 {
	out := make([][4]float64, len(in))
	for i, v := range in {
		for k, x := range v {
			out[i][k] = conv(x)
		}
	}
	return out
}

func pathOf(p gltf.TRSProperty) channelPath {
	switch p {
	case gltf.TRSRotation:
		return pathRotation
	case gltf.TRSScale:
		return pathScale
	default:
		return pathTranslation
	}
}

func interpolationOf(i gltf.Interpolation) interpolation {
	switch i {
	case gltf.InterpolationStep:
		return interpolateStep
	case gltf.InterpolationCubicSpline:
		return interpolateCubic
	default:
		return interpolateLinear
	}
}

// bindPoseBounds returns the bounds of all renderables, skinned ones posed by
// their joints, with the root transform reset to identity.
func (a *Asset) bindPoseBounds() AABB {
	saved := a.root
	a.root = mgl64.Ident4()
	a.updateWorld()

	var box AABB
	var scratch []mgl64.Vec3
	for _, r := range a.renderables {
		scratch = a.DrawItem(r).WorldPositions(scratch[:0])
		for _, p := range scratch {
			box = box.Extend(p)
		}
	}

	a.root = saved
	a.dirty = true
	return box
}
