// Package avatar builds the bundled box avatar: one skinned mesh over a six
// joint skeleton, with a striped shirt texture and a walk cycle.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/automoto/avatarview/internal/glbgen"
)

var (
	shirt    = [4]float32{0.20, 0.42, 0.78, 1}
	skin     = [4]float32{0.93, 0.76, 0.62, 1}
	trousers = [4]float32{0.18, 0.18, 0.24, 1}
	hair     = [4]float32{0.25, 0.16, 0.10, 1}
)

// Joint order inside the skin.
const (
	jointHips uint16 = iota
	jointNeck
	jointLeftShoulder
	jointRightShoulder
	jointLeftHip
	jointRightHip
)

// Build returns the avatar as a glTF builder, ready to encode.
func Build() (*glbgen.Builder, error) {
	b := glbgen.New("mkavatar")

	root := b.AddNode("Avatar", -1, [3]float32{})
	hips := b.AddNode("Hips", root, [3]float32{0, 0.95, 0})
	neck := b.AddNode("Neck", hips, [3]float32{0, 0.62, 0})
	leftShoulder := b.AddNode("LeftShoulder", hips, [3]float32{0.24, 0.55, 0})
	rightShoulder := b.AddNode("RightShoulder", hips, [3]float32{-0.24, 0.55, 0})
	leftHip := b.AddNode("LeftHip", hips, [3]float32{0.09, 0, 0})
	rightHip := b.AddNode("RightHip", hips, [3]float32{-0.09, 0, 0})
	sk := b.AddSkin("Skeleton", []int{hips, neck, leftShoulder, rightShoulder, leftHip, rightHip})

	stripes, err := stripeTexture()
	if err != nil {
		return nil, err
	}
	shirtMat, err := b.AddMaterial("Shirt", shirt, stripes)
	if err != nil {
		return nil, err
	}
	skinMat, _ := b.AddMaterial("Skin", skin, nil)
	trouserMat, _ := b.AddMaterial("Trousers", trousers, nil)
	hairMat, _ := b.AddMaterial("Hair", hair, nil)

	// Boxes are placed in the rest pose, in mesh space.
	b.AddSkinnedMesh("Body", root, sk, []glbgen.SkinnedPart{
		{Material: shirtMat, Boxes: []glbgen.SkinnedBox{
			{Joint: jointHips, Center: [3]float32{0, 1.25, 0}, Half: [3]float32{0.18, 0.3, 0.1}},
		}},
		{Material: skinMat, Boxes: []glbgen.SkinnedBox{
			{Joint: jointNeck, Center: [3]float32{0, 1.71, 0}, Half: [3]float32{0.12, 0.14, 0.12}},
			{Joint: jointLeftShoulder, Center: [3]float32{0.24, 1.22, 0}, Half: [3]float32{0.05, 0.28, 0.05}},
			{Joint: jointRightShoulder, Center: [3]float32{-0.24, 1.22, 0}, Half: [3]float32{0.05, 0.28, 0.05}},
		}},
		{Material: trouserMat, Boxes: []glbgen.SkinnedBox{
			{Joint: jointLeftHip, Center: [3]float32{0.09, 0.49, 0}, Half: [3]float32{0.07, 0.46, 0.07}},
			{Joint: jointRightHip, Center: [3]float32{-0.09, 0.49, 0}, Half: [3]float32{0.07, 0.46, 0.07}},
		}},
		{Material: hairMat, Boxes: []glbgen.SkinnedBox{
			{Joint: jointNeck, Center: [3]float32{0, 1.86, -0.01}, Half: [3]float32{0.13, 0.03, 0.13}},
		}},
	})

	times := []float32{0, 0.5, 1, 1.5, 2}
	swing := []float64{0, 20, 0, -20, 0}
	b.AddRotationTrack("Walk", leftShoulder, times, swings(swing, 1))
	b.AddRotationTrack("Walk", rightShoulder, times, swings(swing, -1))
	b.AddRotationTrack("Walk", leftHip, times, swings(swing, -0.75))
	b.AddRotationTrack("Walk", rightHip, times, swings(swing, 0.75))
	b.AddTranslationTrack("Walk", hips, times, [][3]float32{
		{0, 0.95, 0}, {0, 0.98, 0}, {0, 0.95, 0}, {0, 0.98, 0}, {0, 0.95, 0},
	})
	return b, nil
}

// stripeTexture encodes an 8x8 PNG of alternating white and light gray rows.
func stripeTexture() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if y%2 == 1 {
			c = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
		}
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode shirt texture: %w", err)
	}
	return buf.Bytes(), nil
}

// swings converts angles about X, in degrees, to quaternions.
func swings(degrees []float64, factor float64) [][4]float32 {
	out := make([][4]float32, len(degrees))
	for i, d := range degrees {
		half := d * factor * math.Pi / 360
		out[i] = [4]float32{float32(math.Sin(half)), 0, 0, float32(math.Cos(half))}
	}
	return out
}
