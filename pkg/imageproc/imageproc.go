// Package imageproc prepares wallpapers for the model and derives the theme mode.
package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	seederrors "github.com/wallseed/wallseed/pkg/errors"
	"github.com/wallseed/wallseed/pkg/models"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// ModelMaxDim caps the larger side of images sent to the model.
	ModelMaxDim = 1024
	// LuminanceMaxDim caps the larger side of images sampled for luminance.
	LuminanceMaxDim = 64
	// DarkThreshold is the luminance below which a wallpaper gets a dark theme.
	DarkThreshold = 0.5
)

// Open reads and decodes the image at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, seederrors.NewDecodeError(path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, seederrors.NewDecodeError(path, err)
	}
	return img, nil
}

// Downscale shrinks img so its larger side equals maxDim, keeping the aspect
// ratio. Images already within bounds are returned as-is.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	largest := max(w, h)
	if largest <= maxDim {
		return img
	}

	nw := max(w*maxDim/largest, 1)
	nh := max(h*maxDim/largest, 1)

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Luminance returns the mean relative luminance of img in [0,1], sampled on a
// copy downscaled to LuminanceMaxDim.
func Luminance(img image.Image) float64 {
	small := Downscale(img, LuminanceMaxDim)
	b := small.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var total float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(small.At(x, y)).(color.NRGBA64)
			r := float64(c.R) / 0xffff
			g := float64(c.G) / 0xffff
			bl := float64(c.B) / 0xffff
			total += 0.2126*r + 0.7152*g + 0.0722*bl
		}
	}
	return total / float64(n)
}

// ModeForLuminance maps a luminance to dark (< DarkThreshold) or light.
func ModeForLuminance(l float64) models.Mode {
	if l < DarkThreshold {
		return models.ModeDark
	}
	return models.ModeLight
}

// ResolveMode returns mode unchanged unless it is auto, in which case the
// image at path is opened and its luminance decides.
func ResolveMode(mode models.Mode, path string) (models.Mode, float64, error) {
	if mode != models.ModeAuto {
		return mode, -1, nil
	}
	img, err := Open(path)
	if err != nil {
		return "", 0, err
	}
	l := Luminance(img)
	return ModeForLuminance(l), l, nil
}
