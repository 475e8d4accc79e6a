package classifier

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ToTensor resizes img to width x height with bilinear interpolation and
// returns RGB values scaled to [0, 1] in NHWC order with a batch of one.
// Transparent pixels end up composited onto black.
func ToTensor(img image.Image, width, height int) []float32 {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	out := make([]float32, width*height*3)
	for y := range height {
		row := dst.Pix[y*dst.Stride:]
		for x := range width {
			px := row[x*4:]
			base := (y*width + x) * 3
			out[base+0] = float32(px[0]) / 255.0
			out[base+1] = float32(px[1]) / 255.0
			out[base+2] = float32(px[2]) / 255.0
		}
	}
	return out
}

// Argmax returns the index and value of the largest score. Ties resolve to
// the lowest index and NaN scores are ignored. It returns -1 when no score
// is usable.
func Argmax(scores []float32) (int, float32) {
	best, bestVal := -1, float32(0)
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			continue
		}
		if best == -1 || s > bestVal {
			best, bestVal = i, s
		}
	}
	return best, bestVal
}
