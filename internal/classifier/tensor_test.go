package classifier

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTensor_ShapeAndNormalization(t *testing.T) {
	t.Parallel()

	img := uniform(50, 30, color.RGBA{R: 255, G: 51, B: 0, A: 255})
	out := ToTensor(img, 10, 6)
	require.Len(t, out, 10*6*3)

	for i := 0; i < len(out); i += 3 {
		assert.InDelta(t, 1.0, out[i], 1e-6)
		assert.InDelta(t, 0.2, out[i+1], 1e-6)
		assert.InDelta(t, 0.0, out[i+2], 1e-6)
	}
}

func TestToTensor_ValuesInUnitInterval(t *testing.T) {
	t.Parallel()

	out := ToTensor(uniform(3, 3, color.White), 224, 224)
	require.Len(t, out, 224*224*3)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestArgmax(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	tests := []struct {
		name    string
		scores  []float32
		wantIdx int
		wantVal float32
	}{
		{"single", []float32{0.3}, 0, 0.3},
		{"last wins", []float32{0.1, 0.2, 0.7}, 2, 0.7},
		{"tie goes to lowest index", []float32{0.1, 0.45, 0.45}, 1, 0.45},
		{"negative scores", []float32{-3, -1, -2}, 1, -1},
		{"nan skipped", []float32{nan, 0.2, 0.1}, 1, 0.2},
		{"empty", nil, -1, 0},
		{"all nan", []float32{nan, nan}, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			idx, val := Argmax(tt.scores)
			assert.Equal(t, tt.wantIdx, idx)
			assert.InDelta(t, tt.wantVal, val, 1e-6)
		})
	}
}
