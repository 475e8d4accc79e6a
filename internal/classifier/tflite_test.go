package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tflite "github.com/tphakala/go-tflite"

	"github.com/tphakala/smartwaste/internal/errors"
)

func TestCheckTensorTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   tflite.TensorType
		output  tflite.TensorType
		wantErr bool
	}{
		{"float model", tflite.Float32, tflite.Float32, false},
		{"quantized scores", tflite.Float32, tflite.UInt8, false},
		{"uint8 input", tflite.UInt8, tflite.UInt8, true},
		{"int8 input", tflite.Int8, tflite.Float32, true},
		{"int32 scores", tflite.Float32, tflite.Int32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkTensorTypes(tt.input, tt.output)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryModelInit))
		})
	}
}

func TestDequantize(t *testing.T) {
	t.Parallel()

	scores := make([]float32, 4)
	dequantize(scores, []uint8{0, 128, 255, 128}, 1.0/256, 0)
	assert.InDelta(t, 0.0, scores[0], 1e-6)
	assert.InDelta(t, 0.5, scores[1], 1e-6)
	assert.InDelta(t, 255.0/256, scores[2], 1e-6)

	idx, _ := Argmax(scores)
	assert.Equal(t, 2, idx)

	// Equal quantized scores keep the lowest index.
	dequantize(scores, []uint8{10, 200, 200, 3}, 0.1, 5)
	idx, conf := Argmax(scores)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 19.5, conf, 1e-4)
}

func TestDequantizeWithoutScale(t *testing.T) {
	t.Parallel()

	scores := make([]float32, 3)
	dequantize(scores, []uint8{51, 255, 0}, 0, 7)
	assert.InDelta(t, 0.2, scores[0], 1e-6)
	assert.InDelta(t, 1.0, scores[1], 1e-6)
	assert.Zero(t, scores[2])
}
