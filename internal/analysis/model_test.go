package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/errors"
)

type sizedModel struct{ height, width int }

func (m sizedModel) InputSize() (int, int)              { return m.height, m.width }
func (m sizedModel) OutputSize() int                    { return 30 }
func (m sizedModel) Infer([]float32) ([]float32, error) { return make([]float32, 30), nil }
func (m sizedModel) Close() error                       { return nil }

func TestCheckInputSize(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkInputSize(sizedModel{224, 224}, 224))
	require.NoError(t, checkInputSize(sizedModel{300, 300}, 0))

	err := checkInputSize(sizedModel{299, 299}, 224)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryModelInit))
	assert.Contains(t, err.Error(), "299x299")

	require.Error(t, checkInputSize(sizedModel{224, 192}, 224))
}
