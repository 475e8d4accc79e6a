package httpcontroller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/forum"
	"github.com/tphakala/smartwaste/internal/session"
	"github.com/tphakala/smartwaste/internal/translate"
)

func TestMessageIDFor(t *testing.T) {
	t.Parallel()

	validation := func(err error) error {
		return errors.New(err).Category(errors.CategoryValidation).Build()
	}
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty name", validation(session.ErrEmptyName), "err_empty_name"},
		{"no image", validation(session.ErrNoImage), "err_no_image"},
		{"empty location", validation(session.ErrEmptyLocation), "err_empty_location"},
		{"incomplete idea", validation(forum.ErrIncompleteIdea), "err_incomplete_idea"},
		{"unsupported image", validation(classifier.ErrUnsupportedImage), "err_unsupported_image"},
		{"image too large", validation(classifier.ErrImageTooLarge), "err_image_too_large"},
		{"corrupt image", errors.Newf("bad huffman code").Category(errors.CategoryImageDecode).Build(), "err_unsupported_image"},
		{"state", errors.New(session.ErrNoChoice).Category(errors.CategoryState).Build(), "err_action_unavailable"},
		{"other", errors.Newf("disk full").Category(errors.CategoryDatabase).Build(), "err_generic"},
	}
	catalog, err := translate.DefaultCatalog()
	require.NoError(t, err)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id := messageIDFor(tt.err)
			assert.Equal(t, tt.want, id)
			assert.True(t, catalog.Has(id), id)
		})
	}
}
