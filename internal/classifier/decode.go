package classifier

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/tphakala/smartwaste/internal/errors"
)

// MaxPixels bounds decoded image size.
const MaxPixels = 40_000_000

// ErrUnsupportedImage is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedImage = errors.NewStd("only JPEG and PNG images are supported")

// ErrImageTooLarge is returned for uploads above MaxPixels.
var ErrImageTooLarge = errors.NewStd("image is too large")

// DecodeUpload decodes a JPEG or PNG upload and returns the image and its format.
func DecodeUpload(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.New(err).
			Component("classifier").
			Category(errors.CategoryFileIO).
			Build()
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "jpeg" && format != "png") {
		return nil, "", errors.New(ErrUnsupportedImage).
			Component("classifier").
			Category(errors.CategoryValidation).
			Context("format", format).
			Build()
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, "", errors.New(ErrImageTooLarge).
			Component("classifier").
			Category(errors.CategoryValidation).
			Context("width", cfg.Width).
			Context("height", cfg.Height).
			Build()
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.New(err).
			Component("classifier").
			Category(errors.CategoryImageDecode).
			Context("format", format).
			Build()
	}
	return img, format, nil
}
