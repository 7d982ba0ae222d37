package institution

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/trezcool/findgreatschool/core"
)

const (
	MaxImageWidth  = 800
	MaxImageHeight = 600
	MaxImageBytes  = 5 << 20
)

// Image is an uploaded institution picture.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadImage reads at most MaxImageBytes of r.
func ReadImage(r io.Reader, filename, contentType string) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading image")
	}
	if len(data) > MaxImageBytes {
		return nil, imageError(fmt.Sprintf("image must be smaller than %d MB", MaxImageBytes>>20))
	}
	return &Image{Filename: filename, ContentType: contentType, Data: data}, nil
}

// Validate checks that img is a decodable image no larger than MaxImageWidth x MaxImageHeight.
func (img Image) Validate() error {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return imageError("please upload a valid image file")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return imageError("could not read image dimensions")
	}
	if cfg.Width > MaxImageWidth || cfg.Height > MaxImageHeight {
		return imageError(fmt.Sprintf(
			"image dimensions (%dx%d) exceed the maximum of %dx%d pixels",
			cfg.Width, cfg.Height, MaxImageWidth, MaxImageHeight,
		))
	}
	return nil
}

func imageError(msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: "image", Error: msg})
}
