package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	qualityFull  = 85
	qualityThumb = 60

	maxDimFull  = 1600
	maxDimThumb = 300
)

// Optimized carries the two JPEG renditions persisted for one photo: the
// bounded display image and its card thumbnail.
type Optimized struct {
	Full  []byte
	Thumb []byte
}

// ContentType is the MIME type of both renditions.
const ContentType = "image/jpeg"

// Optimize decodes an uploaded photo and re-encodes it as bounded JPEGs.
// Hand-entered photos arrive in whatever size a phone produced; storing
// unbounded originals made the catalog page unusable on mobile.
func Optimize(imageData []byte) (*Optimized, error) {
	const op = "media.Optimize"
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to decode image, err=%w", op, err)
	}

	full, err := encodeBounded(img, maxDimFull, qualityFull)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to encode display image, err=%w", op, err)
	}
	thumb, err := encodeBounded(img, maxDimThumb, qualityThumb)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to encode thumbnail, err=%w", op, err)
	}
	return &Optimized{Full: full, Thumb: thumb}, nil
}

func encodeBounded(img image.Image, maxDim, quality int) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		// Fit preserves aspect ratio and never upscales
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
