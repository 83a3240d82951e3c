package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/adapters/media"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantMaxFull   int
		wantMaxThumb  int
	}{
		{
			name:  "large landscape bounded",
			width: 2400, height: 1200,
			wantMaxFull:  1600,
			wantMaxThumb: 300,
		},
		{
			name:  "small image not upscaled",
			width: 200, height: 150,
			wantMaxFull:  200,
			wantMaxThumb: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := media.Optimize(encodePNG(t, tt.width, tt.height))
			require.NoError(t, err)

			full, _, err := image.Decode(bytes.NewReader(out.Full))
			require.NoError(t, err)
			thumb, _, err := image.Decode(bytes.NewReader(out.Thumb))
			require.NoError(t, err)

			assert.LessOrEqual(t, full.Bounds().Dx(), tt.wantMaxFull)
			assert.LessOrEqual(t, full.Bounds().Dy(), tt.wantMaxFull)
			assert.LessOrEqual(t, thumb.Bounds().Dx(), tt.wantMaxThumb)
			assert.LessOrEqual(t, thumb.Bounds().Dy(), tt.wantMaxThumb)
		})
	}
}

func TestOptimizeRejectsGarbage(t *testing.T) {
	_, err := media.Optimize([]byte("not an image"))
	assert.Error(t, err)
}
