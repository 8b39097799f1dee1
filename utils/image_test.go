package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngDataURL renders a solid-color image of the given size as a base64
// PNG data URL, the shape the upload form posts.
func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, dataURL string) image.Image {
	t.Helper()

	require.True(t, strings.HasPrefix(dataURL, JPEGDataURLPrefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, JPEGDataURLPrefix))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestCompressScreenshotBoundsLargeImages(t *testing.T) {
	out, err := CompressScreenshot(pngDataURL(t, 2000, 1500))
	require.NoError(t, err)

	img := decodeResult(t, out)
	bounds := img.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 800)
	assert.LessOrEqual(t, bounds.Dy(), 600)

	// Aspect ratio 4:3 fills the box exactly
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())
}

func TestCompressScreenshotKeepsSmallImages(t *testing.T) {
	out, err := CompressScreenshot(pngDataURL(t, 400, 300))
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestCompressScreenshotPreservesAspectRatio(t *testing.T) {
	// 3000x1000 is wider than 4:3; width binds, height scales down
	out, err := CompressScreenshot(pngDataURL(t, 3000, 1000))
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.LessOrEqual(t, img.Bounds().Dy(), 600)
}

func TestCompressScreenshotAcceptsBarePayload(t *testing.T) {
	dataURL := pngDataURL(t, 100, 100)
	bare := dataURL[strings.Index(dataURL, ",")+1:]

	out, err := CompressScreenshot(bare)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, JPEGDataURLPrefix))
}

func TestCompressScreenshotRejectsOversized(t *testing.T) {
	// Random-ish incompressible payload just over the limit
	raw := make([]byte, maxScreenshotSize+1)
	for i := range raw {
		raw[i] = byte(i * 31)
	}
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	_, err := CompressScreenshot(payload)
	assert.ErrorIs(t, err, ErrScreenshotTooLarge)
}

func TestCompressScreenshotRejectsGarbage(t *testing.T) {
	_, err := CompressScreenshot("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrScreenshotInvalid)

	notAnImage := base64.StdEncoding.EncodeToString([]byte("plain text"))
	_, err = CompressScreenshot("data:image/png;base64," + notAnImage)
	assert.ErrorIs(t, err, ErrScreenshotInvalid)
}
