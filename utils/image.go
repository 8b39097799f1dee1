// utils/image.go
package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Maximum size of the original upload, before recompression (5MB)
	maxScreenshotSize = 5 * 1024 * 1024

	// Proof screenshots are resized to fit this box, aspect ratio preserved
	maxScreenshotWidth  = 800
	maxScreenshotHeight = 600

	screenshotJPEGQuality = 70

	// JPEGDataURLPrefix is the prefix every stored screenshot payload
	// begins with
	JPEGDataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrScreenshotTooLarge = errors.New("image size must be less than 5MB")
	ErrScreenshotInvalid  = errors.New("screenshot is not a valid image")
)

// CompressScreenshot takes a base64 data URL of an uploaded proof-of-payment
// image, bounds it to 800x600 preserving aspect ratio and re-encodes it as a
// JPEG data URL at quality 70. The original must be at most 5MB.
func CompressScreenshot(dataURL string) (string, error) {
	payload := dataURL
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrScreenshotInvalid
	}
	if len(raw) > maxScreenshotSize {
		return "", ErrScreenshotTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", ErrScreenshotInvalid
	}

	// Fit never upscales; smaller images pass through at their own size
	resized := imaging.Fit(img, maxScreenshotWidth, maxScreenshotHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: screenshotJPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %v", err)
	}

	return JPEGDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
