package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"os"

	goqr "github.com/piglig/go-qr"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

func CreateTempQRCode(content string, size int) (string, error) {
	qr, err := goqr.EncodeText(content, goqr.Low)
	if err != nil {
		return "", err
	}

	tempFile, err := os.CreateTemp("", "qrcode-*.png")
	if err != nil {
		return "", err
	}
	tempFile.Close()

	config := goqr.NewQrCodeImgConfig(size/10, 0)
	if err := qr.PNG(config, tempFile.Name()); err != nil {
		os.Remove(tempFile.Name())
		return "", err
	}

	return tempFile.Name(), nil
}

// FitWithin returns the largest size with the source aspect ratio that fits
// in maxWidth x maxHeight. Sizes never grow.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if (maxWidth <= 0 || width <= maxWidth) && (maxHeight <= 0 || height <= maxHeight) {
		return width, height
	}

	imgAspect := float64(width) / float64(height)

	newWidth, newHeight := width, height
	if maxWidth > 0 && newWidth > maxWidth {
		newWidth = maxWidth
		newHeight = int(float64(maxWidth) / imgAspect)
	}
	if maxHeight > 0 && newHeight > maxHeight {
		newHeight = maxHeight
		newWidth = int(float64(maxHeight) * imgAspect)
	}

	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight
}

// NormalizeArtwork decodes any registered image format and re-encodes it as
// PNG, scaling down to fit maxWidth x maxHeight when either is positive.
// PNG input that needs no scaling is returned unchanged.
func NormalizeArtwork(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := FitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	var processedImg = img
	if newWidth != bounds.Dx() || newHeight != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

		draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		processedImg = dst
	}

	if format == "png" && processedImg == img {
		return data, nil
	}

	var out bytes.Buffer
	if err := png.Encode(&out, processedImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return out.Bytes(), nil
}
