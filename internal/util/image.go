package util

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"math"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DetectMIME sniffs the content type from the first bytes of the payload
// and hands back a reader that replays them.
func DetectMIME(r io.Reader) (string, io.Reader, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(r, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}

	mimeType := http.DetectContentType(buffer[:n])
	return mimeType, io.MultiReader(bytes.NewReader(buffer[:n]), r), nil
}

// IsProductImageMIME reports whether the sniffed type is one the catalog
// accepts for product images.
func IsProductImageMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png", "image/jpeg", "image/jpg":
		return true
	default:
		return false
	}
}

// ExtensionForMIME picks the stored-object extension for an accepted
// product image type.
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

// MakeThumbnail decodes an image and scales it so its longest edge is at
// most maxDim pixels, re-encoded as JPEG. Images already small enough are
// re-encoded without upscaling.
func MakeThumbnail(data []byte, maxDim int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}

	scale := float64(maxDim) / float64(longest)
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
