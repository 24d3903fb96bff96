package util

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 8, 8)

	mimeType, replay, err := DetectMIME(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "image/png", mimeType)

	// The returned reader must replay the sniffed bytes.
	var out bytes.Buffer
	_, err = out.ReadFrom(replay)
	require.NoError(t, err)
	require.Equal(t, data, out.Bytes())
}

func TestDetectMIMEShortPayload(t *testing.T) {
	t.Parallel()

	mimeType, _, err := DetectMIME(strings.NewReader("hi"))
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", mimeType)
}

func TestIsProductImageMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsProductImageMIME("image/png"))
	require.True(t, IsProductImageMIME("image/jpeg"))
	require.False(t, IsProductImageMIME("image/gif"))
	require.False(t, IsProductImageMIME("application/pdf"))
}

func TestMakeThumbnail(t *testing.T) {
	t.Parallel()

	t.Run("scales the longest edge down to maxDim", func(t *testing.T) {
		thumb, err := MakeThumbnail(encodePNG(t, 640, 480), 320)
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		require.Equal(t, 320, decoded.Bounds().Dx())
		require.Equal(t, 240, decoded.Bounds().Dy())
	})

	t.Run("never upscales small images", func(t *testing.T) {
		thumb, err := MakeThumbnail(encodePNG(t, 100, 50), 320)
		require.NoError(t, err)

		decoded, err := jpeg.Decode(bytes.NewReader(thumb))
		require.NoError(t, err)
		require.Equal(t, 100, decoded.Bounds().Dx())
		require.Equal(t, 50, decoded.Bounds().Dy())
	})

	t.Run("rejects non-image payloads", func(t *testing.T) {
		_, err := MakeThumbnail([]byte("definitely not an image"), 320)
		require.Error(t, err)
	})
}
