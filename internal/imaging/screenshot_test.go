package imaging

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoorRican/gui-agent-screenshot-tools/pkg/screenspace"
)

// encodeTestPNG renders a solid image and returns its PNG bytes.
func encodeTestPNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// writeTestImage writes a solid PNG into a temp dir and returns its path.
func writeTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.png")
	if err := os.WriteFile(path, encodeTestPNG(t, width, height, c), 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestNewScreenshot(t *testing.T) {
	data := encodeTestPNG(t, 192, 108, color.RGBA{255, 0, 0, 255})

	shot, err := NewScreenshot(data)
	require.NoError(t, err)
	assert.Equal(t, screenspace.MustSpace(192, 108), shot.Space())
	assert.Equal(t, "png", shot.Format())
	assert.Equal(t, data, shot.Bytes())
	assert.Nil(t, shot.ResizeMetadata())
}

func TestNewScreenshot_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, createInMemoryImage(64, 32, color.White), nil))

	shot, err := NewScreenshot(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format())
	assert.Equal(t, screenspace.MustSpace(64, 32), shot.Space())
}

func TestNewScreenshot_Invalid(t *testing.T) {
	_, err := NewScreenshot([]byte("not an image"))
	assert.Error(t, err)
}

func TestScreenshotImage_Cached(t *testing.T) {
	shot, err := NewScreenshot(encodeTestPNG(t, 20, 10, color.White))
	require.NoError(t, err)

	img1, err := shot.Image()
	require.NoError(t, err)
	img2, err := shot.Image()
	require.NoError(t, err)

	assert.Same(t, img1, img2)
	assert.Equal(t, 20, img1.Bounds().Dx())
	assert.Equal(t, 10, img1.Bounds().Dy())
}

func TestScreenshotImage_Concurrent(t *testing.T) {
	shot, err := NewScreenshot(encodeTestPNG(t, 20, 10, color.White))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shot.Image()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestFromImage(t *testing.T) {
	shot, err := FromImage(createInMemoryImage(80, 60, color.Black))
	require.NoError(t, err)
	assert.Equal(t, screenspace.MustSpace(80, 60), shot.Space())
	assert.NotEmpty(t, shot.Bytes())

	decoded, err := NewScreenshot(shot.Bytes())
	require.NoError(t, err)
	assert.Equal(t, shot.Space(), decoded.Space())
}

func TestScreenshotResize_Stretch(t *testing.T) {
	shot, err := NewScreenshot(encodeTestPNG(t, 192, 108, color.RGBA{255, 0, 0, 255}))
	require.NoError(t, err)
	target := screenspace.MustSpace(50, 50)

	resized, err := shot.Resize(target, screenspace.ResizeModeStretch)
	require.NoError(t, err)
	assert.Equal(t, target, resized.Space())

	img, err := resized.Image()
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	meta := resized.ResizeMetadata()
	require.NotNil(t, meta)
	assert.Equal(t, screenspace.ResizeModeStretch, meta.Mode())

	// The source is left untouched.
	assert.Equal(t, screenspace.MustSpace(192, 108), shot.Space())
	assert.Nil(t, shot.ResizeMetadata())
}

func TestScreenshotResize_Letterbox(t *testing.T) {
	shot, err := NewScreenshot(encodeTestPNG(t, 192, 108, color.RGBA{255, 0, 0, 255}))
	require.NoError(t, err)
	target := screenspace.MustSpace(100, 100)

	resized, err := shot.Resize(target, screenspace.ResizeModeLetterbox)
	require.NoError(t, err)

	meta := resized.ResizeMetadata()
	require.NotNil(t, meta)
	assert.Equal(t, screenspace.ResizeModeLetterbox, meta.Mode())
	assert.Equal(t, 100, meta.ScaledWidth())
	assert.Equal(t, 56, meta.ScaledHeight())
	assert.Equal(t, 22, meta.OffsetY())

	img, err := resized.Image()
	require.NoError(t, err)

	// Padding bars are black, content is red.
	r, g, b, _ := img.At(50, 5).RGBA()
	assert.Zero(t, r>>8)
	assert.Zero(t, g>>8)
	assert.Zero(t, b>>8)

	r, _, _, _ = img.At(50, 50).RGBA()
	assert.Greater(t, r>>8, uint32(200))

	// The re-encoded bytes decode to the same space.
	again, err := NewScreenshot(resized.Bytes())
	require.NoError(t, err)
	assert.Equal(t, target, again.Space())
}

func TestScreenshotResize_MapBack(t *testing.T) {
	shot, err := NewScreenshot(encodeTestPNG(t, 192, 108, color.White))
	require.NoError(t, err)
	resized, err := shot.Resize(screenspace.MustSpace(100, 100), screenspace.ResizeModeLetterbox)
	require.NoError(t, err)

	c := screenspace.MustCoordinate(50, 50, resized.Space())
	orig := c.ToSpace(shot.Space(), resized.ResizeMetadata())
	assert.Equal(t, shot.Space(), orig.Space())
	assert.InDelta(t, 96, orig.X(), 1)
	assert.InDelta(t, 54, orig.Y(), 1)
}
