package pricelist

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExtractor is a mock of a price list extractor.
type mockExtractor struct {
	calls       int
	received    []byte
	returnError error
}

// ExtractPriceList mocks the ExtractPriceList method.
func (m *mockExtractor) ExtractPriceList(ctx context.Context, imageData []byte) ([]Entry, error) {
	m.calls++
	m.received = imageData
	if m.returnError != nil {
		return nil, m.returnError
	}
	return []Entry{{Name: "Sea Bass", UnitPrice: 161, Unit: "KG"}}, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareImageDownscales(t *testing.T) {
	out, err := PrepareImage(testPNG(t, 400, 200), 100)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	out, err = PrepareImage(testPNG(t, 40, 20), 100)
	require.NoError(t, err)
	img, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestPrepareImageRejectsGarbage(t *testing.T) {
	_, err := PrepareImage([]byte("not an image"), 100)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestScannerCachesByHash(t *testing.T) {
	extractor := &mockExtractor{}
	dir := filepath.Join(t.TempDir(), "sheets")
	scanner := NewScanner(extractor, dir)
	data := testPNG(t, 64, 64)

	entries, err := scanner.Scan(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sea Bass", entries[0].Name)

	_, err = jpeg.Decode(bytes.NewReader(extractor.received))
	assert.NoError(t, err, "extractor receives a JPEG")

	_, err = scanner.Scan(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, extractor.calls)

	archived, err := os.ReadFile(filepath.Join(dir, ImageHash(data)+".png"))
	require.NoError(t, err)
	assert.Equal(t, data, archived, "the original upload is archived, not the downscaled copy")
}

func TestScannerCacheIsBounded(t *testing.T) {
	extractor := &mockExtractor{}
	scanner := NewScanner(extractor, "")
	sheets := make([][]byte, maxCachedScans+1)
	for i := range sheets {
		sheets[i] = testPNG(t, 8, 8+i)
		_, err := scanner.Scan(context.Background(), sheets[i])
		require.NoError(t, err)
	}
	assert.Equal(t, maxCachedScans+1, extractor.calls)
	assert.Len(t, scanner.cache, maxCachedScans)

	_, err := scanner.Scan(context.Background(), sheets[len(sheets)-1])
	require.NoError(t, err)
	assert.Equal(t, maxCachedScans+1, extractor.calls, "newest sheet is still cached")

	_, err = scanner.Scan(context.Background(), sheets[0])
	require.NoError(t, err)
	assert.Equal(t, maxCachedScans+2, extractor.calls, "oldest sheet was evicted")
	assert.Len(t, scanner.cache, maxCachedScans)
}

func TestScannerDoesNotCacheErrors(t *testing.T) {
	extractor := &mockExtractor{returnError: ErrNotPriceList}
	scanner := NewScanner(extractor, "")
	data := testPNG(t, 32, 32)

	_, err := scanner.Scan(context.Background(), data)
	assert.True(t, errors.Is(err, ErrNotPriceList))

	extractor.returnError = nil
	entries, err := scanner.Scan(context.Background(), data)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, extractor.calls)
}
