package pricelist

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nfnt/resize"
)

// ErrNotPriceList is returned by extractors when the image is not a price list or invoice.
var ErrNotPriceList = errors.New("image does not contain a price list")

// ErrInvalidImage is returned when the upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// MaxImageDimension is the longest side, in pixels, of images sent for extraction.
const MaxImageDimension = 1600

// maxCachedScans bounds the scan cache; the oldest result is evicted first.
const maxCachedScans = 256

// Extractor reads price list entries from a photographed price sheet or invoice.
type Extractor interface {
	ExtractPriceList(ctx context.Context, imageData []byte) ([]Entry, error)
}

// ImageHash calculates the SHA256 hash of the image data.
func ImageHash(imageData []byte) string {
	hash := sha256.Sum256(imageData)
	return hex.EncodeToString(hash[:])
}

// Scanner prepares price sheet photos and extracts their entries. Results are
// cached by image hash so a re-uploaded sheet is not sent to the model twice.
type Scanner struct {
	extractor  Extractor
	archiveDir string

	mu    sync.Mutex
	cache map[string][]Entry
	order []string
}

// NewScanner creates a Scanner. When archiveDir is set the original uploads
// are kept there, named by image hash.
func NewScanner(extractor Extractor, archiveDir string) *Scanner {
	return &Scanner{extractor: extractor, archiveDir: archiveDir, cache: make(map[string][]Entry)}
}

// Scan extracts the entries of a price sheet photo.
func (s *Scanner) Scan(ctx context.Context, imageData []byte) ([]Entry, error) {
	hash := ImageHash(imageData)

	s.mu.Lock()
	cached, ok := s.cache[hash]
	s.mu.Unlock()
	if ok {
		log.Printf("Price list found in cache for image hash: %s", hash)
		return cached, nil
	}

	prepared, err := PrepareImage(imageData, MaxImageDimension)
	if err != nil {
		return nil, err
	}

	if s.archiveDir != "" {
		if path, err := s.archive(imageData, hash); err != nil {
			log.Printf("failed to archive price sheet %s: %v", path, err)
		}
	}

	log.Printf("Extracting price list for image hash: %s", hash)
	entries, err := s.extractor.ExtractPriceList(ctx, prepared)
	if err != nil {
		return nil, err
	}

	s.remember(hash, entries)
	return entries, nil
}

func (s *Scanner) remember(hash string, entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[hash]; ok {
		return
	}
	if len(s.order) >= maxCachedScans {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[hash] = entries
	s.order = append(s.order, hash)
}

func (s *Scanner) archive(imageData []byte, hash string) (string, error) {
	if err := os.MkdirAll(s.archiveDir, 0755); err != nil {
		return s.archiveDir, fmt.Errorf("failed to create archive directory: %w", err)
	}
	path := filepath.Join(s.archiveDir, hash+archiveExtension(imageData))
	return path, os.WriteFile(path, imageData, 0644)
}

func archiveExtension(imageData []byte) string {
	if bytes.HasPrefix(imageData, []byte("\x89PNG")) {
		return ".png"
	}
	return ".jpg"
}

// PrepareImage decodes a JPEG or PNG image, shrinks it so that its longest side
// is at most maxDimension and re-encodes it as JPEG.
func PrepareImage(imageData []byte, maxDimension uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxDimension || uint(bounds.Dy()) > maxDimension {
		img = resize.Thumbnail(maxDimension, maxDimension, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEntries reads the JSON array of entries from a model response, which
// may be wrapped in markdown fences or surrounded by prose.
func DecodeEntries(text string) ([]Entry, error) {
	trimmed := strings.TrimSpace(text)
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || start > end {
		if strings.HasPrefix(strings.ToUpper(trimmed), "NO") {
			return nil, ErrNotPriceList
		}
		return nil, fmt.Errorf("could not find JSON array in response: %s", text)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price list JSON: %w. Raw response: %s", err, trimmed[start:end+1])
	}

	out := entries[:0]
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" || e.UnitPrice < 0 {
			continue
		}
		if e.WastagePercent != nil && (*e.WastagePercent < 0 || *e.WastagePercent > 100) {
			e.WastagePercent = nil
		}
		out = append(out, e)
	}
	return out, nil
}

// ExtractionPrompt is the instruction sent with every price sheet image.
const ExtractionPrompt = "Analyze the provided image of a supplier price list or invoice. " +
	"If it is not a price list or invoice, respond with 'NO' followed by a 5-word description of the image content. " +
	"Otherwise return a single, clean JSON array with one object per priced item and the following keys: " +
	"'name' (string), 'product_code' (string), 'unit_price' (number, price per unit without currency symbols), " +
	"'unit' (string, e.g. KG, L, EA), 'pack_size' (string) and 'category' (string). " +
	"The JSON response should be clean and not contain any markdown formatting (e.g., ```json)."
