// Package scan runs best-effort OCR over an uploaded correspondence scan to
// suggest the inward number printed on it. Failure at any stage yields no
// suggestion, never an error surfaced to the uploader.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// SuggestInwardNumber OCRs the image at path and returns inward-number
// candidates in reading order, best first. Non-image or unreadable files
// return an empty slice and the underlying error for logging.
func SuggestInwardNumber(path string) ([]string, error) {
	prepared, cleanup, err := preprocess(path)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	defer cleanup()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetImage(prepared); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	return FindInwardCandidates(text), nil
}

// preprocess loads the scan, upsamples small images, converts to grayscale
// and sharpens, writing the result to a temp file for the OCR engine.
func preprocess(path string) (string, func(), error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, err
	}
	if img.Bounds().Dx() < 1200 {
		img = imaging.Resize(img, 1200, 0, imaging.Lanczos)
	}
	gray := imaging.AdjustContrast(imaging.Grayscale(img), 20)
	gray = imaging.Sharpen(gray, 1.2)

	tmp, err := os.CreateTemp("", "scan-*.png")
	if err != nil {
		return "", nil, err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	if err := imaging.Save(gray, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", nil, err
	}
	return tmpPath, func() { _ = os.Remove(tmpPath) }, nil
}

// IsImagePath reports whether the file extension is one the OCR pass accepts.
func IsImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return true
	}
	return false
}
