package main

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"edak/models"
	"edak/pkg/scan"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 * 1024 * 1024

// saveBlob stores an uploaded file under the upload base with a generated
// path and returns its reference. Image uploads also get a small preview
// written beside the original; preview failures are logged and ignored.
func (a *app) saveBlob(c *gin.Context, file *multipart.FileHeader, category string) (models.FileRef, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	rel := filepath.Join(category, uuid.NewString()+ext)
	full := filepath.Join(a.cfg.UploadBase, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return models.FileRef{}, err
	}
	if err := c.SaveUploadedFile(file, full); err != nil {
		return models.FileRef{}, err
	}
	if scan.IsImagePath(full) {
		if err := writePreview(full); err != nil {
			a.log.Warn("preview generation failed", "path", rel, "err", err)
		}
	}
	return models.FileRef{
		FileName:    file.Filename,
		FileURL:     "/uploads/" + filepath.ToSlash(rel),
		FileSize:    file.Size,
		ContentType: file.Header.Get("Content-Type"),
		Category:    category,
		StorePath:   rel,
	}, nil
}

// writePreview renders a 320px-wide JPEG preview next to the original.
func writePreview(full string) error {
	img, err := imaging.Open(full, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	return imaging.Save(thumb, full+".preview.jpg")
}

// removeBlob deletes a stored file and its preview if present. Missing files
// are fine; the row is the source of truth.
func (a *app) removeBlob(ref models.FileRef) {
	if ref.StorePath == "" {
		return
	}
	full := filepath.Join(a.cfg.UploadBase, ref.StorePath)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		a.log.Warn("failed to remove blob", "path", ref.StorePath, "err", err)
	}
	_ = os.Remove(full + ".preview.jpg")
}

// blobPath resolves a reference to its on-disk location.
func (a *app) blobPath(ref models.FileRef) string {
	return filepath.Join(a.cfg.UploadBase, ref.StorePath)
}
