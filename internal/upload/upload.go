// Package upload validates and persists a single image file per request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldName is the multipart form field carrying the image.
const FieldName = "file"

// ErrNoFile is returned when the request carries no file under FieldName.
// Whether that is an error is the caller's call: create requires an image,
// update keeps the old one.
var ErrNoFile = errors.New("no file in request")

// ErrBadType is returned when extension or declared content-type falls
// outside the allow-list.
var ErrBadType = errors.New("Only JPG, JPEG, and PNG formats are allowed")

var allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

var allowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Saver writes accepted images into a fixed local directory, created on
// first use, and hands back stable relative paths.
type Saver struct {
	dir string
}

func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save extracts the image from the request, validates it, and writes it under
// a generated unique name. Returns the relative path, e.g. "uploads/....png".
func (s *Saver) Save(r *http.Request) (string, error) {
	file, header, err := r.FormFile(FieldName)
	if err != nil {
		return "", ErrNoFile
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] || !allowedMimes[strings.ToLower(header.Header.Get("Content-Type"))] {
		return "", ErrBadType
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("make upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	if err := writeFile(file, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}

	return path(s.dir, name), nil
}

// Remove deletes a previously stored image given its relative path. Paths
// outside the upload directory are ignored.
func (s *Saver) Remove(relPath string) error {
	cleaned := filepath.Clean(relPath)
	if !strings.HasPrefix(cleaned, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return nil
	}
	if err := os.Remove(cleaned); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func writeFile(src multipart.File, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// path joins with forward slashes so stored paths stay portable URLs.
func path(dir, name string) string {
	return strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/" + name
}
