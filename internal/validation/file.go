package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints covers goal attachment images and avatars.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	},
	MaxSize: 5 << 20, // 5MB
}

// ImageExtension returns the lower-cased extension of filename without the
// dot when it is an allowed image type.
func ImageExtension(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !ImageConstraints.AllowedExtensions[ext] {
		return "", false
	}
	return strings.TrimPrefix(ext, "."), true
}

// ValidateFile checks an upload's size, sniffed content type and extension.
// maxSize overrides the constraint's limit when positive.
func ValidateFile(header *multipart.FileHeader, constraints FileConstraints, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = constraints.MaxSize
	}

	// Check file size first (before reading content)
	if header.Size > maxSize {
		return fmt.Errorf("file too large: maximum size is %d MB", maxSize/(1<<20))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return sniff(file, constraints)
}

// sniff reads the magic number, which cannot be faked by renaming the file
// or changing the Content-Type header.
func sniff(file io.Reader, constraints FileConstraints) error {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	return nil
}
