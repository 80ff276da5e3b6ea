package utils

import (
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadTempDir is where multipart uploads land before the media host
// accepts them.
func UploadTempDir() string {
	return filepath.Join(os.TempDir(), "lms-uploads")
}

// RemoveLocalFile deletes a temp upload, logging instead of failing.
func RemoveLocalFile(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("Error deleting local file %s: %v", path, err)
	}
}

// SaveUploadedFile writes a multipart upload to destDir under a unique name
// and returns the local path. The caller removes the file once the media
// host has accepted it.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Create a unique filename
	ext := filepath.Ext(file.Filename)
	newFilename := uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	// Create destination file
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// Copy the file content
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}
