package filemgr

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"voyago/utils"

	"github.com/disintegration/imaging"
)

const tourUploadDir = "static/tourpic"

// UploadDir resolves the tour image directory, overridable for tests
// and deployments via UPLOAD_DIR.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return tourUploadDir
}

// SaveTourImage stores the original and a 480px-wide thumbnail, and
// returns the served URLs for both.
func SaveTourImage(file multipart.File, header *multipart.FileHeader) (string, string, error) {
	img, err := imaging.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := utils.GenerateRandomString(16)
	fileName := uniqueID + ".jpg"

	dir := UploadDir()
	thumbDir := filepath.Join(dir, "thumb")
	if err := utils.EnsureDir(dir); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		return "", "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(dir, fileName)); err != nil {
		return "", "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumb := imaging.Resize(img, 480, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, fileName)); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return "/static/tourpic/" + fileName, "/static/tourpic/thumb/" + fileName, nil
}
