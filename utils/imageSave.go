package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// SaveImageWithThumb decodes an uploaded image, writes the original and a
// 300px-wide thumbnail under dir, and returns the served path of the
// original. Thumbnails land in dir/thumb with the same filename.
func SaveImageWithThumb(file multipart.File, dir, servedPrefix string) (string, error) {
	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	uniqueID := GenerateID(16)
	fileName := uniqueID + ".jpg"

	thumbDir := filepath.Join(dir, "thumb")
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := EnsureDir(thumbDir); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, filepath.Join(dir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save original image: %w", err)
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, filepath.Join(thumbDir, fileName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return servedPrefix + "/" + fileName, nil
}
