package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/df07/go-bpwf/pkg/material"
)

// ImageInfo describes an image file without decoding its pixels
type ImageInfo struct {
	Path   string
	Format string
	Width  int
	Height int
}

// CheckImage verifies that path, after ~ expansion, names a readable image
// file and returns the expanded path
func CheckImage(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	if err := material.CheckImage(expanded); err != nil {
		return "", err
	}
	return expanded, nil
}

// LoadImageInfo reads the header of a PNG or JPEG image
func LoadImageInfo(filename string) (ImageInfo, error) {
	path, err := CheckImage(filename)
	if err != nil {
		return ImageInfo{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageInfo{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
