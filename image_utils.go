package kitti2yolo

import (
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// The fixed KITTI camera image dimensions, used when an image cannot be
// decoded.
const (
	defaultImageWidth  = 1242
	defaultImageHeight = 375
)

// decodeImageConfig opens the file at path and returns the results of
// image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// imageDimensions probes the pixel dimensions of the image at path without
// decoding the pixel data.
func imageDimensions(path string) (width, height int, err error) {
	config, _, err := decodeImageConfig(path)
	if err != nil {
		return 0, 0, err
	}

	return config.Width, config.Height, nil
}

// reencodeImage decodes the image at srcPath and writes it to dstPath in the
// encoding implied by the destination file extension. JPEG output uses the
// given quality.
func reencodeImage(srcPath, dstPath string, jpegQuality int) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return err
	}

	return imaging.Save(img, dstPath, imaging.JPEGQuality(jpegQuality))
}

// copyFile copies the file at srcPath to dstPath byte for byte, overwriting
// any existing file.
func copyFile(srcPath, dstPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(src, &err)

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(dst, &err)

	_, err = io.Copy(dst, src)
	return err
}
