package feature

import (
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrUndecodableImage marks paths that do not resolve to a decodable image.
// Callers treat it as invalid input for the single call, never retried.
var ErrUndecodableImage = errors.New("cannot decode image")

// DecodeImageFile opens and decodes an image file. JPEG, PNG and GIF are
// supported.
func DecodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUndecodableImage, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUndecodableImage, path, err)
	}
	return img, nil
}
