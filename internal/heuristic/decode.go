package heuristic

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDecodeError reports an image that could not be read or decoded.
type ImageDecodeError struct {
	Name string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decode image %s: %v", e.Name, e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// Decode reads one image from r. name is only used in errors.
func Decode(r io.Reader, name string) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", &ImageDecodeError{Name: name, Err: err}
	}
	return img, format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageDecodeError{Name: filepath.Base(path), Err: err}
	}
	defer f.Close()
	img, _, err := Decode(f, filepath.Base(path))
	return img, err
}

// GenerateFromFile decodes path and generates diagram text named after the
// file's base name.
func GenerateFromFile(path string) (string, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return "", err
	}
	return GenerateFromImage(img, filepath.Base(path)), nil
}
