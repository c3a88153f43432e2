// Package imaging decodes uploaded images and normalizes them for the
// vision provider.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"

	// Register decoders for the accepted upload formats.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// allowedExtensions is the accepted set of upload file extensions.
var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

const jpegQuality = 90

// AllowedExtension reports whether the filename carries an accepted image
// extension, case-insensitively.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// Normalize decodes an image in any accepted format and re-encodes it as an
// RGB JPEG, the single format handed to the vision provider. Paletted,
// grayscale, and alpha color models are flattened by the JPEG encoder.
func Normalize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
