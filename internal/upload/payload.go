package upload

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const jpegQuality = 90

// jpegPayload decodes the image at path (any format imaging understands),
// applies EXIF orientation and re-encodes it as JPEG.
func jpegPayload(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
