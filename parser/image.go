package parser

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// DetectImageFormat sniffs the magic bytes of an image.
func DetectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errors.New("data too short to determine format")
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg", nil
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return "png", nil
	case string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a":
		return "gif", nil
	case string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "webp", nil
	}
	return "", errors.New("unknown image format")
}

// extensions used when renaming by sniffed format
var formatExt = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

// GiveFilenameExtension replaces filename's extension with the one matching
// format. Unknown formats leave the name alone.
func GiveFilenameExtension(filename, format string) string {
	ext, ok := formatExt[format]
	if !ok {
		return filename
	}
	return strings.TrimSuffix(filename, path.Ext(filename)) + "." + ext
}

// NormalizeImage prepares downloaded page bytes for re-hosting. JPEG, PNG and
// GIF are kept byte for byte; WebP is re-encoded as JPEG since chat clients
// render it unreliably. The returned filename carries the extension of the
// returned bytes.
func NormalizeImage(data []byte, filename string) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}

	format, err := DetectImageFormat(data)
	if err != nil {
		return nil, "", err
	}
	if format != "webp" {
		return data, GiveFilenameExtension(filename, format), nil
	}

	img, err := decodeImage(format, data)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), GiveFilenameExtension(filename, "jpeg"), nil
}

func decodeImage(format string, data []byte) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	reader := bytes.NewReader(data)

	switch format {
	case "png":
		img, err = png.Decode(reader)
	case "gif":
		img, err = gif.Decode(reader)
	case "webp":
		img, err = webp.Decode(reader)
	default:
		img, err = imaging.Decode(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return img, nil
}
