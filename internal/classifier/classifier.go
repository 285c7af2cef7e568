package classifier

import (
	"bytes"
	"io"
	"os"
)

// Orientation classes shown as a badge on each tile.
const (
	Portrait  = "portrait"
	Landscape = "landscape"
	Square    = "square"
	Panorama  = "panorama"
)

// Orientation classifies a photo by aspect ratio. Ratios within 5% of 1 are
// square; 2:1 or wider is a panorama.
func Orientation(width, height int) string {
	if width <= 0 || height <= 0 {
		return Landscape
	}
	r := float64(width) / float64(height)
	switch {
	case r >= 2.0:
		return Panorama
	case r > 1.05:
		return Landscape
	case r >= 0.95:
		return Square
	default:
		return Portrait
	}
}

// Image formats recognised by DetectImage.
const (
	JPEG = "jpeg"
	PNG  = "png"
	WebP = "webp"
	AVIF = "avif"
)

// DetectImage reports the image format of the file at path from its magic
// bytes, or "" when it is not a recognised image (for example an HTML error page).
func DetectImage(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()
	buf := make([]byte, 12)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return ""
	}
	return detectMagic(buf[:n])
}

func detectMagic(buf []byte) string {
	switch {
	case len(buf) >= 3 && buf[0] == 0xFF && buf[1] == 0xD8 && buf[2] == 0xFF:
		return JPEG
	case len(buf) >= 8 && bytes.Equal(buf[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return PNG
	case len(buf) >= 12 && string(buf[:4]) == "RIFF" && string(buf[8:12]) == "WEBP":
		return WebP
	case len(buf) >= 12 && string(buf[4:8]) == "ftyp" && (string(buf[8:12]) == "avif" || string(buf[8:12]) == "avis"):
		return AVIF
	}
	return ""
}
