// Package preview turns small wallpaper thumbnails into terminal art using
// upper half-block cells, two image rows per text row.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// ErrEmpty is returned for a zero-length body.
var ErrEmpty = errors.New("empty image")

// Decode reads a JPEG or PNG body.
func Decode(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return img, nil
}

// Render scales img to cols x rows cells (nearest neighbour) and paints it.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	px := rows * 2
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			top := sample(img, b, c, r*2, cols, px)
			bot := sample(img, b, c, r*2+1, cols, px)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(Hex(top))).
				Background(lipgloss.Color(Hex(bot))).
				Render(halfBlock))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Placeholder fills a cols x rows block with the average colour, or a
// neutral grey when img is nil.
func Placeholder(img image.Image, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	hex := "#808080"
	if img != nil {
		hex = Hex(Average(img))
	}
	line := strings.Repeat(" ", cols)
	st := lipgloss.NewStyle().Background(lipgloss.Color(hex))
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = st.Render(line)
	}
	return strings.Join(lines, "\n")
}

// Average returns the mean colour of img, sampling at most 64x64 points.
func Average(img image.Image) color.RGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return color.RGBA{A: 0xff}
	}
	sx, sy := min(b.Dx(), 64), min(b.Dy(), 64)
	var rs, gs, bs, n uint64
	for y := 0; y < sy; y++ {
		for x := 0; x < sx; x++ {
			c := rgba(img.At(b.Min.X+x*b.Dx()/sx, b.Min.Y+y*b.Dy()/sy))
			rs += uint64(c.R)
			gs += uint64(c.G)
			bs += uint64(c.B)
			n++
		}
	}
	return color.RGBA{R: uint8(rs / n), G: uint8(gs / n), B: uint8(bs / n), A: 0xff}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// SizedURL asks the image CDN for a JPEG no wider than width pixels. Non-imgix
// URLs come back unchanged apart from the extra query parameters.
func SizedURL(raw string, width int) string {
	if raw == "" || width <= 0 {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("w", fmt.Sprint(width))
	q.Set("fm", "jpg")
	u.RawQuery = q.Encode()
	return u.String()
}

func sample(img image.Image, b image.Rectangle, x, y, w, h int) color.RGBA {
	sx := b.Min.X + x*b.Dx()/w
	sy := b.Min.Y + y*b.Dy()/h
	return rgba(img.At(sx, sy))
}

func rgba(c color.Color) color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}
