// Package render produces the capture "screenshot": a map placeholder (or a
// configured background image) with the info text band and an optional
// location pin drawn on top, encoded as PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/dmitrijs2005/snaplocation/internal/models"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	padding    = 12
	lineHeight = 16
	pinRadius  = 9
	gridStep   = 48

	// maxBandShare caps the info band at this fraction of the screen height.
	maxBandShare = 0.32
)

var (
	bandColor = color.RGBA{A: 0xb0}
	textColor = color.White
	pinColor  = color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
)

var mapColors = map[models.MapType][2]color.RGBA{
	models.MapStandard:  {{R: 0xf2, G: 0xef, B: 0xe9, A: 0xff}, {R: 0xd8, G: 0xd4, B: 0xcc, A: 0xff}},
	models.MapSatellite: {{R: 0x2e, G: 0x4a, B: 0x2c, A: 0xff}, {R: 0x3d, G: 0x5c, B: 0x3a, A: 0xff}},
	models.MapHybrid:    {{R: 0x2e, G: 0x4a, B: 0x2c, A: 0xff}, {R: 0xf2, G: 0xd0, B: 0x6b, A: 0xff}},
}

// Frame is everything visible on screen at capture time.
type Frame struct {
	MapType models.MapType
	Center  models.Coordinate
	Radius  float64
	ShowPin bool
	Text    string
}

// Renderer draws frames at a fixed screen size.
type Renderer struct {
	width, height int
	background    image.Image
}

// New returns a Renderer for a width x height screen. A non-empty
// backgroundPath is decoded (PNG or JPEG) and scaled to the screen.
func New(width, height int, backgroundPath string) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", width, height)
	}
	r := &Renderer{width: width, height: height}
	if backgroundPath == "" {
		return r, nil
	}

	f, err := os.Open(backgroundPath)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	bg := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(bg, bg.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	r.background = bg
	return r, nil
}

// Render draws f and encodes it as PNG.
func (r *Renderer) Render(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Draw(f)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw renders f into a new image.
func (r *Renderer) Draw(f Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))

	if r.background != nil {
		draw.Draw(img, img.Bounds(), r.background, image.Point{}, draw.Src)
	} else {
		drawMap(img, f.MapType)
	}

	caption := fmt.Sprintf("%s  %s, %s  r=%gm", f.MapType,
		models.FormatDegrees(f.Center.Latitude), models.FormatDegrees(f.Center.Longitude), f.Radius)
	drawText(img, padding, r.height-padding, caption, color.Black)

	if f.ShowPin {
		drawPin(img, r.width/2, r.height/2)
	}
	if f.Text != "" {
		drawBand(img, strings.Split(f.Text, "\n"))
	}
	return img
}

func drawMap(img *image.RGBA, t models.MapType) {
	c, ok := mapColors[t]
	if !ok {
		c = mapColors[models.MapStandard]
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(c[0]), image.Point{}, draw.Src)

	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x += gridStep {
		draw.Draw(img, image.Rect(x, b.Min.Y, x+2, b.Max.Y), image.NewUniform(c[1]), image.Point{}, draw.Src)
	}
	for y := b.Min.Y; y < b.Max.Y; y += gridStep {
		draw.Draw(img, image.Rect(b.Min.X, y, b.Max.X, y+2), image.NewUniform(c[1]), image.Point{}, draw.Src)
	}
}

func drawPin(img *image.RGBA, cx, cy int) {
	for y := -pinRadius; y <= pinRadius; y++ {
		for x := -pinRadius; x <= pinRadius; x++ {
			if x*x+y*y <= pinRadius*pinRadius {
				img.Set(cx+x, cy+y-pinRadius, pinColor)
			}
		}
	}
	// stem down to the exact point
	for y := 0; y < pinRadius; y++ {
		img.Set(cx, cy-y, pinColor)
	}
}

// drawBand draws lines of text on a translucent band at the top. Lines that
// do not fit under the height cap are dropped.
func drawBand(img *image.RGBA, lines []string) {
	maxH := int(float64(img.Bounds().Dy()) * maxBandShare)
	if fit := (maxH - padding*2) / lineHeight; len(lines) > fit {
		lines = lines[:max(fit, 0)]
	}
	h := min(padding*2+lineHeight*len(lines), maxH)
	band := image.Rect(0, 0, img.Bounds().Dx(), h)
	draw.Draw(img, band, image.NewUniform(bandColor), image.Point{}, draw.Over)

	for i, line := range lines {
		drawText(img, padding, padding+lineHeight*(i+1)-3, line, textColor)
	}
}

func drawText(img *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
