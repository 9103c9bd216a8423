// Package canvas draws lines, rectangles and text onto an RGB565 frame buffer.
//
// A Canvas never talks to the display itself; Display hands the frame to the
// Flusher it was created with, usually an *st7789.Dev.
package canvas

import (
	"image/color"

	"periph.io/x/devices/v3/st7789/image565"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// textBaseline is the distance from the top of a text line to its baseline.
const textBaseline = 8

// Flusher sends a finished frame to a panel.
type Flusher interface {
	Show() error
}

// Canvas implements drawing primitives over an *image565.Image.
type Canvas struct {
	img  *image565.Image
	out  Flusher
	font tinyfont.Fonter
}

// New returns a Canvas drawing into img. out may be nil, in which case
// Display is a no-op.
func New(img *image565.Image, out Flusher) *Canvas {
	return &Canvas{img: img, out: out, font: &proggy.TinySZ8pt7b}
}

// SetFont replaces the font used by Text.
func (c *Canvas) SetFont(f tinyfont.Fonter) {
	c.font = f
}

// Image returns the image the canvas draws into.
func (c *Canvas) Image() *image565.Image {
	return c.img
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	r := c.img.Bounds()
	return int16(r.Dx()), int16(r.Dy())
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.Pixel(int(x), int(y), image565.Model.Convert(col).(image565.RGB565))
}

// Display implements drivers.Displayer by flushing the frame.
func (c *Canvas) Display() error {
	if c.out == nil {
		return nil
	}
	return c.out.Show()
}

// FillRectangle fills a rectangle given a drivers.Displayer style color.
func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	c.FillRect(int(x), int(y), int(width), int(height), image565.Model.Convert(col).(image565.RGB565))
	return nil
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col image565.RGB565) {
	c.img.Fill(col)
}

// Pixel sets one pixel, relative to the image origin.
func (c *Canvas) Pixel(x, y int, col image565.RGB565) {
	origin := c.img.Rect.Min
	c.img.SetRGB565(origin.X+x, origin.Y+y, col)
}

// HLine draws a horizontal line of w pixels starting at (x, y).
func (c *Canvas) HLine(x, y, w int, col image565.RGB565) {
	c.FillRect(x, y, w, 1, col)
}

// VLine draws a vertical line of h pixels starting at (x, y).
func (c *Canvas) VLine(x, y, h int, col image565.RGB565) {
	c.FillRect(x, y, 1, h, col)
}

// Rect draws the one pixel outline of a w×h rectangle.
func (c *Canvas) Rect(x, y, w, h int, col image565.RGB565) {
	if w <= 0 || h <= 0 {
		return
	}
	c.HLine(x, y, w, col)
	c.HLine(x, y+h-1, w, col)
	c.VLine(x, y, h, col)
	c.VLine(x+w-1, y, h, col)
}

// FillRect fills a w×h rectangle, clipped to the canvas.
func (c *Canvas) FillRect(x, y, w, h int, col image565.RGB565) {
	sw, sh := c.img.Rect.Dx(), c.img.Rect.Dy()
	x0, y0 := clamp(x, 0, sw), clamp(y, 0, sh)
	x1, y1 := clamp(x+w, 0, sw), clamp(y+h, 0, sh)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	origin := c.img.Rect.Min
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.img.SetRGB565(origin.X+px, origin.Y+py, col)
		}
	}
}

// Text renders s with its top-left corner at (x, y).
func (c *Canvas) Text(s string, x, y int, col image565.RGB565) {
	r, g, b, _ := col.RGBA()
	rgba := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF}
	tinyfont.WriteLine(c, c.font, int16(x), int16(y+textBaseline), s, rgba)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ drivers.Displayer = &Canvas{}
