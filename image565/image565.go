// Package image565 provides a 16-bit RGB565 image format for the ST7789 display controller.
//
// Each pixel occupies two bytes: 5 bits red, 6 bits green, 5 bits blue.
// The byte order of a pixel in Pix is selected by Image.Order.
package image565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// RGB565 is a packed 16-bit color: bits 15-11 red, 10-5 green, 4-0 blue.
type RGB565 uint16

// Named colors of the Pico-LCD-1.14 board sample.
//
// The values are kept as published even though, read as RGB565, Red is
// green, Green is blue and Blue is red. They show the named color on the
// panel only when pixels are stored with binary.LittleEndian.
const (
	Red   RGB565 = 0x07E0
	Green RGB565 = 0x001F
	Blue  RGB565 = 0xF800
	White RGB565 = 0xFFFF
	Black RGB565 = 0x0000
)

// RGBA implements color.Color.
// Each channel is widened by bit replication so that 0x1F and 0x3F map to 0xFFFF.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1F
	g6 := uint32(c>>5) & 0x3F
	b5 := uint32(c) & 0x1F

	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	return r, g, b, 0xFFFF
}

// FromRGB packs 8-bit channels into an RGB565 value.
func FromRGB(r, g, b uint8) RGB565 {
	return RGB565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

func toRGB565(c color.Color) color.Color {
	if v, ok := c.(RGB565); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return RGB565(uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11))
}

// Model converts colors to RGB565.
var Model = color.ModelFunc(toRGB565)

// Image is an RGB565 image with two bytes per pixel.
type Image struct {
	Pix    []byte           // Pixel data, 2 bytes per pixel
	Stride int              // Bytes per row
	Rect   image.Rectangle  // Image bounds
	Order  binary.ByteOrder // Pixel byte order, nil means big endian
}

// New creates a new Image with the specified bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, w*h*2),
		Stride: w * 2,
		Rect:   r,
	}
}

// Wrap returns an Image backed by pix, without copying.
// pix must hold exactly r.Dx()*r.Dy()*2 bytes.
func Wrap(pix []byte, r image.Rectangle, order binary.ByteOrder) *Image {
	if len(pix) != r.Dx()*r.Dy()*2 {
		panic("image565: buffer size does not match bounds")
	}
	return &Image{
		Pix:    pix,
		Stride: r.Dx() * 2,
		Rect:   r,
		Order:  order,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the raw color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565(p.order().Uint16(p.Pix[i : i+2]))
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(RGB565))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (p *Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.order().PutUint16(p.Pix[i:i+2], uint16(c))
}

// Fill sets every pixel to c.
func (p *Image) Fill(c RGB565) {
	if len(p.Pix) < 2 {
		return
	}
	p.order().PutUint16(p.Pix[:2], uint16(c))
	for n := 2; n < len(p.Pix); n *= 2 {
		copy(p.Pix[n:], p.Pix[:n])
	}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *Image) order() binary.ByteOrder {
	if p.Order == nil {
		return binary.BigEndian
	}
	return p.Order
}
