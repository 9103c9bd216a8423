// Package image565 provides a 16-bit RGB565 image format for the ST7789 display controller.
//
// Pixels are stored as two bytes each, row after row with no padding, which is
// exactly the layout the ST7789 consumes after a memory write command.
//
// Memory layout example for a 2-pixel row with big endian order:
//
//	Pixels: 0       1
//	Values: 0xF800  0x001F
//	Bytes:  F8 00   00 1F
//
// With binary.LittleEndian the bytes of each pixel are swapped:
//
//	Bytes:  00 F8   1F 00
//
// This package provides:
//
// - RGB565: A color type holding a packed 16-bit value
// - Model: A color model converting standard Go colors to RGB565
// - Image: A draw.Image over a byte slice, optionally wrapping a driver's frame buffer
//
// Example usage:
//
//	// Create a 240x135 image
//	img := image565.New(image.Rect(0, 0, 240, 135))
//
//	// Set a pixel
//	img.SetRGB565(10, 20, image565.FromRGB(0xFF, 0x80, 0x00))
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package image565
