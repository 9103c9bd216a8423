// Package st7789 controls the 1.14" 240×135 ST7789 LCD via SPI.
//
// This is the panel found on the Waveshare Pico-LCD-1.14 and PicoGo boards.
// The driver keeps a full RGB565 frame buffer in memory and implements the
// display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 240×135 visible pixels inside a 320×240 controller RAM
// - 16-bit RGB565 color (5 bits red, 6 bits green, 5 bits blue)
// - Write-only protocol: the controller is never read back
// - Every update transfers the whole frame (64800 bytes)
//
// # Hardware Connection
//
// Connect the panel to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	CLK         → SPI Clock (SCLK)
//	DIN         → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select, or a GPIO passed as Opts.CS
//	RST         → GPIO passed as Opts.RST
//	BL          → PWM capable GPIO, driven by the application
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/st7789"
//		"periph.io/x/devices/v3/st7789/image565"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		defer spiBus.Close()
//
//		dev, _ := st7789.NewSPI(spiBus, gpioreg.ByName("GPIO8"), &st7789.Opts{
//			RST: gpioreg.ByName("GPIO12"),
//			CS:  gpioreg.ByName("GPIO9"),
//		})
//		defer dev.Halt()
//
//		dev.Image().Fill(image565.FromRGB(0xFF, 0x80, 0x00))
//		dev.Show()
//	}
//
// # Bus Transactions
//
// Every command and every block of parameter or pixel data is one
// transaction: CS high, DC set (low for a command, high for data), CS low,
// transfer, CS high. Pixel data always goes out under a single chip select
// assertion, even when the SPI driver limits the size of one transfer.
//
// # Initialization
//
// NewSPI pulses RST (high, low, high, 10ms each) and then sends a fixed
// register sequence: memory access control, 16 bpp pixel format, porch and
// gate timing, power and VCOM settings, positive and negative gamma curves,
// inversion on, sleep out and display on. Init replays the same sequence.
//
// # Drawing
//
// Drawing happens in memory, through Image, Buffer, Draw or the canvas
// package, and becomes visible on the next Show:
//
//	c := canvas.New(dev.Image(), dev)
//	c.Fill(image565.White)
//	c.Text("Hello", 90, 40, image565.Black)
//	c.Display()
//
// Show is not synchronized with writes into the frame buffer. Use Update
// when another goroutine may call Show.
//
// # Byte Order
//
// The controller expects each pixel big endian, which is the default.
// Opts.ByteOrder can select binary.LittleEndian to reproduce frame buffers
// prepared for little endian hosts; image565.Red, Green and Blue only
// match their names in that mode.
//
// # Datasheet
//
// https://www.waveshare.com/w/upload/a/ae/ST7789_Datasheet.pdf
package st7789
