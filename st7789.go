// Package st7789 controls the 1.14" 240x135 ST7789 RGB565 LCD via SPI.
//
// See the examples for how to use this package.
package st7789

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	logger "github.com/d2r2/go-logger"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/st7789/image565"
)

// Panel geometry. It is fixed for this panel.
const (
	Width  = 240
	Height = 135
)

// DefaultFreq is the SPI clock used when Opts.Freq is zero.
const DefaultFreq = 10 * physic.MegaHertz

// maxFreq is the fastest serial write clock in the ST7789 datasheet (16ns cycle).
const maxFreq = 62500 * physic.KiloHertz

// resetHold is how long each level of the reset pulse is held.
const resetHold = 10 * time.Millisecond

// ErrHalted is returned by operations on a halted device.
var ErrHalted = errors.New("st7789: halted")

var lg = logger.NewPackageLogger("st7789", logger.InfoLevel)

// sleep is replaced in tests.
var sleep = time.Sleep

// State is the lifecycle state of the panel.
type State int

const (
	Unpowered State = iota
	Resetting
	Initializing
	Ready
	Halted
)

func (s State) String() string {
	switch s {
	case Unpowered:
		return "Unpowered"
	case Resetting:
		return "Resetting"
	case Initializing:
		return "Initializing"
	case Ready:
		return "Ready"
	case Halted:
		return "Halted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Opts is the configuration for the ST7789 display.
type Opts struct {
	// Control lines
	RST gpio.PinOut // Reset pin, active low (required)
	CS  gpio.PinOut // Chip select pin, active low (optional, nil uses the SPI controller's CS)
	BL  gpio.PinOut // Backlight pin, never driven by the driver (optional)

	// SPI settings
	Freq physic.Frequency // Clock (default: 10MHz)
	Mode spi.Mode         // Clock polarity and phase (default: Mode0)

	// Pixel byte order in the frame buffer (default: big endian)
	ByteOrder binary.ByteOrder
}

// Dev is the device handle for the ST7789 display.
type Dev struct {
	// Communication
	b   *bus
	rst gpio.PinOut
	bl  gpio.PinOut

	freq physic.Frequency
	mode spi.Mode

	// mu guards the frame buffer and state, and serializes Init, Show and Halt.
	mu    sync.Mutex
	img   *image565.Image
	state State
}

// NewSPI creates a new ST7789 device connected via SPI, resets it and
// runs the initialization sequence.
//
// The SPI port is configured with opts.Freq (10MHz by default), opts.Mode
// and 8-bit transfers. The dc (Data/Command) GPIO pin must be provided.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, errors.New("st7789: SPI port is required")
	}
	if dc == nil {
		return nil, errors.New("st7789: DC pin is required")
	}
	if opts == nil || opts.RST == nil {
		return nil, errors.New("st7789: RST pin is required")
	}
	freq := opts.Freq
	if freq == 0 {
		freq = DefaultFreq
	}
	if freq < 0 {
		return nil, fmt.Errorf("st7789: invalid SPI frequency %s", freq)
	}
	if m := clockMode(opts.Mode); m < spi.Mode0 || m > spi.Mode3 {
		return nil, fmt.Errorf("st7789: invalid SPI mode %s", opts.Mode)
	}
	order := opts.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}

	c, err := p.Connect(freq, opts.Mode, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: failed to connect to SPI port: %w", err)
	}

	d := &Dev{
		b:    newBus(c, dc, opts.CS),
		rst:  opts.RST,
		bl:   opts.BL,
		freq: freq,
		mode: opts.Mode,
		img:  image565.Wrap(make([]byte, Width*Height*2), image.Rect(0, 0, Width, Height), order),
	}

	if err := d.Init(); err != nil {
		return nil, err
	}
	lg.Infof("%s ready at %s", d, freq)
	for _, s := range d.Diagnose() {
		lg.Info(s)
	}
	return d, nil
}

// Reset pulses the reset line high, low and high again, holding each level
// for resetHold. The line is left high.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reset()
}

// reset drives the reset pulse. d.mu must be held.
func (d *Dev) reset() error {
	d.state = Resetting
	lg.Debug("hardware reset")
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.rst.Out(l); err != nil {
			return fmt.Errorf("st7789: failed to drive RST %s: %w", l, err)
		}
		sleep(resetHold)
	}
	return nil
}

// Init resets the panel and sends the initialization sequence. It can be
// called again at any time, including after Halt, and always sends the
// same sequence. Show, Write and Draw wait until it returns.
//
// On error the state is left at the step that failed, Resetting or
// Initializing, and Init can be retried.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reset(); err != nil {
		return err
	}
	d.state = Initializing
	for _, c := range initSequence {
		lg.Debugf("command 0x%02X % X", c.Cmd, c.Data)
		if err := d.b.send(c); err != nil {
			return err
		}
	}
	d.state = Ready
	return nil
}

// Show transmits the whole frame buffer to the panel.
//
// Mutations of the frame buffer made through Image or Buffer are not
// synchronized with Show; use Update when drawing and flushing happen on
// different goroutines.
func (d *Dev) Show() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Halted {
		return ErrHalted
	}
	return d.flush()
}

// Flush is an alias of Show.
func (d *Dev) Flush() error {
	return d.Show()
}

// flush programs the address window and sends the frame. d.mu must be held.
func (d *Dev) flush() error {
	if err := d.b.send(command{Cmd: columnAddressSet, Data: addressRange(windowColumnStart, windowColumnEnd)}); err != nil {
		return err
	}
	if err := d.b.send(command{Cmd: rowAddressSet, Data: addressRange(windowRowStart, windowRowEnd)}); err != nil {
		return err
	}
	if err := d.b.sendCommand(memoryWrite); err != nil {
		return err
	}
	lg.Debugf("flush %d bytes", len(d.img.Pix))
	return d.b.sendData(d.img.Pix)
}

// addressRange encodes a start and end address as two big endian words.
func addressRange(start, end uint16) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint16(b[0:2], start)
	binary.BigEndian.PutUint16(b[2:4], end)
	return b
}

// Image returns the frame buffer as an image. Drawing into it changes what
// the next Show sends.
func (d *Dev) Image() *image565.Image {
	return d.img
}

// Buffer returns the raw frame buffer, Width*Height*2 bytes.
func (d *Dev) Buffer() []byte {
	return d.img.Pix
}

// Update calls fn with the frame buffer while holding the lock Show takes,
// so that a concurrent Show never sends a half drawn frame.
// fn must not call methods of d.
func (d *Dev) Update(fn func(img *image565.Image)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.img)
}

// Write copies raw pixel data into the frame buffer and shows it.
// The data must be exactly Width*Height*2 bytes in the frame buffer byte order.
func (d *Dev) Write(pixels []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Halted {
		return 0, ErrHalted
	}
	if len(pixels) != len(d.img.Pix) {
		return 0, errors.New("st7789: invalid buffer size")
	}
	copy(d.img.Pix, pixels)
	if err := d.flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw implements display.Drawer.
//
// src is drawn into the frame buffer and the whole frame is sent; the
// panel has no partial update.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Halted {
		return ErrHalted
	}
	dst = dst.Intersect(d.img.Rect)
	if dst.Empty() {
		return nil
	}
	draw.Draw(d.img, dst, src, sp, draw.Src)
	return d.flush()
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image565.Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Backlight returns the backlight pin given in Opts, or nil.
// Brightness is the caller's business, typically through PWM.
func (d *Dev) Backlight() gpio.PinOut {
	return d.bl
}

// State returns the lifecycle state of the panel.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Diagnose reports settings that are valid but likely to give a blank or
// corrupted picture. It never changes the device.
func (d *Dev) Diagnose() []string {
	var out []string
	if d.freq > maxFreq {
		out = append(out, fmt.Sprintf("st7789: SPI clock %s is above the controller's %s write limit", d.freq, maxFreq))
	}
	if d.b.cs == nil {
		out = append(out, "st7789: no CS pin, relying on the SPI controller to hold chip select")
	}
	if m := clockMode(d.mode); m != spi.Mode0 && m != spi.Mode3 {
		out = append(out, fmt.Sprintf("st7789: SPI mode %s, the controller samples in Mode0 or Mode3", d.mode))
	}
	if d.mode&spi.LSBFirst != 0 {
		out = append(out, "st7789: LSB first transfers will garble every byte")
	}
	return out
}

// clockMode strips the flags from m, leaving CPOL and CPHA.
func clockMode(m spi.Mode) spi.Mode {
	return m &^ (spi.HalfDuplex | spi.NoCS | spi.LSBFirst)
}

// Halt turns the display off and puts the controller to sleep.
// After calling Halt, Show, Write and Draw fail until Init is called.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Halted
	if err := d.b.sendCommand(displayOff); err != nil {
		return err
	}
	return d.b.sendCommand(sleepIn)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%dx%d}", Width, Height)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
