package st7789

// ST7789 commands used by this driver.
const (
	sleepIn          byte = 0x10
	sleepOut         byte = 0x11
	inversionOn      byte = 0x21
	displayOff       byte = 0x28
	displayOn        byte = 0x29
	columnAddressSet byte = 0x2A
	rowAddressSet    byte = 0x2B
	memoryWrite      byte = 0x2C
	memoryAccessCtl  byte = 0x36
	pixelFormat      byte = 0x3A
	porchControl     byte = 0xB2
	gateControl      byte = 0xB7
	vcomSetting      byte = 0xBB
	lcmControl       byte = 0xC0
	vdvVrhEnable     byte = 0xC2
	vrhSet           byte = 0xC3
	vdvSet           byte = 0xC4
	frameRateControl byte = 0xC6
	powerControl1    byte = 0xD0
	positiveGamma    byte = 0xE0
	negativeGamma    byte = 0xE1
)

// Address window of the visible 240x135 area inside the controller's
// 320x240 RAM. These are panel specific and cannot be derived from the
// geometry.
const (
	windowColumnStart uint16 = 0x0028
	windowColumnEnd   uint16 = 0x0117
	windowRowStart    uint16 = 0x0035
	windowRowEnd      uint16 = 0x00BB
)

// command is one register write: a command byte followed by zero or more
// parameter bytes.
type command struct {
	Cmd  byte
	Data []byte
}

// initSequence programs the Pico-LCD-1.14 panel. Order and bytes matter;
// the controller gives no feedback when either is wrong.
var initSequence = []command{
	{Cmd: memoryAccessCtl, Data: []byte{0x70}},
	{Cmd: pixelFormat, Data: []byte{0x05}}, // 16 bits per pixel
	{Cmd: porchControl, Data: []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}},
	{Cmd: gateControl, Data: []byte{0x35}},
	{Cmd: vcomSetting, Data: []byte{0x19}},
	{Cmd: lcmControl, Data: []byte{0x2C}},
	{Cmd: vdvVrhEnable, Data: []byte{0x01}},
	{Cmd: vrhSet, Data: []byte{0x12}},
	{Cmd: vdvSet, Data: []byte{0x20}},
	{Cmd: frameRateControl, Data: []byte{0x0F}},
	{Cmd: powerControl1, Data: []byte{0xA4, 0xA1}},
	{Cmd: positiveGamma, Data: []byte{
		0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F,
		0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23,
	}},
	{Cmd: negativeGamma, Data: []byte{
		0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F,
		0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23,
	}},
	{Cmd: inversionOn},
	{Cmd: sleepOut},
	{Cmd: displayOn},
}
