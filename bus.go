package st7789

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// bus frames bytes as command or data transactions.
//
// Every transaction raises CS, sets DC, lowers CS, transfers and raises CS
// again. Nothing else in the package touches the SPI connection or the DC
// and CS lines.
type bus struct {
	mu sync.Mutex

	c  spi.Conn
	dc gpio.PinOut // low for commands, high for data
	cs gpio.PinOut // optional, active low; nil leaves CS to the SPI controller

	// maxTxSize is the largest single Tx the connection accepts, 0 if unknown.
	maxTxSize int
}

func newBus(c spi.Conn, dc, cs gpio.PinOut) *bus {
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	return &bus{c: c, dc: dc, cs: cs, maxTxSize: maxTxSize}
}

// sendCommand sends a single command byte.
func (b *bus) sendCommand(cmd byte) error {
	return b.transact(gpio.Low, []byte{cmd})
}

// sendData sends data bytes within a single chip select assertion.
func (b *bus) sendData(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return b.transact(gpio.High, data)
}

// send sends a command followed by its parameters, if any.
func (b *bus) send(c command) error {
	if err := b.sendCommand(c.Cmd); err != nil {
		return err
	}
	return b.sendData(c.Data)
}

func (b *bus) transact(dc gpio.Level, p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.chipSelect(gpio.High); err != nil {
		return err
	}
	if err := b.dc.Out(dc); err != nil {
		return fmt.Errorf("st7789: failed to set DC: %w", err)
	}
	if err := b.chipSelect(gpio.Low); err != nil {
		return err
	}
	err := b.write(p)
	if csErr := b.chipSelect(gpio.High); err == nil {
		err = csErr
	}
	return err
}

func (b *bus) chipSelect(l gpio.Level) error {
	if b.cs == nil {
		return nil
	}
	if err := b.cs.Out(l); err != nil {
		return fmt.Errorf("st7789: failed to set CS: %w", err)
	}
	return nil
}

// write transfers p while CS is held low. Transfers larger than the
// connection limit are split without releasing CS: with a CS line the
// chunks go out back to back, otherwise as packets that keep the
// controller's CS asserted.
func (b *bus) write(p []byte) error {
	if b.maxTxSize <= 0 || len(p) <= b.maxTxSize {
		return b.c.Tx(p, nil)
	}

	if b.cs != nil {
		for len(p) != 0 {
			n := min(len(p), b.maxTxSize)
			if err := b.c.Tx(p[:n], nil); err != nil {
				return err
			}
			p = p[n:]
		}
		return nil
	}

	packets := make([]spi.Packet, 0, (len(p)+b.maxTxSize-1)/b.maxTxSize)
	for len(p) != 0 {
		n := min(len(p), b.maxTxSize)
		packets = append(packets, spi.Packet{W: p[:n], KeepCS: n < len(p)})
		p = p[n:]
	}
	return b.c.TxPackets(packets)
}
