package st7789

import (
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// event is one observable action on the wires, in order.
type event struct {
	pin    string        // set for pin changes
	level  gpio.Level    // pin level
	io     *conntest.IO  // set for SPI transfers
	keepCS bool          // packet asked the controller to keep CS asserted
	packet bool          // transfer was part of TxPackets
	sleep  time.Duration // set for sleeps
}

type wireLog struct {
	mu     sync.Mutex
	events []event
}

func (l *wireLog) add(e event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *wireLog) reset() {
	l.mu.Lock()
	l.events = nil
	l.mu.Unlock()
}

func (l *wireLog) snapshot() []event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event(nil), l.events...)
}

// recordPin is a gpiotest.Pin that logs every Out call.
type recordPin struct {
	gpiotest.Pin
	log *wireLog
}

func newRecordPin(log *wireLog, name string) *recordPin {
	return &recordPin{Pin: gpiotest.Pin{N: name}, log: log}
}

func (p *recordPin) Out(l gpio.Level) error {
	p.log.add(event{pin: p.N, level: l})
	return p.Pin.Out(l)
}

// recordConn is a spi.Conn that logs written bytes.
type recordConn struct {
	log   *wireLog
	limit int
	err   error  // returned by every transfer
	onTx  func() // called before each transfer is logged
}

func (c *recordConn) String() string { return "recordConn" }

func (c *recordConn) Duplex() conn.Duplex { return conn.Half }

func (c *recordConn) MaxTxSize() int { return c.limit }

func (c *recordConn) Tx(w, r []byte) error {
	if c.onTx != nil {
		c.onTx()
	}
	c.log.add(event{io: &conntest.IO{W: append([]byte(nil), w...)}})
	return c.err
}

func (c *recordConn) TxPackets(p []spi.Packet) error {
	if c.onTx != nil {
		c.onTx()
	}
	for _, pkt := range p {
		c.log.add(event{io: &conntest.IO{W: append([]byte(nil), pkt.W...)}, packet: true, keepCS: pkt.KeepCS})
	}
	return c.err
}

// recordPort is a spi.Port handing out a recordConn.
type recordPort struct {
	conn *recordConn
	err  error

	freq physic.Frequency
	mode spi.Mode
	bits int
}

func (p *recordPort) String() string { return "recordPort" }

func (p *recordPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.freq, p.mode, p.bits = f, mode, bits
	return p.conn, nil
}

// rig is a Dev wired to recording pins and a recording SPI port.
type rig struct {
	log  *wireLog
	port *recordPort
	dc   *recordPin
	cs   *recordPin
	rst  *recordPin
}

// newRig returns recording hardware. limit is the connection's MaxTxSize.
// Sleeps are recorded instead of performed until the test ends.
func newRig(t *testing.T, limit int) *rig {
	t.Helper()
	log := &wireLog{}
	old := sleep
	sleep = func(d time.Duration) { log.add(event{sleep: d}) }
	t.Cleanup(func() { sleep = old })
	return &rig{
		log:  log,
		port: &recordPort{conn: &recordConn{log: log, limit: limit}},
		dc:   newRecordPin(log, "DC"),
		cs:   newRecordPin(log, "CS"),
		rst:  newRecordPin(log, "RST"),
	}
}

func (r *rig) opts() *Opts {
	return &Opts{RST: r.rst, CS: r.cs}
}

func (r *rig) open(t *testing.T, opts *Opts) *Dev {
	t.Helper()
	d, err := NewSPI(r.port, r.dc, opts)
	if err != nil {
		t.Fatalf("NewSPI() = %v", err)
	}
	return d
}

// transaction is what the panel sees between a CS falling and rising edge.
type transaction struct {
	dc     gpio.Level
	data   []byte
	writes int // number of Tx calls or packets
}

// transactions groups the log into chip select windows. With a CS pin the
// windows are delimited by its edges; without one every Tx call is a window
// and packets are joined while KeepCS is set.
func transactions(events []event, withCS bool) []transaction {
	var out []transaction
	var dc gpio.Level
	var cur *transaction
	for _, e := range events {
		switch {
		case e.pin == "DC":
			dc = e.level
		case e.pin == "CS" && e.level == gpio.Low:
			cur = &transaction{dc: dc}
		case e.pin == "CS" && e.level == gpio.High:
			if cur != nil {
				out = append(out, *cur)
				cur = nil
			}
		case e.io != nil:
			if withCS {
				if cur != nil {
					cur.data = append(cur.data, e.io.W...)
					cur.writes++
				}
				continue
			}
			if cur == nil {
				cur = &transaction{dc: dc}
			}
			cur.data = append(cur.data, e.io.W...)
			cur.writes++
			if !e.keepCS {
				out = append(out, *cur)
				cur = nil
			}
		}
	}
	return out
}

// expectedInit flattens initSequence into the transactions it must produce.
func expectedInit() []transaction {
	var out []transaction
	for _, c := range initSequence {
		out = append(out, transaction{dc: gpio.Low, data: []byte{c.Cmd}, writes: 1})
		if len(c.Data) != 0 {
			out = append(out, transaction{dc: gpio.High, data: c.Data, writes: 1})
		}
	}
	return out
}
