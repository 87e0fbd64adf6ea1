// Package radio frames messages as newline-terminated lines over a
// byte-stream transport: a Linux serial device wired to the long-range
// modem, or a TCP peer when running loopback on a host.
package radio

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// MaxLineBytes bounds a single inbound line. Longer lines are truncated
// rather than stalling the reader.
const MaxLineBytes = 4096

// Options selects and configures the transport.
type Options struct {
	Transport string // "tcp" or "serial"
	Target    string // host:port for tcp
	Device    string // tty path for serial
	Baud      int
}

// Conn is a line-oriented radio connection. Writes and reads may be
// used concurrently; each side is internally serialized.
type Conn struct {
	rwc io.ReadWriteCloser
	br  *bufio.Reader
	wmu sync.Mutex
}

// Dial opens the configured transport and wraps it in line framing.
func Dial(opts Options) (*Conn, error) {
	switch opts.Transport {
	case "", "tcp":
		dialer := &net.Dialer{Timeout: 8 * time.Second}
		c, err := dialer.Dial("tcp", opts.Target)
		if err != nil {
			return nil, err
		}
		return NewConn(c), nil
	case "serial":
		f, err := openSerial(opts.Device, opts.Baud)
		if err != nil {
			return nil, err
		}
		return NewConn(f), nil
	default:
		return nil, errors.New("unknown transport: " + opts.Transport)
	}
}

// NewConn wraps an already-open stream in line framing.
func NewConn(rwc io.ReadWriteCloser) *Conn {
	return &Conn{rwc: rwc, br: bufio.NewReaderSize(rwc, MaxLineBytes)}
}

// WriteLine transmits one message followed by a newline. Best effort:
// there is no acknowledgement or retry.
func (c *Conn) WriteLine(s string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := io.WriteString(c.rwc, s+"\n")
	return err
}

// ReadLine blocks for the next inbound line, stripped of its newline
// and any carriage return. Oversized lines come back truncated to
// MaxLineBytes with the remainder discarded.
func (c *Conn) ReadLine() (string, error) {
	raw, err := c.br.ReadSlice('\n')
	line := string(raw)
	for errors.Is(err, bufio.ErrBufferFull) {
		// Keep the head, discard the remainder of the oversized line.
		_, err = c.br.ReadSlice('\n')
	}
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Conn) Close() error {
	return c.rwc.Close()
}
