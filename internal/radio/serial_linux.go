//go:build linux
// +build linux

package radio

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// openSerial opens the modem tty raw, 8N1 at the requested baud rate.
func openSerial(device string, baud int) (*os.File, error) {
	if device == "" {
		return nil, errors.New("serial device is empty")
	}
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("unsupported baud rate %d", baud)
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	t := unix.Termios{
		Cflag:  unix.CREAD | unix.CLOCAL | unix.CS8 | speed,
		Ispeed: speed,
		Ospeed: speed,
	}
	// Block until at least one byte arrives, no inter-byte timer.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("configure %s: %w", device, err)
	}
	return os.NewFile(uintptr(fd), device), nil
}
