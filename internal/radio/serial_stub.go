//go:build !linux
// +build !linux

package radio

import (
	"errors"
	"os"
)

func openSerial(device string, baud int) (*os.File, error) {
	return nil, errors.New("serial transport is supported on Linux only")
}
