package keypad

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const gpioBase = "/sys/class/gpio"

// SysfsMatrix drives the matrix through sysfs GPIO value files: row
// pins are outputs raised one at a time, column pins are inputs read
// back. The pins must already be exported and direction-configured by
// the boot setup.
type SysfsMatrix struct {
	rows [4]string
	cols [4]string
}

// NewSysfsMatrix binds four row pins and four column pins by GPIO
// number.
func NewSysfsMatrix(rowPins, colPins []int) (*SysfsMatrix, error) {
	return newSysfsMatrix(gpioBase, rowPins, colPins)
}

func newSysfsMatrix(base string, rowPins, colPins []int) (*SysfsMatrix, error) {
	if len(rowPins) != 4 || len(colPins) != 4 {
		return nil, errors.New("matrix needs 4 row pins and 4 column pins")
	}
	m := &SysfsMatrix{}
	for i, pin := range rowPins {
		m.rows[i] = filepath.Join(base, fmt.Sprintf("gpio%d", pin), "value")
	}
	for i, pin := range colPins {
		m.cols[i] = filepath.Join(base, fmt.Sprintf("gpio%d", pin), "value")
	}
	for _, path := range append(m.rows[:], m.cols[:]...) {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("gpio pin not exported: %w", err)
		}
	}
	return m, nil
}

func (m *SysfsMatrix) SetRow(row int, active bool) {
	v := []byte("0\n")
	if active {
		v = []byte("1\n")
	}
	_ = os.WriteFile(m.rows[row], v, 0)
}

func (m *SysfsMatrix) Column(col int) bool {
	data, err := os.ReadFile(m.cols[col])
	if err != nil {
		return false
	}
	return len(data) > 0 && data[0] == '1'
}
