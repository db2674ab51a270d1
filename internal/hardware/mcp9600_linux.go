//go:build linux

package hardware

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE ioctl from linux/i2c-dev.h.
const i2cSlave = 0x0703

// MCP9600 reads a thermocouple through an MCP9600 on a Linux I2C bus.
type MCP9600 struct {
	mu   sync.Mutex
	fd   int
	bus  string
	addr uint16
}

// OpenMCP9600 opens bus (e.g. /dev/i2c-1) and binds to the chip at addr.
func OpenMCP9600(bus string, addr uint16) (*MCP9600, error) {
	fd, err := unix.Open(bus, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %s: %w", bus, err)
	}
	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("select i2c address 0x%02x: %w", addr, err)
	}

	m := &MCP9600{fd: fd, bus: bus, addr: addr}
	id, err := m.readRegister(mcp9600RegDeviceID)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("read mcp9600 device id: %w", err)
	}
	if id[0] != mcp9600DeviceID {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: 0x%02x at 0x%02x", ErrWrongDevice, id[0], addr)
	}
	return m, nil
}

// ReadTemperature returns the hot-junction (thermocouple) temperature.
func (m *MCP9600) ReadTemperature() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fd < 0 {
		return 0, fmt.Errorf("mcp9600: closed")
	}
	b, err := m.readRegister(mcp9600RegHotJunction)
	if err != nil {
		return 0, fmt.Errorf("read hot junction: %w", err)
	}
	return decodeMCP9600(b[0], b[1])
}

// Close releases the I2C bus.
func (m *MCP9600) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fd < 0 {
		return nil
	}
	err := unix.Close(m.fd)
	m.fd = -1
	if err != nil {
		return fmt.Errorf("close i2c bus %s: %w", m.bus, err)
	}
	return nil
}

// readRegister sets the register pointer and reads two bytes back.
func (m *MCP9600) readRegister(reg byte) ([2]byte, error) {
	var out [2]byte
	if _, err := unix.Write(m.fd, []byte{reg}); err != nil {
		return out, fmt.Errorf("write register pointer 0x%02x: %w", reg, err)
	}
	n, err := unix.Read(m.fd, out[:])
	if err != nil {
		return out, fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	if n != len(out) {
		return out, fmt.Errorf("%w: short read of register 0x%02x (%d bytes)", ErrMalformedSample, reg, n)
	}
	return out, nil
}
