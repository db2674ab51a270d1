//go:build !linux

package hardware

import "errors"

// MCP9600 is not available on non-Linux platforms.
type MCP9600 struct{}

// OpenMCP9600 returns an error on non-Linux platforms.
func OpenMCP9600(bus string, addr uint16) (*MCP9600, error) {
	return nil, errors.New("mcp9600: not supported on this platform (requires Linux)")
}

// ReadTemperature is not implemented on non-Linux platforms.
func (m *MCP9600) ReadTemperature() (float64, error) {
	return 0, errors.New("mcp9600: not supported")
}

// Close is not implemented on non-Linux platforms.
func (m *MCP9600) Close() error {
	return nil
}
