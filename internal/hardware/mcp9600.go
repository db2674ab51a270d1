package hardware

import "errors"

// MCP9600 thermocouple amplifier registers.
const (
	MCP9600DefaultAddr = 0x67

	mcp9600RegHotJunction = 0x00
	mcp9600RegDeviceID    = 0x20
	mcp9600DeviceID       = 0x40

	mcp9600LSB = 0.0625 // °C per count
)

var ErrWrongDevice = errors.New("mcp9600: unexpected device id")

// decodeMCP9600 converts the hot-junction register (two's complement,
// 0.0625 °C/LSB) to °C and validates the result.
func decodeMCP9600(hi, lo byte) (float64, error) {
	raw := int16(uint16(hi)<<8 | uint16(lo))
	c := float64(raw) * mcp9600LSB
	if err := ValidateTemperature(c); err != nil {
		return 0, err
	}
	return c, nil
}
