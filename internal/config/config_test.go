package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"coffee_roaster/internal/profile"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func flagsWith(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("roaster", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	require.Equal(t, []profile.Anchor{
		{TimeS: 0, TempC: 0},
		{TimeS: 100, TempC: 230},
		{TimeS: 400, TempC: 100},
		{TimeS: 450, TempC: 0},
	}, cfg.Profile.Anchors)
	require.Zero(t, cfg.Profile.Deadband)
	require.Equal(t, 100*time.Millisecond, cfg.Tasks.SamplingPeriod)
	require.Equal(t, time.Second, cfg.Tasks.ControlPeriod)
	require.Equal(t, 200*time.Millisecond, cfg.Tasks.LoggingPeriod)
	require.Equal(t, SensorSimulator, cfg.Sensor.Driver)
	require.Equal(t, 0x67, cfg.Sensor.Address)
	require.Equal(t, PhasedConfig{TotalDuration: 600, Drying: 30, Browning: 40, Development: 30}, cfg.Profile.Phased)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
profile:
  anchors:
    - { time: 0, temp: 20 }
    - { time: 300, temp: 210 }
  deadband: 1.5
  phased:
    enabled: true
    total_duration: 720
tasks:
  logging_period: 150ms
sensor:
  driver: mcp9600
  address: 0x60
actuator:
  driver: gpio
  line: 4
log:
  level: debug
`)
	t.Setenv("ROASTER_TASKS_CONTROL_PERIOD", "500ms")

	cfg, err := Load(flagsWith(t, "--config", path, "--deadband", "3", "--gpio-line", "22"))
	require.NoError(t, err)

	require.Equal(t, []profile.Anchor{{TimeS: 0, TempC: 20}, {TimeS: 300, TempC: 210}}, cfg.Profile.Anchors)
	require.Equal(t, 3.0, cfg.Profile.Deadband, "flags override the file")
	require.True(t, cfg.Profile.Phased.Enabled)
	require.Equal(t, 720.0, cfg.Profile.Phased.TotalDuration)
	require.Equal(t, 40, cfg.Profile.Phased.Browning, "unset keys keep defaults")
	require.Equal(t, 150*time.Millisecond, cfg.Tasks.LoggingPeriod)
	require.Equal(t, 500*time.Millisecond, cfg.Tasks.ControlPeriod, "env overrides defaults")
	require.Equal(t, SensorMCP9600, cfg.Sensor.Driver)
	require.Equal(t, 0x60, cfg.Sensor.Address)
	require.Equal(t, 22, cfg.Actuator.Line)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UnsetFlagsDoNotOverrideFile(t *testing.T) {
	path := writeConfig(t, "profile:\n  deadband: 4\n")

	cfg, err := Load(flagsWith(t, "--config", path))
	require.NoError(t, err)
	require.Equal(t, 4.0, cfg.Profile.Deadband)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(flagsWith(t, "--config", filepath.Join(t.TempDir(), "nope.yml")))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Tasks:    TasksConfig{SamplingPeriod: time.Millisecond, ControlPeriod: time.Second, LoggingPeriod: time.Millisecond},
			Sensor:   SensorConfig{Driver: SensorSimulator},
			Actuator: ActuatorConfig{Driver: ActuatorSimulator},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"negative deadband", func(c *Config) { c.Profile.Deadband = -1 }, "profile.deadband"},
		{"zero control period", func(c *Config) { c.Tasks.ControlPeriod = 0 }, "tasks.control_period"},
		{"unknown sensor", func(c *Config) { c.Sensor.Driver = "thermistor" }, "unknown sensor.driver"},
		{"unknown actuator", func(c *Config) { c.Actuator.Driver = "relay" }, "unknown actuator.driver"},
		{"bad i2c address", func(c *Config) {
			c.Sensor = SensorConfig{Driver: SensorMCP9600, Address: 0x80}
			c.Actuator.Driver = ActuatorNone
		}, "sensor.address"},
		{"serial without device", func(c *Config) {
			c.Sensor = SensorConfig{Driver: SensorSerial}
			c.Actuator.Driver = ActuatorNone
		}, "sensor.serial_device"},
		{"simulated heater on real sensor", func(c *Config) { c.Sensor = SensorConfig{Driver: SensorMCP9600, Address: 0x67} }, "requires sensor.driver simulator"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
