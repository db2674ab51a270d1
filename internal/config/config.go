// Package config loads roaster settings from configs/config.yml, ROASTER_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"coffee_roaster/internal/logger"
	"coffee_roaster/internal/profile"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ROASTER"

// Sensor drivers.
const (
	SensorMCP9600   = "mcp9600"
	SensorSerial    = "serial"
	SensorSimulator = "simulator"
)

// Actuator drivers.
const (
	ActuatorGPIO      = "gpio"
	ActuatorSimulator = "simulator"
	ActuatorNone      = "none"
)

type Config struct {
	Profile  ProfileConfig  `mapstructure:"profile"`
	Tasks    TasksConfig    `mapstructure:"tasks"`
	Sensor   SensorConfig   `mapstructure:"sensor"`
	Actuator ActuatorConfig `mapstructure:"actuator"`
	Log      LogConfig      `mapstructure:"log"`
}

type ProfileConfig struct {
	Anchors  []profile.Anchor `mapstructure:"anchors"`
	Deadband float64          `mapstructure:"deadband"`
	Phased   PhasedConfig     `mapstructure:"phased"`
}

// PhasedConfig enables the drying/browning/development split.
type PhasedConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	TotalDuration float64 `mapstructure:"total_duration"` // seconds
	Drying        int     `mapstructure:"drying_percentage"`
	Browning      int     `mapstructure:"browning_percentage"`
	Development   int     `mapstructure:"development_percentage"`
}

type TasksConfig struct {
	SamplingPeriod time.Duration `mapstructure:"sampling_period"`
	ControlPeriod  time.Duration `mapstructure:"control_period"`
	LoggingPeriod  time.Duration `mapstructure:"logging_period"`
}

type SensorConfig struct {
	Driver       string `mapstructure:"driver"`
	I2CBus       string `mapstructure:"i2c_bus"`
	Address      int    `mapstructure:"address"`
	SerialDevice string `mapstructure:"serial_device"`
	Baud         int    `mapstructure:"baud"`
}

type ActuatorConfig struct {
	Driver string `mapstructure:"driver"`
	Chip   string `mapstructure:"chip"`
	Line   int    `mapstructure:"line"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	CSVDir  string `mapstructure:"csv_dir"`
	DBPath  string `mapstructure:"db_path"` // empty disables the roast store
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile.anchors", []map[string]any{
		{"time": 0, "temp": 0},
		{"time": 100, "temp": 230},
		{"time": 400, "temp": 100},
		{"time": 450, "temp": 0},
	})
	v.SetDefault("profile.deadband", 0.0)
	v.SetDefault("profile.phased.enabled", false)
	v.SetDefault("profile.phased.total_duration", 600.0)
	v.SetDefault("profile.phased.drying_percentage", 30)
	v.SetDefault("profile.phased.browning_percentage", 40)
	v.SetDefault("profile.phased.development_percentage", 30)

	v.SetDefault("tasks.sampling_period", "100ms")
	v.SetDefault("tasks.control_period", "1s")
	v.SetDefault("tasks.logging_period", "200ms")

	v.SetDefault("sensor.driver", SensorSimulator)
	v.SetDefault("sensor.i2c_bus", "/dev/i2c-1")
	v.SetDefault("sensor.address", 0x67)
	v.SetDefault("sensor.serial_device", "/dev/ttyACM0")
	v.SetDefault("sensor.baud", 115200)

	v.SetDefault("actuator.driver", ActuatorSimulator)
	v.SetDefault("actuator.chip", "gpiochip0")
	v.SetDefault("actuator.line", 17)

	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.console", true)
	v.SetDefault("log.csv_dir", ".")
	v.SetDefault("log.db_path", "roasts.db")
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"deadband":     "profile.deadband",
	"sensor":       "sensor.driver",
	"actuator":     "actuator.driver",
	"csv-dir":      "log.csv_dir",
	"db":           "log.db_path",
	"phased":       "profile.phased.enabled",
	"total":        "profile.phased.total_duration",
	"serial":       "sensor.serial_device",
	"gpio-chip":    "actuator.chip",
	"gpio-line":    "actuator.line",
	"i2c-bus":      "sensor.i2c_bus",
	"control-tick": "tasks.control_period",
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file (default configs/config.yml)")
	fs.String("log-level", logger.InfoLevel, "log level: debug, info, warn, error")
	fs.Float64("deadband", 0, "hysteresis band around the setpoint, °C")
	fs.String("sensor", SensorSimulator, "sensor driver: mcp9600, serial, simulator")
	fs.String("actuator", ActuatorSimulator, "actuator driver: gpio, simulator, none")
	fs.String("csv-dir", ".", "directory for data_log_*.csv files, empty to disable")
	fs.String("db", "roasts.db", "SQLite roast store path, empty to disable")
	fs.Bool("phased", false, "log drying/browning/development phases")
	fs.Float64("total", 600, "phased roast total duration, seconds")
	fs.String("serial", "/dev/ttyACM0", "serial thermocouple bridge device")
	fs.String("gpio-chip", "gpiochip0", "GPIO chip driving the heater")
	fs.Int("gpio-line", 17, "GPIO line offset driving the heater")
	fs.String("i2c-bus", "/dev/i2c-1", "I2C bus of the MCP9600")
	fs.Duration("control-tick", time.Second, "control period")
}

// Load reads configuration. Only flags that were set on the command line
// override file and environment values. A missing default config file is not
// an error; a missing explicit one is.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that profile and controller construction do not.
func (c *Config) Validate() error {
	var errs []string
	if c.Profile.Deadband < 0 {
		errs = append(errs, "profile.deadband must not be negative")
	}
	for key, d := range map[string]time.Duration{
		"tasks.sampling_period": c.Tasks.SamplingPeriod,
		"tasks.control_period":  c.Tasks.ControlPeriod,
		"tasks.logging_period":  c.Tasks.LoggingPeriod,
	} {
		if d <= 0 {
			errs = append(errs, key+" must be positive")
		}
	}
	switch c.Sensor.Driver {
	case SensorMCP9600:
		if c.Sensor.Address <= 0 || c.Sensor.Address > 0x7f {
			errs = append(errs, fmt.Sprintf("sensor.address %#x is not a 7-bit I2C address", c.Sensor.Address))
		}
	case SensorSerial:
		if c.Sensor.SerialDevice == "" {
			errs = append(errs, "sensor.serial_device is required for the serial driver")
		}
	case SensorSimulator:
	default:
		errs = append(errs, fmt.Sprintf("unknown sensor.driver %q", c.Sensor.Driver))
	}
	switch c.Actuator.Driver {
	case ActuatorGPIO:
		if c.Actuator.Line < 0 {
			errs = append(errs, "actuator.line must not be negative")
		}
	case ActuatorSimulator, ActuatorNone:
	default:
		errs = append(errs, fmt.Sprintf("unknown actuator.driver %q", c.Actuator.Driver))
	}
	if c.Actuator.Driver == ActuatorSimulator && c.Sensor.Driver != SensorSimulator {
		errs = append(errs, "actuator.driver simulator requires sensor.driver simulator")
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
}
