package serial

import (
	"errors"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	if _, err := (Config{}).withDefaults(); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}

	cfg, err := Config{Device: "/dev/ttyACM0"}.withDefaults()
	if err != nil {
		t.Fatalf("withDefaults: %v", err)
	}
	if cfg.BaudRate != defaultBaudRate || cfg.ReadTimeout != defaultReadTimeout {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestVTime(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want uint8
	}{
		{0, 1},
		{50 * time.Millisecond, 1},
		{100 * time.Millisecond, 1},
		{1 * time.Second, 10},
		{time.Minute, 255},
	}
	for _, tc := range cases {
		if got := vtime(tc.in); got != tc.want {
			t.Fatalf("vtime(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOpen_RejectsMissingDevice(t *testing.T) {
	if _, err := Open(Config{}); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("expected ErrNoDevice, got %v", err)
	}
}
