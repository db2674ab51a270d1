package hardware

import (
	"errors"
	"math"
	"testing"
)

func TestParseReading(t *testing.T) {
	cases := []struct {
		line    string
		want    float64
		wantErr bool
	}{
		{"123.5", 123.5, false},
		{"  98.25\r", 98.25, false},
		{"201.0, 200.0, 1", 201.0, false},
		{"-12", -12, false},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"+Inf", 0, true},
		{"5000", 0, true},
		{"-300", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseReading(tc.line)
		if tc.wantErr {
			if !errors.Is(err, ErrMalformedSample) {
				t.Fatalf("ParseReading(%q): expected ErrMalformedSample, got %v", tc.line, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseReading(%q): %v", tc.line, err)
		}
		if got != tc.want {
			t.Fatalf("ParseReading(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestParseTelemetry(t *testing.T) {
	tm, err := ParseTelemetry("101.25, 115.00, 1")
	if err != nil {
		t.Fatalf("ParseTelemetry: %v", err)
	}
	if tm.ActualC != 101.25 || tm.DesiredC != 115 || !tm.HeaterOn {
		t.Fatalf("unexpected telemetry: %+v", tm)
	}

	tm, err = ParseTelemetry("120,115,0.0\n")
	if err != nil || tm.HeaterOn {
		t.Fatalf("expected heater off, got %+v err=%v", tm, err)
	}

	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c", "1,,0", "Serial boot...", "1,NaN,0"} {
		if _, err := ParseTelemetry(bad); !errors.Is(err, ErrMalformedSample) {
			t.Fatalf("ParseTelemetry(%q): expected ErrMalformedSample, got %v", bad, err)
		}
	}
}

func TestValidateTemperature(t *testing.T) {
	if err := ValidateTemperature(MaxValidTempC); err != nil {
		t.Fatalf("upper bound should be valid: %v", err)
	}
	if err := ValidateTemperature(MinValidTempC); err != nil {
		t.Fatalf("lower bound should be valid: %v", err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(-1), MaxValidTempC + 1, MinValidTempC - 1} {
		if err := ValidateTemperature(v); !errors.Is(err, ErrMalformedSample) {
			t.Fatalf("ValidateTemperature(%v): expected ErrMalformedSample, got %v", v, err)
		}
	}
}

func TestDecodeMCP9600(t *testing.T) {
	cases := []struct {
		hi, lo byte
		want   float64
	}{
		{0x00, 0x00, 0},
		{0x01, 0x90, 25},       // 400 * 0.0625
		{0x0C, 0x80, 200},      // 3200 * 0.0625
		{0x0C, 0x84, 200.25},   // 3204 * 0.0625
		{0xFF, 0xF0, -1},       // -16 * 0.0625
		{0xFE, 0x70, -25},      // -400 * 0.0625
	}
	for _, tc := range cases {
		got, err := decodeMCP9600(tc.hi, tc.lo)
		if err != nil {
			t.Fatalf("decode(0x%02x,0x%02x): %v", tc.hi, tc.lo, err)
		}
		if got != tc.want {
			t.Fatalf("decode(0x%02x,0x%02x) = %v, want %v", tc.hi, tc.lo, got, tc.want)
		}
	}

	// 0x7FFF → 2047.9375 °C, beyond the thermocouple range
	if _, err := decodeMCP9600(0x7F, 0xFF); !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("expected out-of-range reading to be malformed, got %v", err)
	}
}
