package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPhased_DerivesDurationsAndSlopes(t *testing.T) {
	pp, err := NewPhased(600, 30, 40, 30)
	require.NoError(t, err)

	drying := pp.Phase(Drying)
	browning := pp.Phase(Browning)
	development := pp.Phase(Development)

	require.Equal(t, 180, drying.DurationS)
	require.Equal(t, 240, browning.DurationS)
	require.Equal(t, 180, development.DurationS)

	require.InDelta(t, 0.2778, drying.Slope, 1e-4)
	require.InDelta(t, 0.4167, browning.Slope, 1e-4)
	require.InDelta(t, 0.5556, development.Slope, 1e-4)

	require.Equal(t, 100.0, drying.StartTempC)
	require.Equal(t, 400.0, development.TargetTempC)
}

func TestNewPhased_TruncatesDurations(t *testing.T) {
	pp, err := NewPhased(95, 33, 33, 33)
	require.NoError(t, err)
	for _, ph := range pp.Phases {
		require.Equal(t, 31, ph.DurationS, ph.Name)
	}
}

func TestNewPhased_PercentagesNeedNotSumTo100(t *testing.T) {
	pp, err := NewPhased(100, 50, 50, 50)
	require.NoError(t, err)
	require.Equal(t, 50, pp.Phase(Development).DurationS)
}

func TestNewPhased_Errors(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		pcts  [3]int
		param string
		cause error
	}{
		{"zero drying", 600, [3]int{0, 40, 30}, "drying_percentage", ErrZeroPhaseDuration},
		{"browning truncates to zero", 10, [3]int{50, 5, 45}, "browning_percentage", ErrZeroPhaseDuration},
		{"zero development", 600, [3]int{30, 40, 0}, "development_percentage", ErrZeroPhaseDuration},
		{"negative", 600, [3]int{30, -1, 30}, "browning_percentage", ErrNegativePercent},
		{"zero total", 0, [3]int{30, 40, 30}, "total_duration", ErrTotalDuration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pp, err := NewPhased(tc.total, tc.pcts[0], tc.pcts[1], tc.pcts[2])
			require.Nil(t, pp)
			require.ErrorIs(t, err, tc.cause)

			var ce *ConstructionError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tc.param, ce.Param)
		})
	}
}

func TestPhaseAt(t *testing.T) {
	pp, err := NewPhased(600, 30, 40, 30)
	require.NoError(t, err)

	cases := []struct {
		t    float64
		want PhaseName
		ok   bool
	}{
		{-1, "", false},
		{0, Drying, true},
		{179.9, Drying, true},
		{180, Browning, true},
		{419, Browning, true},
		{420, Development, true},
		{599, Development, true},
		{600, "", false},
	}
	for _, tc := range cases {
		ph, ok := pp.PhaseAt(tc.t)
		require.Equal(t, tc.ok, ok, "t=%v", tc.t)
		require.Equal(t, tc.want, ph.Name, "t=%v", tc.t)
	}
}
