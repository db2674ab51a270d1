package profile

// PhaseName identifies a roast phase.
type PhaseName string

const (
	Drying      PhaseName = "DRYING"
	Browning    PhaseName = "BROWNING"
	Development PhaseName = "DEVELOPMENT"
)

// Fixed temperature endpoints per phase, °C.
const (
	dryingStartC      = 100.0
	dryingTargetC     = 150.0
	browningStartC    = 200.0
	browningTargetC   = 300.0
	developmentStartC = 300.0
	developmentTargetC = 400.0
)

// Phase is one sub-interval of a phased roast.
type Phase struct {
	Name        PhaseName
	Percentage  int
	DurationS   int     // total duration × percentage / 100, truncated
	StartTempC  float64
	TargetTempC float64
	Slope       float64 // °C per second
}

// PhasedProfile splits a total roast duration into drying, browning and
// development. Percentages are not required to sum to 100; each phase is
// proportioned to the total independently.
type PhasedProfile struct {
	TotalDurationS float64
	Phases         [3]Phase
}

// NewPhased derives phase durations and slopes. It fails when the total is not
// positive, a percentage is negative, or any derived duration is zero.
func NewPhased(totalDurationS float64, drying, browning, development int) (*PhasedProfile, error) {
	if !finite(totalDurationS) || totalDurationS <= 0 {
		return nil, invalid("total_duration", ErrTotalDuration)
	}
	specs := [3]struct {
		name          PhaseName
		pct           int
		start, target float64
	}{
		{Drying, drying, dryingStartC, dryingTargetC},
		{Browning, browning, browningStartC, browningTargetC},
		{Development, development, developmentStartC, developmentTargetC},
	}

	pp := &PhasedProfile{TotalDurationS: totalDurationS}
	for i, s := range specs {
		param := phaseParam(s.name)
		if s.pct < 0 {
			return nil, invalid(param, ErrNegativePercent)
		}
		d := int(totalDurationS * (float64(s.pct) / 100))
		if d == 0 {
			return nil, invalid(param, ErrZeroPhaseDuration)
		}
		pp.Phases[i] = Phase{
			Name:        s.name,
			Percentage:  s.pct,
			DurationS:   d,
			StartTempC:  s.start,
			TargetTempC: s.target,
			Slope:       (s.target - s.start) / float64(d),
		}
	}
	return pp, nil
}

// Phase returns the phase with the given name.
func (pp *PhasedProfile) Phase(name PhaseName) Phase {
	for _, ph := range pp.Phases {
		if ph.Name == name {
			return ph
		}
	}
	return Phase{}
}

// PhaseAt reports the phase an elapsed time falls in, with phases laid end to
// end from t=0. It returns false before 0 and after the last phase ends.
func (pp *PhasedProfile) PhaseAt(elapsedS float64) (Phase, bool) {
	if elapsedS < 0 {
		return Phase{}, false
	}
	end := 0.0
	for _, ph := range pp.Phases {
		end += float64(ph.DurationS)
		if elapsedS < end {
			return ph, true
		}
	}
	return Phase{}, false
}

func phaseParam(name PhaseName) string {
	switch name {
	case Drying:
		return "drying_percentage"
	case Browning:
		return "browning_percentage"
	default:
		return "development_percentage"
	}
}
