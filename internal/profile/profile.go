// Package profile models roast temperature profiles: a piecewise-linear
// setpoint curve over elapsed time and the phase split derived from
// drying/browning/development percentages.
package profile

import (
	"fmt"
	"math"
)

// Anchor is one vertex of the profile curve.
type Anchor struct {
	TimeS float64 `mapstructure:"time"` // seconds since roast start
	TempC float64 `mapstructure:"temp"` // target °C at TimeS
}

// Profile maps elapsed time to a target temperature. It is immutable once built.
type Profile struct {
	anchors []Anchor
}

// New validates anchors and builds a profile. Anchor times must be finite,
// non-negative and strictly increasing. A single anchor yields a constant profile.
func New(anchors []Anchor) (*Profile, error) {
	if len(anchors) == 0 {
		return nil, invalid("anchors", ErrNoAnchors)
	}
	for i, a := range anchors {
		param := fmt.Sprintf("anchors[%d]", i)
		if !finite(a.TimeS) || !finite(a.TempC) {
			return nil, invalid(param, ErrNotFinite)
		}
		if a.TimeS < 0 {
			return nil, invalid(param, ErrNegativeTime)
		}
		if i > 0 && a.TimeS <= anchors[i-1].TimeS {
			return nil, invalid(param, ErrNotIncreasing)
		}
	}
	cp := make([]Anchor, len(anchors))
	copy(cp, anchors)
	return &Profile{anchors: cp}, nil
}

// Interpolate returns the target temperature at elapsed time t.
// Past the last anchor the last temperature is held; before the first anchor
// the first segment's line is used.
func (p *Profile) Interpolate(t float64) float64 {
	n := len(p.anchors)
	if n == 1 {
		return p.anchors[0].TempC
	}
	if t < p.anchors[0].TimeS {
		return lerp(p.anchors[0], p.anchors[1], t)
	}
	for i := 0; i < n-1; i++ {
		if t >= p.anchors[i].TimeS && t <= p.anchors[i+1].TimeS {
			return lerp(p.anchors[i], p.anchors[i+1], t)
		}
	}
	return p.anchors[n-1].TempC
}

// Anchors returns a copy of the profile's anchor points.
func (p *Profile) Anchors() []Anchor {
	out := make([]Anchor, len(p.anchors))
	copy(out, p.anchors)
	return out
}

// Duration is the time offset of the last anchor.
func (p *Profile) Duration() float64 {
	return p.anchors[len(p.anchors)-1].TimeS
}

func lerp(a, b Anchor, t float64) float64 {
	return a.TempC + (b.TempC-a.TempC)*((t-a.TimeS)/(b.TimeS-a.TimeS))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
