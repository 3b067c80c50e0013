package mesh

import (
	"github.com/pkg/errors"
)

const (
	DefaultPoints          = 90
	DefaultDriftRadius     = 80.0
	DefaultInfluenceRadius = 300.0
	DefaultRepelRadius     = 90.0
	DefaultAttractGain     = 0.004
	DefaultRepelStrength   = 1.5
	DefaultClockStep       = 0.006
	DefaultAnchorMargin    = 20.0
	DefaultSpeedMin        = 0.4
	DefaultSpeedMax        = 1.2
	DefaultYRate           = 0.73
	DefaultYPhase          = 1.0
)

// Params tunes the point simulation. All lengths are in CSS pixels.
type Params struct {
	Points          int     `yaml:"points" json:"points"`
	DriftRadius     float64 `yaml:"drift_radius" json:"drift_radius"`
	InfluenceRadius float64 `yaml:"influence_radius" json:"influence_radius"`
	RepelRadius     float64 `yaml:"repel_radius" json:"repel_radius"`
	AttractGain     float64 `yaml:"attract_gain" json:"attract_gain"`
	RepelStrength   float64 `yaml:"repel_strength" json:"repel_strength"`
	ClockStep       float64 `yaml:"clock_step" json:"clock_step"`
	AnchorMargin    float64 `yaml:"anchor_margin" json:"anchor_margin"`
	SpeedMin        float64 `yaml:"speed_min" json:"speed_min"`
	SpeedMax        float64 `yaml:"speed_max" json:"speed_max"`
	YRate           float64 `yaml:"y_rate" json:"y_rate"`
	YPhase          float64 `yaml:"y_phase" json:"y_phase"`
}

func DefaultParams() Params {
	return Params{
		Points:          DefaultPoints,
		DriftRadius:     DefaultDriftRadius,
		InfluenceRadius: DefaultInfluenceRadius,
		RepelRadius:     DefaultRepelRadius,
		AttractGain:     DefaultAttractGain,
		RepelStrength:   DefaultRepelStrength,
		ClockStep:       DefaultClockStep,
		AnchorMargin:    DefaultAnchorMargin,
		SpeedMin:        DefaultSpeedMin,
		SpeedMax:        DefaultSpeedMax,
		YRate:           DefaultYRate,
		YPhase:          DefaultYPhase,
	}
}

// Validate reports the first parameter outside its usable range.
func (p Params) Validate() error {
	switch {
	case p.Points < 1:
		return errors.Wrapf(ErrInvalidParams, "points must be positive, got %d", p.Points)
	case p.DriftRadius < 0:
		return errors.Wrapf(ErrInvalidParams, "drift radius must not be negative, got %f", p.DriftRadius)
	case p.InfluenceRadius <= 0:
		return errors.Wrapf(ErrInvalidParams, "influence radius must be positive, got %f", p.InfluenceRadius)
	case p.RepelRadius <= 0 || p.RepelRadius >= p.InfluenceRadius:
		return errors.Wrapf(ErrInvalidParams, "repel radius must be in (0, %f), got %f", p.InfluenceRadius, p.RepelRadius)
	case p.ClockStep <= 0:
		return errors.Wrapf(ErrInvalidParams, "clock step must be positive, got %f", p.ClockStep)
	case p.AnchorMargin <= 0:
		return errors.Wrapf(ErrInvalidParams, "anchor margin must be positive, got %f", p.AnchorMargin)
	case p.SpeedMin <= 0 || p.SpeedMax <= p.SpeedMin:
		return errors.Wrapf(ErrInvalidParams, "speed range [%f, %f) is empty", p.SpeedMin, p.SpeedMax)
	}
	return nil
}

// MaxPointerDisplacement bounds how far Influence can move a point in one
// step: the larger of the peak attraction and the peak repulsion.
func (p Params) MaxPointerDisplacement() float64 {
	attract := p.AttractGain * p.InfluenceRadius / 4
	repel := p.RepelStrength * repelStride
	if attract > repel {
		return attract
	}
	return repel
}
