package colortrack

import (
	"github.com/pkg/errors"
)

// Config holds tracker tuning parameters.
type Config struct {
	// Number of hue bins in a color model. Default 16
	HueBins int
	// Pixels below these saturation/value levels carry unreliable hue and are masked out
	MinSaturation uint8
	MinValue      uint8
	// Minimum number of unmasked pixels required to build a color model. Default 10
	MinSeedPixels int
	// Radius (in pixels) of the square neighborhood sampled around a seed point. Default 4
	SeedRadius int

	// Minimum box width/height in pixels. Default 2
	MinBoxSize int
	// Fraction of box size added on every side to get the search window. Default 0.2
	SearchMargin float64
	// Mean-shift stops when the window moves less than this (pixels). Default 1.0
	ConvergenceEpsilon float64
	// Mean-shift iteration cap. Default 10
	MaxIterations int
	// Search windows with less total weight are not localized at all. Default 1.0
	MinSearchMass float64

	// Localization results below this confidence keep the previous box and count as a miss. Default 0.1
	LostConfidence float64
	// Consecutive misses after which object is reported as lost. Default 10
	MaxLostFrames int

	// Adapt box size from second moments of the weight distribution. Default false
	AdaptScale bool
	// Blending factor between old and estimated size, (0, 1]. Default 0.5
	ScaleSmoothing float64

	// Center search windows on Kalman-predicted positions. Default false
	PredictMotion bool
	// Time step for the motion model (seconds per frame). Default 1.0
	PredictDt float64

	// Number of goroutines used for per-object localization. 0 or 1 means sequential
	Workers int
}

// DefaultConfig returns the default tracker configuration
func DefaultConfig() Config {
	return Config{
		HueBins:            16,
		MinSaturation:      60,
		MinValue:           40,
		MinSeedPixels:      10,
		SeedRadius:         4,
		MinBoxSize:         2,
		SearchMargin:       0.2,
		ConvergenceEpsilon: 1.0,
		MaxIterations:      10,
		MinSearchMass:      1.0,
		LostConfidence:     0.1,
		MaxLostFrames:      10,
		AdaptScale:         false,
		ScaleSmoothing:     0.5,
		PredictMotion:      false,
		PredictDt:          1.0,
		Workers:            1,
	}
}

// Validate checks that every parameter is usable
func (cfg Config) Validate() error {
	if cfg.HueBins < 2 || cfg.HueBins > HueRange {
		return errors.Errorf("hue bins must be in [2, %d], got %d", HueRange, cfg.HueBins)
	}
	if cfg.MinSeedPixels < 1 {
		return errors.Errorf("min seed pixels must be positive, got %d", cfg.MinSeedPixels)
	}
	if cfg.SeedRadius < 0 {
		return errors.Errorf("seed radius must be non-negative, got %d", cfg.SeedRadius)
	}
	if cfg.MinBoxSize < 1 {
		return errors.Errorf("min box size must be positive, got %d", cfg.MinBoxSize)
	}
	if cfg.SearchMargin < 0 {
		return errors.Errorf("search margin must be non-negative, got %f", cfg.SearchMargin)
	}
	if cfg.ConvergenceEpsilon <= 0 {
		return errors.Errorf("convergence epsilon must be positive, got %f", cfg.ConvergenceEpsilon)
	}
	if cfg.MaxIterations < 1 {
		return errors.Errorf("max iterations must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.MinSearchMass < 0 {
		return errors.Errorf("min search mass must be non-negative, got %f", cfg.MinSearchMass)
	}
	if cfg.LostConfidence < 0 || cfg.LostConfidence > 1 {
		return errors.Errorf("lost confidence must be in [0, 1], got %f", cfg.LostConfidence)
	}
	if cfg.MaxLostFrames < 0 {
		return errors.Errorf("max lost frames must be non-negative, got %d", cfg.MaxLostFrames)
	}
	if cfg.ScaleSmoothing <= 0 || cfg.ScaleSmoothing > 1 {
		return errors.Errorf("scale smoothing must be in (0, 1], got %f", cfg.ScaleSmoothing)
	}
	if cfg.PredictDt <= 0 {
		return errors.Errorf("predict dt must be positive, got %f", cfg.PredictDt)
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must be non-negative, got %d", cfg.Workers)
	}
	return nil
}
