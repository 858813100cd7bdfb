// Package config loads tracker tuning from JSON files.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/pkg/errors"
)

// maxFileSize caps tuning files at 1MB
const maxFileSize = 1 * 1024 * 1024

// TuningConfig is the JSON form of colortrack.Config.
// Every field is optional: absent fields keep colortrack.DefaultConfig values.
type TuningConfig struct {
	// Color model
	HueBins       *int `json:"hue_bins,omitempty"`
	MinSaturation *int `json:"min_saturation,omitempty"`
	MinValue      *int `json:"min_value,omitempty"`
	MinSeedPixels *int `json:"min_seed_pixels,omitempty"`
	SeedRadius    *int `json:"seed_radius,omitempty"`

	// Search
	MinBoxSize         *int     `json:"min_box_size,omitempty"`
	SearchMargin       *float64 `json:"search_margin,omitempty"`
	ConvergenceEpsilon *float64 `json:"convergence_epsilon,omitempty"`
	MaxIterations      *int     `json:"max_iterations,omitempty"`
	MinSearchMass      *float64 `json:"min_search_mass,omitempty"`

	// Lost state
	LostConfidence *float64 `json:"lost_confidence,omitempty"`
	MaxLostFrames  *int     `json:"max_lost_frames,omitempty"`

	// Optional behaviours
	AdaptScale     *bool    `json:"adapt_scale,omitempty"`
	ScaleSmoothing *float64 `json:"scale_smoothing,omitempty"`
	PredictMotion  *bool    `json:"predict_motion,omitempty"`
	PredictDt      *float64 `json:"predict_dt,omitempty"`
	Workers        *int     `json:"workers,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultTuningConfig returns a TuningConfig with every field set to the tracker defaults
func DefaultTuningConfig() *TuningConfig {
	def := colortrack.DefaultConfig()
	return &TuningConfig{
		HueBins:            ptrInt(def.HueBins),
		MinSaturation:      ptrInt(int(def.MinSaturation)),
		MinValue:           ptrInt(int(def.MinValue)),
		MinSeedPixels:      ptrInt(def.MinSeedPixels),
		SeedRadius:         ptrInt(def.SeedRadius),
		MinBoxSize:         ptrInt(def.MinBoxSize),
		SearchMargin:       ptrFloat64(def.SearchMargin),
		ConvergenceEpsilon: ptrFloat64(def.ConvergenceEpsilon),
		MaxIterations:      ptrInt(def.MaxIterations),
		MinSearchMass:      ptrFloat64(def.MinSearchMass),
		LostConfidence:     ptrFloat64(def.LostConfidence),
		MaxLostFrames:      ptrInt(def.MaxLostFrames),
		AdaptScale:         ptrBool(def.AdaptScale),
		ScaleSmoothing:     ptrFloat64(def.ScaleSmoothing),
		PredictMotion:      ptrBool(def.PredictMotion),
		PredictDt:          ptrFloat64(def.PredictDt),
		Workers:            ptrInt(def.Workers),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Partial files are fine.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks the fields JSON can get wrong before they reach the tracker,
// then validates the resulting tracker configuration as a whole.
func (c *TuningConfig) Validate() error {
	if c.MinSaturation != nil && (*c.MinSaturation < 0 || *c.MinSaturation > 255) {
		return errors.Errorf("min_saturation must be between 0 and 255, got %d", *c.MinSaturation)
	}
	if c.MinValue != nil && (*c.MinValue < 0 || *c.MinValue > 255) {
		return errors.Errorf("min_value must be between 0 and 255, got %d", *c.MinValue)
	}
	return c.TrackerConfig().Validate()
}

// TrackerConfig overlays the set fields on colortrack.DefaultConfig
func (c *TuningConfig) TrackerConfig() colortrack.Config {
	cfg := colortrack.DefaultConfig()
	if c.HueBins != nil {
		cfg.HueBins = *c.HueBins
	}
	if c.MinSaturation != nil {
		cfg.MinSaturation = uint8(*c.MinSaturation)
	}
	if c.MinValue != nil {
		cfg.MinValue = uint8(*c.MinValue)
	}
	if c.MinSeedPixels != nil {
		cfg.MinSeedPixels = *c.MinSeedPixels
	}
	if c.SeedRadius != nil {
		cfg.SeedRadius = *c.SeedRadius
	}
	if c.MinBoxSize != nil {
		cfg.MinBoxSize = *c.MinBoxSize
	}
	if c.SearchMargin != nil {
		cfg.SearchMargin = *c.SearchMargin
	}
	if c.ConvergenceEpsilon != nil {
		cfg.ConvergenceEpsilon = *c.ConvergenceEpsilon
	}
	if c.MaxIterations != nil {
		cfg.MaxIterations = *c.MaxIterations
	}
	if c.MinSearchMass != nil {
		cfg.MinSearchMass = *c.MinSearchMass
	}
	if c.LostConfidence != nil {
		cfg.LostConfidence = *c.LostConfidence
	}
	if c.MaxLostFrames != nil {
		cfg.MaxLostFrames = *c.MaxLostFrames
	}
	if c.AdaptScale != nil {
		cfg.AdaptScale = *c.AdaptScale
	}
	if c.ScaleSmoothing != nil {
		cfg.ScaleSmoothing = *c.ScaleSmoothing
	}
	if c.PredictMotion != nil {
		cfg.PredictMotion = *c.PredictMotion
	}
	if c.PredictDt != nil {
		cfg.PredictDt = *c.PredictDt
	}
	if c.Workers != nil {
		cfg.Workers = *c.Workers
	}
	return cfg
}
