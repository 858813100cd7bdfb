package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, colortrack.DefaultConfig(), cfg.TrackerConfig())
	assert.Equal(t, colortrack.DefaultConfig(), (&TuningConfig{}).TrackerConfig())
}

func TestLoadTuningConfig(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
  "hue_bins": 32,
  "min_saturation": 80,
  "seed_radius": 6,
  "lost_confidence": 0.2,
  "adapt_scale": true,
  "predict_motion": true,
  "workers": 4
}`)
	cfg, err := LoadTuningConfig(path)
	require.NoError(t, err)

	tc := cfg.TrackerConfig()
	assert.Equal(t, 32, tc.HueBins)
	assert.Equal(t, uint8(80), tc.MinSaturation)
	assert.Equal(t, 6, tc.SeedRadius)
	assert.Equal(t, 0.2, tc.LostConfidence)
	assert.True(t, tc.AdaptScale)
	assert.True(t, tc.PredictMotion)
	assert.Equal(t, 4, tc.Workers)

	// Absent fields keep defaults
	def := colortrack.DefaultConfig()
	assert.Equal(t, def.MinValue, tc.MinValue)
	assert.Equal(t, def.MaxLostFrames, tc.MaxLostFrames)
	assert.Equal(t, def.SearchMargin, tc.SearchMargin)
	assert.Nil(t, cfg.MaxIterations)
}

func TestLoadTuningConfigErrors(t *testing.T) {
	_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadTuningConfig(writeConfig(t, "tuning.yaml", `hue_bins: 16`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json extension")

	_, err = LoadTuningConfig(writeConfig(t, "broken.json", `{"hue_bins": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	large := `{"hue_bins": 16, "pad": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err = LoadTuningConfig(writeConfig(t, "large.json", large))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  TuningConfig
	}{
		{"saturation above 255", TuningConfig{MinSaturation: ptrInt(300)}},
		{"negative value", TuningConfig{MinValue: ptrInt(-1)}},
		{"too many bins", TuningConfig{HueBins: ptrInt(181)}},
		{"zero iterations", TuningConfig{MaxIterations: ptrInt(0)}},
		{"lost confidence above 1", TuningConfig{LostConfidence: ptrFloat64(1.5)}},
		{"zero smoothing", TuningConfig{ScaleSmoothing: ptrFloat64(0)}},
		{"negative workers", TuningConfig{Workers: ptrInt(-2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
	ok := TuningConfig{AdaptScale: ptrBool(true), ScaleSmoothing: ptrFloat64(1)}
	assert.NoError(t, ok.Validate())
}
