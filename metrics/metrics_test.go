package metrics

import (
	"testing"
	"time"

	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureReason(t *testing.T) {
	assert.Equal(t, ReasonInvalidInput, FailureReason(errors.Wrap(colortrack.ErrInvalidInput, "box list")))
	assert.Equal(t, ReasonUnsupportedFormat, FailureReason(errors.Wrapf(colortrack.ErrUnsupportedFormat, "format %d", 7)))
	assert.Equal(t, ReasonNotInitialized, FailureReason(colortrack.ErrNotInitialized))
	assert.Equal(t, ReasonOther, FailureReason(errors.New("boom")))
}

func TestCollectorObserveFrame(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("colortrack", nil)
	require.NoError(t, c.Register(reg))

	c.ObserveFrame(5*time.Millisecond, colortrack.Result{
		Structural: true,
		Seeded:     true,
		Objects:    []colortrack.ObjectReport{{Index: 0}, {Index: 1, Lost: true}, {Index: 2}},
	}, nil)
	c.ObserveFrame(time.Millisecond, colortrack.Result{
		Seeded:  true,
		SeedErr: errors.Wrap(colortrack.ErrInvalidSeed, "gray"),
		Objects: []colortrack.ObjectReport{{Index: 0}, {Index: 1, Lost: true}, {Index: 2, Lost: true}},
	}, nil)
	c.ObserveFrame(time.Millisecond, colortrack.Result{}, errors.Wrap(colortrack.ErrInvalidInput, "roi"))
	c.ObserveFrame(time.Millisecond, colortrack.Result{}, colortrack.ErrUnsupportedFormat)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.tracked))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lost))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.structural))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.seeds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.seeds.WithLabelValues("invalid_seed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonInvalidInput)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonUnsupportedFormat)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonOther)))

	count, err := testutil.GatherAndCount(reg, "colortrack_frame_processing_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectorRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewCollector("colortrack", nil).Register(reg))
	assert.Error(t, NewCollector("colortrack", nil).Register(reg))
}

func TestCollectorWithTracker(t *testing.T) {
	colortrack.SetLogger(nil)
	c := NewCollector("test", []float64{0.001, 0.01, 0.1, 1})
	tracker := colortrack.NewTracker(colortrack.DefaultConfig(), colortrack.WithObserver(c))
	require.NoError(t, tracker.Initialize())
	defer tracker.Release()

	tracker.Publish(colortrack.Snapshot{ROI: colortrack.NewRect(0, 0, 8, 8), Boxes: []int{1, 1, 4, 4, 9}})
	_, err := tracker.ProcessFrame(colortrack.Frame{Width: 8, Height: 8, Format: colortrack.FormatRGB, Data: make([]byte, 8*8*3)})
	assert.ErrorIs(t, err, colortrack.ErrInvalidInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues(ReasonInvalidInput)))

	tracker.Publish(colortrack.Snapshot{ROI: colortrack.NewRect(0, 0, 8, 8), Boxes: []int{1, 1, 4, 4}})
	_, err = tracker.ProcessFrame(colortrack.Frame{Width: 8, Height: 8, Format: colortrack.FormatRGB, Data: make([]byte, 8*8*3)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tracked))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.structural))
}
