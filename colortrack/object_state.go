package colortrack

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ObjectState is a tracked object: its box, color model and match quality.
// Objects are independent of each other; the only shared thing is the frame they read.
type ObjectState struct {
	id         uuid.UUID
	box        Rectangle
	model      *Histogram
	confidence float64
	lostCount  int
	lost       bool
	// motion model, nil unless motion prediction is enabled
	predictor *kalman_filter.Kalman2D
	loc       *localizer
}

// NewObjectState creates object at box without a color model
func NewObjectState(box Rectangle, cfg Config) *ObjectState {
	obj := ObjectState{
		id:         uuid.New(),
		box:        box,
		confidence: 0,
		loc:        newLocalizer(cfg),
	}
	if cfg.PredictMotion {
		obj.resetPredictor(cfg)
	}
	return &obj
}

func (obj *ObjectState) resetPredictor(cfg Config) {
	center := obj.box.Center()
	/* Kalman filter props */
	ux := 0.0
	uy := 0.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	obj.predictor = kalman_filter.NewKalman2D(cfg.PredictDt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
}

// GetID returns object's identifier. It is informational: the external identity is the index in the session
func (obj *ObjectState) GetID() uuid.UUID {
	return obj.id
}

// GetBBox returns object's current bounding box
func (obj *ObjectState) GetBBox() Rectangle {
	return obj.box
}

// GetCenter returns object's current center
func (obj *ObjectState) GetCenter() Point {
	return obj.box.Center()
}

// GetModel returns object's color model (nil when it has none)
func (obj *ObjectState) GetModel() *Histogram {
	return obj.model
}

// GetConfidence returns match quality of the last localization, 0 for lost objects
func (obj *ObjectState) GetConfidence() float64 {
	return obj.confidence
}

// GetLostCount returns number of consecutive frames without a confident match
func (obj *ObjectState) GetLostCount() int {
	return obj.lostCount
}

// IsLost reports whether object has been missing for too long
func (obj *ObjectState) IsLost() bool {
	return obj.lost
}

// HasModel reports whether object has a usable color model
func (obj *ObjectState) HasModel() bool {
	return !obj.model.Empty()
}

// setBox replaces box and restarts motion model from it
func (obj *ObjectState) setBox(box Rectangle, cfg Config) {
	obj.box = box
	if obj.predictor != nil {
		obj.resetPredictor(cfg)
	}
}

// setModel atomically replaces color model and resets match state
func (obj *ObjectState) setModel(model *Histogram) {
	obj.model = model
	obj.confidence = 1.0
	obj.lostCount = 0
	obj.lost = false
}

// rebuildFromBox builds color model from the box content: center of the box, radius of half the smaller side.
// The sampled square (2*radius+1 wide) never leaves the box.
func (obj *ObjectState) rebuildFromBox(img *HSVImage, cfg Config) error {
	radius := (minInt(obj.box.Width, obj.box.Height) - 1) / 2
	model, err := BuildHistogram(img, obj.box.Center().ToImage(), radius, cfg)
	if err != nil {
		return err
	}
	obj.setModel(model)
	return nil
}

// predictStart returns box localization should start from
func (obj *ObjectState) predictStart() Rectangle {
	if obj.predictor == nil {
		return obj.box
	}
	obj.predictor.Predict()
	x, y := obj.predictor.GetState()
	return obj.box.CenteredAt(Point{X: x, Y: y})
}

// Update runs localization on img and updates box, confidence and lost state.
// Lost objects keep their last confident box and are never removed here.
func (obj *ObjectState) Update(img *HSVImage, roi Rectangle, cfg Config) error {
	res := obj.loc.localize(img, obj.model, obj.box, obj.predictStart(), roi)
	if res.found {
		obj.box = res.box
		obj.confidence = res.confidence
		if obj.lost {
			Logf("[colortrack] object %s recovered at %v (confidence %.2f)", obj.id, obj.box, obj.confidence)
		}
		obj.lostCount = 0
		obj.lost = false
		if obj.predictor != nil {
			center := obj.box.Center()
			err := obj.predictor.Update(center.X, center.Y)
			if err != nil {
				return errors.Wrapf(err, "Can't update motion model of object %s", obj.id)
			}
		}
		return nil
	}
	obj.lostCount++
	obj.confidence = res.confidence
	if obj.lostCount > cfg.MaxLostFrames {
		if !obj.lost {
			Logf("[colortrack] object %s lost after %d frames, keeping box %v", obj.id, obj.lostCount, obj.box)
		}
		obj.lost = true
		obj.confidence = 0
	}
	return nil
}

// report snapshots object for output
func (obj *ObjectState) report(index int) ObjectReport {
	return ObjectReport{
		Index:      index,
		ID:         obj.id,
		Box:        obj.box,
		Confidence: obj.confidence,
		LostCount:  obj.lostCount,
		Lost:       obj.lost,
	}
}

// ObjectReport is the per-object output of a frame update
type ObjectReport struct {
	Index      int
	ID         uuid.UUID
	Box        Rectangle
	Confidence float64
	LostCount  int
	Lost       bool
}
