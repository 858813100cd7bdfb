package colortrack

import (
	"math"
)

// localizer runs mean-shift search for one object. It owns its weight buffer,
// so different objects may be localized concurrently with different localizers.
type localizer struct {
	cfg     Config
	weights WeightMap
}

func newLocalizer(cfg Config) *localizer {
	return &localizer{
		cfg: cfg,
	}
}

// localization is the outcome of a single search
type localization struct {
	// Box is the new box when found, otherwise the box localization started from
	box        Rectangle
	confidence float64
	found      bool
	// Total weight of the initial search window
	searchMass float64
	iterations int
}

// moments holds raw image moments of a weight map, computed on pixel centers
type moments struct {
	m00, m10, m01, m20, m02 float64
}

func computeMoments(wm *WeightMap) moments {
	var m moments
	i := 0
	for y := 0; y < wm.Rect.Height; y++ {
		fy := float64(wm.Rect.Y+y) + 0.5
		var rowSum, rowX, rowXX float64
		for x := 0; x < wm.Rect.Width; x++ {
			w := wm.W[i]
			i++
			if w == 0 {
				continue
			}
			fx := float64(wm.Rect.X+x) + 0.5
			rowSum += w
			rowX += w * fx
			rowXX += w * fx * fx
		}
		m.m00 += rowSum
		m.m10 += rowX
		m.m20 += rowXX
		m.m01 += rowSum * fy
		m.m02 += rowSum * fy * fy
	}
	return m
}

func (m moments) centroid() Point {
	return Point{X: m.m10 / m.m00, Y: m.m01 / m.m00}
}

// size estimates width and height of a uniform blob with the same second central moments
func (m moments) size() (float64, float64) {
	c := m.centroid()
	varX := math.Max(m.m20/m.m00-c.X*c.X, 0)
	varY := math.Max(m.m02/m.m00-c.Y*c.Y, 0)
	return math.Sqrt(12*varX + 1), math.Sqrt(12*varY + 1)
}

func (l *localizer) searchWindow(box, roi Rectangle) Rectangle {
	return box.Expand(l.cfg.SearchMargin).Intersect(roi)
}

// boxConfidence returns weight mass inside box divided by box area
func (l *localizer) boxConfidence(img *HSVImage, model *Histogram, box Rectangle) float64 {
	if box.Empty() {
		return 0
	}
	model.BackProjectInto(img, box, &l.weights)
	return clampFloat64(l.weights.Mass()/float64(box.Area()), 0, 1)
}

// localize searches for model around start (which may differ from prev when motion is predicted).
// roi bounds every window; img must cover roi.
func (l *localizer) localize(img *HSVImage, model *Histogram, prev, start, roi Rectangle) localization {
	result := localization{
		box: prev,
	}
	if model.Empty() {
		return result
	}
	minSize := l.cfg.MinBoxSize

	current := start.Fit(roi, minSize)
	model.BackProjectInto(img, l.searchWindow(current, roi), &l.weights)
	m := computeMoments(&l.weights)
	result.searchMass = m.m00
	if m.m00 < l.cfg.MinSearchMass || m.m00 == 0 {
		result.confidence = l.boxConfidence(img, model, prev)
		return result
	}

	for result.iterations < l.cfg.MaxIterations {
		result.iterations++
		before := current.Center()
		current = current.CenteredAt(m.centroid()).Fit(roi, minSize)
		if euclideanDistance(before, current.Center()) < l.cfg.ConvergenceEpsilon {
			break
		}
		model.BackProjectInto(img, l.searchWindow(current, roi), &l.weights)
		m = computeMoments(&l.weights)
		if m.m00 < l.cfg.MinSearchMass || m.m00 == 0 {
			break
		}
	}

	if l.cfg.AdaptScale && m.m00 > 0 {
		current = l.adaptScale(current, m, roi)
	}

	confidence := l.boxConfidence(img, model, current)
	if confidence < l.cfg.LostConfidence {
		result.confidence = l.boxConfidence(img, model, prev)
		return result
	}
	result.box = current
	result.confidence = confidence
	result.found = true
	return result
}

func (l *localizer) adaptScale(box Rectangle, m moments, roi Rectangle) Rectangle {
	estW, estH := m.size()
	alpha := l.cfg.ScaleSmoothing
	w := float64(box.Width) + alpha*(estW-float64(box.Width))
	h := float64(box.Height) + alpha*(estH-float64(box.Height))
	resized := Rectangle{
		Width:  clampInt(int(math.Round(w)), l.cfg.MinBoxSize, roi.Width),
		Height: clampInt(int(math.Round(h)), l.cfg.MinBoxSize, roi.Height),
	}
	return resized.CenteredAt(box.Center()).Fit(roi, l.cfg.MinBoxSize)
}
