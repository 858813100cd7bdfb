package colortrack

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is a normalized hue distribution of an object.
// It is immutable once built: rebuilding a model produces a new Histogram which replaces the old pointer.
type Histogram struct {
	bins []float64
	// lut maps every hue to its back-projection weight, peak bin weighs 1.0
	lut           [HueRange]float64
	minSaturation uint8
	minValue      uint8
	// number of pixels the histogram was built from
	pixels int
}

// NewHistogram returns an empty histogram with numBins bins and the given mask thresholds
func NewHistogram(numBins int, minSaturation, minValue uint8) *Histogram {
	return &Histogram{
		bins:          make([]float64, numBins),
		minSaturation: minSaturation,
		minValue:      minValue,
	}
}

// BuildHistogram samples square neighborhood of the given radius around center (frame coordinates)
// and returns a fresh normalized hue histogram. Low saturation/value pixels are ignored.
// ErrInvalidSeed is returned when fewer than cfg.MinSeedPixels usable pixels are found.
func BuildHistogram(img *HSVImage, center image.Point, radius int, cfg Config) (*Histogram, error) {
	patch := NewRect(center.X-radius, center.Y-radius, 2*radius+1, 2*radius+1).Intersect(img.Rect)
	if patch.Empty() {
		return nil, errors.Wrapf(ErrInvalidSeed, "neighborhood of %v (radius %d) is outside of %v", center, radius, img.Rect)
	}
	hist := NewHistogram(cfg.HueBins, cfg.MinSaturation, cfg.MinValue)
	for y := patch.Y; y < patch.Y+patch.Height; y++ {
		for x := patch.X; x < patch.X+patch.Width; x++ {
			h, s, v := img.At(x, y)
			if !hist.usable(s, v) {
				continue
			}
			hist.bins[hist.binOf(h)]++
			hist.pixels++
		}
	}
	if hist.pixels < cfg.MinSeedPixels {
		return nil, errors.Wrapf(ErrInvalidSeed, "only %d colored pixels around %v, need %d", hist.pixels, center, cfg.MinSeedPixels)
	}
	hist.normalize()
	return hist, nil
}

func (h *Histogram) usable(s, v uint8) bool {
	return s >= h.minSaturation && v >= h.minValue
}

func (h *Histogram) binOf(hue uint8) int {
	bin := int(hue) * len(h.bins) / HueRange
	if bin >= len(h.bins) {
		bin = len(h.bins) - 1
	}
	return bin
}

func (h *Histogram) normalize() {
	total := floats.Sum(h.bins)
	if total <= 0 {
		return
	}
	floats.Scale(1.0/total, h.bins)
	peak := floats.Max(h.bins)
	for hue := 0; hue < HueRange; hue++ {
		h.lut[hue] = h.bins[h.binOf(uint8(hue))] / peak
	}
}

// Empty reports whether histogram carries no color information
func (h *Histogram) Empty() bool {
	return h == nil || h.pixels == 0
}

// NumBins returns number of hue bins
func (h *Histogram) NumBins() int {
	return len(h.bins)
}

// Bins returns a copy of normalized bins (they sum to 1, or 0 for an empty histogram)
func (h *Histogram) Bins() []float64 {
	out := make([]float64, len(h.bins))
	copy(out, h.bins)
	return out
}

// Pixels returns number of samples the histogram was built from
func (h *Histogram) Pixels() int {
	return h.pixels
}

// DominantHue returns center hue of the heaviest bin
func (h *Histogram) DominantHue() uint8 {
	if h.Empty() {
		return 0
	}
	idx := floats.MaxIdx(h.bins)
	width := float64(HueRange) / float64(len(h.bins))
	return uint8(math.Floor((float64(idx) + 0.5) * width))
}

// Weight returns back-projection weight of a single HSV pixel in [0, 1]
func (h *Histogram) Weight(hue, s, v uint8) float64 {
	if !h.usable(s, v) {
		return 0
	}
	return h.lut[hue]
}

// Similarity returns Bhattacharyya distance between two histograms: 0 for identical
// distributions, +Inf when they do not overlap or are not comparable.
func (h *Histogram) Similarity(other *Histogram) float64 {
	if h.Empty() || other.Empty() || len(h.bins) != len(other.bins) {
		return math.Inf(1)
	}
	return stat.Bhattacharyya(h.bins, other.bins)
}

// WeightMap is a back-projection of a histogram onto a window of a frame
type WeightMap struct {
	// Rect is the covered area in frame coordinates
	Rect Rectangle
	// W holds row-major weights
	W []float64
}

// At returns weight of frame pixel (x, y). Pixel must be inside Rect
func (m *WeightMap) At(x, y int) float64 {
	return m.W[(y-m.Rect.Y)*m.Rect.Width+(x-m.Rect.X)]
}

// Mass returns total weight
func (m *WeightMap) Mass() float64 {
	return floats.Sum(m.W)
}

// BackProject maps every pixel of window (clipped to img) to its histogram weight
func (h *Histogram) BackProject(img *HSVImage, window Rectangle) *WeightMap {
	dst := &WeightMap{}
	h.BackProjectInto(img, window, dst)
	return dst
}

// BackProjectInto is BackProject writing into dst, reusing its memory
func (h *Histogram) BackProjectInto(img *HSVImage, window Rectangle, dst *WeightMap) {
	window = window.Intersect(img.Rect)
	n := window.Area()
	if cap(dst.W) < n {
		dst.W = make([]float64, n)
	}
	dst.W = dst.W[:n]
	dst.Rect = window
	i := 0
	for y := window.Y; y < window.Y+window.Height; y++ {
		src := img.offset(window.X, y)
		for x := 0; x < window.Width; x++ {
			dst.W[i] = h.Weight(img.H[src+x], img.S[src+x], img.V[src+x])
			i++
		}
	}
}
