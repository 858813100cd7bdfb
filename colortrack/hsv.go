package colortrack

// HueRange is the number of distinct hue values in 8-bit HSV (OpenCV convention, hue = degrees/2)
const HueRange = 180

// HSVImage holds hue/saturation/value planes for a rectangular part of a frame.
// Planes are row-major with Rect.Width pixels per row.
type HSVImage struct {
	// Rect is the covered area in frame coordinates
	Rect Rectangle
	H    []uint8
	S    []uint8
	V    []uint8
}

// NewHSVImage allocates planes for rect
func NewHSVImage(rect Rectangle) *HSVImage {
	img := &HSVImage{}
	img.reset(rect)
	return img
}

// reset resizes planes for rect, reusing memory when possible
func (img *HSVImage) reset(rect Rectangle) {
	n := rect.Area()
	if cap(img.H) < n {
		img.H = make([]uint8, n)
		img.S = make([]uint8, n)
		img.V = make([]uint8, n)
	}
	img.H = img.H[:n]
	img.S = img.S[:n]
	img.V = img.V[:n]
	img.Rect = rect
}

func (img *HSVImage) offset(x, y int) int {
	return (y-img.Rect.Y)*img.Rect.Width + (x - img.Rect.X)
}

// At returns HSV triple of frame pixel (x, y). Pixel must be inside Rect
func (img *HSVImage) At(x, y int) (h, s, v uint8) {
	i := img.offset(x, y)
	return img.H[i], img.S[i], img.V[i]
}

// Set stores HSV triple of frame pixel (x, y). Pixel must be inside Rect
func (img *HSVImage) Set(x, y int, h, s, v uint8) {
	i := img.offset(x, y)
	img.H[i], img.S[i], img.V[i] = h, s, v
}

// RGBToHSV converts 8-bit RGB into 8-bit HSV with hue in [0, 179]
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	maxC := maxInt(ri, maxInt(gi, bi))
	minC := minInt(ri, minInt(gi, bi))
	delta := maxC - minC
	v = uint8(maxC)
	if maxC == 0 {
		return 0, 0, v
	}
	s = uint8((delta*255 + maxC/2) / maxC)
	if delta == 0 {
		return 0, s, v
	}
	var hue float64
	switch maxC {
	case ri:
		hue = 60.0 * float64(gi-bi) / float64(delta)
	case gi:
		hue = 120.0 + 60.0*float64(bi-ri)/float64(delta)
	default:
		hue = 240.0 + 60.0*float64(ri-gi)/float64(delta)
	}
	if hue < 0 {
		hue += 360.0
	}
	hi := int(hue/2.0 + 0.5)
	if hi >= HueRange {
		hi -= HueRange
	}
	return uint8(hi), s, v
}

// yuvToRGB converts BT.601 full-range YUV (as produced by Android cameras) to RGB
func yuvToRGB(y, u, v uint8) (r, g, b uint8) {
	yf := float64(y)
	uf := float64(u) - 128.0
	vf := float64(v) - 128.0
	r = clampByte(yf + 1.402*vf)
	g = clampByte(yf - 0.344136*uf - 0.714136*vf)
	b = clampByte(yf + 1.772*uf)
	return r, g, b
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
