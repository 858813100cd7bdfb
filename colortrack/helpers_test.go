package colortrack

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var (
	red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	green = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

type patch struct {
	rect Rectangle
	c    color.RGBA
}

// paint draws background and patches into a new RGBA image
func paint(width, height int, bg color.RGBA, patches ...patch) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	for _, p := range patches {
		draw.Draw(img, p.rect.ToImage(), image.NewUniform(p.c), image.Point{}, draw.Src)
	}
	return img
}

func paintFrame(width, height int, bg color.RGBA, patches ...patch) Frame {
	return FrameFromImage(paint(width, height, bg, patches...))
}

// toFormat repacks RGBA image into the given packed format
func toFormat(img *image.RGBA, format PixelFormat) Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	bpp := format.BytesPerPixel()
	data := make([]byte, 0, w*h*bpp)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(x, y)
			switch format {
			case FormatRGB:
				data = append(data, c.R, c.G, c.B)
			case FormatBGR:
				data = append(data, c.B, c.G, c.R)
			case FormatBGRA:
				data = append(data, c.B, c.G, c.R, c.A)
			default:
				data = append(data, c.R, c.G, c.B, c.A)
			}
		}
	}
	return Frame{Width: w, Height: h, Format: format, Data: data}
}

// toNV21 encodes RGBA image as full-range BT.601 NV21
func toNV21(img *image.RGBA) Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	data := make([]byte, w*h+w*h/2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(x, y)
			r, g, b := float64(c.R), float64(c.G), float64(c.B)
			data[y*w+x] = clampByte(0.299*r + 0.587*g + 0.114*b)
			if x%2 == 0 && y%2 == 0 {
				uv := w*h + (y/2)*w + x
				data[uv] = clampByte(0.5*r - 0.418688*g - 0.081312*b + 128)
				data[uv+1] = clampByte(-0.168736*r - 0.331264*g + 0.5*b + 128)
			}
		}
	}
	return Frame{Width: w, Height: h, Format: FormatNV21, Data: data}
}

func mustConvert(t *testing.T, frame Frame, roi Rectangle) *HSVImage {
	t.Helper()
	img, err := NewFrameAdapter().Convert(frame, roi)
	if err != nil {
		t.Fatalf("Can't convert frame: %v", err)
	}
	return img
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	SetLogger(t.Logf)
	t.Cleanup(func() { SetLogger(nil) })
	session := NewSession(cfg)
	if err := session.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(session.Release)
	return session
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
