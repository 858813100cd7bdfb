package colortrack

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
)

func TestRGBToHSV(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"yellow", 255, 255, 0, 30, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"cyan", 0, 255, 255, 90, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"magenta", 255, 0, 255, 150, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"dark red", 128, 0, 0, 0, 255, 128},
		{"pale red", 255, 128, 128, 0, 127, 255},
	}
	for _, tc := range cases {
		h, s, v := RGBToHSV(tc.r, tc.g, tc.b)
		if h != tc.h || s != tc.s || v != tc.v {
			t.Errorf("%s: got (%d, %d, %d), want (%d, %d, %d)", tc.name, h, s, v, tc.h, tc.s, tc.v)
		}
	}
}

func TestHueStaysInRange(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				h, _, _ := RGBToHSV(uint8(r), uint8(g), uint8(b))
				if int(h) >= HueRange {
					t.Fatalf("Hue %d out of range for (%d, %d, %d)", h, r, g, b)
				}
			}
		}
	}
}

func TestFrameAdapterFormatsAgree(t *testing.T) {
	img := paint(16, 12, green, patch{NewRect(4, 4, 8, 4), red}, patch{NewRect(0, 0, 4, 4), blue})
	roi := NewRect(2, 2, 12, 8)
	want := mustConvert(t, FrameFromImage(img), roi)

	for _, format := range []PixelFormat{FormatRGB, FormatBGR, FormatBGRA, FormatRGBA} {
		got := mustConvert(t, toFormat(img, format), roi)
		if got.Rect != roi {
			t.Errorf("%s: wrong rect %v", format, got.Rect)
		}
		for i := range want.H {
			if got.H[i] != want.H[i] || got.S[i] != want.S[i] || got.V[i] != want.V[i] {
				t.Fatalf("%s: pixel %d differs: (%d, %d, %d) vs (%d, %d, %d)", format, i, got.H[i], got.S[i], got.V[i], want.H[i], want.S[i], want.V[i])
			}
		}
	}
}

func TestFrameAdapterNV21(t *testing.T) {
	img := paint(16, 12, green, patch{NewRect(4, 4, 8, 4), red}, patch{NewRect(0, 0, 4, 4), blue})
	roi := NewRect(0, 0, 16, 12)
	want := mustConvert(t, FrameFromImage(img), roi)
	got := mustConvert(t, toNV21(img), roi)
	for _, pt := range []image.Point{{5, 5}, {1, 1}, {14, 10}} {
		wh, _, _ := want.At(pt.X, pt.Y)
		gh, gs, gv := got.At(pt.X, pt.Y)
		if abs(int(wh)-int(gh)) > 2 {
			t.Errorf("Hue at %v: got %d, want %d", pt, gh, wh)
		}
		if gs < 200 || gv < 150 {
			t.Errorf("Pixel at %v lost saturation/value: s=%d v=%d", pt, gs, gv)
		}
	}
}

func TestFrameAdapterSharesSubImage(t *testing.T) {
	full := paint(20, 20, green, patch{NewRect(10, 10, 5, 5), red})
	sub := full.SubImage(image.Rect(10, 10, 20, 20)).(*image.RGBA)
	frame := FrameFromImage(sub)
	if frame.Width != 10 || frame.Height != 10 {
		t.Fatalf("Wrong sub-image frame size %dx%d", frame.Width, frame.Height)
	}
	hsv := mustConvert(t, frame, NewRect(0, 0, 10, 10))
	if h, _, _ := hsv.At(0, 0); h != 0 {
		t.Errorf("Expected red at sub-image origin, got hue %d", h)
	}
	if h, _, _ := hsv.At(9, 9); h != 60 {
		t.Errorf("Expected green at sub-image corner, got hue %d", h)
	}
}

func TestFrameFromGenericImage(t *testing.T) {
	gimg := image.NewGray(image.Rect(0, 0, 4, 4))
	gimg.SetGray(1, 1, color.Gray{Y: 200})
	frame := FrameFromImage(gimg)
	if frame.Format != FormatRGBA || frame.Width != 4 || frame.Height != 4 {
		t.Fatalf("Unexpected frame %+v", frame)
	}
	hsv := mustConvert(t, frame, frame.Bounds())
	if _, s, v := hsv.At(1, 1); s != 0 || v != 200 {
		t.Errorf("Gray pixel converted to s=%d v=%d", s, v)
	}
}

func TestFrameAdapterRejectsBadFrames(t *testing.T) {
	adapter := NewFrameAdapter()
	good := toFormat(paint(8, 8, red), FormatRGB)
	cases := []struct {
		name  string
		frame Frame
	}{
		{"unknown format", Frame{Width: 8, Height: 8, Format: FormatUnknown, Data: good.Data}},
		{"zero size", Frame{Width: 0, Height: 8, Format: FormatRGB, Data: good.Data}},
		{"short buffer", Frame{Width: 8, Height: 8, Format: FormatRGB, Data: good.Data[:100]}},
		{"short stride", Frame{Width: 8, Height: 8, Stride: 10, Format: FormatRGB, Data: good.Data}},
		{"odd nv21", Frame{Width: 7, Height: 8, Format: FormatNV21, Data: make([]byte, 1000)}},
		{"short nv21", Frame{Width: 8, Height: 8, Format: FormatNV21, Data: make([]byte, 64)}},
	}
	for _, tc := range cases {
		_, err := adapter.Convert(tc.frame, NewRect(0, 0, 4, 4))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: expected ErrUnsupportedFormat, got %v", tc.name, err)
		}
	}
	_, err := adapter.Convert(good, NewRect(4, 4, 8, 8))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ROI outside of frame: expected ErrInvalidInput, got %v", err)
	}
}
