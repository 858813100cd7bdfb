package colortrack

import (
	"image"
	"image/draw"
)

// PixelFormat identifies the channel layout of a frame buffer
type PixelFormat uint16

const (
	// FormatUnknown is the zero value and is never accepted
	FormatUnknown PixelFormat = iota
	// FormatRGBA is 4 bytes per pixel: R, G, B, A
	FormatRGBA
	// FormatBGRA is 4 bytes per pixel: B, G, R, A
	FormatBGRA
	// FormatRGB is 3 bytes per pixel: R, G, B
	FormatRGB
	// FormatBGR is 3 bytes per pixel: B, G, R (OpenCV default)
	FormatBGR
	// FormatNV21 is YUV 4:2:0 semi-planar: full-size Y plane followed by interleaved V, U at half resolution (Android camera default)
	FormatNV21
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "RGBA"
	case FormatBGRA:
		return "BGRA"
	case FormatRGB:
		return "RGB"
	case FormatBGR:
		return "BGR"
	case FormatNV21:
		return "NV21"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns size of one pixel for packed formats and 0 for planar ones
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA, FormatBGRA:
		return 4
	case FormatRGB, FormatBGR:
		return 3
	default:
		return 0
	}
}

// Frame is a decoded camera frame as delivered by the platform.
type Frame struct {
	Width  int
	Height int
	// Stride is the number of bytes between rows of packed formats (and of the Y plane for NV21).
	// Zero means tightly packed.
	Stride int
	Format PixelFormat
	Data   []byte
}

// Bounds returns the full frame rectangle
func (f Frame) Bounds() Rectangle {
	return NewRect(0, 0, f.Width, f.Height)
}

func (f Frame) rowStride() int {
	if f.Stride > 0 {
		return f.Stride
	}
	if f.Format == FormatNV21 {
		return f.Width
	}
	return f.Width * f.Format.BytesPerPixel()
}

// FrameFromImage wraps an image as a Frame. *image.RGBA and *image.NRGBA are shared without copying,
// everything else is drawn into a fresh RGBA buffer first.
func FrameFromImage(img image.Image) Frame {
	var rgba *image.RGBA
	switch src := img.(type) {
	case *image.RGBA:
		rgba = src
	case *image.NRGBA:
		return Frame{
			Width:  src.Rect.Dx(),
			Height: src.Rect.Dy(),
			Stride: src.Stride,
			Format: FormatRGBA,
			Data:   src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y):],
		}
	default:
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	return Frame{
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Stride: rgba.Stride,
		Format: FormatRGBA,
		Data:   rgba.Pix[rgba.PixOffset(rgba.Rect.Min.X, rgba.Rect.Min.Y):],
	}
}
