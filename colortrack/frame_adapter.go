package colortrack

import (
	"github.com/pkg/errors"
)

// FrameAdapter converts platform frames into HSV planes restricted to the ROI.
// It keeps its planes between calls, so the returned image is only valid until the next Convert.
type FrameAdapter struct {
	buf *HSVImage
}

// NewFrameAdapter creates adapter with empty buffers
func NewFrameAdapter() *FrameAdapter {
	return &FrameAdapter{
		buf: &HSVImage{},
	}
}

// Validate checks frame layout and buffer size without converting anything
func (a *FrameAdapter) Validate(frame Frame) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return errors.Wrapf(ErrUnsupportedFormat, "frame size %dx%d", frame.Width, frame.Height)
	}
	switch frame.Format {
	case FormatRGBA, FormatBGRA, FormatRGB, FormatBGR:
		rowBytes := frame.Width * frame.Format.BytesPerPixel()
		stride := frame.rowStride()
		if stride < rowBytes {
			return errors.Wrapf(ErrUnsupportedFormat, "stride %d is less than row size %d for %s", stride, rowBytes, frame.Format)
		}
		need := (frame.Height-1)*stride + rowBytes
		if len(frame.Data) < need {
			return errors.Wrapf(ErrUnsupportedFormat, "buffer has %d bytes, %dx%d %s needs %d", len(frame.Data), frame.Width, frame.Height, frame.Format, need)
		}
	case FormatNV21:
		if frame.Width%2 != 0 || frame.Height%2 != 0 {
			return errors.Wrapf(ErrUnsupportedFormat, "NV21 frame size %dx%d must be even", frame.Width, frame.Height)
		}
		stride := frame.rowStride()
		if stride < frame.Width {
			return errors.Wrapf(ErrUnsupportedFormat, "stride %d is less than width %d for NV21", stride, frame.Width)
		}
		need := stride*frame.Height + stride*(frame.Height/2-1) + frame.Width
		if len(frame.Data) < need {
			return errors.Wrapf(ErrUnsupportedFormat, "buffer has %d bytes, %dx%d NV21 needs %d", len(frame.Data), frame.Width, frame.Height, need)
		}
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "pixel format %d", frame.Format)
	}
	return nil
}

// Convert validates frame and converts pixels inside roi into HSV.
// Pixels outside roi are never read. roi must already lie inside the frame.
func (a *FrameAdapter) Convert(frame Frame, roi Rectangle) (*HSVImage, error) {
	if err := a.Validate(frame); err != nil {
		return nil, err
	}
	if roi.Empty() || !frame.Bounds().ContainsRect(roi) {
		return nil, errors.Wrapf(ErrInvalidInput, "roi %v is not inside %dx%d frame", roi, frame.Width, frame.Height)
	}
	a.buf.reset(roi)
	if frame.Format == FormatNV21 {
		a.convertNV21(frame, roi)
	} else {
		a.convertPacked(frame, roi)
	}
	return a.buf, nil
}

func (a *FrameAdapter) convertPacked(frame Frame, roi Rectangle) {
	bpp := frame.Format.BytesPerPixel()
	stride := frame.rowStride()
	// channel offsets of R and B inside a pixel
	rOff, bOff := 0, 2
	if frame.Format == FormatBGR || frame.Format == FormatBGRA {
		rOff, bOff = 2, 0
	}
	dst := 0
	for y := roi.Y; y < roi.Y+roi.Height; y++ {
		row := frame.Data[y*stride:]
		for x := roi.X; x < roi.X+roi.Width; x++ {
			p := row[x*bpp : x*bpp+bpp]
			h, s, v := RGBToHSV(p[rOff], p[1], p[bOff])
			a.buf.H[dst], a.buf.S[dst], a.buf.V[dst] = h, s, v
			dst++
		}
	}
}

func (a *FrameAdapter) convertNV21(frame Frame, roi Rectangle) {
	stride := frame.rowStride()
	uvBase := stride * frame.Height
	dst := 0
	for y := roi.Y; y < roi.Y+roi.Height; y++ {
		yRow := frame.Data[y*stride:]
		uvRow := frame.Data[uvBase+(y/2)*stride:]
		for x := roi.X; x < roi.X+roi.Width; x++ {
			uvIdx := (x / 2) * 2
			r, g, b := yuvToRGB(yRow[x], uvRow[uvIdx+1], uvRow[uvIdx])
			h, s, v := RGBToHSV(r, g, b)
			a.buf.H[dst], a.buf.S[dst], a.buf.V[dst] = h, s, v
			dst++
		}
	}
}
