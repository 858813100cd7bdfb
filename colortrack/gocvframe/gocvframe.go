// Package gocvframe connects OpenCV matrices (via gocv) to the colortrack frame contract.
package gocvframe

import (
	"github.com/LdDl/colortrack-go/colortrack"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FromMat copies an 8-bit BGR or BGRA matrix into a colortrack.Frame
func FromMat(mat gocv.Mat) (colortrack.Frame, error) {
	if mat.Empty() {
		return colortrack.Frame{}, errors.Wrap(colortrack.ErrUnsupportedFormat, "empty matrix")
	}
	var format colortrack.PixelFormat
	switch mat.Type() {
	case gocv.MatTypeCV8UC3:
		format = colortrack.FormatBGR
	case gocv.MatTypeCV8UC4:
		format = colortrack.FormatBGRA
	default:
		return colortrack.Frame{}, errors.Wrapf(colortrack.ErrUnsupportedFormat, "matrix type %v", mat.Type())
	}
	src := mat
	if !mat.IsContinuous() {
		src = mat.Clone()
		defer src.Close()
	}
	return colortrack.Frame{
		Width:  src.Cols(),
		Height: src.Rows(),
		Stride: src.Cols() * src.Channels(),
		Format: format,
		Data:   src.ToBytes(),
	}, nil
}

// ConvertROI converts roi of an 8-bit BGR or BGRA matrix to HSV with OpenCV.
// The result follows the same conventions as colortrack.FrameAdapter.
func ConvertROI(mat gocv.Mat, roi colortrack.Rectangle) (*colortrack.HSVImage, error) {
	bounds := colortrack.NewRect(0, 0, mat.Cols(), mat.Rows())
	if roi.Empty() || !bounds.ContainsRect(roi) {
		return nil, errors.Wrapf(colortrack.ErrInvalidInput, "roi %v is not inside %dx%d matrix", roi, mat.Cols(), mat.Rows())
	}
	region := mat.Region(roi.ToImage())
	defer region.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	switch mat.Type() {
	case gocv.MatTypeCV8UC3:
		region.CopyTo(&bgr)
	case gocv.MatTypeCV8UC4:
		gocv.CvtColor(region, &bgr, gocv.ColorBGRAToBGR)
	default:
		return nil, errors.Wrapf(colortrack.ErrUnsupportedFormat, "matrix type %v", mat.Type())
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	data := hsv.ToBytes()
	img := colortrack.NewHSVImage(roi)
	i := 0
	for y := roi.Y; y < roi.Y+roi.Height; y++ {
		for x := roi.X; x < roi.X+roi.Width; x++ {
			img.Set(x, y, data[i], data[i+1], data[i+2])
			i += 3
		}
	}
	return img, nil
}
