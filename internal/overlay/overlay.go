// Package overlay renders tracking results onto frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/LdDl/colortrack-go/colortrack"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Style sets colors and line width of the overlay
type Style struct {
	ROIColor   color.RGBA
	BoxColor   color.RGBA
	LostColor  color.RGBA
	LabelColor color.RGBA
	Thickness  int
	// Draw "index confidence" labels next to boxes
	Labels bool
}

// DefaultStyle returns yellow ROI, green boxes, red boxes for lost objects and white labels
func DefaultStyle() Style {
	return Style{
		ROIColor:   color.RGBA{R: 255, G: 255, B: 0, A: 255},
		BoxColor:   color.RGBA{R: 0, G: 255, B: 0, A: 255},
		LostColor:  color.RGBA{R: 255, G: 0, B: 0, A: 255},
		LabelColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Thickness:  2,
		Labels:     true,
	}
}

// Draw outlines ROI and every object on dst. Everything outside dst is clipped
func Draw(dst *image.RGBA, roi colortrack.Rectangle, objects []colortrack.ObjectReport, style Style) {
	if !roi.Empty() {
		strokeRect(dst, roi.ToImage(), style.ROIColor, style.Thickness)
	}
	for _, obj := range objects {
		c := style.BoxColor
		if obj.Lost {
			c = style.LostColor
		}
		strokeRect(dst, obj.Box.ToImage(), c, style.Thickness)
		if style.Labels {
			drawLabel(dst, obj.Box.ToImage(), fmt.Sprintf("%d %.2f", obj.Index, obj.Confidence), style.LabelColor)
		}
	}
}

// strokeRect draws rectangle border of the given thickness inside r
func strokeRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	src := image.NewUniform(c)
	t := thickness
	if 2*t > r.Dx() || 2*t > r.Dy() {
		draw.Draw(dst, r, src, image.Point{}, draw.Src)
		return
	}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t), src, image.Point{}, draw.Src)
}

// drawLabel writes text above box, or just inside its top edge when there is no room above
func drawLabel(dst draw.Image, box image.Rectangle, text string, c color.Color) {
	face := basicfont.Face7x13
	baseline := box.Min.Y - face.Descent - 1
	if baseline-face.Ascent < dst.Bounds().Min.Y {
		baseline = box.Min.Y + face.Ascent + 1
	}
	dr := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(box.Min.X, baseline),
	}
	dr.DrawString(text)
}
