package colortrack

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestIoU(t *testing.T) {
	r1 := NewRect(0, 0, 10, 10)
	r2 := NewRect(5, 5, 10, 10)
	// intersection 25, union 175
	if math.Abs(IoU(r1, r2)-25.0/175.0) > eps {
		t.Errorf("Wrong IoU: %v", IoU(r1, r2))
	}
	if IoU(r1, NewRect(20, 20, 5, 5)) != 0 {
		t.Error("Disjoint rectangles should have zero IoU")
	}
	if math.Abs(IoU(r1, r1)-1.0) > eps {
		t.Error("IoU of rectangle with itself should be 1")
	}
}

func TestRectangleConversions(t *testing.T) {
	r := NewRectFrom(image.Rect(3, 4, 13, 24))
	if r != NewRect(3, 4, 10, 20) {
		t.Errorf("Wrong conversion: %v", r)
	}
	if r.ToImage() != image.Rect(3, 4, 13, 24) {
		t.Errorf("Wrong back conversion: %v", r.ToImage())
	}
	center := r.Center()
	if center != (Point{X: 8, Y: 14}) {
		t.Errorf("Wrong center: %v", center)
	}
	flat := FlattenRects([]Rectangle{r, NewRect(1, 2, 3, 4)})
	if diff := cmp.Diff([]int{3, 4, 10, 20, 1, 2, 3, 4}, flat); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Rectangle{r, NewRect(1, 2, 3, 4)}, RectsFromFlat(flat)); diff != "" {
		t.Errorf("RectsFromFlat mismatch (-want +got):\n%s", diff)
	}
}

func TestRectangleExpandAndCenter(t *testing.T) {
	r := NewRect(50, 50, 20, 20)
	if got := r.Expand(0.2); got != NewRect(46, 46, 28, 28) {
		t.Errorf("Wrong expanded rectangle: %v", got)
	}
	if got := r.CenteredAt(Point{X: 100, Y: 30}); got != NewRect(90, 20, 20, 20) {
		t.Errorf("Wrong moved rectangle: %v", got)
	}
}

func TestRectangleFitAndClip(t *testing.T) {
	bounds := NewRect(10, 10, 100, 50)
	cases := []struct {
		name string
		in   Rectangle
		fit  Rectangle
		clip Rectangle
	}{
		{"inside", NewRect(20, 20, 10, 10), NewRect(20, 20, 10, 10), NewRect(20, 20, 10, 10)},
		{"left overflow", NewRect(5, 20, 10, 10), NewRect(10, 20, 10, 10), NewRect(10, 20, 5, 10)},
		{"bottom right overflow", NewRect(105, 55, 10, 10), NewRect(100, 50, 10, 10), NewRect(105, 55, 5, 5)},
		{"too big", NewRect(0, 0, 500, 500), NewRect(10, 10, 100, 50), NewRect(10, 10, 100, 50)},
		{"outside", NewRect(300, 300, 10, 10), NewRect(100, 50, 10, 10), NewRect(108, 58, 2, 2)},
		{"tiny", NewRect(20, 20, 1, 1), NewRect(20, 20, 2, 2), NewRect(20, 20, 2, 2)},
	}
	for _, tc := range cases {
		fit := tc.in.Fit(bounds, 2)
		if fit != tc.fit {
			t.Errorf("%s: Fit = %v, want %v", tc.name, fit, tc.fit)
		}
		clip := tc.in.Clip(bounds, 2)
		if clip != tc.clip {
			t.Errorf("%s: Clip = %v, want %v", tc.name, clip, tc.clip)
		}
		if !bounds.ContainsRect(fit) || !bounds.ContainsRect(clip) {
			t.Errorf("%s: result leaves bounds", tc.name)
		}
	}
}
