package colortrack

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// SeedRequest asks to (re)build color model of object Index from the neighborhood of frame point (X, Y)
type SeedRequest struct {
	Index int
	X     int
	Y     int
}

// Point returns seed location
func (sr SeedRequest) Point() image.Point {
	return image.Pt(sr.X, sr.Y)
}

// Request is everything the caller supplies for one frame besides the frame itself
type Request struct {
	ROI Rectangle
	// Flattened x,y,w,h per object. Authoritative only on structural updates
	Boxes  []int
	Reinit bool
	// Optional one-shot seed, nil means no seed this frame
	Seed *SeedRequest
}

// Result is the output of a successful frame update
type Result struct {
	// Flattened x,y,w,h per object in session order
	Boxes   []int
	Objects []ObjectReport
	// Structural is true when caller boxes (or ROI) were adopted on this frame
	Structural bool
	// Seeded is true when the request carried a seed, SeedErr tells whether it was applied
	Seeded bool
	// SeedErr is set when a seed request was present and could not be applied.
	// The frame itself still succeeded.
	SeedErr error
}

// Session owns tracked objects of one ROI and updates them frame by frame.
// It is not safe for concurrent use: exactly one goroutine (the frame thread) drives it.
type Session struct {
	cfg         Config
	roi         Rectangle
	hasROI      bool
	objects     []*ObjectState
	adapter     *FrameAdapter
	initialized bool
}

// NewSession creates session with the given configuration. Initialize must be called before the first frame
func NewSession(cfg Config) *Session {
	return &Session{
		cfg: cfg,
	}
}

// NewSessionDefault creates session with DefaultConfig
func NewSessionDefault() *Session {
	return NewSession(DefaultConfig())
}

// Initialize allocates resources. Calling it on an initialized session does nothing
func (s *Session) Initialize() error {
	if s.initialized {
		return nil
	}
	if err := s.cfg.Validate(); err != nil {
		return errors.Wrap(err, "Can't initialize tracking session")
	}
	s.adapter = NewFrameAdapter()
	s.objects = make([]*ObjectState, 0)
	s.initialized = true
	return nil
}

// Release frees every resource. It is idempotent
func (s *Session) Release() {
	if !s.initialized {
		return
	}
	s.objects = nil
	s.adapter = nil
	s.roi = Rectangle{}
	s.hasROI = false
	s.initialized = false
}

// Initialized reports whether session can process frames
func (s *Session) Initialized() bool {
	return s.initialized
}

// Config returns session configuration
func (s *Session) Config() Config {
	return s.cfg
}

// ROI returns the adopted (frame-clipped) region of interest
func (s *Session) ROI() Rectangle {
	return s.roi
}

// Len returns number of tracked objects
func (s *Session) Len() int {
	return len(s.objects)
}

// Object returns object at index or nil
func (s *Session) Object(index int) *ObjectState {
	if index < 0 || index >= len(s.objects) {
		return nil
	}
	return s.objects[index]
}

// Objects returns reports of every object in index order
func (s *Session) Objects() []ObjectReport {
	reports := make([]ObjectReport, len(s.objects))
	for i, obj := range s.objects {
		reports[i] = obj.report(i)
	}
	return reports
}

// validate checks request against frame without touching session state
// and returns the ROI clipped to the frame together with decoded boxes.
func (s *Session) validate(frame Frame, req Request) (Rectangle, []Rectangle, error) {
	if req.ROI.Empty() {
		return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "roi %v has non-positive size", req.ROI)
	}
	roi := req.ROI.Intersect(frame.Bounds())
	if roi.Empty() {
		return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "roi %v does not overlap %dx%d frame", req.ROI, frame.Width, frame.Height)
	}
	if roi.Width < s.cfg.MinBoxSize || roi.Height < s.cfg.MinBoxSize {
		return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "roi %v clipped to frame is smaller than min box size %d", roi, s.cfg.MinBoxSize)
	}
	if len(req.Boxes) == 0 || len(req.Boxes)%4 != 0 {
		return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "box list length %d is not a positive multiple of 4", len(req.Boxes))
	}
	boxes := RectsFromFlat(req.Boxes)
	for i, box := range boxes {
		if box.Empty() {
			return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "box %d %v has non-positive size", i, box)
		}
	}
	if req.Seed != nil {
		seed := *req.Seed
		if seed.Index < 0 || seed.Index >= len(boxes) {
			return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "seed index %d is out of range [0, %d)", seed.Index, len(boxes))
		}
		if !frame.Bounds().Contains(seed.X, seed.Y) {
			return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "seed point (%d, %d) is outside %dx%d frame", seed.X, seed.Y, frame.Width, frame.Height)
		}
		if !roi.Contains(seed.X, seed.Y) {
			return Rectangle{}, nil, errors.Wrapf(ErrInvalidInput, "seed point (%d, %d) is outside roi %v", seed.X, seed.Y, roi)
		}
	}
	return roi, boxes, nil
}

// Update processes one frame. On error session state is left exactly as it was.
func (s *Session) Update(frame Frame, req Request) (Result, error) {
	if !s.initialized {
		return Result{}, ErrNotInitialized
	}
	if err := s.adapter.Validate(frame); err != nil {
		return Result{}, err
	}
	roi, boxes, err := s.validate(frame, req)
	if err != nil {
		return Result{}, err
	}
	img, err := s.adapter.Convert(frame, roi)
	if err != nil {
		return Result{}, err
	}

	// Nothing below may fail the frame
	result := Result{}
	roiChanged := !s.hasROI || roi != s.roi
	if roiChanged || req.Reinit || len(boxes) != len(s.objects) {
		s.restructure(img, roi, boxes, roiChanged, req.Seed)
		result.Structural = true
	}
	if req.Seed != nil {
		result.Seeded = true
		result.SeedErr = s.applySeed(img, *req.Seed)
		if obj := s.objects[req.Seed.Index]; result.SeedErr != nil && !obj.HasModel() {
			// Object skipped its box rebuild in favor of the seed
			if err := obj.rebuildFromBox(img, s.cfg); err != nil {
				Logf("[colortrack] object %d has no color model: %v", req.Seed.Index, err)
			}
		}
	}
	s.localizeAll(img)

	result.Objects = s.Objects()
	result.Boxes = make([]int, 0, len(s.objects)*4)
	for _, obj := range s.objects {
		result.Boxes = obj.box.Flatten(result.Boxes)
	}
	return result, nil
}

// restructure adopts caller boxes. Objects keep their color models unless ROI changed;
// new objects and objects without a model are rebuilt from their own box content,
// except the one targeted by seed.
func (s *Session) restructure(img *HSVImage, roi Rectangle, boxes []Rectangle, roiChanged bool, seed *SeedRequest) {
	objects := make([]*ObjectState, len(boxes))
	for i, box := range boxes {
		box = box.Clip(roi, s.cfg.MinBoxSize)
		if i < len(s.objects) && !roiChanged {
			objects[i] = s.objects[i]
			if old := objects[i].box; old != box {
				Logf("[colortrack] object %d moved by caller from %v to %v (IoU %.2f)", i, old, box, IoU(old, box))
			}
			objects[i].setBox(box, s.cfg)
		} else {
			objects[i] = NewObjectState(box, s.cfg)
		}
	}
	Logf("[colortrack] structural update: roi %v, %d -> %d objects (roi changed: %t)", roi, len(s.objects), len(objects), roiChanged)
	s.roi = roi
	s.hasROI = true
	s.objects = objects

	for i, obj := range s.objects {
		if obj.HasModel() {
			continue
		}
		if seed != nil && seed.Index == i {
			continue
		}
		if err := obj.rebuildFromBox(img, s.cfg); err != nil {
			Logf("[colortrack] object %d has no color model: %v", i, err)
		}
	}
}

// applySeed is one-shot: the request is gone after this call whatever the outcome
func (s *Session) applySeed(img *HSVImage, seed SeedRequest) error {
	obj := s.objects[seed.Index]
	model, err := BuildHistogram(img, seed.Point(), s.cfg.SeedRadius, s.cfg)
	if err != nil {
		Logf("[colortrack] seed for object %d at (%d, %d) failed: %v", seed.Index, seed.X, seed.Y, err)
		return err
	}
	if obj.HasModel() {
		Logf("[colortrack] object %d reseeded at (%d, %d), model distance %.3f", seed.Index, seed.X, seed.Y, obj.model.Similarity(model))
	} else {
		Logf("[colortrack] object %d seeded at (%d, %d), dominant hue %d", seed.Index, seed.X, seed.Y, model.DominantHue())
	}
	obj.setModel(model)
	center := NewPointFrom(seed.Point())
	obj.setBox(obj.box.CenteredAt(center).Fit(s.roi, s.cfg.MinBoxSize), s.cfg)
	return nil
}

func (s *Session) localizeAll(img *HSVImage) {
	if s.cfg.Workers <= 1 || len(s.objects) < 2 {
		for i, obj := range s.objects {
			if err := obj.Update(img, s.roi, s.cfg); err != nil {
				Logf("[colortrack] object %d: %v", i, err)
			}
		}
		return
	}
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Workers)
	for i, obj := range s.objects {
		g.Go(func() error {
			return errors.Wrapf(obj.Update(img, s.roi, s.cfg), "object %d", i)
		})
	}
	if err := g.Wait(); err != nil {
		Logf("[colortrack] %v", err)
	}
}

// Track is the in-place entry point: boxes holds x,y,w,h per object and receives updated boxes.
// seedIndex -1 means no seed. It returns false and leaves boxes untouched when the frame fails.
func (s *Session) Track(frame Frame, roi Rectangle, boxes []int, reinit bool, seedIndex, seedX, seedY int) bool {
	req := Request{
		ROI:    roi,
		Boxes:  boxes,
		Reinit: reinit,
	}
	if seedIndex != -1 {
		req.Seed = &SeedRequest{Index: seedIndex, X: seedX, Y: seedY}
	}
	result, err := s.Update(frame, req)
	if err != nil {
		Logf("[colortrack] frame rejected: %v", err)
		return false
	}
	copy(boxes, result.Boxes)
	return true
}
