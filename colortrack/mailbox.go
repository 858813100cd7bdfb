package colortrack

import (
	"sync/atomic"
)

// Snapshot is a consistent set of instructions published by the control (UI) goroutine.
type Snapshot struct {
	ROI    Rectangle
	Boxes  []int
	Reinit bool
	Seed   *SeedRequest
}

// Request turns snapshot into a frame request
func (snap *Snapshot) Request() Request {
	return Request{
		ROI:    snap.ROI,
		Boxes:  snap.Boxes,
		Reinit: snap.Reinit,
		Seed:   snap.Seed,
	}
}

func (snap *Snapshot) clone() *Snapshot {
	cp := &Snapshot{
		ROI:    snap.ROI,
		Boxes:  append([]int(nil), snap.Boxes...),
		Reinit: snap.Reinit,
	}
	if snap.Seed != nil {
		seed := *snap.Seed
		cp.Seed = &seed
	}
	return cp
}

// Mailbox hands snapshots from one producer (control goroutine) to one consumer (frame goroutine).
// Snapshots are immutable once published, so ROI, boxes, reinit flag and seed are always read together.
// The consumer never blocks.
type Mailbox struct {
	pending atomic.Pointer[Snapshot]
	// adopted is touched by the consumer only
	adopted *Snapshot
}

// NewMailbox creates empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Publish stores a copy of snap, replacing any snapshot the consumer has not taken yet.
// One-shot parts (Reinit, Seed) of a replaced snapshot are carried over unless snap sets its own,
// so a quick sequence of publications does not lose a reinitialization or a seed.
func (mb *Mailbox) Publish(snap Snapshot) {
	next := snap.clone()
	for {
		prev := mb.pending.Load()
		merged := *next
		if prev != nil {
			merged = mergeOneShot(merged, prev)
		}
		if mb.pending.CompareAndSwap(prev, &merged) {
			return
		}
	}
}

// Requeue hands one-shot parts of a taken snapshot back after the frame using it failed,
// so the next frame retries them. A snapshot published in the meantime wins: it only
// inherits Reinit and a still valid Seed. Only the consumer calls Requeue.
func (mb *Mailbox) Requeue(snap Snapshot) {
	if !snap.Reinit && snap.Seed == nil {
		return
	}
	failed := snap.clone()
	for {
		prev := mb.pending.Load()
		merged := *failed
		if prev != nil {
			merged = mergeOneShot(*prev, failed)
		}
		if mb.pending.CompareAndSwap(prev, &merged) {
			return
		}
	}
}

// mergeOneShot carries Reinit and Seed of an older snapshot into a newer one.
// A seed is kept only when newer has none and its index still addresses a box.
func mergeOneShot(newer Snapshot, older *Snapshot) Snapshot {
	newer.Reinit = newer.Reinit || older.Reinit
	if newer.Seed == nil && older.Seed != nil && older.Seed.Index < len(newer.Boxes)/4 {
		newer.Seed = older.Seed
	}
	return newer
}

// Take returns the snapshot to use for the next frame. A freshly published snapshot is returned once
// with its one-shot parts; afterwards the same snapshot is repeated without Reinit and Seed.
// ok is false when nothing was ever published.
func (mb *Mailbox) Take() (snap Snapshot, ok bool) {
	if fresh := mb.pending.Swap(nil); fresh != nil {
		mb.adopted = &Snapshot{
			ROI:   fresh.ROI,
			Boxes: fresh.Boxes,
		}
		return *fresh, true
	}
	if mb.adopted == nil {
		return Snapshot{}, false
	}
	return *mb.adopted, true
}

// Adopt replaces the repeated snapshot's boxes, so a consumer can keep them in sync with the session
func (mb *Mailbox) Adopt(boxes []int) {
	if mb.adopted == nil {
		return
	}
	mb.adopted = &Snapshot{
		ROI:   mb.adopted.ROI,
		Boxes: boxes,
	}
}
