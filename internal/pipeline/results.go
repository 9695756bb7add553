package pipeline

import (
	"gocv.io/x/gocv"

	"image-processing-steps/internal/core"
)

// Entry is one labelled result. Image is owned by the Results it came from.
type Entry struct {
	Key         string
	Label       string
	Description string
	Image       gocv.Mat
}

func (e Entry) Width() int    { return e.Image.Cols() }
func (e Entry) Height() int   { return e.Image.Rows() }
func (e Entry) Channels() int { return e.Image.Channels() }

// Results holds the decoded source and every entry computed from it. It is
// read-only after Build returns.
type Results struct {
	source  *core.SourceImage
	entries []Entry
}

func (r *Results) Len() int { return len(r.entries) }

// Entries returns the entries in navigation order. The slice is a copy; the
// Mats are shared.
func (r *Results) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Results) Entry(i int) Entry { return r.entries[i] }

func (r *Results) Source() core.Metadata { return r.source.Metadata() }

// Close releases the source and every entry. Entries obtained earlier become
// invalid.
func (r *Results) Close() {
	if r == nil {
		return
	}
	for i := range r.entries {
		if !r.entries[i].Image.Empty() {
			r.entries[i].Image.Close()
		}
	}
	r.entries = nil
	r.source.Close()
	r.source = nil
}
