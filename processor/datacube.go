package processor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nci/floodcube/raster"
)

// Slice is one dated member of a datacube.
type Slice struct {
	Date time.Time
	Grid *raster.FloatGrid
}

// Datacube is an ordered collection of index grids keyed by
// acquisition date. All members share an identical GridSpec; the first
// insert establishes it. Inserts are safe to call from concurrent
// per-date workers; each insert validates and commits atomically.
// Once handed to the statistics or change stages the cube is treated
// as read-only.
type Datacube struct {
	mu     sync.Mutex
	slices []Slice
}

func NewDatacube() *Datacube {
	return &Datacube{}
}

// Insert adds a dated slice, keeping the cube in ascending date order
// regardless of insertion order. It fails with ErrShapeMismatch when
// the grid disagrees with the established geometry and with
// ErrDuplicateDate when the date is already present; on failure the
// cube is unchanged.
func (dc *Datacube) Insert(date time.Time, grid *raster.FloatGrid) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if len(dc.slices) > 0 && !grid.Spec.Equal(dc.slices[0].Grid.Spec) {
		return fmt.Errorf("insert %v: %w", date.Format("2006-01-02"), raster.ErrShapeMismatch)
	}

	at := sort.Search(len(dc.slices), func(i int) bool {
		return !dc.slices[i].Date.Before(date)
	})
	if at < len(dc.slices) && dc.slices[at].Date.Equal(date) {
		return fmt.Errorf("insert %v: %w", date.Format("2006-01-02"), raster.ErrDuplicateDate)
	}

	dc.slices = append(dc.slices, Slice{})
	copy(dc.slices[at+1:], dc.slices[at:])
	dc.slices[at] = Slice{Date: date, Grid: grid}
	return nil
}

// Len returns the number of slices.
func (dc *Datacube) Len() int {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return len(dc.slices)
}

// Slices returns a snapshot of the cube in ascending date order. Each
// call yields a fresh slice header, so iteration is restartable and
// unaffected by prior consumption.
func (dc *Datacube) Slices() []Slice {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	out := make([]Slice, len(dc.slices))
	copy(out, dc.slices)
	return out
}

// First returns the earliest slice.
func (dc *Datacube) First() (Slice, error) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if len(dc.slices) == 0 {
		return Slice{}, fmt.Errorf("first: %w", raster.ErrEmptyCube)
	}
	return dc.slices[0], nil
}

// Last returns the latest slice.
func (dc *Datacube) Last() (Slice, error) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if len(dc.slices) == 0 {
		return Slice{}, fmt.Errorf("last: %w", raster.ErrEmptyCube)
	}
	return dc.slices[len(dc.slices)-1], nil
}
