// Package shm opens and reads the monitoring application's shared memory
// segment. The segment is owned and continuously rewritten by an external
// process, so every access goes through a bounds-checked Region view and
// nothing read from it is trusted without validation.
package shm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no mapping with the requested name exists, usually
	// because the monitoring application is not running or shared memory
	// support is disabled in its settings.
	ErrNotFound = errors.New("shared memory mapping not found")

	// ErrAccessDenied means the mapping exists but could not be opened.
	ErrAccessDenied = errors.New("shared memory access denied")

	// ErrMapFailed means the handle opened but the view mapping failed.
	ErrMapFailed = errors.New("shared memory view mapping failed")

	// ErrTruncated means a requested read extends past the mapped length.
	ErrTruncated = errors.New("read past mapped region")

	// ErrClosed means the region was used after Close.
	ErrClosed = errors.New("shared memory region closed")

	// ErrUnsupported is returned by Open on platforms without the protocol.
	ErrUnsupported = errors.New("shared memory connector requires windows")
)

// Region is a length-bounded view over a mapped shared memory segment. It
// owns the mapping; Slice is the only read path and every call is checked
// against the mapped length before any byte is touched.
type Region struct {
	data   []byte
	closed bool
	unmap  func() error
}

// NewStaticRegion wraps a byte snapshot in a Region. Used by tests and by
// callers that capture a copy of the segment.
func NewStaticRegion(b []byte) *Region {
	return &Region{data: b}
}

// Len returns the mapped length in bytes.
func (r *Region) Len() uint64 {
	if r.closed {
		return 0
	}
	return uint64(len(r.data))
}

// Slice returns n bytes starting at off. The returned slice aliases the
// mapped memory and is only valid until Close; callers must copy anything
// they keep.
func (r *Region) Slice(off, n uint64) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}
	total := uint64(len(r.data))
	if off > total || n > total-off {
		return nil, fmt.Errorf("%w: [%d,%d) outside mapped length %d", ErrTruncated, off, off+n, total)
	}
	return r.data[off : off+n], nil
}

// Close releases the mapping. Idempotent; any Slice after Close fails with
// ErrClosed rather than touching unmapped memory.
func (r *Region) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.data = nil
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}
