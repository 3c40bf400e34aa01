// Package provenance exposes pointers as plain addresses and recovers them
// again without losing the allocation they point into.
//
// A uintptr is invisible to the garbage collector, and turning a stored
// integer back into an unsafe.Pointer is not a valid conversion. Exposing a
// pointer therefore records a weak reference to it in a Table keyed by its
// address. Recovering an address looks it up and hands back the recorded
// pointer, so the result is always a pointer the runtime has tracked all
// along.
//
// The table does not keep pointees alive. Once the last strong reference to
// an exposed value is gone the value may be collected, and its address
// recovers as nil from then on, exactly like an address that was never
// exposed. Keeping the pointee reachable is the caller's job, as with any
// raw pointer.
package provenance

import (
	"sync"
	"unsafe"
	"weak"
)

// minSweep is the table size below which Expose never prunes dead entries.
const minSweep = 64

// Table maps exposed addresses back to their pointers. It is safe for
// concurrent use.
type Table struct {
	mu      sync.RWMutex
	exposed map[uintptr]weak.Pointer[byte]
	sweepAt int
}

// NewTable creates an empty exposure table.
func NewTable() *Table {
	return &Table{
		exposed: make(map[uintptr]weak.Pointer[byte]),
		sweepAt: minSweep,
	}
}

// Expose records p and returns its address. A nil pointer exposes as 0 and
// is not recorded.
func (t *Table) Expose(p unsafe.Pointer) uintptr {
	if p == nil {
		return 0
	}
	addr := uintptr(p)
	wp := weak.Make((*byte)(p))
	t.mu.Lock()
	t.exposed[addr] = wp
	if len(t.exposed) >= t.sweepAt {
		t.sweepLocked()
	}
	t.mu.Unlock()
	return addr
}

// sweepLocked drops entries whose pointee has been collected and moves the
// next sweep out to twice the surviving size. t.mu must be held.
func (t *Table) sweepLocked() int {
	n := 0
	for addr, wp := range t.exposed {
		if wp.Value() == nil {
			delete(t.exposed, addr)
			n++
		}
	}
	t.sweepAt = max(2*len(t.exposed), minSweep)
	return n
}

// Sweep drops entries whose pointee has been collected and returns how many
// were removed. Expose sweeps on its own as the table grows.
func (t *Table) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked()
}

// Recover returns the pointer previously exposed at addr, or nil if no live
// pointer with that address has been exposed.
func (t *Table) Recover(addr uintptr) unsafe.Pointer {
	if addr == 0 {
		return nil
	}
	t.mu.RLock()
	wp, ok := t.exposed[addr]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	return unsafe.Pointer(wp.Value())
}

// Exposed reports whether addr is currently recoverable.
func (t *Table) Exposed(addr uintptr) bool {
	return t.Recover(addr) != nil
}

// Release forgets p. Addresses of p recover as nil afterwards. It reports
// whether p was exposed.
func (t *Table) Release(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	addr := uintptr(p)
	t.mu.Lock()
	defer t.mu.Unlock()
	wp, ok := t.exposed[addr]
	if !ok {
		return false
	}
	delete(t.exposed, addr)
	return unsafe.Pointer(wp.Value()) == p
}

// Len returns the number of exposed pointers whose pointee is still alive.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, wp := range t.exposed {
		if wp.Value() != nil {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Default table
// ---------------------------------------------------------------------------

var defaultTable = NewTable()

// Default returns the process-wide table used by Expose, Recover and Release.
func Default() *Table { return defaultTable }

// Expose records p in the default table and returns its address.
func Expose[T any](p *T) uintptr {
	return defaultTable.Expose(unsafe.Pointer(p))
}

// Recover returns the *T exposed at addr in the default table, or nil.
func Recover[T any](addr uintptr) *T {
	return (*T)(defaultTable.Recover(addr))
}

// Release forgets p in the default table.
func Release[T any](p *T) bool {
	return defaultTable.Release(unsafe.Pointer(p))
}
