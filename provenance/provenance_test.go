package provenance

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type payload struct {
	name  string
	slots [4]int64
}

func TestExposeRecoverRoundTrip(t *testing.T) {
	tbl := NewTable()
	p := &payload{name: "a", slots: [4]int64{1, 2, 3, 4}}

	addr := tbl.Expose(unsafe.Pointer(p))
	require.NotZero(t, addr)
	require.True(t, tbl.Exposed(addr))

	got := (*payload)(tbl.Recover(addr))
	require.Same(t, p, got)
	require.Equal(t, "a", got.name)
}

func TestExposeNil(t *testing.T) {
	tbl := NewTable()
	require.Zero(t, tbl.Expose(nil))
	require.Zero(t, tbl.Len())
	require.Nil(t, tbl.Recover(0))
	require.False(t, tbl.Release(nil))
}

func TestRecoverUnknownAddress(t *testing.T) {
	tbl := NewTable()
	p := new(int)
	require.Nil(t, tbl.Recover(uintptr(unsafe.Pointer(p))))
}

func TestExposeIsIdempotent(t *testing.T) {
	tbl := NewTable()
	p := new(int64)
	a1 := tbl.Expose(unsafe.Pointer(p))
	a2 := tbl.Expose(unsafe.Pointer(p))
	require.Equal(t, a1, a2)
	require.Equal(t, 1, tbl.Len())
	runtime.KeepAlive(p)
}

func TestRelease(t *testing.T) {
	tbl := NewTable()
	p := new(int64)
	addr := tbl.Expose(unsafe.Pointer(p))

	require.True(t, tbl.Release(unsafe.Pointer(p)))
	require.False(t, tbl.Exposed(addr))
	require.Nil(t, tbl.Recover(addr))
	require.False(t, tbl.Release(unsafe.Pointer(p)))
}

func TestExposedPointerSurvivesGC(t *testing.T) {
	tbl := NewTable()
	p := &payload{name: "kept", slots: [4]int64{7, 7, 7, 7}}
	addr := tbl.Expose(unsafe.Pointer(p))

	for i := 0; i < 3; i++ {
		runtime.GC()
	}

	got := (*payload)(tbl.Recover(addr))
	require.Same(t, p, got)
	require.Equal(t, "kept", got.name)
	require.Equal(t, [4]int64{7, 7, 7, 7}, got.slots)
}

func TestExposedPointeeIsCollected(t *testing.T) {
	tbl := NewTable()
	var finalized atomic.Bool

	addr := func() uintptr {
		p := &payload{name: "dropped"}
		runtime.SetFinalizer(p, func(*payload) { finalized.Store(true) })
		return tbl.Expose(unsafe.Pointer(p))
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return finalized.Load()
	}, 5*time.Second, 10*time.Millisecond, "exposed pointee was kept alive")

	require.Nil(t, tbl.Recover(addr))
	require.False(t, tbl.Exposed(addr))
	require.Zero(t, tbl.Len())
	require.Equal(t, 1, tbl.Sweep())
	require.Zero(t, tbl.Sweep())
}

func (t *Table) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.exposed)
}

func TestExposeSweepsDeadEntries(t *testing.T) {
	tbl := NewTable()
	func() {
		for tbl.size() < minSweep-1 {
			tbl.Expose(unsafe.Pointer(&payload{name: "garbage"}))
		}
	}()
	require.Eventually(t, func() bool {
		runtime.GC()
		return tbl.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	live := make([]*payload, 2*minSweep)
	for i := range live {
		live[i] = &payload{slots: [4]int64{int64(i)}}
		tbl.Expose(unsafe.Pointer(live[i]))
	}
	require.Equal(t, len(live), tbl.size())
	require.Equal(t, len(live), tbl.Len())
	runtime.KeepAlive(live)
}

func TestConcurrentExpose(t *testing.T) {
	tbl := NewTable()
	const workers = 8
	const perWorker = 200

	ptrs := make([][]*int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		ptrs[w] = make([]*int, perWorker)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range ptrs[w] {
				v := w*perWorker + i
				p := &v
				ptrs[w][i] = p
				addr := tbl.Expose(unsafe.Pointer(p))
				if tbl.Recover(addr) != unsafe.Pointer(p) {
					t.Errorf("worker %d: recovered wrong pointer", w)
				}
			}
		}(w)
	}
	wg.Wait()
	require.Equal(t, workers*perWorker, tbl.Len())
	runtime.KeepAlive(ptrs)
}

func TestDefaultTableHelpers(t *testing.T) {
	p := &payload{name: "default"}
	addr := Expose(p)
	require.True(t, Default().Exposed(addr))
	require.Same(t, p, Recover[payload](addr))
	require.True(t, Release(p))
	require.Nil(t, Recover[payload](addr))
}
