package tagged

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chazu/stuff/backend"
	"github.com/chazu/stuff/strategies"
)

type node struct {
	left, right *node
	value       int64
}

func TestLowBitsRoundTrip(t *testing.T) {
	n := &node{value: 42}
	for tag := uint8(0); tag < 8; tag++ {
		p := New[node, LowBits, uintptr](n, tag)
		require.Same(t, n, p.Pointer())
		require.Equal(t, tag, p.Tag())
		require.Equal(t, int64(42), p.Pointer().value)
	}
}

func TestHighBitsRoundTrip(t *testing.T) {
	if backend.AddressWidth < 64 {
		t.Skip("HighBits needs a 64-bit host")
	}
	n := &node{value: -1}
	p := New[node, HighBits, uint64](n, uint16(0xBEEF))
	require.Same(t, n, p.Pointer())
	require.Equal(t, uint16(0xBEEF), p.Tag())
}

func TestWithTagKeepsPointer(t *testing.T) {
	n := &node{value: 5}
	p := New[node, LowBits, uintptr](n, uint8(1))
	q := p.WithTag(6)

	require.Equal(t, uint8(1), p.Tag())
	require.Equal(t, uint8(6), q.Tag())
	require.Same(t, n, q.Pointer())
	require.NotEqual(t, p.Bits(), q.Bits())
	require.NotEqual(t, p.Hash(), q.Hash())
	require.Equal(t, p.Hash(), p.WithTag(1).Hash())
}

func TestTaggedPointerSurvivesGC(t *testing.T) {
	n := &node{left: &node{value: 9}, value: 3}
	p := New[node, LowBits, uintptr](n, uint8(2))
	runtime.GC()
	runtime.GC()

	got := p.Pointer()
	require.Same(t, n, got)
	require.Equal(t, int64(3), got.value)
	require.Equal(t, int64(9), got.left.value)
}

func TestTaggedPointeeIsCollected(t *testing.T) {
	var finalized atomic.Bool
	p := func() Ptr[node, HighBits, uint64, uint16] {
		n := &node{value: 4}
		runtime.SetFinalizer(n, func(*node) { finalized.Store(true) })
		return New[node, HighBits, uint64](n, uint16(0xBEEF))
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return finalized.Load()
	}, 5*time.Second, 10*time.Millisecond)
	require.Nil(t, p.Pointer())
	require.Equal(t, uint16(0xBEEF), p.Tag())
}

func TestLowBitsRejectsMisaligned(t *testing.T) {
	defer func() {
		var me *strategies.MisalignedError
		err, ok := recover().(error)
		require.True(t, ok)
		require.True(t, errors.As(err, &me))
		require.Equal(t, uintptr(8), me.Align)
	}()
	LowBits{}.Set(0x1004, 0)
	t.Fatal("Set did not panic")
}

func TestLowBitsRejectsWideTag(t *testing.T) {
	defer func() {
		var re *strategies.RangeError
		err, ok := recover().(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, strategies.ErrOutOfRange))
		require.True(t, errors.As(err, &re))
		require.Equal(t, int64(8), re.Value)
		require.Equal(t, int64(7), re.Max)
	}()
	LowBits{}.Set(0x1000, 8)
	t.Fatal("Set did not panic")
}

func TestHighBitsRejectsWideAddress(t *testing.T) {
	if backend.AddressWidth < 64 {
		t.Skip("addresses cannot exceed 48 bits on this host")
	}
	shift := 48
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, backend.ErrAddressOverflow))
	}()
	HighBits{}.Set(uintptr(1)<<shift, 0)
	t.Fatal("Set did not panic")
}

func TestString(t *testing.T) {
	var s LowBits
	data := s.Set(0x1000, 3)
	p := Ptr[node, LowBits, uintptr, uint8]{data: data}
	require.Equal(t, "tagged.Ptr{0x1000, 3}", p.String())
}
