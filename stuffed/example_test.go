package stuffed_test

import (
	"fmt"
	"runtime"

	"github.com/chazu/stuff/strategies"
	"github.com/chazu/stuff/stuffed"
)

// A very crude object representation.
type Object map[string]uint32

type Value = stuffed.Ptr[Object, strategies.NaNBox, uint64, float64]

func Example_nanBoxing() {
	var float Value = stuffed.FromExtra[Object, strategies.NaNBox, uint64](123.5)
	if f, ok := float.CopyExtra(); ok {
		fmt.Println("float:", f)
	}

	obj := &Object{"a": 457}
	var ptr Value = stuffed.FromPtr[Object, strategies.NaNBox, uint64, float64](obj)
	if o, ok := ptr.Pointer(); ok {
		fmt.Println("a:", (*o)["a"])
	}
	// The cell does not keep obj alive.
	runtime.KeepAlive(obj)

	_, isPtr := float.Pointer()
	_, isFloat := ptr.CopyExtra()
	fmt.Println(isPtr, isFloat)

	// Output:
	// float: 123.5
	// a: 457
	// false false
}
