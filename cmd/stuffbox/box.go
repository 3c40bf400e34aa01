package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/stuff/config"
	"github.com/chazu/stuff/provenance"
	"github.com/chazu/stuff/strategies"
	"github.com/chazu/stuff/stuffed"
)

// object is the heap type boxed pointers refer to.
type object struct {
	Name string
}

type (
	nanValue       = stuffed.Ptr[object, strategies.NaNBox, uint64, float64]
	immediateValue = stuffed.Ptr[object, strategies.ImmediateBox, uint64, strategies.Immediate]
)

// entry is one boxed input, as printed or encoded.
type entry struct {
	Input string `cbor:"input"`
	State string `cbor:"state"`
	Bits  uint64 `cbor:"bits"`
	Value string `cbor:"value"`
}

// boxer turns command-line inputs into stuffed values.
type boxer struct {
	strategy string
	log      commonlog.Logger

	symbols map[string]uint32
	objects []*object
}

func newBoxer(strategy string, log commonlog.Logger) *boxer {
	return &boxer{
		strategy: strategy,
		log:      log,
		symbols:  make(map[string]uint32),
	}
}

// box parses input and boxes it with the configured strategy.
func (b *boxer) box(input string) (entry, error) {
	if name, ok := strings.CutPrefix(input, "obj:"); ok {
		obj := &object{Name: name}
		b.objects = append(b.objects, obj)
		b.log.Debugf("allocated object %q", name)
		switch b.strategy {
		case config.StrategyImmediate:
			return describe(input, stuffed.FromPtr[object, strategies.ImmediateBox, uint64, strategies.Immediate](obj)), nil
		default:
			return describe(input, stuffed.FromPtr[object, strategies.NaNBox, uint64, float64](obj)), nil
		}
	}

	switch b.strategy {
	case config.StrategyImmediate:
		imm, err := b.immediate(input)
		if err != nil {
			return entry{}, err
		}
		var v immediateValue = stuffed.FromExtra[object, strategies.ImmediateBox, uint64](imm)
		return describe(input, v), nil
	default:
		f, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return entry{}, fmt.Errorf("nanbox: %q is not a float or obj:<name>", input)
		}
		var v nanValue = stuffed.FromExtra[object, strategies.NaNBox, uint64](f)
		return describe(input, v), nil
	}
}

func (b *boxer) immediate(input string) (strategies.Immediate, error) {
	switch input {
	case "nil":
		return strategies.Nil, nil
	case "true":
		return strategies.True, nil
	case "false":
		return strategies.False, nil
	}
	if sym, ok := strings.CutPrefix(input, "#"); ok && sym != "" {
		return strategies.FromSymbolID(b.intern(sym)), nil
	}
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		if v, ok := strategies.TryFromSmallInt(n); ok {
			return v, nil
		}
		b.log.Infof("%d exceeds the SmallInt range, boxing as float", n)
	}
	f, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("immediate: cannot parse %q", input)
	}
	return strategies.FromFloat64(f), nil
}

func (b *boxer) intern(sym string) uint32 {
	if id, ok := b.symbols[sym]; ok {
		return id
	}
	id := uint32(len(b.symbols))
	b.symbols[sym] = id
	return id
}

// release drops every object this boxer exposed.
func (b *boxer) release() {
	for _, obj := range b.objects {
		provenance.Release(obj)
	}
	b.objects = nil
}

func describe[S stuffed.Strategy[uint64, E], E any](input string, v stuffed.Ptr[object, S, uint64, E]) entry {
	e := entry{Input: input, State: v.State().String(), Bits: v.Bits()}
	if x, ok := v.CopyExtra(); ok {
		e.Value = fmt.Sprint(x)
	} else if obj, _ := v.Pointer(); obj != nil {
		e.Value = "object " + obj.Name
	}
	return e
}
