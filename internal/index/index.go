// Package index resolves which derivation indices a run processes.
package index

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// ErrIndexOverflow is returned when the requested indices do not fit in u32.
var ErrIndexOverflow = errors.New("derivation index overflows u32")

// Policy selects how indices are enumerated.
type Policy int

const (
	// Sequential walks from the offset with a constant stride.
	Sequential Policy = iota
	// Random samples without replacement below a height bound.
	Random
)

func (p Policy) String() string {
	switch p {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Params are the user-facing enumeration inputs. Skip only applies to
// Sequential, Height only to Random.
type Params struct {
	Offset uint32
	Count  uint32
	Skip   uint
	Random bool
	Height uint32
}

// Set is a resolved, strictly increasing sequence of indices.
type Set struct {
	Policy  Policy
	Indices []uint32
	// Height is the effective upper bound used in Random mode.
	Height uint32
}

// Last returns the highest index in the set, or 0 for an empty set.
func (s *Set) Last() uint32 {
	if len(s.Indices) == 0 {
		return 0
	}
	return s.Indices[len(s.Indices)-1]
}

// Len returns the number of indices.
func (s *Set) Len() int {
	return len(s.Indices)
}

// Enumerate resolves p. rng is only consumed in Random mode and may be nil
// otherwise.
func Enumerate(p Params, rng *rand.Rand) (*Set, error) {
	if p.Random {
		if rng == nil {
			return nil, errors.New("random enumeration needs a generator")
		}
		return sample(p, rng)
	}
	return sequential(p)
}

func sequential(p Params) (*Set, error) {
	set := &Set{Policy: Sequential, Indices: make([]uint32, 0, p.Count)}
	if p.Count == 0 {
		return set, nil
	}

	if p.Count == 1 {
		set.Indices = append(set.Indices, p.Offset)
		return set, nil
	}

	// A single step of skip+1 must stay within u32, which also keeps the
	// stride product below from wrapping.
	if p.Skip >= math.MaxUint32 {
		return nil, fmt.Errorf("%w: offset %d + %d steps of skip %d",
			ErrIndexOverflow, p.Offset, p.Count-1, p.Skip)
	}
	stride := uint64(p.Skip) + 1
	last := uint64(p.Offset) + uint64(p.Count-1)*stride
	if last > math.MaxUint32 {
		return nil, fmt.Errorf("%w: offset %d + %d steps of %d",
			ErrIndexOverflow, p.Offset, p.Count-1, stride)
	}

	for i := uint64(0); i < uint64(p.Count); i++ {
		set.Indices = append(set.Indices, uint32(uint64(p.Offset)+i*stride))
	}
	return set, nil
}

// sample draws min(count, height-offset) distinct values from
// [offset, height) with Floyd's algorithm and sorts them. A height below
// offset+count is raised to offset+count.
func sample(p Params, rng *rand.Rand) (*Set, error) {
	end := uint64(p.Offset) + uint64(p.Count)
	if end > math.MaxUint32 {
		return nil, fmt.Errorf("%w: offset %d + count %d", ErrIndexOverflow, p.Offset, p.Count)
	}

	height := uint64(p.Height)
	if height < end {
		height = end
	}

	span := height - uint64(p.Offset)
	n := min(uint64(p.Count), span)

	picked := make(map[uint64]struct{}, n)
	for j := span - n; j < span; j++ {
		t := rng.Uint64N(j + 1)
		if _, dup := picked[t]; dup {
			t = j
		}
		picked[t] = struct{}{}
	}

	indices := make([]uint32, 0, n)
	for t := range picked {
		indices = append(indices, uint32(uint64(p.Offset)+t))
	}
	slices.Sort(indices)

	return &Set{Policy: Random, Indices: indices, Height: uint32(height)}, nil
}
