// Package trns holds the passes applied to a freshly generated chunk.
//
// Transformation is a closed sum type: only the variants declared here
// implement it, and Apply dispatches over them with an exhaustive type switch.
package trns

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
)

var (
	// ErrUnknownTransformation is returned for a pass outside this package
	// or a name FromNames does not know.
	ErrUnknownTransformation = errors.New("unknown transformation")
	// ErrPassOrder is returned when a pass precedes one of an earlier stage.
	ErrPassOrder = errors.New("transformation out of order")
)

// Transformation mutates a complete chunk in place.
type Transformation interface {
	Name() string
	transformation()
}

// Apply runs t on c.
func Apply(c *chunk.Chunk, t Transformation) error {
	switch t := t.(type) {
	case SeaLevel:
		t.apply(c)
	case SurfacePainter:
		t.apply(c)
	case Caves:
		t.apply(c)
	case Trees:
		t.apply(c)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownTransformation, t)
	}
	return nil
}

// Pipeline is an ordered list of transformations.
type Pipeline struct {
	passes []Transformation
}

// stage orders pass kinds: sea level, surface painting, caves, then trees.
func stage(t Transformation) (int, bool) {
	switch t.(type) {
	case SeaLevel:
		return 0, true
	case SurfacePainter:
		return 1, true
	case Caves:
		return 2, true
	case Trees:
		return 3, true
	default:
		return 0, false
	}
}

// NewPipeline keeps passes in the given order. A pass placed after one of a
// later stage is rejected, so a SeaLevel never follows a SurfacePainter and
// Trees always come last.
func NewPipeline(passes ...Transformation) (Pipeline, error) {
	last := 0
	for i, t := range passes {
		s, ok := stage(t)
		if !ok {
			return Pipeline{}, fmt.Errorf("%w: pass %d is %T", ErrUnknownTransformation, i, t)
		}
		if s < last {
			return Pipeline{}, fmt.Errorf("%w: %s at pass %d", ErrPassOrder, t.Name(), i)
		}
		last = s
	}
	return Pipeline{passes: append([]Transformation(nil), passes...)}, nil
}

// Apply runs every pass in order and stops at the first failure.
func (p Pipeline) Apply(c *chunk.Chunk) error {
	for _, t := range p.passes {
		if err := Apply(c, t); err != nil {
			return fmt.Errorf("%s: %w", t.Name(), err)
		}
	}
	return nil
}

// Len returns the number of passes.
func (p Pipeline) Len() int { return len(p.passes) }

// Passes returns a copy of the passes in order.
func (p Pipeline) Passes() []Transformation {
	return append([]Transformation(nil), p.passes...)
}

// Names returns the display name of each pass in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, t := range p.passes {
		names[i] = t.Name()
	}
	return names
}

// Pass names accepted by FromNames.
const (
	NameSeaLevel = "sea_level"
	NameSurface  = "surface"
	NameCaves    = "caves"
	NameTrees    = "trees"
)

// Params carries the settings of the configurable passes for FromNames.
type Params struct {
	Sea   SeaLevel
	Caves Caves
	Trees Trees
}

// FromNames builds a pipeline from configuration names, taking each pass's
// settings from p.
func FromNames(names []string, p Params) (Pipeline, error) {
	passes := make([]Transformation, 0, len(names))
	for _, n := range names {
		switch n {
		case NameSeaLevel:
			passes = append(passes, p.Sea)
		case NameSurface:
			passes = append(passes, SurfacePainter{})
		case NameCaves:
			passes = append(passes, p.Caves)
		case NameTrees:
			passes = append(passes, p.Trees)
		default:
			return Pipeline{}, fmt.Errorf("%w: %q", ErrUnknownTransformation, n)
		}
	}
	return NewPipeline(passes...)
}
