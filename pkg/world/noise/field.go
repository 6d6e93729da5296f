package noise

import (
	"errors"
	"fmt"
	"math"
)

// MaxOctaves is the largest octave count a Field accepts.
const MaxOctaves = 32

var (
	// ErrTooManyOctaves is returned when Params.Octaves exceeds MaxOctaves.
	ErrTooManyOctaves = errors.New("too many octaves")
	// ErrInvalidParams is returned for every other rejected parameter.
	ErrInvalidParams = errors.New("invalid noise parameters")
)

// Kind selects the single-octave noise implementation.
type Kind string

const (
	KindValue   Kind = "value"
	KindSimplex Kind = "simplex"
	KindPerlin  Kind = "perlin"
)

// Params describes a fractal noise field. Octave i samples at
// Frequency*Lacunarity^i with weight Amplitude*Persistence^i, and every
// input coordinate is divided by Scale first.
type Params struct {
	Kind        Kind
	Octaves     int
	Frequency   float64
	Amplitude   float64
	Lacunarity  float64
	Persistence float64
	Scale       float64
}

// DefaultParams returns a single octave of value noise at unit frequency and amplitude.
func DefaultParams() Params {
	return Params{
		Kind:        KindValue,
		Octaves:     1,
		Frequency:   1.0,
		Amplitude:   1.0,
		Lacunarity:  2.0,
		Persistence: 0.5,
		Scale:       1.0,
	}
}

func (p Params) validate() error {
	if p.Octaves > MaxOctaves {
		return fmt.Errorf("%w: %d > %d", ErrTooManyOctaves, p.Octaves, MaxOctaves)
	}
	if p.Octaves < 1 {
		return fmt.Errorf("%w: octaves %d < 1", ErrInvalidParams, p.Octaves)
	}
	for name, v := range map[string]float64{
		"frequency":   p.Frequency,
		"amplitude":   p.Amplitude,
		"lacunarity":  p.Lacunarity,
		"persistence": p.Persistence,
		"scale":       p.Scale,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, name)
		}
	}
	if p.Scale <= 0 {
		return fmt.Errorf("%w: scale %v must be positive", ErrInvalidParams, p.Scale)
	}
	switch p.Kind {
	case "", KindValue, KindSimplex, KindPerlin:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidParams, p.Kind)
	}
	return nil
}

// Field is an immutable fractal (fbm) noise field. It is safe for concurrent use.
type Field struct {
	seed    int64
	params  Params
	octaves []Octave
}

// NewField validates p and builds one octave per layer; octave i is seeded with seed+i.
func NewField(seed int64, p Params) (*Field, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Kind == "" {
		p.Kind = KindValue
	}

	f := &Field{
		seed:    seed,
		params:  p,
		octaves: make([]Octave, p.Octaves),
	}

	freq, amp := p.Frequency, p.Amplitude
	for i := range f.octaves {
		s := seed + int64(i)
		switch p.Kind {
		case KindSimplex:
			f.octaves[i] = NewSimplexOctave(s, freq, amp)
		case KindPerlin:
			f.octaves[i] = NewPerlinOctave(s, freq, amp)
		default:
			f.octaves[i] = NewValueOctave(s, freq, amp)
		}
		freq *= p.Lacunarity
		amp *= p.Persistence
	}
	return f, nil
}

// Seed and Params return what the field was built from.
func (f *Field) Seed() int64 { return f.seed }

func (f *Field) Params() Params { return f.params }

// Sample returns the sum of every octave at (x/scale, y/scale).
func (f *Field) Sample(x, y float64) float64 {
	x /= f.params.Scale
	y /= f.params.Scale

	var sum float64
	for _, o := range f.octaves {
		sum += o.Sample2D(x, y)
	}
	return sum
}

// Sample1D is the one-dimensional counterpart of Sample.
func (f *Field) Sample1D(x float64) float64 {
	x /= f.params.Scale

	var sum float64
	for _, o := range f.octaves {
		sum += o.Sample1D(x)
	}
	return sum
}

// Bound returns the sum of absolute octave amplitudes. Value noise never
// exceeds it in magnitude.
func (f *Field) Bound() float64 {
	var total float64
	amp := math.Abs(f.params.Amplitude)
	for range f.octaves {
		total += amp
		amp *= math.Abs(f.params.Persistence)
	}
	return total
}
