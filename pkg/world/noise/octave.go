package noise

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

const (
	tableSize = 256
	tableMask = tableSize - 1
)

// Octave is a single-frequency noise layer. Frequency scales the input and
// amplitude scales the output.
type Octave interface {
	Sample1D(x float64) float64
	Sample2D(x, y float64) float64
}

// ValueOctave is seeded value noise: a table of random values in [-1, 1]
// addressed through a shuffled permutation.
type ValueOctave struct {
	frequency float64
	amplitude float64
	values    [tableSize]float64
	perm      [2 * tableSize]int // doubled so perm[perm[x]+y] never wraps
}

// NewValueOctave builds the permutation and value tables from seed.
func NewValueOctave(seed int64, frequency, amplitude float64) *ValueOctave {
	o := &ValueOctave{frequency: frequency, amplitude: amplitude}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	var p [tableSize]int
	for i := range p {
		o.values[i] = rng.Float64()*2 - 1
		p[i] = i
	}
	rng.Shuffle(tableSize, func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})

	for i := range o.perm {
		o.perm[i] = p[i&tableMask]
	}
	return o
}

// Sample1D interpolates between the two lattice points bounding x.
func (o *ValueOctave) Sample1D(x float64) float64 {
	x *= o.frequency
	xf := math.Floor(x)
	t := fade(x - xf)

	i0 := int(xf) & tableMask
	i1 := (i0 + 1) & tableMask

	return lerp(o.values[o.perm[i0]], o.values[o.perm[i1]], t) * o.amplitude
}

// Sample2D bilinearly interpolates the four lattice corners around (x, y).
func (o *ValueOctave) Sample2D(x, y float64) float64 {
	x *= o.frequency
	y *= o.frequency
	xf := math.Floor(x)
	yf := math.Floor(y)

	rx0 := int(xf) & tableMask
	rx1 := (rx0 + 1) & tableMask
	ry0 := int(yf) & tableMask
	ry1 := (ry0 + 1) & tableMask

	c00 := o.values[o.perm[o.perm[rx0]+ry0]]
	c10 := o.values[o.perm[o.perm[rx1]+ry0]]
	c01 := o.values[o.perm[o.perm[rx0]+ry1]]
	c11 := o.values[o.perm[o.perm[rx1]+ry1]]

	sx := fade(x - xf)
	sy := fade(y - yf)

	nx0 := lerp(c00, c10, sx)
	nx1 := lerp(c01, c11, sx)
	return lerp(nx0, nx1, sy) * o.amplitude
}

// SimplexOctave wraps OpenSimplex noise.
type SimplexOctave struct {
	frequency float64
	amplitude float64
	noise     opensimplex.Noise
}

// NewSimplexOctave seeds an OpenSimplex generator.
func NewSimplexOctave(seed int64, frequency, amplitude float64) *SimplexOctave {
	return &SimplexOctave{
		frequency: frequency,
		amplitude: amplitude,
		noise:     opensimplex.New(seed),
	}
}

func (o *SimplexOctave) Sample1D(x float64) float64 {
	return o.noise.Eval2(x*o.frequency, 0) * o.amplitude
}

func (o *SimplexOctave) Sample2D(x, y float64) float64 {
	return o.noise.Eval2(x*o.frequency, y*o.frequency) * o.amplitude
}

// PerlinOctave wraps classic gradient noise restricted to one internal octave,
// so that layering stays under Field's control.
type PerlinOctave struct {
	frequency float64
	amplitude float64
	noise     *perlin.Perlin
}

// NewPerlinOctave seeds a single-octave Perlin generator.
func NewPerlinOctave(seed int64, frequency, amplitude float64) *PerlinOctave {
	return &PerlinOctave{
		frequency: frequency,
		amplitude: amplitude,
		noise:     perlin.NewPerlin(2, 2, 1, seed),
	}
}

func (o *PerlinOctave) Sample1D(x float64) float64 {
	return o.noise.Noise1D(x*o.frequency) * o.amplitude
}

func (o *PerlinOctave) Sample2D(x, y float64) float64 {
	return o.noise.Noise2D(x*o.frequency, y*o.frequency) * o.amplitude
}

// fade is the quintic smoothing curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
