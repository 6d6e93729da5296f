package coord

import (
	"errors"
	"math"
	"testing"
)

func TestNewWorldPosRange(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z int
		wantErr bool
	}{
		{"origin", 0, 0, 0, false},
		{"top", 0, 0, 255, false},
		{"below bedrock", 0, 0, -1, true},
		{"above ceiling", 0, 0, 256, true},
		{"far horizontal", -1_000_000, 1_000_000, 10, false},
	}

	for _, tt := range tests {
		_, err := NewWorldPos(tt.x, tt.y, tt.z)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: NewWorldPos(%d,%d,%d) err = %v, wantErr %v", tt.name, tt.x, tt.y, tt.z, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: err %v does not match ErrOutOfRange", tt.name, err)
		}
	}
}

func TestNewChunkPosRange(t *testing.T) {
	tests := []struct {
		x, y, z int
		wantErr bool
	}{
		{0, 0, 0, false},
		{15, 15, 255, false},
		{16, 0, 0, true},
		{0, 16, 0, true},
		{0, 0, 256, true},
		{-1, 0, 0, true},
		{0, -1, 0, true},
		{0, 0, -1, true},
	}

	for _, tt := range tests {
		_, err := NewChunkPos(tt.x, tt.y, tt.z)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewChunkPos(%d,%d,%d) err = %v, wantErr %v", tt.x, tt.y, tt.z, err, tt.wantErr)
		}
	}
}

func TestRangeErrorFields(t *testing.T) {
	_, err := NewChunkPos(16, 0, 0)
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("err = %T, want *RangeError", err)
	}
	if re.Kind != "chunk" || re.Axis != "x" || re.Value != 16 || re.Min != 0 || re.Max != ChunkSize {
		t.Errorf("RangeError = %+v", re)
	}
}

func TestNewChunkOffsetRange(t *testing.T) {
	tests := []struct {
		x, y    int
		wantErr bool
	}{
		{0, 0, false},
		{-100, -10_000, false},
		{MaxChunkOffset - 1, 1 - MaxChunkOffset, false},
		{MaxChunkOffset, 0, true},
		{0, -MaxChunkOffset, true},
		{math.MaxInt32, math.MaxInt32, true},
		{math.MinInt32, math.MinInt32, true},
	}

	for _, tt := range tests {
		o, err := NewChunkOffset(tt.x, tt.y)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewChunkOffset(%d,%d) err = %v, wantErr %v", tt.x, tt.y, err, tt.wantErr)
		}
		if err == nil && o.Z() != 0 {
			t.Errorf("NewChunkOffset(%d,%d).Z() = %d, want 0", tt.x, tt.y, o.Z())
		}
	}
}

func mustWorld(t *testing.T, x, y, z int) WorldPos {
	t.Helper()
	p, err := NewWorldPos(x, y, z)
	if err != nil {
		t.Fatalf("NewWorldPos(%d,%d,%d): %v", x, y, z, err)
	}
	return p
}

func mustChunk(t *testing.T, x, y, z int) ChunkPos {
	t.Helper()
	p, err := NewChunkPos(x, y, z)
	if err != nil {
		t.Fatalf("NewChunkPos(%d,%d,%d): %v", x, y, z, err)
	}
	return p
}

func mustOffset(t *testing.T, x, y int) ChunkOffset {
	t.Helper()
	o, err := NewChunkOffset(x, y)
	if err != nil {
		t.Fatalf("NewChunkOffset(%d,%d): %v", x, y, err)
	}
	return o
}

func TestWorldToChunkPos(t *testing.T) {
	tests := []struct {
		world [3]int
		chunk [3]int
	}{
		{[3]int{1, 2, 3}, [3]int{1, 2, 3}},
		{[3]int{15, 15, 15}, [3]int{15, 15, 15}},
		{[3]int{16, 16, 16}, [3]int{0, 0, 16}},
		{[3]int{-1, -1, 200}, [3]int{15, 15, 200}},
		{[3]int{-17, 33, 0}, [3]int{15, 1, 0}},
	}

	for _, tt := range tests {
		got := mustWorld(t, tt.world[0], tt.world[1], tt.world[2]).ChunkPos()
		want := mustChunk(t, tt.chunk[0], tt.chunk[1], tt.chunk[2])
		if got != want {
			t.Errorf("%v.ChunkPos() = %v, want %v", tt.world, got, want)
		}
	}
}

func TestChunkToWorldPos(t *testing.T) {
	tests := []struct {
		chunk  [3]int
		offset [2]int
		world  [3]int
	}{
		{[3]int{1, 2, 3}, [2]int{0, 0}, [3]int{1, 2, 3}},
		{[3]int{15, 15, 15}, [2]int{1, 1}, [3]int{31, 31, 15}},
		{[3]int{5, 5, 5}, [2]int{-1, -1}, [3]int{-11, -11, 5}},
	}

	for _, tt := range tests {
		c := mustChunk(t, tt.chunk[0], tt.chunk[1], tt.chunk[2])
		got, err := c.WorldPos(mustOffset(t, tt.offset[0], tt.offset[1]))
		if err != nil {
			t.Fatalf("WorldPos: %v", err)
		}
		want := mustWorld(t, tt.world[0], tt.world[1], tt.world[2])
		if got != want {
			t.Errorf("%v.WorldPos(%v) = %v, want %v", tt.chunk, tt.offset, got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	offsets := []ChunkOffset{
		mustOffset(t, 0, 0),
		mustOffset(t, 3, -7),
		mustOffset(t, -1, -1),
		mustOffset(t, MaxChunkOffset-1, 1-MaxChunkOffset),
	}
	for _, o := range offsets {
		for z := 0; z < ChunkHeight; z += 17 {
			for y := 0; y < ChunkSize; y++ {
				for x := 0; x < ChunkSize; x++ {
					c := mustChunk(t, x, y, z)
					w, err := c.WorldPos(o)
					if err != nil {
						t.Fatalf("%v.WorldPos(%v): %v", c, o, err)
					}
					if got := w.ChunkPos(); got != c {
						t.Fatalf("round trip %v via %v = %v", c, o, got)
					}
					back, err := w.ChunkOffset()
					if err != nil {
						t.Fatalf("%v.ChunkOffset(): %v", w, err)
					}
					if back != o {
						t.Fatalf("%v.ChunkOffset() = %v, want %v", w, back, o)
					}
				}
			}
		}
	}
}

func TestArithmeticRevalidates(t *testing.T) {
	w := mustWorld(t, 0, 0, 250)
	if _, err := w.Add(mustWorld(t, 0, 0, 10)); err == nil {
		t.Error("WorldPos.Add past ceiling should fail")
	}
	if _, err := w.Sub(mustWorld(t, 0, 0, 251)); err == nil {
		t.Error("WorldPos.Sub below zero should fail")
	}
	got, err := w.Sub(mustWorld(t, -3, 4, 50))
	if err != nil {
		t.Fatalf("WorldPos.Sub: %v", err)
	}
	if got != mustWorld(t, 3, -4, 200) {
		t.Errorf("WorldPos.Sub = %v", got)
	}

	c := mustChunk(t, 10, 10, 10)
	if _, err := c.Add(mustChunk(t, 6, 0, 0)); err == nil {
		t.Error("ChunkPos.Add leaving the chunk should fail")
	}
	if _, err := c.Sub(mustChunk(t, 0, 11, 0)); err == nil {
		t.Error("ChunkPos.Sub leaving the chunk should fail")
	}

	o := mustOffset(t, MaxChunkOffset-1, 0)
	if _, err := o.Add(mustOffset(t, 1, 0)); err == nil {
		t.Error("ChunkOffset.Add past the limit should fail")
	}
	if _, err := mustOffset(t, 1<<20, 0).Scale(1 << 9); err == nil {
		t.Error("ChunkOffset.Scale past the limit should fail")
	}
	s, err := mustOffset(t, 2, -3).Scale(4)
	if err != nil || s != mustOffset(t, 8, -12) {
		t.Errorf("Scale = %v, %v", s, err)
	}

	moved, err := mustWorld(t, 1, 2, 3).Translate(mustOffset(t, -1, 2))
	if err != nil || moved != mustWorld(t, -15, 34, 3) {
		t.Errorf("Translate = %v, %v", moved, err)
	}
}

func TestArithmeticOverflow(t *testing.T) {
	tests := []struct {
		name string
		op   func(t *testing.T) error
	}{
		{"scale wraps into range", func(t *testing.T) error {
			_, err := mustOffset(t, 3, 0).Scale(6148914691236517206)
			return err
		}},
		{"scale by min int", func(t *testing.T) error {
			_, err := mustOffset(t, 0, -1).Scale(math.MinInt)
			return err
		}},
		{"add past max int", func(t *testing.T) error {
			_, err := mustWorld(t, math.MaxInt, 0, 0).Add(mustWorld(t, 1, 0, 0))
			return err
		}},
		{"add below min int", func(t *testing.T) error {
			_, err := mustWorld(t, 0, math.MinInt, 0).Add(mustWorld(t, 0, -1, 0))
			return err
		}},
		{"sub past max int", func(t *testing.T) error {
			_, err := mustWorld(t, 0, 0, 0).Sub(mustWorld(t, math.MinInt, 0, 0))
			return err
		}},
		{"sub below min int", func(t *testing.T) error {
			_, err := mustWorld(t, math.MinInt, 0, 0).Sub(mustWorld(t, 1, 0, 0))
			return err
		}},
		{"translate past max int", func(t *testing.T) error {
			_, err := mustWorld(t, 0, math.MaxInt-ChunkSize+1, 0).Translate(mustOffset(t, 0, 1))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op(t)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("err = %v, want ErrOutOfRange", err)
			}
		})
	}

	// Results that stay representable still succeed at the edges.
	if got, err := mustWorld(t, math.MaxInt-1, 0, 0).Add(mustWorld(t, 1, 0, 0)); err != nil || got.X() != math.MaxInt {
		t.Errorf("Add to max int = %v, %v", got, err)
	}
	if got, err := mustWorld(t, math.MinInt+ChunkSize, 0, 0).Translate(mustOffset(t, -1, 0)); err != nil || got.X() != math.MinInt {
		t.Errorf("Translate to min int = %v, %v", got, err)
	}
	if got, err := mustOffset(t, -5, 7).Scale(-3); err != nil || got != mustOffset(t, 15, -21) {
		t.Errorf("Scale(-3) = %v, %v", got, err)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < ChunkVolume; i += 97 {
		p, err := ChunkPosAt(i)
		if err != nil {
			t.Fatalf("ChunkPosAt(%d): %v", i, err)
		}
		if p.Index() != i {
			t.Fatalf("ChunkPosAt(%d).Index() = %d", i, p.Index())
		}
	}
	if _, err := ChunkPosAt(ChunkVolume); err == nil {
		t.Error("ChunkPosAt(ChunkVolume) should fail")
	}
}

func TestOffsetAt(t *testing.T) {
	tests := []struct {
		x, y  float64
		wantX int
		wantY int
	}{
		{0, 0, 0, 0},
		{15.9, 15.9, 0, 0},
		{16, 32, 1, 2},
		{-0.1, -16, -1, -1},
		{-16.01, 40, -2, 2},
	}
	for _, tt := range tests {
		o, err := OffsetAt(tt.x, tt.y)
		if err != nil {
			t.Fatalf("OffsetAt(%v,%v): %v", tt.x, tt.y, err)
		}
		if o.X() != tt.wantX || o.Y() != tt.wantY {
			t.Errorf("OffsetAt(%v,%v) = %v, want (%d,%d)", tt.x, tt.y, o, tt.wantX, tt.wantY)
		}
	}

	if _, err := OffsetAt(math.NaN(), 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("OffsetAt(NaN) err = %v", err)
	}
	if _, err := OffsetAt(1e12, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("OffsetAt(1e12) err = %v", err)
	}
}
