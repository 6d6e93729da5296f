package config

import (
	"fmt"

	"github.com/OCharnyshevich/voxel-terrain/internal/world"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/noise"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/trns"
)

// NoiseConfig mirrors noise.Params.
type NoiseConfig struct {
	Kind        string  `yaml:"kind" json:"kind"`
	Octaves     int     `yaml:"octaves" json:"octaves"`
	Frequency   float64 `yaml:"frequency" json:"frequency"`
	Amplitude   float64 `yaml:"amplitude" json:"amplitude"`
	Lacunarity  float64 `yaml:"lacunarity" json:"lacunarity"`
	Persistence float64 `yaml:"persistence" json:"persistence"`
	Scale       float64 `yaml:"scale" json:"scale"`
}

// Config holds the terrain generation configuration.
type Config struct {
	Seed          int64  `yaml:"seed" json:"seed"`
	GeneratorType string `yaml:"generator" json:"generator"` // "noise" or "flat"
	BaseHeight    int    `yaml:"base_height" json:"base_height"`
	SeaLevel      int    `yaml:"sea_level" json:"sea_level"`
	SeaLevelMode  string `yaml:"sea_level_mode" json:"sea_level_mode"` // "inclusive" or "exact"

	Noise NoiseConfig `yaml:"noise" json:"noise"`

	RenderDistance int      `yaml:"render_distance" json:"render_distance"` // region radius in chunks
	Bounds         string   `yaml:"bounds" json:"bounds"`                   // "exclusive" or "inclusive"
	Passes         []string `yaml:"passes" json:"passes"`
	CaveThreshold  float64  `yaml:"cave_threshold" json:"cave_threshold"`   // carving density for the caves pass
	TreesPerChunk  int      `yaml:"trees_per_chunk" json:"trees_per_chunk"` // placement attempts for the trees pass

	Culling    bool `yaml:"culling" json:"culling"`
	CullBorder bool `yaml:"cull_border" json:"cull_border"`

	Workers  int  `yaml:"workers" json:"workers"` // 0 = GOMAXPROCS
	Coalesce bool `yaml:"coalesce" json:"coalesce"`
	Cache    bool `yaml:"cache" json:"cache"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GeneratorType: "noise",
		BaseHeight:    100,
		SeaLevel:      90,
		SeaLevelMode:  "inclusive",
		Noise: NoiseConfig{
			Kind:        string(noise.KindValue),
			Octaves:     5,
			Frequency:   1.0 / 16,
			Amplitude:   10,
			Lacunarity:  2,
			Persistence: 0.5,
			Scale:       1,
		},
		RenderDistance: 3,
		Bounds:         "exclusive",
		Passes:         []string{trns.NameSeaLevel, trns.NameSurface},
		CaveThreshold:  trns.DefaultCaveThreshold,
		TreesPerChunk:  3,
		Culling:        true,
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["base-height"] {
		cfg.BaseHeight = fromFile.BaseHeight
	}
	if !explicitFlags["sea-level"] {
		cfg.SeaLevel = fromFile.SeaLevel
	}
	if !explicitFlags["sea-level-mode"] {
		cfg.SeaLevelMode = fromFile.SeaLevelMode
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["bounds"] {
		cfg.Bounds = fromFile.Bounds
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["coalesce"] {
		cfg.Coalesce = fromFile.Coalesce
	}

	// No flags exist for these.
	cfg.Noise = fromFile.Noise
	cfg.Passes = fromFile.Passes
	cfg.CaveThreshold = fromFile.CaveThreshold
	cfg.TreesPerChunk = fromFile.TreesPerChunk
	cfg.Culling = fromFile.Culling
	cfg.CullBorder = fromFile.CullBorder
	cfg.Cache = fromFile.Cache
}

// NoiseParams converts the noise section to noise.Params.
func (c *Config) NoiseParams() noise.Params {
	return noise.Params{
		Kind:        noise.Kind(c.Noise.Kind),
		Octaves:     c.Noise.Octaves,
		Frequency:   c.Noise.Frequency,
		Amplitude:   c.Noise.Amplitude,
		Lacunarity:  c.Noise.Lacunarity,
		Persistence: c.Noise.Persistence,
		Scale:       c.Noise.Scale,
	}
}

// Generator builds the chunk generator selected by GeneratorType.
func (c *Config) Generator() (gen.Generator, error) {
	switch c.GeneratorType {
	case "flat":
		return gen.NewFlatGenerator(c.BaseHeight, c.Workers)
	case "", "noise":
		field, err := noise.NewField(c.Seed, c.NoiseParams())
		if err != nil {
			return nil, err
		}
		return gen.NewNoiseGenerator(field, gen.Options{
			BaseHeight: c.BaseHeight,
			Workers:    c.Workers,
		}), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", c.GeneratorType)
	}
}

// SeaLevelPass builds the validated sea level pass.
func (c *Config) SeaLevelPass() (trns.SeaLevel, error) {
	mode, err := trns.ParseSeaLevelMode(c.SeaLevelMode)
	if err != nil {
		return trns.SeaLevel{}, err
	}
	return trns.NewSeaLevel(c.SeaLevel, mode)
}

// Pipeline builds the transformation passes listed in Passes.
func (c *Config) Pipeline() (trns.Pipeline, error) {
	sea, err := c.SeaLevelPass()
	if err != nil {
		return trns.Pipeline{}, err
	}
	return trns.FromNames(c.Passes, trns.Params{
		Sea:   sea,
		Caves: trns.Caves{Seed: c.Seed, Threshold: c.CaveThreshold},
		Trees: trns.Trees{Seed: c.Seed, PerChunk: c.TreesPerChunk},
	})
}

// WorldOptions builds the region and worker settings of a FixedGenerator.
func (c *Config) WorldOptions() (world.Options, error) {
	region, err := world.NewRegion(c.RenderDistance, c.RenderDistance)
	if err != nil {
		return world.Options{}, err
	}
	bounds, err := world.ParseBounds(c.Bounds)
	if err != nil {
		return world.Options{}, err
	}
	return world.Options{
		Region:  region,
		Bounds:  bounds,
		Workers: c.Workers,
		Cache:   c.Cache,
	}, nil
}

// FollowerOptions builds the settings of a Follower.
func (c *Config) FollowerOptions() world.FollowerOptions {
	return world.FollowerOptions{Coalesce: c.Coalesce}
}

// Visibility builds the visible block query settings.
func (c *Config) Visibility() chunk.Visibility {
	return chunk.Visibility{Culling: c.Culling, CullBorder: c.CullBorder}
}
