package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-terrain/internal/config"
	"github.com/OCharnyshevich/voxel-terrain/internal/world"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-terrain/pkg/world/coord"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		source  = flag.String("config", "", "config file path or go-getter URL")
		mode    = flag.String("mode", "fixed", `"fixed" or "follow"`)
		showMap = flag.Bool("map", false, "print a top-down map of the center chunk")
		ticks   = flag.Int("ticks", 64, "viewpoint ticks in follow mode")
		speed   = flag.Float64("speed", 4, "viewpoint blocks per tick in follow mode")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, `"noise" or "flat"`)
	flag.IntVar(&cfg.BaseHeight, "base-height", cfg.BaseHeight, "terrain base height")
	flag.IntVar(&cfg.SeaLevel, "sea-level", cfg.SeaLevel, "sea level height")
	flag.StringVar(&cfg.SeaLevelMode, "sea-level-mode", cfg.SeaLevelMode, `"inclusive" or "exact"`)
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "region radius in chunks")
	flag.StringVar(&cfg.Bounds, "bounds", cfg.Bounds, `"exclusive" or "inclusive"`)
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "generation workers (0 = GOMAXPROCS)")
	flag.BoolVar(&cfg.Coalesce, "coalesce", cfg.Coalesce, "drop superseded viewpoint requests")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *source != "" {
		fromFile, err := config.LoadSource(ctx, *source)
		if err != nil {
			log.Error("load config", "source", *source, "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	fixed, err := newFixedGenerator(cfg, log)
	if err != nil {
		log.Error("configure generator", "error", err)
		os.Exit(1)
	}

	switch *mode {
	case "fixed":
		err = runFixed(cfg, fixed, log, *showMap)
	case "follow":
		err = runFollow(ctx, cfg, fixed, log, *ticks, float32(*speed))
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Error("terrain", "mode", *mode, "error", err)
		os.Exit(1)
	}
}

func newFixedGenerator(cfg *config.Config, log *slog.Logger) (*world.FixedGenerator, error) {
	g, err := cfg.Generator()
	if err != nil {
		return nil, err
	}
	p, err := cfg.Pipeline()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.WorldOptions()
	if err != nil {
		return nil, err
	}

	log.Info("generator configured",
		"generator", cfg.GeneratorType,
		"seed", cfg.Seed,
		"noise", cfg.Noise.Kind,
		"passes", p.Names(),
		"region", opts.Region.X,
		"bounds", opts.Bounds,
		"chunks", opts.Region.Count(opts.Bounds),
	)
	return world.NewFixedGenerator(g, p, opts, log), nil
}

func runFixed(cfg *config.Config, fixed *world.FixedGenerator, log *slog.Logger, showMap bool) error {
	start := time.Now()
	w, err := fixed.Generate()
	if err != nil {
		return err
	}
	visible := w.VisibleBlocks(cfg.Visibility())
	log.Info("world generated",
		"chunks", w.Len(),
		"visible", len(visible),
		"elapsed", time.Since(start),
	)

	if showMap {
		c, ok := w.Chunk(coord.ChunkOffset{})
		if !ok {
			return fmt.Errorf("center chunk missing")
		}
		printMap(c)
	}
	return nil
}

func printMap(c *chunk.Chunk) {
	for _, row := range c.TopDown() {
		fmt.Println(row)
	}
	counts := c.Counts()
	for _, t := range chunk.BlockTypes() {
		fmt.Printf("%c %-6s %d\n", t.Glyph(), t, counts[t])
	}
}

// runFollow walks a viewpoint along +X, one Update per tick, reading the
// snapshot the way a renderer would.
func runFollow(ctx context.Context, cfg *config.Config, fixed *world.FixedGenerator, log *slog.Logger, ticks int, speed float32) error {
	f := world.NewFollower(fixed, cfg.FollowerOptions(), log)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- f.Run(runCtx) }()

	pos := mgl32.Vec3{0, 0, float32(cfg.BaseHeight)}
	for i := 0; i < ticks && ctx.Err() == nil; i++ {
		if _, err := f.Update(pos); err != nil {
			stop()
			<-done
			return err
		}
		snap := f.Snapshot()
		log.Debug("tick", "tick", i, "pos", pos, "center", snap.Center, "chunks", snap.Len())
		pos = pos.Add(mgl32.Vec3{speed, 0, 0})
	}

	waitErr := f.WaitIdle(ctx)
	stop()
	if err := <-done; err != nil {
		return err
	}
	if waitErr != nil {
		return waitErr
	}

	st := f.Stats()
	snap := f.Snapshot()
	log.Info("follow finished",
		"center", snap.Center,
		"chunks", snap.Len(),
		"requested", st.Requested,
		"completed", st.Completed,
		"failed", st.Failed,
		"dropped", st.Dropped,
	)
	return nil
}
