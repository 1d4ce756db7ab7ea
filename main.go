// onehand is a terminal image viewer built for one-handed control: tiered
// zoom with press-and-hold ramps, rotation, drag and tilt panning, all
// driven by a single viewport engine.
//
// Usage:
//
//	onehand [flags] image...
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/onehand/config.toml)
//	-snapshot         Render one frame to stdout and exit
//	-zoom float       Initial zoom multiplier
//	-rotate float     Initial rotation in degrees
//	-protocol string  Graphics protocol override (auto|kitty|iterm2|sixel|halfblocks|none)
//	-verbose          Enable verbose logging
//	-version          Print version and exit
//
// When several images are given the last one is shown first; tab cycles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"

	// Decoders beyond the png/jpeg/gif set imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gitlab.com/tinyland/lab/onehand/pkg/app"
	"gitlab.com/tinyland/lab/onehand/pkg/config"
	"gitlab.com/tinyland/lab/onehand/pkg/ingest"
	"gitlab.com/tinyland/lab/onehand/pkg/motion"
	"gitlab.com/tinyland/lab/onehand/pkg/preview"
	"gitlab.com/tinyland/lab/onehand/pkg/store"
	"gitlab.com/tinyland/lab/onehand/pkg/terminal"
	"gitlab.com/tinyland/lab/onehand/pkg/viewport"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// statusRows is the chrome a snapshot leaves below the image.
const statusRows = 2

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		snapshot    = flag.Bool("snapshot", false, "Render one frame to stdout and exit")
		zoom        = flag.Float64("zoom", 0, "Initial zoom multiplier")
		rotate      = flag.Float64("rotate", 0, "Initial rotation in degrees")
		protocol    = flag.String("protocol", "", "Graphics protocol override (auto|kitty|iterm2|sixel|halfblocks|none)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("onehand %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *protocol != "" {
		cfg.UI.Protocol = *protocol
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	interactive := !*snapshot && isatty.IsTerminal(os.Stdout.Fd())

	logLevel := cfg.SlogLevel()
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOut, closeLog, err := logWriter(interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	images, err := decodeImages(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	budget, err := cfg.Budget(ctx)
	if err != nil {
		logger.Warn("memory budget detection failed", "error", err, "budget", budget.String())
	}

	caps := terminal.DetectCapabilities(cfg.UI.Protocol)
	logger.Debug("terminal", "term", caps.Term.String(), "protocol", caps.Protocol.String(),
		"cols", caps.Size.Cols, "rows", caps.Size.Rows, "ssh", caps.SSH)

	cache := ingest.NewVariantCache(cfg.Ingest.CacheMB)
	pipeline := ingest.NewPipeline(ingest.WithLogger(logger))
	source := motion.NewSimulatedSource()
	shop := store.NewSimulated(logger)

	vp := viewport.New(cfg.Policy(),
		viewport.WithLogger(logger),
		viewport.WithZoomRamp(cfg.ZoomRamp()),
		viewport.WithRotationRamp(cfg.RotationRamp()),
		viewport.WithRotationStep(cfg.Ramp.RotationStep),
		viewport.WithMotion(cfg.MotionMapper()),
		viewport.WithSampler(cfg.Motion.SampleInterval.Duration, cfg.Motion.Debounce.Duration),
		viewport.WithSource(source),
		viewport.WithPipeline(pipeline),
		viewport.WithCache(cache),
		viewport.WithEntitlement(shop.Entitlement()),
	)
	vp.SetOrientation(cfg.Orientation())

	cellW, cellH := caps.Size.Cell()
	renderer := preview.NewRenderer(caps.Protocol, cellW, cellH, cache)

	if !interactive {
		if err := renderSnapshot(vp, renderer, caps.Size, images, budget, *zoom, *rotate); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
			os.Exit(1)
		}
		return
	}

	pool := ingest.NewPool(pipeline, cfg.Ingest.Workers)
	defer pool.Close()

	zones := zone.New()

	model := app.New(app.Options{
		Viewport: vp,
		Pool:     pool,
		Store:    shop,
		Source:   source,
		Renderer: renderer,
		Zones:    zones,
		Images:   images,
		Budget:   budget,
		UI:       cfg.UI,
		CellW:    cellW,
		CellH:    cellH,
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "onehand: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// logWriter returns stderr for one-shot runs. The interactive viewer owns
// the terminal, so its logs go to a file in the cache directory.
func logWriter(interactive bool) (io.Writer, func(), error) {
	if !interactive {
		return os.Stderr, func() {}, nil
	}
	path := config.DefaultLogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// decodeImages opens every path, applying EXIF orientation.
func decodeImages(paths []string) ([]image.Image, error) {
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := imaging.Open(p, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// renderSnapshot ingests the last image synchronously, applies the initial
// transform and writes one frame plus a status line to stdout.
func renderSnapshot(vp *viewport.Viewport, r *preview.Renderer, size terminal.Size, images []image.Image, budget ingest.Budget, zoom, rotate float64) error {
	if len(images) == 0 {
		return errors.New("no image given")
	}
	area := size.Shrink(0, statusRows)
	vp.SetViewportSize(area.Viewport())

	if err := vp.SelectImages(images, budget); err != nil {
		return err
	}
	if zoom > 0 && !vp.SetScale(zoom) {
		slog.Warn("zoom not applied", "requested", zoom, "scale", vp.Snapshot().Scale)
	}
	if rotate != 0 {
		vp.Rotate(rotate)
	}

	s := vp.Snapshot()
	out, err := r.Render(vp.Asset(), preview.Transform{
		Scale:    s.Scale,
		Rotation: s.Rotation,
		Offset:   s.Offset,
		Viewport: s.Viewport,
	}, area.Cols, area.Rows)
	if err != nil {
		return err
	}
	fmt.Println(out)
	fmt.Printf("%.0fx%.0f %.1fx %.1f°\n", s.ImageSize.W, s.ImageSize.H, s.Scale, s.Rotation)
	return nil
}
