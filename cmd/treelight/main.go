package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/config"
	"github.com/lumenforge/treelight/internal/driver/fake"
	"github.com/lumenforge/treelight/internal/driver/ledstrip"
	"github.com/lumenforge/treelight/internal/driver/preview"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/store"
	"github.com/lumenforge/treelight/internal/texture"
	"github.com/lumenforge/treelight/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		fps        = flag.Int("fps", 60, "target frames per second")
		driver     = flag.String("driver", "fake", "driver: fake | ledstrip | preview")
		brightness = flag.Float64("brightness", 0.9, "global brightness 0..1")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		storePath  = flag.String("store", "photos.json", "path to photo store")
		formed     = flag.Bool("formed", true, "start assembled instead of dispersed")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config (optional; overrides flags where set) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		cfg.Addr = *addr
		cfg.FPS = *fps
		cfg.Driver = *driver
		cfg.Brightness = *brightness
		cfg.StorePath = *storePath
	} else {
		cfg = c
	}

	// ---- Geometry ----
	tree := layout.DefaultTree()
	if cfg.Geometry.BaseRadius > 0 {
		tree.BaseRadius = cfg.Geometry.BaseRadius
	}
	if cfg.Geometry.Apex != 0 {
		tree.Apex = cfg.Geometry.Apex
	}
	if cfg.Geometry.Height > 0 {
		tree.Height = cfg.Geometry.Height
	}

	// ---- Scene ----
	cam := camera.New()
	eng := scene.NewEngine(tree, cam, nil)
	eng.SetViewport(cfg.Viewport.W, cfg.Viewport.H)
	if *formed {
		eng.SetTarget(1)
	}
	eng.SetBrightness(cfg.Brightness)
	eng.SetCount(layout.Ball, cfg.Counts.Balls)
	eng.SetCount(layout.Box, cfg.Counts.Boxes)
	eng.SetCount(layout.Star, cfg.Counts.Stars)
	eng.SetCount(layout.Candy, cfg.Counts.Candies)
	eng.SetCount(layout.Crystal, cfg.Counts.Crystals)
	eng.SetCount(layout.Light, cfg.Counts.Lights)
	eng.SetCount(layout.Snowflake, cfg.Counts.Snowflakes)

	// ---- Driver selection ----
	switch cfg.Driver {
	case "ledstrip":
		drv, err := ledstrip.New(cfg.Counts.Lights, cfg.SPI.SpeedHz)
		if err != nil {
			log.Fatal().Err(err).Msg("ledstrip driver")
		}
		defer drv.Halt()
		eng.Drv = drv
		log.Info().Bool("hardware", drv.Hardware).Msg("ledstrip driver ready")
	case "preview":
		drv, err := preview.New(cam, int(cfg.Viewport.W), int(cfg.Viewport.H))
		if err != nil {
			log.Fatal().Err(err).Msg("preview driver (build with -tags sdl)")
		}
		defer drv.Close()
		eng.Drv = drv
	default:
		eng.Drv = &fake.Driver{}
	}

	// ---- Persistence + textures ----
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.StorePath).Msg("photo store")
	}
	loader := texture.NewLoader(texture.NewCache())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := ws.NewState(eng, cam, st, loader)
	state.ReloadPhotos(ctx)

	eng.OnFocus = func(ev scene.FocusEvent) {
		log.Info().
			Str("kind", ev.Kind.String()).
			Int("index", ev.Index).
			Str("key", ev.ContentKey).
			Float64("x", ev.ScreenOrigin.X).
			Float64("y", ev.ScreenOrigin.Y).
			Msg("focus")
	}

	// ---- HTTP surface ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/gesture", state.HandleGestureWS)
	mux.HandleFunc("/ws/frames", state.HandleFramesWS)
	mux.HandleFunc("/ws/control", state.HandleControlWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("fps", cfg.FPS).Str("driver", cfg.Driver).Msg("treelight listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http")
		}
	}()

	go state.RunLoop(ctx, cfg.FPS)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
}
