// treesim runs the scene headless with keyboard control: space toggles
// chaos/formed, arrow keys orbit, +/- zooms, q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/driver/fake"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/scene"
)

func main() {
	var (
		fps     = flag.Int("fps", 30, "simulation frames per second")
		balls   = flag.Int("balls", 40, "ball count")
		lights  = flag.Int("lights", 80, "light count")
		verbose = flag.Bool("v", false, "print every frame summary")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cam := camera.New()
	drv := &fake.Driver{Verbose: *verbose}
	eng := scene.NewEngine(layout.DefaultTree(), cam, drv)
	eng.SetTarget(1)
	eng.SetCount(layout.Ball, *balls)
	eng.SetCount(layout.Star, 10)
	eng.SetCount(layout.Light, *lights)

	if err := keyboard.Open(); err != nil {
		log.Fatal().Err(err).Msg("keyboard")
	}
	defer keyboard.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx, *fps)

	fmt.Println("space: toggle chaos/formed  arrows: orbit  +/-: zoom  q: quit")
	for {
		ch, key, err := keyboard.GetKey()
		if err != nil {
			return
		}
		switch {
		case ch == 'q' || key == keyboard.KeyEsc || key == keyboard.KeyCtrlC:
			return
		case key == keyboard.KeySpace:
			eng.Toggle()
			log.Info().Float64("target", eng.Target()).Msg("mix target")
		case key == keyboard.KeyArrowLeft:
			cam.Orbit(-0.15, 0)
		case key == keyboard.KeyArrowRight:
			cam.Orbit(0.15, 0)
		case key == keyboard.KeyArrowUp:
			cam.Orbit(0, 0.1)
		case key == keyboard.KeyArrowDown:
			cam.Orbit(0, -0.1)
		case ch == '+':
			cam.Zoom(-2)
		case ch == '-':
			cam.Zoom(2)
		}
	}
}
