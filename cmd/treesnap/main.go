// treesnap composes one frame at a fixed mix value and writes it as WebP.
package main

import (
	"flag"
	"log"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/snapshot"
)

func main() {
	var (
		out    = flag.String("o", "tree.webp", "output WebP path")
		mix    = flag.Float64("mix", 1, "mix value 0 (chaos) .. 1 (formed)")
		width  = flag.Int("w", 1280, "image width")
		height = flag.Int("h", 800, "image height")
	)
	flag.Parse()

	cam := camera.New()
	eng := scene.NewEngine(layout.DefaultTree(), cam, nil)
	eng.SetViewport(float64(*width), float64(*height))
	eng.SetTarget(*mix)
	eng.SetCount(layout.Ball, 60)
	eng.SetCount(layout.Box, 20)
	eng.SetCount(layout.Star, 12)
	eng.SetCount(layout.Candy, 24)
	eng.SetCount(layout.Crystal, 16)
	eng.SetCount(layout.Light, 120)
	eng.SetCount(layout.Snowflake, 80)

	// Freshly built mix states start at the target, so one tick settles the
	// transform buffer at the requested mix.
	if err := eng.Tick(1.0 / 60.0); err != nil {
		log.Fatal(err)
	}

	if err := snapshot.WriteFile(*out, eng.Snapshot(), cam, *width, *height); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}
