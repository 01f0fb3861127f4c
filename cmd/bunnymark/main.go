// Command bunnymark spawns bouncing bunnies on every left click until the frame rate drops.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	arepyebiten "github.com/arepy/arepy/backend/ebiten"
	"github.com/arepy/arepy/config"
	debugui_ebiten "github.com/arepy/arepy/ecs/debugui/ebiten"
	"github.com/arepy/arepy/engine"
)

func main() {
	configPath := flag.String("config", "arepy.toml", "Engine configuration file.")
	texture := flag.String("texture", "", "Bunny image; coloured squares are drawn when empty.")
	initial := flag.Int("bunnies", 100, "Bunnies spawned at startup.")
	perFrame := flag.Int("per-frame", 100, "Bunnies spawned per frame while the mouse is held.")
	debug := flag.Bool("debug", false, "Show the ECS debugger (F1 toggles).")
	seed := flag.Int64("seed", 1, "Random seed.")
	flag.Parse()

	if err := run(*configPath, *texture, *initial, *perFrame, *debug, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "bunnymark: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, texture string, initial, perFrame int, debug bool, seed int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Window.Title == config.Default().Window.Title {
		cfg.Window.Title = "bunnymark"
	}

	backend := arepyebiten.New()
	e, err := engine.New(cfg, append(backend.Options(), engine.WithClearColor(engine.RayWhite))...)
	if err != nil {
		return err
	}
	log := e.Logger()

	w, err := e.CreateWorld("bunnymark")
	if err != nil {
		return err
	}
	s := newSpawner(seed, perFrame)
	if err := setupWorld(e, w, s); err != nil {
		return err
	}

	e.OnStartup(func(e *engine.Engine) error {
		if texture != "" {
			if _, err := e.Assets().LoadTexture("bunny", texture); err != nil {
				return err
			}
		}
		width, height := e.Display().WindowSize()
		return s.spawn(w.Registry(), initial, float32(width)/2, float32(height)/2)
	})

	game := arepyebiten.NewGame(e, backend)
	if debug || cfg.Engine.DebugUI {
		if _, err := debugui_ebiten.Attach(e, game); err != nil {
			return err
		}
	}

	log.Info("starting bunnymark", zap.Int("bunnies", initial), zap.Bool("debug", debug || cfg.Engine.DebugUI))
	return arepyebiten.Run(game)
}
