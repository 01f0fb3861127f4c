package ebiten

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/arepy/arepy/engine"
)

// Overlay draws on top of each frame. The cimgui-go Ebitengine backend satisfies it.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Backend bundles the collaborators for one engine.
type Backend struct {
	Display  *Display
	Renderer *Renderer
	Input    *Input
	Audio    *Audio
}

// New creates the Ebitengine collaborators.
func New() *Backend {
	return &Backend{
		Display:  NewDisplay(),
		Renderer: NewRenderer(),
		Input:    NewInput(),
		Audio:    NewAudio(DefaultSampleRate),
	}
}

// Options passes the collaborators to engine.New.
func (b *Backend) Options() []engine.Option {
	return []engine.Option{
		engine.WithDisplay(b.Display),
		engine.WithRenderer(b.Renderer),
		engine.WithInput(b.Input),
		engine.WithAudio(b.Audio),
	}
}

// Game adapts an Engine to ebiten.Game.
type Game struct {
	engine   *engine.Engine
	backend  *Backend
	overlay  Overlay
	last     time.Time
	width    int
	height   int
	fixedRes bool
}

// NewGame wraps e. The logical screen follows the window size unless SetResolution is
// called.
func NewGame(e *engine.Engine, b *Backend) *Game {
	return &Game{engine: e, backend: b}
}

// SetOverlay installs o, typically a Dear ImGui backend.
func (g *Game) SetOverlay(o Overlay) {
	g.overlay = o
}

// SetResolution fixes the logical screen size.
func (g *Game) SetResolution(width, height int) {
	g.width, g.height, g.fixedRes = width, height, true
}

func (g *Game) Update() error {
	if !g.engine.Running() || g.backend.Display.WindowShouldClose() {
		g.engine.Stop()
		return ebiten.Termination
	}

	now := time.Now()
	dt := 1.0 / 60
	if tps := ebiten.TPS(); tps > 0 {
		dt = 1.0 / float64(tps)
	}
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	return g.engine.Update(dt)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.backend.Renderer.begin(screen)
	if g.overlay != nil {
		g.overlay.BeginFrame()
	}
	if err := g.engine.Draw(); err != nil {
		g.engine.Logger().Sugar().Errorw("draw failed", "error", err)
	}
	if g.overlay != nil {
		g.overlay.EndFrame()
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := outsideWidth, outsideHeight
	if g.fixedRes {
		w, h = g.width, g.height
	}
	if g.overlay != nil {
		g.overlay.Layout(w, h)
	}
	return w, h
}

// Run initialises the game's engine, runs the Ebitengine loop until the window closes or
// the engine is stopped, then shuts the engine down. It must be called from the main
// goroutine.
func Run(g *Game) (err error) {
	if err := g.engine.Init(); err != nil {
		return err
	}
	defer func() {
		if serr := g.engine.Shutdown(); err == nil {
			err = serr
		}
	}()

	return ebiten.RunGame(g)
}
