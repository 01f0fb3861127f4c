// Package engine runs ECS worlds against a window, a 2D renderer, input and audio. The
// engine owns the collaborators and hands them to every world as resources; systems ask
// for them by declaring parameters of the interface types below.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arepy/arepy/config"
	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/event"
)

var (
	ErrWorldNotFound  = eris.New("world not found")
	ErrWorldExists    = eris.New("world already exists")
	ErrNoCurrentWorld = eris.New("no current world")
	ErrAssetNotFound  = eris.New("asset not found")
)

// Option configures an Engine.
type Option func(*Engine)

// WithDisplay sets the window implementation.
func WithDisplay(d Display) Option {
	return func(e *Engine) { e.display = d }
}

// WithRenderer sets the 2D renderer.
func WithRenderer(r Renderer2D) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithInput sets the input implementation.
func WithInput(in Input) Option {
	return func(e *Engine) { e.input = in }
}

// WithAudio sets the audio device.
func WithAudio(a AudioDevice) Option {
	return func(e *Engine) { e.audio = a }
}

// WithLogger replaces the logger built from the config.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithComponentRegistry shares cr between the engine's worlds instead of a fresh one.
func WithComponentRegistry(cr *ecs.ComponentRegistry) Option {
	return func(e *Engine) { e.components = cr }
}

// WithExecutor sets the executor for ASYNC_UPDATE systems.
func WithExecutor(ex ecs.Executor) Option {
	return func(e *Engine) { e.executor = ex }
}

// WithClearColor sets the colour each frame is cleared to.
func WithClearColor(c Color) Option {
	return func(e *Engine) { e.clearColor = c }
}

// Engine holds named worlds and runs the current one.
type Engine struct {
	cfg        *config.Config
	log        *zap.Logger
	components *ecs.ComponentRegistry
	events     *event.Manager
	assets     *AssetStore
	display    Display
	renderer   Renderer2D
	input      Input
	audio      AudioDevice
	executor   ecs.Executor
	clearColor Color
	frame      *ecs.FrameTime

	worlds  map[string]*ecs.World
	current *ecs.World

	running    atomic.Bool
	started    bool
	onStartup  []func(*Engine) error
	onShutdown []func(*Engine)
}

// New creates an engine. A nil cfg uses config.Default. Collaborators not supplied as
// options are replaced by headless implementations.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		clearColor: RayWhite,
		frame:      &ecs.FrameTime{},
		worlds:     make(map[string]*ecs.World),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		log, err := NewLogger(cfg.Logging)
		if err != nil {
			return nil, eris.Wrap(err, "build logger")
		}
		e.log = log
	}
	if e.components == nil {
		e.components = ecs.NewComponentRegistry()
	}
	if e.display == nil {
		e.display = &headlessDisplay{}
	}
	if e.renderer == nil {
		e.renderer = &headlessRenderer{}
	}
	if e.input == nil {
		e.input = headlessInput{}
	}
	if e.audio == nil {
		e.audio = headlessAudio{}
	}
	if e.executor == nil {
		if cfg.Engine.ParallelAsync {
			e.executor = ecs.ParallelExecutor{Limit: cfg.Engine.MaxParallel}
		} else {
			e.executor = ecs.SequentialExecutor{}
		}
	}
	e.events = event.NewManager(e.log.Named("events"))
	e.assets = NewAssetStore(e.renderer, e.audio)
	return e, nil
}

func (e *Engine) Config() *config.Config             { return e.cfg }
func (e *Engine) Logger() *zap.Logger                { return e.log }
func (e *Engine) Components() *ecs.ComponentRegistry { return e.components }
func (e *Engine) Events() *event.Manager             { return e.events }
func (e *Engine) Assets() *AssetStore                { return e.assets }
func (e *Engine) Display() Display                   { return e.display }
func (e *Engine) Renderer() Renderer2D               { return e.renderer }
func (e *Engine) Input() Input                       { return e.input }
func (e *Engine) Audio() AudioDevice                 { return e.audio }
func (e *Engine) FrameTime() *ecs.FrameTime          { return e.frame }

// CreateWorld creates a world that shares the engine's component registry and resources.
// The first world created becomes the current one.
func (e *Engine) CreateWorld(name string) (*ecs.World, error) {
	if _, ok := e.worlds[name]; ok {
		return nil, eris.Wrapf(ErrWorldExists, "world %q", name)
	}
	w := ecs.NewWorld(name,
		ecs.WithComponentRegistry(e.components),
		ecs.WithLogger(e.log.With(zap.String("world", name))),
	)
	e.addResources(w.Registry())
	e.worlds[name] = w
	if e.current == nil {
		e.current = w
	}
	e.log.Debug("world created", zap.String("world", name))
	return w, nil
}

func (e *Engine) addResources(r *ecs.Registry) {
	ecs.AddResource[Display](r, e.display)
	ecs.AddResource[Renderer2D](r, e.renderer)
	ecs.AddResource[Input](r, e.input)
	ecs.AddResource[AudioDevice](r, e.audio)
	ecs.AddResource(r, e.assets)
	ecs.AddResource(r, e.events)
	ecs.AddResource(r, e)
	ecs.AddResource(r, e.frame)
	ecs.AddResource(r, e.log)
}

// World returns the world called name.
func (e *Engine) World(name string) (*ecs.World, error) {
	w, ok := e.worlds[name]
	if !ok {
		return nil, eris.Wrapf(ErrWorldNotFound, "world %q", name)
	}
	return w, nil
}

// Worlds returns the sorted world names.
func (e *Engine) Worlds() []string {
	names := make([]string, 0, len(e.worlds))
	for name := range e.worlds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrentWorld makes the world called name the one Update and Draw run.
func (e *Engine) SetCurrentWorld(name string) error {
	w, err := e.World(name)
	if err != nil {
		return err
	}
	e.current = w
	e.log.Info("current world changed", zap.String("world", name))
	return nil
}

// CurrentWorld returns the world Update and Draw run.
func (e *Engine) CurrentWorld() (*ecs.World, error) {
	if e.current == nil {
		return nil, ErrNoCurrentWorld
	}
	return e.current, nil
}

// RemoveWorld forgets the world called name. Removing the current world leaves the engine
// without one.
func (e *Engine) RemoveWorld(name string) error {
	w, ok := e.worlds[name]
	if !ok {
		return eris.Wrapf(ErrWorldNotFound, "world %q", name)
	}
	delete(e.worlds, name)
	if e.current == w {
		e.current = nil
	}
	return nil
}

// OnStartup registers fn to run at the end of Init. A hook error aborts Init.
func (e *Engine) OnStartup(fn func(*Engine) error) {
	e.onStartup = append(e.onStartup, fn)
}

// OnShutdown registers fn to run at the start of Shutdown.
func (e *Engine) OnShutdown(fn func(*Engine)) {
	e.onShutdown = append(e.onShutdown, fn)
}

// Init opens the window, loads the asset manifest and runs the startup hooks. Calling it
// again is a no-op.
func (e *Engine) Init() error {
	if e.started {
		return nil
	}
	win := e.cfg.Window
	if err := e.display.CreateWindow(win.Width, win.Height, win.Title); err != nil {
		return eris.Wrap(err, "create window")
	}
	e.display.SetVsync(win.Vsync)
	if win.Fullscreen && !e.display.IsFullscreen() {
		e.display.ToggleFullscreen()
	}
	e.renderer.SetMaxFramerate(win.MaxFPS)

	if path := e.cfg.Engine.Assets; path != "" {
		if err := e.assets.LoadManifest(path); err != nil {
			return err
		}
	}

	e.started = true
	e.running.Store(true)
	for _, fn := range e.onStartup {
		if err := fn(e); err != nil {
			e.running.Store(false)
			return eris.Wrap(err, "startup hook")
		}
	}
	e.log.Info("engine started",
		zap.Int("width", win.Width),
		zap.Int("height", win.Height),
		zap.Strings("worlds", e.Worlds()),
	)
	return nil
}

// Shutdown runs the shutdown hooks, releases assets and closes the audio device and the
// window.
func (e *Engine) Shutdown() error {
	e.running.Store(false)
	if !e.started {
		return nil
	}
	e.started = false
	for _, fn := range e.onShutdown {
		fn(e)
	}
	e.assets.Unload()

	var errs []error
	if err := e.audio.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "close audio"))
	}
	if err := e.display.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "close display"))
	}
	_ = e.log.Sync()
	return errors.Join(errs...)
}

// Update advances the frame clock by dt seconds and runs the INPUT, UPDATE, PHYSICS and
// ASYNC_UPDATE pipelines of the current world, then applies pending entity changes and
// dispatches queued events.
func (e *Engine) Update(dt float64) error {
	w := e.current
	if w == nil {
		return ErrNoCurrentWorld
	}
	e.frame.Advance(dt)
	e.input.PollEvents()

	r := w.Registry()
	r.Run(ecs.Input)
	r.Run(ecs.Update)
	r.Run(ecs.Physics)
	if err := r.RunWith(context.Background(), ecs.AsyncUpdate, e.executor); err != nil {
		return eris.Wrapf(err, "world %q async update", w.Name())
	}
	r.Update()
	e.events.ProcessEvents()
	return nil
}

// Draw runs the RENDER and RENDER_UI pipelines of the current world inside one renderer
// frame.
func (e *Engine) Draw() error {
	w := e.current
	if w == nil {
		return ErrNoCurrentWorld
	}
	e.renderer.StartFrame()
	e.renderer.Clear(e.clearColor)
	w.Run(ecs.Render)
	w.Run(ecs.RenderUI)
	e.renderer.EndFrame()
	return nil
}

// Frame runs Update then Draw.
func (e *Engine) Frame(dt float64) error {
	if err := e.Update(dt); err != nil {
		return err
	}
	return e.Draw()
}

// Run drives frames at the configured tick rate until ctx is done, Stop is called or the
// display asks to close. It calls Init before the first frame and Shutdown on return.
// Backends with their own loop call Init, Frame and Shutdown themselves.
func (e *Engine) Run(ctx context.Context) (err error) {
	if err := e.Init(); err != nil {
		return err
	}
	defer func() {
		if serr := e.Shutdown(); err == nil {
			err = serr
		}
	}()

	ticker := time.NewTicker(e.cfg.Engine.TickRate)
	defer ticker.Stop()

	last := time.Now()
	for e.Running() {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := e.Frame(dt); err != nil {
				return err
			}
			if e.display.WindowShouldClose() {
				e.Stop()
			}
		}
	}
	return nil
}

// Stop makes Run return after the current frame.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Running reports whether the engine has started and not been stopped.
func (e *Engine) Running() bool {
	return e.running.Load()
}
