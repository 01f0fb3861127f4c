// Package debugui provides Dear ImGui inspector windows for an ecs.Registry. Install
// registers RENDER_UI systems that draw ImguiItem entities and the built-in tools.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming input this frame. Install adds it
// as a resource; game systems take *ImguiInputState and skip their own handling when set.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

type itemRow = struct{ *ImguiItem }

// Debugger is the state of the built-in inspector windows.
type Debugger struct {
	Visible bool

	registry    *ecs.Registry
	browser     *EntityBrowser
	inspector   *ComponentInspector
	pools       *PoolViewer
	performance *PerformanceStats
	queries     *QueryDebugger
}

// NewDebugger creates the inspector windows for r.
func NewDebugger(r *ecs.Registry) *Debugger {
	return &Debugger{
		Visible:     true,
		registry:    r,
		browser:     NewEntityBrowser(100),
		inspector:   NewComponentInspector(),
		pools:       NewPoolViewer(),
		performance: NewPerformanceStats(120),
		queries:     NewQueryDebugger(),
	}
}

// Install adds the ImguiInputState and *Debugger resources to r and registers the systems
// that draw ImguiItem entities and the debugger windows. The caller owns the ImGui frame:
// the systems must run between the backend's BeginFrame and EndFrame.
func Install(r *ecs.Registry) (*Debugger, error) {
	d := NewDebugger(r)
	ecs.AddResource(r, &ImguiInputState{})
	ecs.AddResource(r, d)

	if _, err := r.AddSystem(ecs.RenderUI, ecs.On, renderItems); err != nil {
		return nil, err
	}
	if _, err := r.AddSystem(ecs.RenderUI, ecs.On, renderDebugger); err != nil {
		return nil, err
	}
	return d, nil
}

func renderItems(items *ecs.Query[ecs.With[itemRow]], state *ImguiInputState) {
	io := imgui.CurrentIO()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range ecs.Rows(items) {
		if item.ImguiItem.Render != nil {
			item.ImguiItem.Render()
		}
	}
}

func renderDebugger(d *Debugger, clock *ecs.Res[*ecs.FrameTime]) {
	var dt float32
	if ft, ok := clock.Get(); ok {
		dt = float32(ft.Delta)
	}
	d.Render(dt)
}

// Render draws every window. dt is the last frame's duration in seconds.
func (d *Debugger) Render(dt float32) {
	d.performance.Record(dt)
	if !d.Visible {
		return
	}
	d.browser.Render(d.registry)
	d.inspector.Render(d.registry, d.browser.Selected())
	d.pools.Render(d.registry)
	d.performance.Render(d.registry)
	d.queries.Render(d.registry)
}

// Toggle shows or hides the windows.
func (d *Debugger) Toggle() {
	d.Visible = !d.Visible
}
