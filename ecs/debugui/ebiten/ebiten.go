// Package ebiten draws the Dear ImGui debugger on top of an Ebitengine game.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	arepyebiten "github.com/arepy/arepy/backend/ebiten"
	"github.com/arepy/arepy/ecs/debugui"
	"github.com/arepy/arepy/engine"
)

// ImguiBackend wraps the cimgui-go Ebitengine backend so it can be used as a Game overlay.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the ImGui context for a window of the given size. The imgui.ini
// file is disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: b}
}

func (b *ImguiBackend) BeginFrame()               { b.EbitenBackend.BeginFrame() }
func (b *ImguiBackend) EndFrame()                 { b.EbitenBackend.EndFrame() }
func (b *ImguiBackend) Draw(screen *ebiten.Image) { b.EbitenBackend.Draw(screen) }
func (b *ImguiBackend) Layout(width, height int)  { b.EbitenBackend.Layout(width, height) }

// Attach installs the debugger into the engine's current world and makes the ImGui
// backend the game's overlay.
func Attach(e *engine.Engine, g *arepyebiten.Game) (*debugui.Debugger, error) {
	w, err := e.CurrentWorld()
	if err != nil {
		return nil, err
	}
	d, err := debugui.Install(w.Registry())
	if err != nil {
		return nil, err
	}
	cfg := e.Config().Window
	g.SetOverlay(NewImguiBackend(cfg.Title, cfg.Width, cfg.Height))
	return d, nil
}
