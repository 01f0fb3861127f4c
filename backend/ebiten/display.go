// Package ebiten implements the engine collaborators on top of Ebitengine. Ebitengine owns
// the main loop, so the engine is driven through Game instead of engine.Run.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Display controls the Ebitengine window.
type Display struct {
	closed bool
}

func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) CreateWindow(width, height int, title string) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	return nil
}

// WindowShouldClose reports whether the user asked to close the window or Close was
// called.
func (d *Display) WindowShouldClose() bool {
	return d.closed || ebiten.IsWindowBeingClosed()
}

func (d *Display) WindowSize() (int, int)          { return ebiten.WindowSize() }
func (d *Display) SetWindowSize(width, height int) { ebiten.SetWindowSize(width, height) }
func (d *Display) SetWindowTitle(title string)     { ebiten.SetWindowTitle(title) }
func (d *Display) SetVsync(enabled bool)           { ebiten.SetVsyncEnabled(enabled) }
func (d *Display) ToggleFullscreen()               { ebiten.SetFullscreen(!ebiten.IsFullscreen()) }
func (d *Display) IsFullscreen() bool              { return ebiten.IsFullscreen() }

func (d *Display) Close() error {
	d.closed = true
	return nil
}
