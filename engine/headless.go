package engine

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
)

// The headless collaborators stand in when an Engine is created without a backend, for
// servers, simulations and tests. They draw nothing and report no input.

type headlessDisplay struct {
	width, height int
	title         string
	fullscreen    bool
	closed        bool
}

func (d *headlessDisplay) CreateWindow(width, height int, title string) error {
	d.width, d.height, d.title = width, height, title
	return nil
}

func (d *headlessDisplay) WindowShouldClose() bool         { return d.closed }
func (d *headlessDisplay) WindowSize() (int, int)          { return d.width, d.height }
func (d *headlessDisplay) SetWindowSize(width, height int) { d.width, d.height = width, height }
func (d *headlessDisplay) SetWindowTitle(title string)     { d.title = title }
func (d *headlessDisplay) SetVsync(bool)                   {}
func (d *headlessDisplay) ToggleFullscreen()               { d.fullscreen = !d.fullscreen }
func (d *headlessDisplay) IsFullscreen() bool              { return d.fullscreen }

func (d *headlessDisplay) Close() error {
	d.closed = true
	return nil
}

type headlessTexture struct {
	path string
}

func (headlessTexture) Size() (int, int) { return 0, 0 }

type headlessRenderer struct {
	maxFPS int
}

func (*headlessRenderer) StartFrame()               {}
func (*headlessRenderer) EndFrame()                 {}
func (*headlessRenderer) Clear(Color)               {}
func (r *headlessRenderer) SetMaxFramerate(fps int) { r.maxFPS = fps }
func (*headlessRenderer) FrameRate() float64        { return 0 }

// CreateTexture only checks that the file exists.
func (*headlessRenderer) CreateTexture(path string) (Texture, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "texture %s", path)
	}
	return headlessTexture{path: path}, nil
}

func (*headlessRenderer) UnloadTexture(Texture)                  {}
func (*headlessRenderer) DrawTexture(Texture, Rect, Rect, Color) {}
func (*headlessRenderer) DrawRect(Rect, Color)                   {}
func (*headlessRenderer) DrawText(string, int, int, Color)       {}
func (*headlessRenderer) DrawFPS(int, int)                       {}

type headlessInput struct{}

func (headlessInput) PollEvents()                           {}
func (headlessInput) IsKeyPressed(Key) bool                 { return false }
func (headlessInput) IsKeyDown(Key) bool                    { return false }
func (headlessInput) IsKeyReleased(Key) bool                { return false }
func (headlessInput) IsMouseButtonPressed(MouseButton) bool { return false }
func (headlessInput) IsMouseButtonDown(MouseButton) bool    { return false }
func (headlessInput) MousePosition() (float32, float32)     { return 0, 0 }
func (headlessInput) MouseWheel() float32                   { return 0 }

type headlessSound struct {
	path string
}

func (headlessSound) Duration() time.Duration { return 0 }

type headlessAudio struct{}

func (headlessAudio) LoadSound(path string) (Sound, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "sound %s", path)
	}
	return headlessSound{path: path}, nil
}

func (headlessAudio) PlaySound(Sound)               {}
func (headlessAudio) StopSound(Sound)               {}
func (headlessAudio) IsSoundPlaying(Sound) bool     { return false }
func (headlessAudio) SetSoundVolume(Sound, float64) {}
func (headlessAudio) UnloadSound(Sound)             {}
func (headlessAudio) Close() error                  { return nil }
