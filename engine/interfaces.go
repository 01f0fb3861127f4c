package engine

import "time"

// Color is an 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

var (
	White     = Color{255, 255, 255, 255}
	Black     = Color{0, 0, 0, 255}
	RayWhite  = Color{245, 245, 245, 255}
	Red       = Color{230, 41, 55, 255}
	DarkGreen = Color{0, 117, 44, 255}
)

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Key identifies a keyboard key. Letter keys use their ASCII code.
type Key int

const (
	KeyUnknown Key = 0
	KeySpace   Key = 32
	Key0       Key = 48
	Key1       Key = 49
	Key2       Key = 50
	Key3       Key = 51
	Key4       Key = 52
	Key5       Key = 53
	Key6       Key = 54
	Key7       Key = 55
	Key8       Key = 56
	Key9       Key = 57
	KeyA       Key = 65
	KeyD       Key = 68
	KeyP       Key = 80
	KeyR       Key = 82
	KeyS       Key = 83
	KeyW       Key = 87
	KeyX       Key = 88
	KeyZ       Key = 90
	KeyEscape  Key = 256
	KeyEnter   Key = 257
	KeyF1      Key = 290
	KeyRight   Key = 262
	KeyLeft    Key = 263
	KeyDown    Key = 264
	KeyUp      Key = 265
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Texture is an image loaded by a Renderer2D.
type Texture interface {
	Size() (width, height int)
}

// Sound is an audio clip loaded by an AudioDevice.
type Sound interface {
	Duration() time.Duration
}

// Display owns the window.
type Display interface {
	CreateWindow(width, height int, title string) error
	WindowShouldClose() bool
	WindowSize() (width, height int)
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetVsync(enabled bool)
	ToggleFullscreen()
	IsFullscreen() bool
	Close() error
}

// Renderer2D draws into the current frame. Draw calls are only valid between StartFrame
// and EndFrame.
type Renderer2D interface {
	StartFrame()
	EndFrame()
	Clear(c Color)
	SetMaxFramerate(fps int)
	FrameRate() float64
	CreateTexture(path string) (Texture, error)
	UnloadTexture(t Texture)
	DrawTexture(t Texture, src, dst Rect, tint Color)
	DrawRect(r Rect, c Color)
	DrawText(text string, x, y int, c Color)
	DrawFPS(x, y int)
}

// Input reports the keyboard and mouse state of the current frame.
type Input interface {
	PollEvents()
	IsKeyPressed(k Key) bool
	IsKeyDown(k Key) bool
	IsKeyReleased(k Key) bool
	IsMouseButtonPressed(b MouseButton) bool
	IsMouseButtonDown(b MouseButton) bool
	MousePosition() (x, y float32)
	MouseWheel() float32
}

// AudioDevice loads and plays sounds.
type AudioDevice interface {
	LoadSound(path string) (Sound, error)
	PlaySound(s Sound)
	StopSound(s Sound)
	IsSoundPlaying(s Sound) bool
	SetSoundVolume(s Sound, volume float64)
	UnloadSound(s Sound)
	Close() error
}
