package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/arepy/arepy/engine"
)

var keys = map[engine.Key]ebiten.Key{
	engine.KeySpace:  ebiten.KeySpace,
	engine.Key0:      ebiten.KeyDigit0,
	engine.Key1:      ebiten.KeyDigit1,
	engine.Key2:      ebiten.KeyDigit2,
	engine.Key3:      ebiten.KeyDigit3,
	engine.Key4:      ebiten.KeyDigit4,
	engine.Key5:      ebiten.KeyDigit5,
	engine.Key6:      ebiten.KeyDigit6,
	engine.Key7:      ebiten.KeyDigit7,
	engine.Key8:      ebiten.KeyDigit8,
	engine.Key9:      ebiten.KeyDigit9,
	engine.KeyA:      ebiten.KeyA,
	engine.KeyD:      ebiten.KeyD,
	engine.KeyP:      ebiten.KeyP,
	engine.KeyR:      ebiten.KeyR,
	engine.KeyS:      ebiten.KeyS,
	engine.KeyW:      ebiten.KeyW,
	engine.KeyX:      ebiten.KeyX,
	engine.KeyZ:      ebiten.KeyZ,
	engine.KeyEscape: ebiten.KeyEscape,
	engine.KeyEnter:  ebiten.KeyEnter,
	engine.KeyF1:     ebiten.KeyF1,
	engine.KeyRight:  ebiten.KeyArrowRight,
	engine.KeyLeft:   ebiten.KeyArrowLeft,
	engine.KeyDown:   ebiten.KeyArrowDown,
	engine.KeyUp:     ebiten.KeyArrowUp,
}

var buttons = map[engine.MouseButton]ebiten.MouseButton{
	engine.MouseLeft:   ebiten.MouseButtonLeft,
	engine.MouseRight:  ebiten.MouseButtonRight,
	engine.MouseMiddle: ebiten.MouseButtonMiddle,
}

// Input reads keyboard and mouse state from Ebitengine. Pressed and released report
// transitions in the current tick; down reports the held state.
type Input struct {
	wheel float32
}

func NewInput() *Input {
	return &Input{}
}

func (in *Input) PollEvents() {
	_, dy := ebiten.Wheel()
	in.wheel = float32(dy)
}

func (in *Input) IsKeyPressed(k engine.Key) bool {
	key, ok := keys[k]
	return ok && inpututil.IsKeyJustPressed(key)
}

func (in *Input) IsKeyDown(k engine.Key) bool {
	key, ok := keys[k]
	return ok && ebiten.IsKeyPressed(key)
}

func (in *Input) IsKeyReleased(k engine.Key) bool {
	key, ok := keys[k]
	return ok && inpututil.IsKeyJustReleased(key)
}

func (in *Input) IsMouseButtonPressed(b engine.MouseButton) bool {
	button, ok := buttons[b]
	return ok && inpututil.IsMouseButtonJustPressed(button)
}

func (in *Input) IsMouseButtonDown(b engine.MouseButton) bool {
	button, ok := buttons[b]
	return ok && ebiten.IsMouseButtonPressed(button)
}

func (in *Input) MousePosition() (float32, float32) {
	x, y := ebiten.CursorPosition()
	return float32(x), float32(y)
}

func (in *Input) MouseWheel() float32 {
	return in.wheel
}
