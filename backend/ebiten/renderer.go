package ebiten

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rotisserie/eris"

	"github.com/arepy/arepy/engine"
)

// Texture is an image in GPU memory.
type Texture struct {
	*ebiten.Image
}

func (t Texture) Size() (int, int) {
	b := t.Bounds()
	return b.Dx(), b.Dy()
}

// Renderer draws onto the screen image Ebitengine passes to Game.Draw.
type Renderer struct {
	screen *ebiten.Image
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) begin(screen *ebiten.Image) { r.screen = screen }

func (r *Renderer) StartFrame() {}

func (r *Renderer) EndFrame() { r.screen = nil }

func (r *Renderer) Clear(c engine.Color) {
	if r.screen != nil {
		r.screen.Fill(rgba(c))
	}
}

// SetMaxFramerate sets the tick rate. Zero or less syncs ticks with the display refresh.
func (r *Renderer) SetMaxFramerate(fps int) {
	if fps <= 0 {
		ebiten.SetTPS(ebiten.SyncWithFPS)
		return
	}
	ebiten.SetTPS(fps)
}

func (r *Renderer) FrameRate() float64 {
	return ebiten.ActualFPS()
}

func (r *Renderer) CreateTexture(path string) (engine.Texture, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "texture %s", path)
	}
	return Texture{Image: img}, nil
}

func (r *Renderer) UnloadTexture(t engine.Texture) {
	if tex, ok := t.(Texture); ok {
		tex.Deallocate()
	}
}

// DrawTexture draws the src region of t scaled into dst and multiplied by tint. A zero src
// draws the whole texture.
func (r *Renderer) DrawTexture(t engine.Texture, src, dst engine.Rect, tint engine.Color) {
	tex, ok := t.(Texture)
	if !ok || r.screen == nil {
		return
	}
	img := tex.Image
	if src.Width > 0 && src.Height > 0 {
		region := image.Rect(int(src.X), int(src.Y), int(src.X+src.Width), int(src.Y+src.Height))
		img = img.SubImage(region).(*ebiten.Image)
	}
	b := img.Bounds()

	opts := &ebiten.DrawImageOptions{}
	if dst.Width > 0 && dst.Height > 0 {
		opts.GeoM.Scale(float64(dst.Width)/float64(b.Dx()), float64(dst.Height)/float64(b.Dy()))
	}
	opts.GeoM.Translate(float64(dst.X), float64(dst.Y))
	opts.ColorScale.ScaleWithColor(rgba(tint))
	r.screen.DrawImage(img, opts)
}

func (r *Renderer) DrawRect(rect engine.Rect, c engine.Color) {
	if r.screen == nil {
		return
	}
	vector.DrawFilledRect(r.screen, rect.X, rect.Y, rect.Width, rect.Height, rgba(c), false)
}

// DrawText prints with the debug font, which has a fixed colour.
func (r *Renderer) DrawText(text string, x, y int, _ engine.Color) {
	if r.screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(r.screen, text, x, y)
}

func (r *Renderer) DrawFPS(x, y int) {
	r.DrawText(fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()), x, y, engine.White)
}

func rgba(c engine.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
