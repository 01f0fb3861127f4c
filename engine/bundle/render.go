package bundle

import (
	"cmp"
	"slices"

	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/engine"
)

type spriteRow = struct {
	*Transform
	*Sprite
}

type drawItem struct {
	z    int
	tex  engine.Texture
	src  engine.Rect
	dst  engine.Rect
	tint engine.Color
}

// SpriteRenderer draws sprites in ZIndex order; equal indexes keep query order. A sprite
// whose texture is not loaded is drawn as a rectangle in its tint.
type SpriteRenderer struct {
	items []drawItem
}

func (sr *SpriteRenderer) RenderSystem(sprites *ecs.Query[ecs.With[spriteRow]], cameras *ecs.Query[ecs.With[cameraRow]], rd engine.Renderer2D, assets *engine.AssetStore) {
	var cam *Camera2D
	for _, row := range ecs.Rows(cameras) {
		cam = row.Camera2D
		break
	}

	sr.items = sr.items[:0]
	for _, row := range ecs.Rows(sprites) {
		s, t := row.Sprite, row.Transform

		var tex engine.Texture
		if s.Asset != "" {
			tex, _ = assets.Texture(s.Asset)
		}
		src := s.Src
		if src == (engine.Rect{}) && tex != nil {
			w, h := tex.Size()
			src = engine.Rect{Width: float32(w), Height: float32(h)}
		}
		size := s.Size
		if size == (Vec2{}) {
			size = Vec2{src.Width, src.Height}
		}
		size = size.Mul(t.scale())

		pos := t.Position.Sub(t.Origin)
		if cam != nil {
			pos = cam.ToScreen(pos)
			size = size.Scale(cam.zoom())
		}
		tint := s.Tint
		if tint == (engine.Color{}) {
			tint = engine.White
		}

		sr.items = append(sr.items, drawItem{
			z:    s.ZIndex,
			tex:  tex,
			src:  src,
			dst:  engine.Rect{X: pos.X, Y: pos.Y, Width: size.X, Height: size.Y},
			tint: tint,
		})
	}

	slices.SortStableFunc(sr.items, func(a, b drawItem) int { return cmp.Compare(a.z, b.z) })
	for _, it := range sr.items {
		if it.tex != nil {
			rd.DrawTexture(it.tex, it.src, it.dst, it.tint)
		} else {
			rd.DrawRect(it.dst, it.tint)
		}
	}
}
