// Package bundle provides ready-made 2D components and systems: transforms, rigid bodies
// kept inside Bounds, sprites drawn in z order and a camera that can shake.
package bundle

import "github.com/arepy/arepy/ecs"

// Install registers the bundle systems on w. Movement runs in Physics, camera shake in
// Update and sprite drawing in Render.
func Install(w *ecs.World) (*SpriteRenderer, error) {
	sr := &SpriteRenderer{}
	systems := []struct {
		p  ecs.Pipeline
		fn any
	}{
		{ecs.Physics, MovementSystem},
		{ecs.Update, CameraShakeSystem},
		{ecs.Render, sr.RenderSystem},
	}
	for _, s := range systems {
		if _, err := w.AddSystem(s.p, s.fn); err != nil {
			return nil, err
		}
	}
	return sr, nil
}
