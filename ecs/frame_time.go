package ecs

// FrameTime is the clock resource the engine advances once per update.
type FrameTime struct {
	Delta   float64
	Elapsed float64
	Frame   uint64
}

// Advance moves the clock forward by dt seconds.
func (f *FrameTime) Advance(dt float64) {
	f.Delta = dt
	f.Elapsed += dt
	f.Frame++
}
