package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// PerformanceStats keeps a ring of frame times and shows them next to the scheduler's
// per-system timings.
type PerformanceStats struct {
	history []float32
	index   int
	filled  int
}

func NewPerformanceStats(historyFrames int) *PerformanceStats {
	return &PerformanceStats{history: make([]float32, historyFrames)}
}

// Record appends a frame duration in seconds.
func (ps *PerformanceStats) Record(dt float32) {
	if len(ps.history) == 0 {
		return
	}
	ps.history[ps.index] = dt * 1000
	ps.index = (ps.index + 1) % len(ps.history)
	ps.filled = min(ps.filled+1, len(ps.history))
}

// AverageFrameMs returns the mean of the recorded frame times in milliseconds.
func (ps *PerformanceStats) AverageFrameMs() float32 {
	if ps.filled == 0 {
		return 0
	}
	var sum float32
	for i := 0; i < ps.filled; i++ {
		sum += ps.history[i]
	}
	return sum / float32(ps.filled)
}

func (ps *PerformanceStats) Render(r *ecs.Registry) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := r.Stats()
	imgui.Text(fmt.Sprintf("Entities: %d (capacity %d, %d free)", stats.EntityCount, stats.Capacity, stats.FreeIds))
	imgui.Text(fmt.Sprintf("Component types: %d", stats.ComponentTypes))
	imgui.Text(fmt.Sprintf("Pending: +%d -%d created %d killed %d",
		stats.PendingAdded, stats.PendingRemoved, stats.PendingCreated, stats.PendingKilled))

	if avg := ps.AverageFrameMs(); avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if len(ps.history) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &ps.history[0], int32(len(ps.history)))
	}

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Pipeline")
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("State")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, s := range r.SchedulerStats().Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(s.Pipeline.String())
				imgui.TableNextColumn()
				imgui.Text(s.Name)
				imgui.TableNextColumn()
				imgui.Text(s.State.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(s.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(s.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Resources") {
		for _, name := range stats.Resources {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
