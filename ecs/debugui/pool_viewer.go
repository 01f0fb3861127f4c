package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// PoolViewer shows one row per component pool with its occupancy.
type PoolViewer struct {
	sortColumn    int
	sortAscending bool
}

func NewPoolViewer() *PoolViewer {
	return &PoolViewer{sortColumn: 2}
}

func (pv *PoolViewer) Render(r *ecs.Registry) {
	if !imgui.BeginV("Component Pools", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	pools := r.Stats().Pools

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Id")
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Count")
		imgui.TableSetupColumn("Capacity")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pv.sortColumn = int(spec.ColumnIndex())
			pv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortPools(pools, pv.sortColumn, pv.sortAscending)

		maxCount := 0
		for _, p := range pools {
			maxCount = max(maxCount, p.Count)
		}

		for _, p := range pools {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", p.Id))

			imgui.TableNextColumn()
			imgui.Text(p.Type.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", p.Count))
			if maxCount > 0 {
				const maxBarWidth = 100
				barWidth := float32(p.Count) / float32(maxCount) * maxBarWidth
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", p.Capacity))
		}

		imgui.EndTable()
	}

	imgui.End()
}

func sortPools(pools []ecs.PoolStats, column int, ascending bool) {
	sort.SliceStable(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		var less bool
		switch column {
		case 1:
			less = a.Type.String() < b.Type.String()
		case 2:
			less = a.Count < b.Count
		case 3:
			less = a.Capacity < b.Capacity
		default:
			less = a.Id < b.Id
		}
		if !ascending {
			return !less
		}
		return less
	})
}
