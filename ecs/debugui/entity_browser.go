package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// frames between cache rebuilds when the entity count is unchanged
const browserRefreshFrames = 30

type EntityInfo struct {
	Entity         ecs.Entity
	Id             ecs.EntityId
	Signature      string
	ComponentTypes []string
}

// EntityBrowser lists live entities with paging, filtering and sortable columns.
type EntityBrowser struct {
	entities      []EntityInfo
	lastCount     int
	sinceRefresh  int
	sortColumn    int
	sortAscending bool
	filterText    string
	selected      ecs.Entity
	perPage       int
	page          int
}

func NewEntityBrowser(perPage int) *EntityBrowser {
	return &EntityBrowser{
		lastCount:     -1,
		sortAscending: true,
		perPage:       perPage,
	}
}

// Selected returns the entity picked in the table, or the zero Entity.
func (eb *EntityBrowser) Selected() ecs.Entity {
	return eb.selected
}

func (eb *EntityBrowser) Render(r *ecs.Registry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.refresh(r)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.page = 0
	}

	filtered := eb.filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Signature")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sort()
			sortSpecs.SetSpecsDirty(false)
		}

		start, end := pageBounds(len(filtered), eb.page, eb.perPage)
		for _, info := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(info.Id.String(), eb.selected.Id() == info.Id, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = info.Entity
			}

			imgui.TableNextColumn()
			imgui.Text(info.Signature)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(info.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(info.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if len(filtered) > eb.perPage {
		pages := (len(filtered) + eb.perPage - 1) / eb.perPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.page > 0 {
			eb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.page < pages-1 {
			eb.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

func (eb *EntityBrowser) refresh(r *ecs.Registry) {
	eb.sinceRefresh++
	if count := r.EntityCount(); count != eb.lastCount || eb.sinceRefresh >= browserRefreshFrames {
		eb.entities = collectEntities(r)
		eb.lastCount = count
		eb.sinceRefresh = 0
		eb.sort()
	}
}

func collectEntities(r *ecs.Registry) []EntityInfo {
	entities := make([]EntityInfo, 0, r.EntityCount())
	for e := range r.Entities() {
		sig, err := r.Signature(e)
		if err != nil {
			continue
		}
		info := EntityInfo{Entity: e, Id: e.Id(), Signature: sig.String()}
		for _, c := range r.ComponentsOf(e) {
			info.ComponentTypes = append(info.ComponentTypes, reflect.TypeOf(c).Elem().String())
		}
		entities = append(entities, info)
	}
	return entities
}

func (eb *EntityBrowser) sort() {
	sort.SliceStable(eb.entities, func(i, j int) bool {
		a, b := eb.entities[i], eb.entities[j]
		var less bool
		switch eb.sortColumn {
		case 1:
			less = a.Signature < b.Signature
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 3:
			less = len(a.ComponentTypes) < len(b.ComponentTypes)
		default:
			less = a.Id.Index() < b.Id.Index()
		}
		if !eb.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filtered() []EntityInfo {
	if eb.filterText == "" {
		return eb.entities
	}

	needle := strings.ToLower(eb.filterText)
	out := make([]EntityInfo, 0, len(eb.entities))
	for _, info := range eb.entities {
		if strings.Contains(info.Id.String(), needle) ||
			strings.Contains(strings.ToLower(strings.Join(info.ComponentTypes, " ")), needle) {
			out = append(out, info)
		}
	}
	return out
}

func pageBounds(n, page, perPage int) (int, int) {
	start := page * perPage
	if start > n {
		start = n
	}
	end := start + perPage
	if end > n {
		end = n
	}
	return start, end
}
