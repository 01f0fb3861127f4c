package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// QueryDebugger lists the registry's queries and counts the entities matching an ad hoc
// set of component types.
type QueryDebugger struct {
	selected map[reflect.Type]bool
	exclude  bool
}

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{selected: make(map[reflect.Type]bool)}
}

func (qd *QueryDebugger) Render(r *ecs.Registry) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if imgui.TreeNodeStr("Registered Queries") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Query")
			imgui.TableSetupColumn("Matched")
			imgui.TableHeadersRow()

			for _, q := range r.Stats().Queries {
				imgui.TableNextRow()
				imgui.TableSetColumnIndex(0)
				imgui.Text(q.Name)
				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", q.Matched))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.Separator()
	imgui.Text("Select Component Types:")
	if imgui.Button("Clear All") {
		qd.selected = make(map[reflect.Type]bool)
	}
	imgui.SameLine()
	imgui.Checkbox("Without", &qd.exclude)

	for _, t := range r.Components().Types() {
		on := qd.selected[t]
		if imgui.Checkbox(t.String(), &on) {
			if on {
				qd.selected[t] = true
			} else {
				delete(qd.selected, t)
			}
		}
	}

	imgui.Separator()
	types := qd.selectedTypes(r)
	if len(types) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	kind := ecs.QueryWith
	if qd.exclude {
		kind = ecs.QueryWithout
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	imgui.Text(fmt.Sprintf("%s[%s]", kind, strings.Join(names, ", ")))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", CountMatching(r, kind, types)))

	imgui.End()
}

// selectedTypes returns the ticked types in component id order.
func (qd *QueryDebugger) selectedTypes(r *ecs.Registry) []reflect.Type {
	var out []reflect.Type
	for _, t := range r.Components().Types() {
		if qd.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

// CountMatching counts the live entities a query of the given kind over types would hold.
// Entities created or changed since the last update are counted by their current
// signature.
func CountMatching(r *ecs.Registry, kind ecs.QueryKind, types []reflect.Type) int {
	var ids []ecs.ComponentId
	for _, t := range types {
		id, ok := r.Components().Id(t)
		if !ok {
			if kind == ecs.QueryWith {
				return 0
			}
			continue
		}
		ids = append(ids, id)
	}
	want := ecs.NewSignature(ids...)

	n := 0
	for e := range r.Entities() {
		sig, err := r.Signature(e)
		if err != nil {
			continue
		}
		switch kind {
		case ecs.QueryWith:
			if want.Matches(sig) {
				n++
			}
		case ecs.QueryWithout:
			if !want.Intersects(sig) {
				n++
			}
		}
	}
	return n
}
