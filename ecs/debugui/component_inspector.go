package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/arepy/arepy/ecs"
)

// ComponentInspector shows the components of the selected entity and edits their
// exported scalar fields in place.
type ComponentInspector struct{}

func NewComponentInspector() *ComponentInspector {
	return &ComponentInspector{}
}

func (ci *ComponentInspector) Render(r *ecs.Registry, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected == (ecs.Entity{}) {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if !r.Alive(selected) {
		imgui.Text(fmt.Sprintf("%s is no longer alive", selected))
		imgui.End()
		return
	}

	imgui.Text(selected.String())
	if sig, err := r.Signature(selected); err == nil {
		imgui.Text("Signature: " + sig.String())
	}
	if r.Dying(selected) {
		imgui.Text("Killed, removed at the next update")
	}
	imgui.Separator()

	for _, component := range r.ComponentsOf(selected) {
		val := reflect.ValueOf(component).Elem()
		if imgui.TreeNodeStr(val.Type().String()) {
			ci.renderValue(val)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderValue(val reflect.Value) {
	if val.Kind() != reflect.Struct {
		renderField("value", val)
		return
	}
	for _, field := range globalReflectionCache.Fields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		if field.IsStruct {
			if imgui.TreeNodeStr(field.Name) {
				ci.renderValue(fieldVal)
				imgui.TreePop()
			}
			continue
		}
		renderField(field.Name, fieldVal)
	}
}

func renderField(name string, val reflect.Value) {
	label := "##" + name

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			setInt(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			setUint(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			setFloat(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(name + ": func")

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		}
	}
}

// setInt stores v into val unless val cannot be set or v overflows its type.
func setInt(val reflect.Value, v int64) bool {
	if !val.CanSet() || val.OverflowInt(v) {
		return false
	}
	val.SetInt(v)
	return true
}

func setUint(val reflect.Value, v uint64) bool {
	if !val.CanSet() || val.OverflowUint(v) {
		return false
	}
	val.SetUint(v)
	return true
}

func setFloat(val reflect.Value, v float64) bool {
	if !val.CanSet() || val.OverflowFloat(v) {
		return false
	}
	val.SetFloat(v)
	return true
}
