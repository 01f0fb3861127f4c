package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes an exported struct field the inspector can show.
type FieldInfo struct {
	Name      string
	Index     int
	Kind      reflect.Kind
	IsPointer bool
	IsStruct  bool
}

// ReflectionCache memoises the exported fields of component types.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{}
}

// Fields returns the exported fields of t, or nil if t is not a struct.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			ft := field.Type
			isPointer := ft.Kind() == reflect.Ptr
			if isPointer {
				ft = ft.Elem()
			}
			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Index:     i,
				Kind:      ft.Kind(),
				IsPointer: isPointer,
				IsStruct:  ft.Kind() == reflect.Struct,
			})
		}
	}

	actual, _ := rc.fields.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

var globalReflectionCache = NewReflectionCache()
