package ecs

import (
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Pipeline is a named execution phase systems are scheduled into.
type Pipeline uint8

const (
	Input Pipeline = iota
	Update
	Physics
	Render
	RenderUI
	AsyncUpdate

	pipelineCount
)

var pipelineNames = [pipelineCount]string{"INPUT", "UPDATE", "PHYSICS", "RENDER", "RENDER_UI", "ASYNC_UPDATE"}

// Pipelines lists every pipeline in declaration order.
func Pipelines() []Pipeline {
	return []Pipeline{Input, Update, Physics, Render, RenderUI, AsyncUpdate}
}

func (p Pipeline) String() string {
	if p >= pipelineCount {
		return "UNKNOWN"
	}
	return pipelineNames[p]
}

// ParsePipeline converts a pipeline name such as "render_ui" back to a Pipeline.
func ParsePipeline(name string) (Pipeline, error) {
	for i, n := range pipelineNames {
		if strings.EqualFold(n, name) {
			return Pipeline(i), nil
		}
	}
	return 0, eris.Errorf("unknown pipeline %q", name)
}

// SystemState tells whether a system is run by its pipeline.
type SystemState uint8

const (
	On SystemState = iota
	Off
)

func (s SystemState) String() string {
	if s == Off {
		return "OFF"
	}
	return "ON"
}

// SystemId identifies one system registration.
type SystemId uint32

// SystemInfo describes a registered system.
type SystemInfo struct {
	Id       SystemId
	Name     string
	Pipeline Pipeline
	State    SystemState
	Params   []string
}

// system is a registered function with its arguments resolved once at registration.
type system struct {
	id       SystemId
	name     string
	pipeline Pipeline
	state    SystemState
	code     uintptr
	fn       reflect.Value
	direct   func()
	args     []reflect.Value
	params   []string
	stats    systemStatsInternal
}

func (s *system) call() {
	start := time.Now()
	if s.direct != nil {
		s.direct()
	} else {
		s.fn.Call(s.args)
	}
	s.stats.record(time.Since(start))
}

func (s *system) info() SystemInfo {
	return SystemInfo{
		Id:       s.id,
		Name:     s.name,
		Pipeline: s.pipeline,
		State:    s.state,
		Params:   s.params,
	}
}

// funcName returns a short name for a function value, such as "main.movementSystem".
func funcName(code uintptr) string {
	f := runtime.FuncForPC(code)
	if f == nil {
		return "system"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
