package ecs

import (
	"reflect"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SchedulerStats provides statistics about system execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Id             SystemId
	Name           string
	Pipeline       Pipeline
	State          SystemState
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	if s.executionCount == 0 || d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
}

var (
	registryType  = reflect.TypeFor[*Registry]()
	querySlotType = reflect.TypeFor[querySlot]()
	resSlotType   = reflect.TypeFor[resSlot]()
)

// AddSystem registers fn under pipeline p. fn may be any function; its parameters are
// resolved once, here:
//
//   - *Query[F] or Query[F] receives the registry's query for F
//   - *Res[T] or Res[T] receives a handle that reads resource T when called
//   - a type present in the resource table receives that resource as it is now
//   - *Registry receives the registry
//
// Any other parameter receives its zero value. Systems run in registration order.
func (r *Registry) AddSystem(p Pipeline, state SystemState, fn any) (SystemId, error) {
	if p >= pipelineCount {
		return 0, eris.Wrapf(ErrInvalidSystem, "unknown pipeline %d", p)
	}
	if fn == nil {
		return 0, eris.Wrap(ErrInvalidSystem, "nil system")
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return 0, eris.Wrapf(ErrInvalidSystem, "%s is not a function", ft)
	}
	if fv.IsNil() {
		return 0, eris.Wrap(ErrInvalidSystem, "nil system")
	}
	if ft.IsVariadic() {
		return 0, eris.Wrapf(ErrInvalidSystem, "%s is variadic", ft)
	}

	r.nextSystemId++
	s := &system{
		id:       r.nextSystemId,
		pipeline: p,
		state:    state,
		code:     fv.Pointer(),
		fn:       fv,
	}
	s.name = funcName(s.code)

	if direct, ok := fn.(func()); ok {
		s.direct = direct
	} else {
		args, params, err := r.resolveArgs(s.name, ft)
		if err != nil {
			r.nextSystemId--
			return 0, err
		}
		s.args = args
		s.params = params
	}

	r.systems[p] = append(r.systems[p], s)
	r.log.Debug("system registered",
		zap.String("system", s.name),
		zap.Stringer("pipeline", p),
		zap.Stringer("state", state),
		zap.Strings("params", s.params),
	)
	return s.id, nil
}

func (r *Registry) resolveArgs(name string, ft reflect.Type) ([]reflect.Value, []string, error) {
	args := make([]reflect.Value, ft.NumIn())
	params := make([]string, ft.NumIn())

	for i := range args {
		t := ft.In(i)
		params[i] = t.String()

		switch {
		case t == registryType:
			args[i] = reflect.ValueOf(r)

		case implementsSlot(t, querySlotType):
			slot := newSlot(t)
			if err := slot.Interface().(querySlot).bind(r); err != nil {
				return nil, nil, eris.Wrapf(err, "system %s parameter %d", name, i)
			}
			args[i] = slotArg(t, slot)

		case implementsSlot(t, resSlotType):
			slot := newSlot(t)
			slot.Interface().(resSlot).bindRes(r)
			args[i] = slotArg(t, slot)

		default:
			if v, ok := r.resources[t]; ok {
				args[i] = v
				continue
			}
			r.log.Warn("unresolved system parameter",
				zap.String("system", name),
				zap.Int("index", i),
				zap.Stringer("type", t),
			)
			args[i] = reflect.Zero(t)
		}
	}
	return args, params, nil
}

// implementsSlot reports whether a parameter of type t is a slot kind the scheduler
// binds, either as a pointer or as a value.
func implementsSlot(t, slot reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		return t.Implements(slot)
	}
	return t.Kind() == reflect.Struct && reflect.PointerTo(t).Implements(slot)
}

func newSlot(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem())
	}
	return reflect.New(t)
}

func slotArg(t reflect.Type, slot reflect.Value) reflect.Value {
	if t.Kind() == reflect.Ptr {
		return slot
	}
	return slot.Elem()
}

// Run calls every On system of pipeline p in registration order.
func (r *Registry) Run(p Pipeline) {
	if p >= pipelineCount {
		return
	}
	for _, s := range r.systems[p] {
		if s.state == Off {
			continue
		}
		s.call()
	}
}

func (r *Registry) findSystem(p Pipeline, id SystemId) (int, error) {
	if p < pipelineCount {
		for i, s := range r.systems[p] {
			if s.id == id {
				return i, nil
			}
		}
	}
	return -1, eris.Wrapf(ErrSystemNotFound, "system %d in pipeline %s", id, p)
}

// SetSystemState switches a system on or off. Its position in the pipeline is kept.
func (r *Registry) SetSystemState(p Pipeline, id SystemId, state SystemState) error {
	i, err := r.findSystem(p, id)
	if err != nil {
		return err
	}
	r.systems[p][i].state = state
	return nil
}

// RemoveSystem unregisters a system.
func (r *Registry) RemoveSystem(p Pipeline, id SystemId) error {
	i, err := r.findSystem(p, id)
	if err != nil {
		return err
	}
	r.systems[p] = slices.Delete(slices.Clone(r.systems[p]), i, i+1)
	return nil
}

// LookupSystem returns the first registration of fn under pipeline p.
func (r *Registry) LookupSystem(p Pipeline, fn any) (SystemId, bool) {
	fv := reflect.ValueOf(fn)
	if p >= pipelineCount || fv.Kind() != reflect.Func {
		return 0, false
	}
	code := fv.Pointer()
	for _, s := range r.systems[p] {
		if s.code == code {
			return s.id, true
		}
	}
	return 0, false
}

// Systems describes the systems of pipeline p in run order.
func (r *Registry) Systems(p Pipeline) []SystemInfo {
	if p >= pipelineCount {
		return nil
	}
	out := make([]SystemInfo, len(r.systems[p]))
	for i, s := range r.systems[p] {
		out[i] = s.info()
	}
	return out
}

// SchedulerStats returns execution statistics for every registered system.
func (r *Registry) SchedulerStats() *SchedulerStats {
	stats := &SchedulerStats{}

	for _, p := range Pipelines() {
		for _, s := range r.systems[p] {
			internal := &s.stats
			avgDuration := time.Duration(0)
			if internal.executionCount > 0 {
				avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			}

			stats.Systems = append(stats.Systems, SystemStats{
				Id:             s.id,
				Name:           s.name,
				Pipeline:       p,
				State:          s.state,
				ExecutionCount: internal.executionCount,
				MinDuration:    internal.minDuration,
				MaxDuration:    internal.maxDuration,
				AvgDuration:    avgDuration,
				LastDuration:   internal.lastDuration,
				TotalDuration:  internal.totalDuration,
			})
			stats.TotalExecutions += internal.executionCount
		}
	}

	stats.SystemCount = len(stats.Systems)
	return stats
}
