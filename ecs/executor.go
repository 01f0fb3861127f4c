package ecs

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Executor runs a batch of system calls. Registry.Run always calls systems one after the
// other on the calling goroutine; RunWith hands the batch to an Executor instead.
type Executor interface {
	Execute(ctx context.Context, tasks []func()) error
}

// SequentialExecutor runs tasks in order on the calling goroutine.
type SequentialExecutor struct{}

// Execute runs every task, stopping at the first panic or when ctx is done.
func (SequentialExecutor) Execute(ctx context.Context, tasks []func()) error {
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runTask(task); err != nil {
			return err
		}
	}
	return nil
}

// ParallelExecutor runs tasks on separate goroutines, at most Limit at a time when Limit
// is positive. Systems run this way must not share mutable resources or components.
type ParallelExecutor struct {
	Limit int
}

// Execute runs every task and waits for all of them. A panicking task is reported as an
// error and cancels tasks that have not started yet.
func (p ParallelExecutor) Execute(ctx context.Context, tasks []func()) error {
	g, ctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}
	for _, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return runTask(task)
		})
	}
	return g.Wait()
}

func runTask(task func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = eris.Errorf("system panicked: %v", v)
		}
	}()
	task()
	return nil
}

// RunWith runs the On systems of pipeline p through ex.
func (r *Registry) RunWith(ctx context.Context, p Pipeline, ex Executor) error {
	if p >= pipelineCount {
		return nil
	}
	var tasks []func()
	for _, s := range r.systems[p] {
		if s.state == Off {
			continue
		}
		tasks = append(tasks, s.call)
	}
	return ex.Execute(ctx, tasks)
}
