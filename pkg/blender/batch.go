package blender

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/scene"
)

// Task is one scene of a batch
type Task struct {
	Scene   *scene.Scene
	Options RunOptions
}

// BatchStats summarizes a batch
type BatchStats struct {
	Tasks     int           // Number of scenes submitted
	Completed int           // Number of runs that finished successfully
	Elapsed   time.Duration // Wall time of the whole batch
}

// RenderAll runs every task with at most limit hosts at once. A limit of
// zero uses the CPU count. The first failure cancels the remaining runs;
// results are in task order and nil for runs that did not finish. Tasks
// that would write the same script or output file are rejected before any
// run starts.
func RenderAll(ctx context.Context, r *Runner, tasks []Task, limit int) ([]*Result, BatchStats, error) {
	if err := checkOutputs(tasks); err != nil {
		return make([]*Result, len(tasks)), BatchStats{Tasks: len(tasks)}, err
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	start := time.Now()
	results := make([]*Result, len(tasks))
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			res, err := r.Run(ctx, task.Scene, task.Options)
			if err != nil {
				return err
			}
			results[i] = res
			completed.Add(1)
			return nil
		})
	}
	err := g.Wait()

	stats := BatchStats{
		Tasks:     len(tasks),
		Completed: int(completed.Load()),
		Elapsed:   time.Since(start),
	}
	log := logger.With("blender")
	log.Info().
		Int("tasks", stats.Tasks).
		Int("completed", stats.Completed).
		Int("limit", limit).
		Dur("elapsed", stats.Elapsed).
		Msg("batch finished")
	return results, stats, err
}

func checkOutputs(tasks []Task) error {
	owner := make(map[string]int, 2*len(tasks))
	claim := func(path string, i int) error {
		if j, ok := owner[path]; ok {
			return fmt.Errorf("tasks %d and %d both write %s: %w", j, i, path, ErrSharedOutput)
		}
		owner[path] = i
		return nil
	}
	for i, task := range tasks {
		if err := claim(task.Scene.ScriptPath(), i); err != nil {
			return err
		}
		if task.Options.Output != "" {
			if err := claim(task.Options.Output, i); err != nil {
				return err
			}
		}
	}
	return nil
}
