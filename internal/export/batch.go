package export

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"
)

// Job is one source to export in a batch.
type Job struct {
	Name string
	Load func() (image.Image, error)
}

// JobResult is the outcome of one Job. Exactly one of Result and Err is set.
type JobResult struct {
	Name   string
	Result *Result
	Err    error
}

// Batch exports every job for the same size with at most workers running
// at once. A failing job does not stop the others. Results keep job order.
// onDone, if set, is called from worker goroutines as each job finishes.
func (e *Exporter) Batch(ctx context.Context, jobs []Job, sizeID string, format Format, workers int, onDone func(JobResult)) []JobResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			res := e.runJob(ctx, job, sizeID, format)
			results[i] = res
			if onDone != nil {
				onDone(res)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Exporter) runJob(ctx context.Context, job Job, sizeID string, format Format) JobResult {
	out := JobResult{Name: job.Name}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	src, err := job.Load()
	if err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = e.Export(ctx, src, sizeID, format)
	return out
}
