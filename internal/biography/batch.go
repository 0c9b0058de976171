package biography

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Job is one member queued for batch generation.
type Job struct {
	MemberID string
	Request  Request
}

// Batch runs many generations with bounded concurrency and optional pacing.
type Batch struct {
	Generator   Generator
	Concurrency int
	// Limiter paces outbound requests. Nil disables pacing.
	Limiter *rate.Limiter
}

// NewLimiter returns a limiter admitting perMinute requests per minute with no
// burst beyond one, or nil when perMinute is not positive.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Run generates a biography for every job and hands each result to fn as
// soon as it is ready. fn may be called from several goroutines at once.
// Run stops scheduling new jobs when ctx is done and returns ctx's error;
// results already delivered stay delivered.
func (b Batch) Run(ctx context.Context, jobs []Job, fn func(memberID string, r Result)) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Concurrency, 1))

	for _, job := range jobs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if b.Limiter != nil {
				if err := b.Limiter.Wait(gCtx); err != nil {
					return err
				}
			}
			fn(job.MemberID, b.Generator.Generate(gCtx, job.Request))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
