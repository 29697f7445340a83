package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchdash/pkg/logger"
)

func TestPoolDistribution(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all submitted jobs run before shutdown returns", prop.ForAll(
		func(numJobs, numWorkers int) bool {
			var ran atomic.Int64
			p := NewPool(logger.NewNop(), numWorkers)
			p.Start(context.Background())

			for i := 0; i < numJobs; i++ {
				_ = p.Submit(context.Background(), func(context.Context) error {
					ran.Add(1)
					return nil
				})
			}

			if err := p.Shutdown(context.Background()); err != nil {
				return false
			}
			return ran.Load() == int64(numJobs) && p.Failed() == 0
		},
		gen.IntRange(1, 100),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPoolCountsFailures(t *testing.T) {
	p := NewPool(logger.NewNop(), 2)
	p.Start(context.Background())

	for i := 0; i < 5; i++ {
		i := i
		require.NoError(t, p.Submit(context.Background(), func(context.Context) error {
			if i%2 == 0 {
				return errors.New("render failed")
			}
			return nil
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int64(3), p.Failed())
}

func TestPoolShutdownTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p := NewPool(logger.NewNop(), 1)
	p.Start(context.Background())
	require.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
}

func TestPoolSubmitCancelled(t *testing.T) {
	p := NewPool(logger.NewNop(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nothing drains the queue, so the third submit has to observe ctx
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = p.Submit(ctx, func(context.Context) error { return nil })
	}
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkPoolSubmit(b *testing.B) {
	p := NewPool(logger.NewNop(), 4)
	p.Start(context.Background())
	defer p.Shutdown(context.Background())

	job := func(context.Context) error { return nil }

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.Submit(context.Background(), job)
	}
}
