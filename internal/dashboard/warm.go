package dashboard

import (
	"context"

	"go.uber.org/zap"

	"launchdash/pkg/launch"
	"launchdash/pkg/worker"
)

// Warm queues a render of every chart at the default payload window for
// each dropdown option, so the first page loads are served from cache.
// It returns once every job is queued; pool.Shutdown waits for them.
func (s *Service) Warm(ctx context.Context, pool *worker.Pool) error {
	sites := append([]string{launch.AllSites}, s.dataset.Sites()...)
	payload := s.DefaultState().Payload

	queued := 0
	for _, site := range sites {
		st := State{Site: site, Payload: payload}
		for _, cb := range s.callbacks {
			output := cb.Output
			err := pool.Submit(ctx, func(ctx context.Context) error {
				_, err := s.RenderSVG(ctx, output, st)
				return err
			})
			if err != nil {
				return err
			}
			queued++
		}
	}

	s.logger.Info("chart warm-up queued", zap.Int("charts", queued))
	return nil
}
