package scanner

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"ramarb/internal/marketplace"
	"ramarb/internal/models"
	"ramarb/internal/pricestore"
)

// Scanner fans out to every registered marketplace and writes the fetched
// observations into the price store. A failing marketplace is logged and
// excluded from the cycle; it never blocks or fails the others.
type Scanner struct {
	Registry *marketplace.Registry
	Store    *pricestore.Store
	Logger   *zap.Logger
}

type fetchResult struct {
	name string
	obs  []models.Observation
	err  error
}

// Refresh fetches all marketplaces concurrently and returns the number of
// observations stored. It returns an error only when every marketplace
// failed, so one dead venue does not abort a cycle.
func (s *Scanner) Refresh(ctx context.Context) (int, error) {
	connectors := s.Registry.All()
	results := make(chan fetchResult, len(connectors))

	var wg sync.WaitGroup
	for _, c := range connectors {
		wg.Add(1)
		go func(c marketplace.Connector) {
			defer wg.Done()
			obs, err := c.FetchObservations(ctx)
			results <- fetchResult{name: c.Name(), obs: obs, err: err}
		}(c)
	}
	wg.Wait()
	close(results)

	stored := 0
	failures := 0
	for res := range results {
		if res.err != nil {
			failures++
			if s.Logger != nil {
				s.Logger.Warn("marketplace fetch failed",
					zap.String("marketplace", res.name), zap.Error(res.err))
			}
			continue
		}
		for _, obs := range res.obs {
			if err := s.Store.Put(ctx, obs); err != nil {
				if s.Logger != nil {
					s.Logger.Warn("failed to cache observation",
						zap.String("marketplace", res.name),
						zap.String("sku", obs.SKU), zap.Error(err))
				}
				continue
			}
			stored++
		}
	}

	if failures == len(connectors) && len(connectors) > 0 {
		return stored, ErrAllMarketplacesDown
	}
	return stored, nil
}
