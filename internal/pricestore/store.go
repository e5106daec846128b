package pricestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ramarb/internal/cache"
	"ramarb/internal/models"
)

const keyPrefix = "price:"

const DefaultTTL = time.Hour

// Store is the observation cache: latest price observation per
// (marketplace, sku), each entry expiring TTL after its write. A rewrite of
// the same key overwrites the prior observation and resets its clock.
type Store struct {
	Cache  cache.Store
	TTL    time.Duration
	Logger *zap.Logger
}

func Key(marketplace, sku string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, marketplace, sku)
}

func (s *Store) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Store) Put(ctx context.Context, obs models.Observation) error {
	if s == nil || s.Cache == nil {
		return nil
	}
	raw, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	return s.Cache.Set(ctx, Key(obs.Marketplace, obs.SKU), raw, s.ttl())
}

// AllLive returns every unexpired observation. Expired entries are excluded
// even if the backing store still holds them: staleness is re-checked against
// the capture timestamp, so a missing entry and a stale entry look identical
// to detection.
func (s *Store) AllLive(ctx context.Context) ([]models.Observation, error) {
	if s == nil || s.Cache == nil {
		return nil, nil
	}
	raws, err := s.Cache.List(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-s.ttl())
	out := make([]models.Observation, 0, len(raws))
	for _, raw := range raws {
		var obs models.Observation
		if err := json.Unmarshal(raw, &obs); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("dropping undecodable cached observation", zap.Error(err))
			}
			continue
		}
		if obs.CapturedAt.Before(cutoff) {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}
