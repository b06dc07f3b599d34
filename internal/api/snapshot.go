package api

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/commitpulse/commitpulse/pkg/metrics"
	"github.com/commitpulse/commitpulse/pkg/model"
)

// FetchSnapshot loads everything one refresh cycle needs for a spec:
// commit list, hotspots, and temporal buckets are fetched concurrently,
// joined, and only then folded into a single Snapshot with client-side
// aggregate stats. Any failure discards the whole cycle — partial
// results from the faster fetches are never published.
func (c *Client) FetchSnapshot(ctx context.Context, spec model.FilterSpec) (model.Snapshot, error) {
	var (
		commits  []model.CommitRecord
		hotspots []model.Hotspot
		temporal []model.TemporalBucket
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		commits, err = c.Commits(gctx, spec)
		return err
	})
	g.Go(func() error {
		var err error
		hotspots, err = c.Hotspots(gctx, spec)
		return err
	})
	g.Go(func() error {
		var err error
		temporal, err = c.Temporal(gctx, spec)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{
		Spec:      spec,
		Commits:   commits,
		Stats:     metrics.Aggregate(commits),
		Hotspots:  hotspots,
		Temporal:  temporal,
		FetchedAt: time.Now(),
	}, nil
}
