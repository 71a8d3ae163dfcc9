package leaderboard

import (
	"context"
	"fmt"
	"time"

	"donationhub/pkg/types"
)

const DefaultLimit = 10

type DonationSource interface {
	DonorAmounts(ctx context.Context) ([]*types.DonorAmount, error)
}

type SnapshotStore interface {
	TopDonors(ctx context.Context) ([]*types.TopDonor, error)
	ReplaceTopDonors(ctx context.Context, donors []*types.TopDonor) error
}

// Recorder observes recomputations. A nil Recorder is allowed.
type Recorder interface {
	ObserveRecompute(duration time.Duration, entries int, err error)
}

type Pipeline struct {
	donations DonationSource
	snapshot  SnapshotStore
	recorder  Recorder
	now       func() time.Time
}

func NewPipeline(donations DonationSource, snapshot SnapshotStore, recorder Recorder) *Pipeline {
	return &Pipeline{
		donations: donations,
		snapshot:  snapshot,
		recorder:  recorder,
		now:       time.Now,
	}
}

// RecomputeAndFetch aggregates every donation into a fresh top-limit ranking,
// replaces the persisted snapshot with it and returns it. A limit <= 0 uses
// DefaultLimit. If any store call fails the previous snapshot is kept.
func (p *Pipeline) RecomputeAndFetch(ctx context.Context, limit int) ([]*types.TopDonor, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	started := p.now()
	donors, err := p.recompute(ctx, limit, started)
	if p.recorder != nil {
		p.recorder.ObserveRecompute(p.now().Sub(started), len(donors), err)
	}

	return donors, err
}

func (p *Pipeline) recompute(ctx context.Context, limit int, computedAt time.Time) ([]*types.TopDonor, error) {
	amounts, err := p.donations.DonorAmounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read donations for leaderboard: %w", err)
	}

	donors := Rank(amounts, limit, computedAt.UTC())

	if err := p.snapshot.ReplaceTopDonors(ctx, donors); err != nil {
		return nil, fmt.Errorf("failed to persist leaderboard: %w", err)
	}

	return donors, nil
}

// Snapshot returns the persisted leaderboard as last written, without
// recomputing it.
func (p *Pipeline) Snapshot(ctx context.Context) ([]*types.TopDonor, error) {
	donors, err := p.snapshot.TopDonors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return donors, nil
}
