package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"

	m "gooze.dev/pkg/mutest/internal/model"
	"gooze.dev/pkg/mutest/pkg"
)

// TrendStore keeps the append-only history of run summaries.
type TrendStore interface {
	Append(ctx context.Context, sample m.TrendSample) error
	FetchTrend(ctx context.Context, projectID string, window m.TimeRange) ([]m.TrendSample, error)
	Close() error
}

// FileTrendStore is a TrendStore backed by a durable file spill.
type FileTrendStore struct {
	mu    sync.Mutex
	spill pkg.FileSpill[m.TrendSample]
}

// OpenFileTrendStore opens (or creates) the trend log at path.
func OpenFileTrendStore(path m.Path) (*FileTrendStore, error) {
	spill, err := pkg.OpenFileSpill[m.TrendSample](string(path))
	if err != nil {
		return nil, fmt.Errorf("open trend log: %w", err)
	}

	return &FileTrendStore{spill: spill}, nil
}

// Append implements TrendStore.
func (s *FileTrendStore) Append(ctx context.Context, sample m.TrendSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if sample.ProjectID == "" {
		return fmt.Errorf("trend sample without project id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.spill.Append(sample); err != nil {
		return fmt.Errorf("append trend sample: %w", err)
	}

	return nil
}

// FetchTrend implements TrendStore. Samples come back ordered by timestamp.
func (s *FileTrendStore) FetchTrend(ctx context.Context, projectID string, window m.TimeRange) ([]m.TrendSample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := make([]m.TrendSample, 0)

	err := s.spill.Range(func(_ uint64, sample m.TrendSample) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if sample.ProjectID == projectID && window.Contains(sample.Timestamp) {
			samples = append(samples, sample)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read trend log: %w", err)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return samples, nil
}

// Close implements TrendStore.
func (s *FileTrendStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.spill.Close()
}
