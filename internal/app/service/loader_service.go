package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
	"course-search-service/pkg/locker"
)

// SeedLockKey guards the seed step across replicas.
const SeedLockKey = "seed:lock"

// Skip reasons reported in LoadResult.
const (
	ReasonIndexPopulated = "index already populated"
	ReasonLockHeld       = "seed lock held by another instance"
)

// LoadResult describes one bulk load attempt.
type LoadResult struct {
	Source   string
	Loaded   int
	Existing int64
	Skipped  bool
	Reason   string
	Duration time.Duration
}

// LoaderService seeds an empty index from a seed source.
type LoaderService struct {
	index   domain.DocumentIndex
	source  domain.SeedSource
	locker  locker.DistributedLocker // nil runs without a lock
	lockTTL time.Duration
	logger  *zap.Logger
}

// NewLoaderService creates a new LoaderService. lk may be nil.
func NewLoaderService(
	index domain.DocumentIndex,
	source domain.SeedSource,
	lk locker.DistributedLocker,
	lockTTL time.Duration,
	logger *zap.Logger,
) *LoaderService {
	return &LoaderService{
		index:   index,
		source:  source,
		locker:  lk,
		lockTTL: lockTTL,
		logger:  logger,
	}
}

// LoadIfEmpty writes the seed dataset in one batch when the index holds no
// documents. It is safe to run on every start. Any failure to read, validate
// or write the dataset is returned wrapped in domain.ErrSeedData.
func (l *LoaderService) LoadIfEmpty(ctx context.Context) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{Source: l.source.Name()}

	if err := l.index.EnsureIndex(ctx); err != nil {
		return nil, seedError("preparing index", err)
	}

	existing, err := l.index.Count(ctx)
	if err != nil {
		return nil, seedError("counting documents", err)
	}
	if existing > 0 {
		return l.skip(result, existing, ReasonIndexPopulated, start), nil
	}

	if l.locker != nil {
		acquired, err := l.locker.Acquire(ctx, SeedLockKey, l.lockTTL)
		if err != nil {
			return nil, seedError("acquiring seed lock", err)
		}
		if !acquired {
			return l.skip(result, existing, ReasonLockHeld, start), nil
		}
		defer func() {
			if err := l.locker.Release(context.WithoutCancel(ctx), SeedLockKey); err != nil {
				l.logger.Warn("failed to release seed lock", zap.Error(err))
			}
		}()

		// another replica may have finished between the count and the lock
		existing, err = l.index.Count(ctx)
		if err != nil {
			return nil, seedError("counting documents", err)
		}
		if existing > 0 {
			return l.skip(result, existing, ReasonIndexPopulated, start), nil
		}
	}

	courses, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, seedError("reading "+l.source.Name(), err)
	}

	if err := Prepare(courses); err != nil {
		return nil, seedError("validating "+l.source.Name(), err)
	}

	if err := l.index.BulkIndex(ctx, courses); err != nil {
		return nil, seedError("writing batch", err)
	}

	result.Loaded = len(courses)
	result.Duration = time.Since(start)
	metrics.SeedDocumentsTotal.WithLabelValues(result.Source).Add(float64(result.Loaded))

	l.logger.Info("seed data loaded",
		zap.String("source", result.Source),
		zap.Int("count", result.Loaded),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

func (l *LoaderService) skip(result *LoadResult, existing int64, reason string, start time.Time) *LoadResult {
	result.Existing = existing
	result.Skipped = true
	result.Reason = reason
	result.Duration = time.Since(start)

	l.logger.Info("seed skipped",
		zap.String("source", result.Source),
		zap.String("reason", reason),
		zap.Int64("existing", existing),
	)

	return result
}

// Prepare attaches the default completion payload to every course and
// validates the batch. Duplicate ids are rejected.
func Prepare(courses []*domain.Course) error {
	seen := make(map[string]struct{}, len(courses))
	var errs []error

	for i, c := range courses {
		if c == nil {
			errs = append(errs, fmt.Errorf("record %d: %w: empty record", i, domain.ErrInvalidCourse))
			continue
		}
		c.Suggest = domain.NewCompletion(c.Title)

		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if _, dup := seen[c.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: %w: duplicate id %q", i, domain.ErrInvalidCourse, c.ID))
			continue
		}
		seen[c.ID] = struct{}{}
	}

	return errors.Join(errs...)
}

func seedError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrSeedData, step, err)
}
