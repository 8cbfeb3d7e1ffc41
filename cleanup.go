package auth

import (
	"context"
	"time"
)

// DefaultSweepInterval is how often the janitor prunes expired rows.
var DefaultSweepInterval = time.Hour

// Janitor prunes deny-list entries and reset tokens whose expiry has
// passed. Expired rows are inert, both checks compare expires_at before
// trusting a row, so sweeping is purely about keeping tables small.
type Janitor struct {
	repo     RepositoryManager
	logger   Logger
	interval time.Duration
}

// NewJanitor creates a janitor over the given repositories.
func NewJanitor(repo RepositoryManager) *Janitor {
	return &Janitor{
		repo:     repo,
		logger:   defLogger{},
		interval: DefaultSweepInterval,
	}
}

// WithLogger overrides the logger used by the janitor.
func (j *Janitor) WithLogger(logger Logger) *Janitor {
	if logger != nil {
		j.logger = logger
	}
	return j
}

// WithInterval overrides the sweep cadence.
func (j *Janitor) WithInterval(interval time.Duration) *Janitor {
	if interval > 0 {
		j.interval = interval
	}
	return j
}

// Sweep deletes expired deny-list entries and reset tokens once. Returns
// the total number of rows removed.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now()

	revoked, err := j.repo.RevokedTokens().DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	resets, err := j.repo.PasswordResets().DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return revoked, err
	}

	return revoked + resets, nil
}

// Run sweeps on a ticker until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := j.Sweep(ctx)
			if err != nil {
				j.logger.Error("cleanup sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				j.logger.Debug("cleanup sweep removed %d expired rows", removed)
			}
		}
	}
}
