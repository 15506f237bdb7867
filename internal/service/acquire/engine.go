package acquire

import (
	"context"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
	"github.com/oshokin/ticker-display/internal/logger"
	"github.com/oshokin/ticker-display/internal/provider"
)

// staleMultiplier is how many missed poll intervals make cached data stale.
const staleMultiplier = 3

// Engine polls the provider ring and owns the Acquisition state.
type Engine struct {
	// ring is the ordered provider fallback set, preferred first.
	ring []provider.Provider
	// metrics supplies the secondary screen data, nil when disabled.
	metrics provider.MetricsProvider
	// policy is the canonical configuration snapshot.
	policy *config.Policy
}

// New creates the acquisition engine over the given ring.
func New(ring []provider.Provider, metrics provider.MetricsProvider, policy *config.Policy) *Engine {
	return &Engine{
		ring:    ring,
		metrics: metrics,
		policy:  policy,
	}
}

// Step runs one acquisition cycle when the poll interval has elapsed.
// It returns true when the state changed in a way that affects rendering.
// Provider attempts are the only blocking work in the control loop; each is
// bounded by the configured attempt timeout.
func (e *Engine) Step(ctx context.Context, s *ticker.Acquisition, now uint32) bool {
	changed := e.pollPrice(ctx, s, now)

	if e.pollMetrics(ctx, s, now) {
		changed = true
	}

	return changed
}

// pollPrice walks the ring once, stopping at the first success.
func (e *Engine) pollPrice(ctx context.Context, s *ticker.Acquisition, now uint32) bool {
	if s.Polled && clock.Elapsed(now, s.LastPollAt) < e.policy.PollIntervalMs {
		return false
	}

	s.Polled = true
	s.LastPollAt = now

	start := e.ringStart(s, now)

	for i := range e.ring {
		p := e.ring[(start+i)%len(e.ring)]
		s.ActiveProvider = p.Name()

		attemptCtx, cancel := context.WithTimeout(ctx, e.policy.AttemptTimeout)
		quote, err := p.Fetch(attemptCtx)
		cancel()

		if err != nil {
			logger.DebugKV(ctx, "Provider attempt failed", "provider", p.Name(), "error", err)
			continue
		}

		s.Value = quote.Price
		s.ChangePct = quote.ChangePct
		s.HasChange = quote.HasChange
		s.HasValue = true
		s.Stale = false
		s.ConsecutiveFailures = 0
		s.LastSuccessAt = now

		logger.DebugKV(ctx, "Value acquired", "provider", p.Name(), "value", quote.Price)

		return true
	}

	// Every provider failed. Keep the last known value on screen and
	// escalate to stale only once the elapsed-time invariant is breached.
	s.ConsecutiveFailures++

	if s.HasValue && !s.Stale &&
		clock.Elapsed(now, s.LastSuccessAt) > staleMultiplier*e.policy.PollIntervalMs {
		s.Stale = true

		logger.WarnKV(ctx, "Cached value is now stale",
			"consecutive_failures", s.ConsecutiveFailures)

		return true
	}

	// The first failed poll still changes the connectivity presentation.
	return s.ConsecutiveFailures == 1
}

// ringStart picks the provider index the next walk begins at. The start is
// sticky on the most recently attempted provider and snaps back to the
// preferred one after the idle-reset window.
func (e *Engine) ringStart(s *ticker.Acquisition, now uint32) int {
	if e.policy.IdleResetMs > 0 && s.HasValue &&
		clock.Elapsed(now, s.LastSuccessAt) > e.policy.IdleResetMs {
		return 0
	}

	for i, p := range e.ring {
		if p.Name() == s.ActiveProvider {
			return i
		}
	}

	return 0
}

// pollMetrics refreshes the secondary metric set on its own interval.
func (e *Engine) pollMetrics(ctx context.Context, s *ticker.Acquisition, now uint32) bool {
	if e.metrics == nil {
		return false
	}

	if s.MetricsPolled && clock.Elapsed(now, s.MetricsPolledAt) < e.policy.MetricsIntervalMs {
		return false
	}

	s.MetricsPolled = true
	s.MetricsPolledAt = now

	attemptCtx, cancel := context.WithTimeout(ctx, e.policy.AttemptTimeout)
	metrics, err := e.metrics.Fetch(attemptCtx)
	cancel()

	if err != nil {
		// Stale metrics stay on screen; the next interval is the retry.
		logger.DebugKV(ctx, "Metrics fetch failed", "provider", e.metrics.Name(), "error", err)

		return false
	}

	s.Metrics = metrics
	s.HasMetrics = true

	return true
}
