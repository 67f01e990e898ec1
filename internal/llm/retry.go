package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/AKakshat1729/AGI-119/internal/logger"
)

// RetryProvider retries transient failures with exponential backoff. An
// invalid response is retried once; truncation and cancellation never are.
type RetryProvider struct {
	inner   Provider
	cfg     RetryConfig
	timeout time.Duration
	log     *logger.Logger
	sleep   func(context.Context, time.Duration) error
}

// WithRetry wraps p. A positive timeout bounds the whole call, retries
// included.
func WithRetry(p Provider, cfg RetryConfig, timeout time.Duration, log *logger.Logger) *RetryProvider {
	return &RetryProvider{inner: p, cfg: cfg, timeout: timeout, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	attempts := max(r.cfg.MaxAttempts, 1)
	invalidRetried := false
	var lastErr error
	for attempt := range attempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case classFatal:
			return nil, err
		case classInvalid:
			if invalidRetried {
				return nil, err
			}
			invalidRetried = true
		}
		if attempt == attempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("llm call failed, retrying",
			"provider", r.inner.Name(),
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"err", err,
		)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Name() string { return r.inner.Name() }

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
