package connection

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	defaultBackoffInitial = 1 * time.Second
	defaultBackoffMax     = 30 * time.Second
	defaultBackoffFactor  = 2.0
	defaultBackoffJitter  = 0.2
)

// BackoffConfig bounds the delay between reconnect attempts.
//
// The n-th delay is min(Max, Initial*Factor^n*(1+j)) with j drawn from
// [0, Jitter). Jitter must stay below Factor-1 so that delays never shrink
// while the connection keeps failing.
type BackoffConfig struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
	Jitter  float64
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial: defaultBackoffInitial,
		Max:     defaultBackoffMax,
		Factor:  defaultBackoffFactor,
		Jitter:  defaultBackoffJitter,
	}
}

func (c BackoffConfig) Validate() error {
	var errs []error
	if c.Initial <= 0 {
		errs = append(errs, errors.New("initial delay must be positive"))
	}
	if c.Max < c.Initial {
		errs = append(errs, fmt.Errorf("max delay %s is below initial delay %s", c.Max, c.Initial))
	}
	if c.Factor < 1 {
		errs = append(errs, fmt.Errorf("factor %v must be at least 1", c.Factor))
	}
	if c.Jitter < 0 {
		errs = append(errs, fmt.Errorf("jitter %v must not be negative", c.Jitter))
	}
	if c.Jitter > 0 && c.Jitter >= c.Factor-1 {
		errs = append(errs, fmt.Errorf("jitter %v must be below factor-1 (%v)", c.Jitter, c.Factor-1))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid backoff: %w", err)
	}
	return nil
}

// Backoff tracks consecutive failed connection attempts. It is not safe for
// concurrent use.
type Backoff struct {
	config  BackoffConfig
	attempt int
	base    time.Duration

	random func() float64
}

func NewBackoff(config BackoffConfig) (*Backoff, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Backoff{config: config, base: config.Initial, random: rand.Float64}, nil
}

// Next records a failed attempt and returns the delay before the next one.
func (b *Backoff) Next() time.Duration {
	delay := time.Duration(float64(b.base) * (1 + b.config.Jitter*b.random()))
	if delay > b.config.Max {
		delay = b.config.Max
	}

	b.attempt++
	b.base = time.Duration(float64(b.base) * b.config.Factor)
	if b.base > b.config.Max {
		b.base = b.config.Max
	}
	return delay
}

func (b *Backoff) Reset() {
	b.attempt = 0
	b.base = b.config.Initial
}

// Attempt is the number of consecutive failures since the last Reset.
func (b *Backoff) Attempt() int {
	return b.attempt
}
