// Package retry hardens transient-network-sensitive calls against the
// durable store with exponential backoff. Errors are classified once at
// this boundary; permanent errors are returned immediately without
// consuming a retry.
package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Kind is the closed classification of an observed infrastructure error.
type Kind int

const (
	KindPermanent Kind = iota
	KindTransient
)

// transientSignatures are matched case-insensitively against error text
// from drivers and SDKs that expose failures only as strings.
var transientSignatures = []string{
	"econnreset",
	"connection reset",
	"enotfound",
	"no such host",
	"timed out",
	"timeout",
	"connection",
}

// Classify tags an error as transient (retry-safe) or permanent.
func Classify(err error) Kind {
	if err == nil {
		return KindPermanent
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return KindTransient
		}
	}
	return KindPermanent
}

// Policy configures the retry loop.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

// DefaultPolicy matches the values used across the durable-store call
// sites: up to 3 retries, 1s initial delay doubling to a 10s ceiling.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Factor:       2,
	}
}

func newBackOff(p Policy) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Factor
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return b
}

// Do runs op up to MaxRetries+1 times, sleeping between attempts with
// pure exponential backoff capped at MaxDelay. Permanent errors abort
// immediately; on exhaustion the last observed error is returned.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	return DoNotify(ctx, p, op, nil)
}

// DoNotify is Do with a callback invoked before each backoff sleep,
// receiving the failed attempt's error and the upcoming delay.
func DoNotify(ctx context.Context, p Policy, op func(context.Context) error, notify backoff.Notify) error {
	wrapped := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if Classify(err) == KindPermanent {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(newBackOff(p), uint64(p.MaxRetries)), ctx)
	if notify == nil {
		return backoff.Retry(wrapped, bo)
	}
	return backoff.RetryNotify(wrapped, bo, notify)
}

// DoValue is Do for operations returning a value.
func DoValue[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
