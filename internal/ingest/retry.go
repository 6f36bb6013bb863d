package ingest

import (
	"context"
	"net/url"
	"time"

	"sharpshooter/ingestion/internal/client"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Fetcher is the provider surface the ingestion layer depends on.
// *client.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// RetryPolicy retries transient provider errors with exponential backoff.
// Attempts is the number of extra tries after the first one.
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
}

// NoRetry fails on the first error.
var NoRetry = RetryPolicy{}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	b.MaxElapsedTime = 0

	attempts := p.Attempts
	if attempts < 0 {
		attempts = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts)), ctx)
}

// Fetch calls f, retrying only errors the client classified as transient.
func (p RetryPolicy) Fetch(ctx context.Context, f Fetcher, endpoint string, params url.Values) ([]byte, error) {
	op := func() ([]byte, error) {
		body, err := f.Fetch(ctx, endpoint, params)
		if err != nil && !client.IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Dur("retry_in", wait).
			Msg("Transient provider error, retrying")
	}

	return backoff.RetryNotifyWithData(op, p.backOff(ctx), notify)
}
