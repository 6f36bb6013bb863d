package ingest

import (
	"context"
	"net/url"
	"testing"
	"time"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFetcher struct {
	errs  []error
	calls int
}

func (f *scriptedFetcher) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return []byte("ok"), nil
}

func TestRetryPolicy_RetriesTransient(t *testing.T) {
	f := &scriptedFetcher{errs: []error{testutil.Transient("x"), testutil.Transient("x")}}

	body, err := fastRetry.Fetch(context.Background(), f, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 3, f.calls)
}

func TestRetryPolicy_GivesUpAfterAttempts(t *testing.T) {
	f := &scriptedFetcher{errs: []error{testutil.Transient("x"), testutil.Transient("x"), testutil.Transient("x")}}

	_, err := fastRetry.Fetch(context.Background(), f, "x", nil)
	require.Error(t, err)
	assert.True(t, client.IsTransient(err))
	assert.Equal(t, 3, f.calls)
}

func TestRetryPolicy_PermanentReturnedUnwrapped(t *testing.T) {
	f := &scriptedFetcher{errs: []error{testutil.Permanent("x")}}

	_, err := fastRetry.Fetch(context.Background(), f, "x", nil)
	require.Error(t, err)
	assert.True(t, client.IsPermanent(err))
	assert.Equal(t, 1, f.calls)
}

func TestRetryPolicy_NoRetry(t *testing.T) {
	f := &scriptedFetcher{errs: []error{testutil.Transient("x")}}

	_, err := NoRetry.Fetch(context.Background(), f, "x", nil)
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &scriptedFetcher{errs: []error{testutil.Transient("x"), testutil.Transient("x")}}

	slow := RetryPolicy{Attempts: 5, InitialInterval: time.Hour}
	_, err := slow.Fetch(ctx, f, "x", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.calls)
}
