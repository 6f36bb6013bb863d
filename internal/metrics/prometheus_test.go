package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPICall(t *testing.T) {
	before := testutil.ToFloat64(APICallsTotal.WithLabelValues("playergamelog", "200"))

	RecordAPICall("playergamelog", "200", 0.12)

	after := testutil.ToFloat64(APICallsTotal.WithLabelValues("playergamelog", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("completed_with_errors"))

	RecordRun("completed_with_errors", 42)

	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("completed_with_errors")))
	assert.Greater(t, testutil.ToFloat64(LastSuccessfulRun), float64(0))
}

func TestRecordAbortedRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("aborted_loading_catalog"))

	RecordAbortedRun("loading_catalog", 1)

	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("aborted_loading_catalog")))
}

func TestRecordPlayerFailure(t *testing.T) {
	before := testutil.ToFloat64(PlayerFailures.WithLabelValues("transient"))

	RecordPlayerFailure("transient")
	RecordPlayerFailure("transient")

	assert.Equal(t, before+2, testutil.ToFloat64(PlayerFailures.WithLabelValues("transient")))
}
