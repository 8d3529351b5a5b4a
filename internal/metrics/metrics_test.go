// ABOUTME: Tests for the prometheus collectors
// ABOUTME: Uses testutil to read counter values after recording

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(""))
	assert.Equal(t, "FETCH_ERROR", Outcome("FETCH_ERROR"))
}

func TestRetriesCounter(t *testing.T) {
	before := testutil.ToFloat64(Retries.WithLabelValues("TEST_KIND"))
	Retries.WithLabelValues("TEST_KIND").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Retries.WithLabelValues("TEST_KIND")))
}

func TestObserveFetch(t *testing.T) {
	ObserveFetch("test_outcome", time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FetchDuration), 1)
}
