package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.ObserveResolution(3*time.Millisecond, 12)
	r.ObserveResolution(2*time.Millisecond, 4)
	r.ObserveError("CATALOG_MISS", "Cassette")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.resolutions))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("CATALOG_MISS", "Cassette")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveResolution(time.Millisecond, 1)
		r.ObserveError("RULE_MISMATCH", "Chain")
	})
}
