package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/lostfound/internal/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the value of the named counter whose labels match.
func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	m := New()

	m.SagaFinished("save_item", saga.OutcomeCompensated)
	m.SagaFinished("save_item", saga.OutcomeCompensated)
	m.DetailResolutionFailed("item_details")
	m.ClaimTransitioned("rejected", 3)
	m.ClaimTransitioned("rejected", 0)

	assert.Equal(t, 2.0, counterValue(t, m, "lostfound_saga_runs_total",
		map[string]string{"saga": "save_item", "outcome": "compensated"}))
	assert.Equal(t, 1.0, counterValue(t, m, "lostfound_detail_resolution_failures_total",
		map[string]string{"collection": "item_details"}))
	assert.Equal(t, 3.0, counterValue(t, m, "lostfound_claim_transitions_total",
		map[string]string{"status": "rejected"}))
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.SagaFinished("submit_claim", saga.OutcomeCommitted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lostfound_saga_runs_total{outcome="committed",saga="submit_claim"} 1`)
}
