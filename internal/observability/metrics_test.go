package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordServiceCall(t *testing.T) {
	okBefore := testutil.ToFloat64(serviceCalls.WithLabelValues("users", "Get", OutcomeOK))
	errBefore := testutil.ToFloat64(serviceCalls.WithLabelValues("users", "Get", OutcomeError))

	RecordServiceCall("users", "Get", nil, time.Millisecond)
	RecordServiceCall("users", "Get", errors.New("boom"), time.Millisecond)
	RecordServiceCall("users", "Get", nil, time.Millisecond)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(serviceCalls.WithLabelValues("users", "Get", OutcomeOK)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(serviceCalls.WithLabelValues("users", "Get", OutcomeError)))
}

func TestRecordPublishFailure(t *testing.T) {
	before := testutil.ToFloat64(eventPublishFailures.WithLabelValues("trainings"))
	RecordPublishFailure("trainings")
	assert.Equal(t, before+1, testutil.ToFloat64(eventPublishFailures.WithLabelValues("trainings")))
}

func TestRecordExportIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	RecordExport(ts)
	RecordExport(time.Time{})
	assert.Equal(t, float64(ts.Unix()), testutil.ToFloat64(lastExportGauge))
}

func TestPushExport(t *testing.T) {
	var method, path string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(gateway.Close)

	RecordExport(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, PushExport(context.Background(), gateway.URL))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/"+ExportJob, path)
}

func TestPushExport_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(gateway.Close)

	err := PushExport(context.Background(), gateway.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), gateway.URL)
}
