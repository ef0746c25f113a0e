package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInit_Idempotent(t *testing.T) {
	Init()
	require.NotPanics(t, Init)
}

func TestObserve_DoesNotPanic(t *testing.T) {
	Init()
	require.NotPanics(t, func() {
		ObserveFetch("Reddit search", "success")
		ObserveFetch("Reddit search", "error")
		ObserveCandidate("Hacker News")
		ObserveCycle(3*time.Second, 2)
		ObserveSnapshotRead()
	})
}

func TestHandler_ServesRegistry(t *testing.T) {
	Init()
	ObserveFetch("Bluesky search", "success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "hunter_fetches_total")
}
