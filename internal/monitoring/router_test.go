package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		method   string
		path     string
		wantCode int
	}{
		{name: "healthy", ready: true, method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "gateway down", ready: false, method: http.MethodGet, path: "/health", wantCode: http.StatusServiceUnavailable},
		{name: "metrics", ready: true, method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
		{name: "not found", ready: true, method: http.MethodGet, path: "/nope", wantCode: http.StatusNotFound},
		{name: "wrong method", ready: true, method: http.MethodPost, path: "/metrics", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ready := tt.ready
			checker := NewChecker(zap.NewNop(), func() bool { return ready }, nil)
			router := NewRouter(checker)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestNotFoundBody(t *testing.T) {
	rec := httptest.NewRecorder()
	notFound(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"not found"}`, rec.Body.String())
}

func TestCheckerReportsDataFiles(t *testing.T) {
	checker := NewChecker(zap.NewNop(), func() bool { return true }, func() error { return errors.New("read-only") })
	router := NewRouter(checker)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
