package monitor_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmotree/sage/internal/monitor"
)

func TestHealthzReportsHealthy(t *testing.T) {
	progress := monitor.NewProgress()
	hub := monitor.NewHub(nil)
	s := monitor.NewServer(monitor.Config{Debug: true}, progress, hub)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestProgressEndpointReportsCounters(t *testing.T) {
	progress := monitor.NewProgress()
	hub := monitor.NewHub(nil)
	s := monitor.NewServer(monitor.Config{Debug: true}, progress, hub)

	req := httptest.NewRequest(http.MethodGet, "/progress", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "filesProcessed")
}
