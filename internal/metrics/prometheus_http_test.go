package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestHTTPHandlerServesRecordedMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetDirtyWorktrees(3)
	pr.IncSaveOutcome(ResultSuccess)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "wikistore_dirty_worktrees 3") {
		t.Errorf("dirty worktree gauge not exposed:\n%s", body)
	}
	if !strings.Contains(body, `wikistore_save_outcomes_total{result="success"} 1`) {
		t.Errorf("save outcome counter not exposed:\n%s", body)
	}
}
