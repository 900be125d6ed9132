package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

// go test -v --run TestRouterServesMetrics
func TestRouterServesMetrics(t *testing.T) {
	Iterations.Inc()
	Orders.WithLabelValues("PUT", "placed").Inc()

	srv := httptest.NewServer(NewRouter())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"optionbuyer_iterations_total", `optionbuyer_orders_total{option_type="PUT",status="placed"}`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}

	health, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil || health.StatusCode != 200 {
		t.Fatalf("healthz: %v %v", err, health)
	}
	health.Body.Close()
}
