package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubChecker struct {
	name   string
	result *Result
	delay  time.Duration
}

func (s *stubChecker) Name() string {
	return s.name
}

func (s *stubChecker) Check(ctx context.Context) *Result {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Unhealthy("check cancelled")
		}
	}
	return s.result
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]*Result
		want    Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", map[string]*Result{"a": Healthy("ok"), "b": Healthy("ok")}, StatusHealthy},
		{"one degraded", map[string]*Result{"a": Healthy("ok"), "b": Degraded("slow")}, StatusDegraded},
		{"unhealthy wins", map[string]*Result{"a": Degraded("slow"), "b": Unhealthy("down")}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestManagerCheckTimeout(t *testing.T) {
	m := NewManager().WithTimeout(20 * time.Millisecond)
	m.AddChecker(&stubChecker{name: "slow", result: Healthy("ok"), delay: time.Second})
	m.AddChecker(&stubChecker{name: "fast", result: Healthy("ok")})

	results := m.Check(context.Background())

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["slow"].Status != StatusUnhealthy {
		t.Errorf("slow check should time out, got %s", results["slow"].Status)
	}
	if results["fast"].Status != StatusHealthy {
		t.Errorf("fast check should pass, got %s", results["fast"].Status)
	}
}

func TestProbeManager(t *testing.T) {
	pm := NewProbeManager("1.2.3")
	pm.AddChecker(&stubChecker{name: "store", result: Healthy("ok")})

	if got := pm.CheckReadiness(context.Background()); got.Status != StatusHealthy || got.Version != "1.2.3" {
		t.Errorf("unexpected readiness before shutdown: %+v", got)
	}

	pm.MarkShutdown()

	if got := pm.CheckReadiness(context.Background()); got.Status != StatusUnhealthy {
		t.Errorf("readiness should fail during shutdown, got %s", got.Status)
	}
	if got := pm.CheckLiveness(context.Background()); got.Status != StatusDegraded {
		t.Errorf("liveness should be degraded during shutdown, got %s", got.Status)
	}
}

func TestBackendChecker(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ok.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name string
		url  string
		want Status
	}{
		{"reachable", ok.URL, StatusHealthy},
		{"server error", broken.URL, StatusUnhealthy},
		{"unreachable", closedURL, StatusUnhealthy},
		{"unconfigured", "", StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewBackendChecker(tt.url, nil).Check(context.Background())
			if res.Status != tt.want {
				t.Errorf("status = %s, want %s (%s)", res.Status, tt.want, res.Message)
			}
		})
	}
}
