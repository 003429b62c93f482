package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// BackendChecker probes the portal API base URL. Any response below 500
// counts as reachable, since most API roots answer 404 or 401.
type BackendChecker struct {
	url    string
	client *http.Client
}

// NewBackendChecker creates a checker for the given URL.
func NewBackendChecker(url string, client *http.Client) *BackendChecker {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &BackendChecker{url: url, client: client}
}

func (b *BackendChecker) Name() string {
	return "portal-backend"
}

func (b *BackendChecker) Check(ctx context.Context) *Result {
	if b.url == "" {
		return Degraded("no backend configured; demo sessions only")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return Unhealthy("invalid backend URL").WithDetail("error", err.Error())
	}

	start := time.Now()
	resp, err := b.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		res := Unhealthy("backend unreachable").WithDetail("url", b.url).WithDetail("error", err.Error())
		res.Latency = latency
		return res
	}
	defer resp.Body.Close()

	var res *Result
	if resp.StatusCode >= http.StatusInternalServerError {
		res = Unhealthy(fmt.Sprintf("backend answered %d", resp.StatusCode))
	} else {
		res = Healthy("backend reachable")
	}
	res.WithDetail("url", b.url).WithDetail("status", resp.StatusCode)
	res.Latency = latency
	return res
}
