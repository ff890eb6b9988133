package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	cases := []struct {
		name       string
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		{"reachable", nil, http.StatusOK, `"ok"`},
		{"unreachable", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, `"degraded"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Health(pingerFunc(func(context.Context) error { return tc.pingErr }))

			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if rr.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %q", ct)
			}
			if !strings.Contains(rr.Body.String(), tc.wantStatus) {
				t.Errorf("expected %s in body, got %s", tc.wantStatus, rr.Body.String())
			}
		})
	}
}
