package api_test

import (
	"net/http"
	"testing"
)

func TestCORSHeadersPresent(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	res, err := srv.Client().Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer res.Body.Close()

	if got := res.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
	if got := res.Header.Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatalf("expected allowed headers to be advertised")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	// OPTIONS must succeed even on protected paths; the preflight carries
	// no Authorization header.
	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/jobs", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", res.StatusCode)
	}
}

func TestSessionMiddlewareRejectsMalformedHeader(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	token := login(t, srv, "admin")

	// valid token but missing the Bearer prefix
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/users", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", token)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Bearer prefix, got %d", res.StatusCode)
	}
}

func TestOpenEndpointsSkipSessionCheck(t *testing.T) {
	srv, _, cleanup := setupServer(t)
	defer cleanup()

	for _, path := range []string{"/health", "/version"} {
		res, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200 without a token, got %d", path, res.StatusCode)
		}
	}
}
