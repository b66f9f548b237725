package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func serverHost(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Host
}

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cvmfs/software.eessi.io/.cvmfspublished" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("C86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b\nS42\nT1712345678\n--\n"))
	}))
	defer ts.Close()

	f := NewFetcher(0)
	m, err := f.Fetch(context.Background(), serverHost(t, ts), "software.eessi.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Revision != 42 || m.PublishedAt != 1712345678 {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name:    "http 404",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			f := NewFetcher(0)
			m, err := f.Fetch(context.Background(), serverHost(t, ts), "software.eessi.io")
			if err == nil {
				t.Fatal("expected an error")
			}
			if m.RevisionKnown() {
				t.Errorf("expected an unknown manifest, got %+v", m)
			}
		})
	}
}

func TestFetch_Unreachable(t *testing.T) {
	// A closed server: the connection is refused immediately.
	ts := httptest.NewServer(http.NotFoundHandler())
	host := serverHost(t, ts)
	ts.Close()

	f := NewFetcher(2 * time.Second)
	if _, err := f.Fetch(context.Background(), host, "software.eessi.io"); err == nil {
		t.Fatal("expected an error for a refused connection")
	}
}

func TestProbe(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	f := NewFetcher(0)
	// Any HTTP response, even a 404, proves the host is serving.
	if !f.Probe(context.Background(), serverHost(t, ts), "software.eessi.io") {
		t.Error("expected probe to succeed against a live server")
	}

	ts.Close()
	if f.Probe(context.Background(), serverHost(t, ts), "software.eessi.io") {
		t.Error("expected probe to fail against a closed server")
	}
}
