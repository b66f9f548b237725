package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

const (
	// DefaultFetchTimeout bounds a full manifest download from one server.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultProbeTimeout bounds a reachability probe. Probes run inside
	// the discovery fallback chain, so they stay short.
	DefaultProbeTimeout = 3 * time.Second

	// maxManifestSize caps how much of a response body is read. Real
	// manifests are well under 1 KiB; anything larger is not a manifest.
	maxManifestSize = 64 * 1024
)

// Fetcher retrieves published manifests from upstream servers over plain
// HTTP. The zero value is not usable; call NewFetcher.
type Fetcher struct {
	client       *http.Client
	probeClient  *http.Client
	fetchTimeout time.Duration
}

// NewFetcher returns a fetcher with the given per-request timeout.
// A non-positive timeout falls back to DefaultFetchTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		probeClient:  &http.Client{Timeout: DefaultProbeTimeout},
		fetchTimeout: timeout,
	}
}

// URL returns the manifest URL for a repository on a server.
// CVMFS serves repositories over plain HTTP; the manifest's embedded
// signature provides authenticity, not the transport.
func URL(server, repository string) string {
	return fmt.Sprintf("http://%s/cvmfs/%s/.cvmfspublished", server, repository)
}

// Fetch downloads and parses the manifest for repository from server.
// Transport failures, non-2xx responses, and empty bodies all return an
// error; the caller records the server as unreachable and moves on.
func (f *Fetcher) Fetch(ctx context.Context, server, repository string) (domain.Manifest, error) {
	url := URL(server, repository)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.UnknownManifest(), fmt.Errorf("manifest: building request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.UnknownManifest(), fmt.Errorf("manifest: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.UnknownManifest(), fmt.Errorf("manifest: %s returned HTTP %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return domain.UnknownManifest(), fmt.Errorf("manifest: reading %s: %w", url, err)
	}
	if len(raw) == 0 {
		return domain.UnknownManifest(), fmt.Errorf("manifest: %s returned an empty body", url)
	}

	return Parse(raw), nil
}

// Probe issues a HEAD request for the repository manifest on server and
// reports whether the server answered at all. Any HTTP response counts:
// a 404 still proves the host is alive and serving.
func (f *Fetcher) Probe(ctx context.Context, server, repository string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, URL(server, repository), nil)
	if err != nil {
		return false
	}
	resp, err := f.probeClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
