package comparator

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func manifest(rev int64, hash string, published int64) domain.Manifest {
	return domain.Manifest{Revision: rev, RootHash: hash, PublishedAt: published}
}

func TestClassify(t *testing.T) {
	const (
		hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
		hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	)

	tests := []struct {
		name       string
		local      domain.Manifest
		upstream   domain.Manifest
		wantStatus domain.SyncStatus
		wantLag    float64
	}{
		{
			name:       "identical manifests are synchronized",
			local:      manifest(42, hashA, 1000),
			upstream:   manifest(42, hashA, 1000),
			wantStatus: domain.StatusSynchronized,
			wantLag:    domain.UnknownLag,
		},
		{
			name:       "equal revision with diverging hash is a mismatch",
			local:      manifest(42, hashA, 1000),
			upstream:   manifest(42, hashB, 1000),
			wantStatus: domain.StatusHashMismatch,
			wantLag:    domain.UnknownLag,
		},
		{
			name:       "equal revision with one unknown hash stays synchronized",
			local:      manifest(42, "", 1000),
			upstream:   manifest(42, hashB, 1000),
			wantStatus: domain.StatusSynchronized,
			wantLag:    domain.UnknownLag,
		},
		{
			name:       "upstream newer is out of sync with lag",
			local:      manifest(40, hashA, 900),
			upstream:   manifest(42, hashB, 5400),
			wantStatus: domain.StatusOutOfSync,
			wantLag:    1.25,
		},
		{
			name:       "local newer is ahead of upstream",
			local:      manifest(44, hashA, 5400),
			upstream:   manifest(42, hashB, 900),
			wantStatus: domain.StatusAheadOfUpstream,
			wantLag:    domain.UnknownLag,
		},
		{
			name:       "revision drift without timestamps has no lag estimate",
			local:      manifest(40, hashA, domain.UnknownTime),
			upstream:   manifest(42, hashB, 5400),
			wantStatus: domain.StatusOutOfSync,
			wantLag:    domain.UnknownLag,
		},
		{
			name:       "unknown local revision cannot claim sync",
			local:      manifest(domain.UnknownRevision, "", 900),
			upstream:   manifest(domain.UnknownRevision, "", 5400),
			wantStatus: domain.StatusOutOfSync,
			wantLag:    1.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Classify(testTime, "s1.example.org", tt.local, tt.upstream)
			if rec.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", rec.Status, tt.wantStatus)
			}
			if math.Abs(rec.LagHours-tt.wantLag) > 1e-9 {
				t.Errorf("lag = %v, want %v", rec.LagHours, tt.wantLag)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	local := manifest(40, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 900)
	upstream := manifest(42, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 5400)

	first := Classify(testTime, "s1", local, upstream)
	for i := 0; i < 5; i++ {
		if got := Classify(testTime, "s1", local, upstream); got.Status != first.Status {
			t.Fatalf("classification changed between runs: %v vs %v", got.Status, first.Status)
		}
	}
}

func TestCompare_UnreachableContinues(t *testing.T) {
	local := manifest(42, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1000)

	fetch := func(_ context.Context, server string) (domain.Manifest, error) {
		if server == "down.example.org" {
			return domain.UnknownManifest(), errors.New("connection refused")
		}
		return local, nil
	}

	var servers domain.ServerList
	servers.Add(domain.Server{Host: "down.example.org"})
	servers.Add(domain.Server{Host: "up.example.org"})

	records := New(fetch, nil).Compare(context.Background(), local, servers)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].Status != domain.StatusUnreachable {
		t.Errorf("first record status = %v, want unreachable", records[0].Status)
	}
	if records[0].Upstream.RevisionKnown() {
		t.Errorf("unreachable record must carry an unknown upstream revision")
	}
	if records[1].Status != domain.StatusSynchronized {
		t.Errorf("second record status = %v, want synchronized", records[1].Status)
	}
}

func TestSummary_LatestServer(t *testing.T) {
	snap := &domain.Snapshot{
		Records: []domain.SyncRecord{
			Classify(testTime, "slow", manifest(40, "", 900), manifest(41, "", 2000)),
			Classify(testTime, "fresh", manifest(40, "", 900), manifest(42, "", 9000)),
			{Server: "dead", Status: domain.StatusUnreachable, Upstream: domain.UnknownManifest()},
		},
	}

	sum := snap.Summary()
	if sum.LatestServer != "fresh" {
		t.Errorf("latest server = %q, want %q", sum.LatestServer, "fresh")
	}
	if sum.LatestRevision != 42 {
		t.Errorf("latest revision = %d, want 42", sum.LatestRevision)
	}
	if sum.OutOfSync != 2 || sum.Unreachable != 1 || sum.Synchronized != 0 {
		t.Errorf("unexpected summary counts: %+v", sum)
	}
}
