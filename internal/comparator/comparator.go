// Package comparator classifies a local Stratum-1 replica against its
// upstream servers. It owns the per-server comparison rules and nothing
// else: fetching is injected, persistence and rendering happen elsewhere.
package comparator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// FetchFunc retrieves the published manifest for one upstream server.
type FetchFunc func(ctx context.Context, server string) (domain.Manifest, error)

// Comparator compares the local manifest against each upstream in turn.
type Comparator struct {
	fetch FetchFunc
	log   *logrus.Entry
	now   func() time.Time
}

// New returns a comparator using fetch to retrieve upstream manifests.
func New(fetch FetchFunc, log *logrus.Entry) *Comparator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Comparator{fetch: fetch, log: log, now: time.Now}
}

// Compare produces one SyncRecord per server, in server-list order.
// Servers are compared sequentially; an unreachable upstream yields an
// Unreachable record and the pass moves on. Retries belong to the next
// scheduled pass, not this one.
func (c *Comparator) Compare(ctx context.Context, local domain.Manifest, servers domain.ServerList) []domain.SyncRecord {
	records := make([]domain.SyncRecord, 0, servers.Len())

	for _, server := range servers.Servers() {
		upstream, err := c.fetch(ctx, server.Host)
		if err != nil {
			c.log.WithField("server", server.Host).WithError(err).Warn("upstream manifest unreachable")
			records = append(records, domain.SyncRecord{
				Timestamp: c.now().UTC(),
				Server:    server.Host,
				Local:     local,
				Upstream:  domain.UnknownManifest(),
				Status:    domain.StatusUnreachable,
				LagHours:  domain.UnknownLag,
			})
			continue
		}

		records = append(records, Classify(c.now().UTC(), server.Host, local, upstream))
	}

	return records
}

// Classify applies the comparison rules to one local/upstream manifest
// pair. It is a pure function: the same pair always yields the same
// status. Rules, first match wins:
//
//  1. Equal revisions are tentatively synchronized, but a root-hash
//     disagreement (both hashes known, unequal) overrides to
//     HashMismatch. Matching revisions with diverging content is either
//     corruption or a parsing bug; it must never pass silently.
//  2. Differing revisions with both publish timestamps known classify by
//     timestamp order: upstream newer is OutOfSync, local newer is
//     AheadOfUpstream. The lag estimate only applies to OutOfSync.
//  3. Differing revisions without both timestamps are OutOfSync with no
//     lag estimate.
//
// Unknown fields never abort classification; they only reduce how
// specific it can be.
func Classify(at time.Time, server string, local, upstream domain.Manifest) domain.SyncRecord {
	rec := domain.SyncRecord{
		Timestamp: at,
		Server:    server,
		Local:     local,
		Upstream:  upstream,
		LagHours:  domain.UnknownLag,
	}

	switch {
	// An unknown revision on either side can never claim synchronization.
	case local.RevisionKnown() && upstream.RevisionKnown() && local.Revision == upstream.Revision:
		rec.Status = domain.StatusSynchronized
		if local.HashKnown() && upstream.HashKnown() && local.RootHash != upstream.RootHash {
			rec.Status = domain.StatusHashMismatch
		}

	case local.TimeKnown() && upstream.TimeKnown():
		if upstream.PublishedAt > local.PublishedAt {
			rec.Status = domain.StatusOutOfSync
			rec.LagHours = float64(upstream.PublishedAt-local.PublishedAt) / 3600
		} else {
			rec.Status = domain.StatusAheadOfUpstream
		}

	default:
		rec.Status = domain.StatusOutOfSync
	}

	return rec
}
