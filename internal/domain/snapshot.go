package domain

import "time"

// UnknownSize marks a byte count or file count that could not be measured.
const UnknownSize int64 = -1

// RepositorySize holds the on-disk footprint of the replica.
type RepositorySize struct {
	SizeBytes int64 `json:"size_bytes"`
	FileCount int64 `json:"file_count"`
}

// WebStats summarizes recent web-server traffic for the repository,
// derived from a bounded scan of the access log tail.
type WebStats struct {
	// Reachable reports whether the web server answered a local probe.
	Reachable bool `json:"reachable"`

	UniqueClients int64 `json:"unique_clients"`
	TotalRequests int64 `json:"total_requests"`

	// Status2xx counts 200 responses, Status304 cache revalidations,
	// Status404 misses; StatusOther is everything else.
	Status2xx   int64 `json:"status_2xx"`
	Status304   int64 `json:"status_304"`
	Status404   int64 `json:"status_404"`
	StatusOther int64 `json:"status_other"`
}

// ProxyStats summarizes squid cache behaviour from its access log tail.
type ProxyStats struct {
	TotalRequests int64 `json:"total_requests"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
}

// HitRatio returns the cache hit percentage, or UnknownLag when no
// requests were observed.
func (p ProxyStats) HitRatio() float64 {
	if p.TotalRequests <= 0 {
		return UnknownLag
	}
	return float64(p.CacheHits) / float64(p.TotalRequests) * 100
}

// DiskUsage holds filesystem capacity for the partition backing the replica.
type DiskUsage struct {
	TotalBytes int64 `json:"total_bytes"`
	UsedBytes  int64 `json:"used_bytes"`

	// UsedPercent is 0-100, or UnknownLag when df could not be consulted.
	UsedPercent float64 `json:"used_percent"`
}

// Warning is one degraded-collection event raised during a pass. Warnings
// end up in the rendered report's health table and the persistent event log.
type Warning struct {
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
}

// Snapshot aggregates every metric gathered by one monitoring pass. It is
// owned by that pass: the renderer and the time-series store both consume
// it, and it is discarded afterwards.
type Snapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	Repository string    `json:"repository"`

	Size    RepositorySize `json:"size"`
	Catalog Manifest       `json:"catalog"`
	Web     WebStats       `json:"web"`
	Proxy   ProxyStats     `json:"proxy"`
	Disk    DiskUsage      `json:"disk"`

	Records  []SyncRecord `json:"records"`
	Warnings []Warning    `json:"warnings,omitempty"`
}

// Summary derives the aggregate sync counts from the snapshot's records.
func (s *Snapshot) Summary() SyncSummary {
	return Summarize(s.Records)
}

// Summarize folds a pass's comparison records into aggregate counts.
func Summarize(records []SyncRecord) SyncSummary {
	var sum SyncSummary
	sum.LatestRevision = UnknownRevision
	latest := UnknownTime

	for _, r := range records {
		switch r.Status {
		case StatusSynchronized:
			sum.Synchronized++
		case StatusUnreachable:
			sum.Unreachable++
		default:
			sum.OutOfSync++
		}
		if r.Upstream.TimeKnown() && r.Upstream.PublishedAt > latest {
			latest = r.Upstream.PublishedAt
			sum.LatestServer = r.Server
			sum.LatestRevision = r.Upstream.Revision
		}
	}
	return sum
}

// AddWarning records a degraded-collection event on the snapshot.
func (s *Snapshot) AddWarning(component, message string) {
	s.Warnings = append(s.Warnings, Warning{
		Timestamp: time.Now().UTC(),
		Component: component,
		Message:   message,
	})
}
