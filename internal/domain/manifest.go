package domain

// Unknown sentinels for manifest fields. Collection is best-effort: any
// field that cannot be read stays at its sentinel and downstream code
// must render it as "unknown" rather than fail.
const (
	// UnknownRevision marks a revision that could not be determined.
	UnknownRevision int64 = -1

	// UnknownTime marks a publish timestamp that could not be determined.
	UnknownTime int64 = -1
)

// Manifest represents one CVMFS published-catalog state, read either from
// the local replica's .cvmfspublished file or fetched from an upstream
// server. Manifests are read fresh on every monitoring pass and never
// mutated; only derived metrics outlive the pass.
type Manifest struct {
	// Revision is the monotonically increasing catalog revision.
	// UnknownRevision if it could not be parsed.
	Revision int64 `json:"revision"`

	// RootHash is the content hash of the root catalog (40 hex chars).
	// Empty if unknown.
	RootHash string `json:"root_hash,omitempty"`

	// PublishedAt is the publish time in seconds since the epoch.
	// UnknownTime if unknown.
	PublishedAt int64 `json:"published_at"`
}

// UnknownManifest returns a manifest with every field at its sentinel.
func UnknownManifest() Manifest {
	return Manifest{
		Revision:    UnknownRevision,
		PublishedAt: UnknownTime,
	}
}

// RevisionKnown reports whether the revision was successfully read.
func (m Manifest) RevisionKnown() bool { return m.Revision != UnknownRevision }

// HashKnown reports whether the root hash was successfully read.
func (m Manifest) HashKnown() bool { return m.RootHash != "" }

// TimeKnown reports whether the publish timestamp was successfully read.
func (m Manifest) TimeKnown() bool { return m.PublishedAt != UnknownTime }
