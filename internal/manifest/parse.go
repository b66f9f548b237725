// Package manifest reads CVMFS published-catalog manifests
// (.cvmfspublished files) from the local filesystem or over HTTP.
//
// The manifest is a small key-tagged blob: a text header of one-letter
// tagged lines (C<root hash>, S<revision>, T<timestamp>, ...) followed by
// a binary signature section. Parsing is deliberately tolerant: the blob
// is treated as an opaque byte stream, tokens are recovered by pattern
// matching, and any field that cannot be recovered stays at its unknown
// sentinel. A garbled manifest must never abort a monitoring pass.
package manifest

import (
	"bytes"
	"os"
	"regexp"
	"strconv"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// Header tags used by the CVMFS published-manifest format.
const (
	tagRootHash  = 'C'
	tagRevision  = 'S'
	tagTimestamp = 'T'
)

// headerTerminator separates the text header from the binary signature.
var headerTerminator = []byte("--")

var (
	rootHashPattern  = regexp.MustCompile(`\b[0-9a-f]{40}\b`)
	revisionPattern  = regexp.MustCompile(`\b[0-9]{1,8}\b`)
	timestampPattern = regexp.MustCompile(`\b[0-9]{10}\b`)
)

// Parse extracts revision, root hash, and publish timestamp from a raw
// manifest blob. It first walks the tagged header lines; for any field
// still unknown it falls back to a byte-pattern scan of the whole blob.
// Parse never fails: unrecoverable fields stay at their sentinels.
func Parse(raw []byte) domain.Manifest {
	m := domain.UnknownManifest()
	if len(raw) == 0 {
		return m
	}

	for _, line := range bytes.Split(raw, []byte{'\n'}) {
		if bytes.Equal(bytes.TrimSpace(line), headerTerminator) {
			break
		}
		if len(line) < 2 {
			continue
		}
		value := string(bytes.TrimSpace(line[1:]))
		switch line[0] {
		case tagRevision:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
				m.Revision = n
			}
		case tagRootHash:
			if rootHashPattern.MatchString(value) {
				m.RootHash = rootHashPattern.FindString(value)
			}
		case tagTimestamp:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
				m.PublishedAt = n
			}
		}
	}

	// Heuristic fallback for blobs whose header did not yield every field.
	// The patterns mirror what the tagged lines would have contained:
	// a 40-hex root hash, a short decimal revision, a 10-digit epoch.
	if !m.HashKnown() {
		if h := rootHashPattern.Find(raw); h != nil {
			m.RootHash = string(h)
		}
	}
	if !m.TimeKnown() {
		if t := timestampPattern.Find(raw); t != nil {
			if n, err := strconv.ParseInt(string(t), 10, 64); err == nil {
				m.PublishedAt = n
			}
		}
	}
	if !m.RevisionKnown() {
		if r := findRevisionToken(raw, m); r >= 0 {
			m.Revision = r
		}
	}

	return m
}

// findRevisionToken scans for a plausible revision: a short decimal token
// that is not the already-claimed timestamp and not part of the root hash.
func findRevisionToken(raw []byte, m domain.Manifest) int64 {
	for _, tok := range revisionPattern.FindAll(raw, 16) {
		if m.TimeKnown() && string(tok) == strconv.FormatInt(m.PublishedAt, 10) {
			continue
		}
		if m.HashKnown() && bytes.Contains([]byte(m.RootHash), tok) {
			continue
		}
		n, err := strconv.ParseInt(string(tok), 10, 64)
		if err != nil {
			continue
		}
		return n
	}
	return -1
}

// ReadFile parses the manifest at path. A missing or unreadable file
// yields a fully-unknown manifest and the read error for the caller to
// log; the manifest itself is always usable.
func ReadFile(path string) (domain.Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.UnknownManifest(), err
	}
	return Parse(raw), nil
}
