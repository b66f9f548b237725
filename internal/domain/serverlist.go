package domain

import "strings"

// Discovery source labels, recorded on each server so operators can see
// where an upstream entry came from.
const (
	SourceFlag        = "flag"
	SourceFile        = "file"
	SourceReplicaInfo = "replica-info"
	SourceConfigScan  = "config-scan"
	SourceMirrorProbe = "mirror-probe"
	SourcePlaceholder = "placeholder"
)

// Server is one upstream Stratum-0/Stratum-1 host to compare against.
type Server struct {
	// Host is the bare hostname (no scheme, no path).
	Host string `json:"host"`

	// Source records which discovery step produced this entry.
	Source string `json:"source"`

	// Probed reports whether the host answered a reachability probe
	// during discovery. Placeholder entries are never probed and need
	// connectivity verification before their results are trusted.
	Probed bool `json:"probed"`
}

// ServerList is the deduplicated, order-preserving set of upstream hosts
// for one monitoring pass. It is built once at the start of a pass and
// read-only afterwards.
type ServerList struct {
	servers []Server
	seen    map[string]bool
}

// Add appends a server unless its hostname is already present.
// Hostnames are compared case-insensitively. Returns true if added.
func (l *ServerList) Add(s Server) bool {
	key := strings.ToLower(strings.TrimSpace(s.Host))
	if key == "" {
		return false
	}
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	if l.seen[key] {
		return false
	}
	l.seen[key] = true
	s.Host = strings.TrimSpace(s.Host)
	l.servers = append(l.servers, s)
	return true
}

// Contains reports whether the hostname is already in the list.
func (l *ServerList) Contains(host string) bool {
	return l.seen[strings.ToLower(strings.TrimSpace(host))]
}

// Servers returns the entries in insertion order.
func (l *ServerList) Servers() []Server { return l.servers }

// Len returns the number of entries.
func (l *ServerList) Len() int { return len(l.servers) }
