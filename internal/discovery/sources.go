package discovery

import "strings"

// serverURLHosts extracts hostnames from a CVMFS configuration snippet.
// The interesting directives look like
//
//	CVMFS_SERVER_URL="http://s1.example.org/cvmfs/@fqrn@;http://s2.example.org/cvmfs/@fqrn@"
//
// where each semicolon-separated entry is a URL template.
func serverURLHosts(conf string) []string {
	var hosts []string
	for _, line := range strings.Split(conf, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "CVMFS_SERVER_URL" {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		for _, entry := range strings.Split(value, ";") {
			if host := Hostname(entry); host != "" {
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}

// Hostname reduces a URL or bare host string to its host part.
// Ports are preserved; schemes, paths, and surrounding whitespace are not.
func Hostname(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, rest, ok := strings.Cut(s, "://"); ok {
		s = rest
	}
	if host, _, ok := strings.Cut(s, "/"); ok {
		s = host
	}
	// Placeholder-only entries like "@fqrn@" are not hostnames.
	if strings.ContainsAny(s, "@ \t") {
		return ""
	}
	return s
}
