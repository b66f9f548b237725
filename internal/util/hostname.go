package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validHostChars matches only alphanumeric characters, hyphens, and periods.
var validHostChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateHostname checks that an upstream server argument is a plausible
// RFC 1123 hostname, optionally followed by a :port suffix:
//   - At least 2 characters
//   - Only alphanumeric characters (a-z, A-Z, 0-9), hyphens (-), and periods (.)
//   - First character must be alphanumeric
//   - Last character must not be a hyphen or period
func ValidateHostname(host string) error {
	if h, port, ok := strings.Cut(host, ":"); ok {
		if _, err := strconv.Atoi(port); err != nil || port == "" {
			return fmt.Errorf("server %q has an invalid port %q", host, port)
		}
		host = h
	}

	if len(host) < 2 {
		return fmt.Errorf("server name must be at least 2 characters, got %d", len(host))
	}

	if !validHostChars.MatchString(host) {
		return fmt.Errorf("server name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", host)
	}

	first := host[0]
	if !isAlphanumeric(first) {
		return fmt.Errorf("server name must start with an alphanumeric character, got %q", string(first))
	}

	last := host[len(host)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("server name must not end with a hyphen or period, got %q", string(last))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
