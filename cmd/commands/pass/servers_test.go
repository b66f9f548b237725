package pass

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

func TestServers_ExplicitFlags(t *testing.T) {
	setupTestConfig(t)

	stdout, _, err := execPass(t,
		"servers", "--server", "s1.example.org", "--server", "s2.example.org")
	if err != nil {
		t.Fatalf("servers failed: %v", err)
	}

	for _, want := range []string{"s1.example.org", "s2.example.org", "flag"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestServers_FromFileJSON(t *testing.T) {
	setupTestConfig(t)

	path := filepath.Join(t.TempDir(), "servers.txt")
	content := "# upstream mirrors\ns1.example.org\n\ns2.example.org\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write servers file: %v", err)
	}

	stdout, _, err := execPass(t, "servers", "--servers-file", path, "-o", "json")
	if err != nil {
		t.Fatalf("servers failed: %v", err)
	}

	var servers []domain.Server
	if err := json.Unmarshal([]byte(stdout), &servers); err != nil {
		t.Fatalf("failed to decode JSON output: %v\n%s", err, stdout)
	}
	if len(servers) != 2 {
		t.Fatalf("servers = %d, want 2", len(servers))
	}
	if servers[0].Host != "s1.example.org" || servers[0].Source != domain.SourceFile {
		t.Errorf("unexpected first entry: %+v", servers[0])
	}
}

func TestServers_MissingFile(t *testing.T) {
	setupTestConfig(t)

	_, _, err := execPass(t, "servers", "--servers-file", filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing servers file")
	}
}
