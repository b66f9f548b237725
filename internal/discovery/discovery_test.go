package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

type fakeRunner struct {
	out []byte
	err error
}

func (f *fakeRunner) Output(context.Context, string, ...string) ([]byte, error) {
	return f.out, f.err
}

func hosts(list domain.ServerList) []string {
	var out []string
	for _, s := range list.Servers() {
		out = append(out, s.Host)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_ExplicitSkipsDiscovery(t *testing.T) {
	// A runner that would panic proves discovery is never consulted.
	r := New(nil, nil)

	list, err := r.Resolve(context.Background(), Options{
		Repository: "software.eessi.io",
		Explicit:   []string{"s1.example.org", "http://s2.example.org/cvmfs/x", "s1.example.org"},
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	want := []string{"s1.example.org", "s2.example.org"}
	if diff := cmp.Diff(want, hosts(list)); diff != "" {
		t.Errorf("server list mismatch (-want +got):\n%s", diff)
	}
	for _, s := range list.Servers() {
		if s.Source != domain.SourceFlag {
			t.Errorf("server %s source = %q, want flag", s.Host, s.Source)
		}
	}
}

func TestResolve_ServersFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "servers", `
# primary
s1.example.org

  # secondary, indented comment
s2.example.org
s1.example.org
`)

	list, err := New(nil, nil).Resolve(context.Background(), Options{ServersFile: path})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := []string{"s1.example.org", "s2.example.org"}
	if diff := cmp.Diff(want, hosts(list)); diff != "" {
		t.Errorf("server list mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ServersFileMissing(t *testing.T) {
	_, err := New(nil, nil).Resolve(context.Background(), Options{
		ServersFile: filepath.Join(t.TempDir(), "nope"),
	})
	if err == nil {
		t.Fatal("expected an error for an unreadable servers file")
	}
}

func TestResolve_ReplicaInfo(t *testing.T) {
	runner := &fakeRunner{out: []byte(
		"Repository name: software.eessi.io\n" +
			"Stratum0: http://stratum0.internal.example.org/cvmfs/software.eessi.io\n",
	)}

	list, err := New(runner, nil).Resolve(context.Background(), Options{Repository: "software.eessi.io"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"stratum0.internal.example.org"}
	if diff := cmp.Diff(want, hosts(list)); diff != "" {
		t.Errorf("server list mismatch (-want +got):\n%s", diff)
	}
	if list.Servers()[0].Source != domain.SourceReplicaInfo {
		t.Errorf("source = %q, want replica-info", list.Servers()[0].Source)
	}
}

func TestResolve_ConfigScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "eessi.io.conf",
		`CVMFS_SERVER_URL="http://s1.example.org/cvmfs/@fqrn@;http://s2.example.org/cvmfs/@fqrn@"`+"\n"+
			`CVMFS_KEYS_DIR="/etc/cvmfs/keys/eessi.io"`+"\n")
	writeFile(t, dir, "notes.txt", "CVMFS_SERVER_URL=http://ignored.example.org/cvmfs/x\n")

	// Replication tool errors out, so the chain advances to the scan.
	runner := &fakeRunner{err: errors.New("cvmfs_server: command not found")}

	list, err := New(runner, nil).Resolve(context.Background(), Options{
		Repository: "software.eessi.io",
		ConfigDirs: []string{dir, filepath.Join(dir, "absent")},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"s1.example.org", "s2.example.org"}
	if diff := cmp.Diff(want, hosts(list)); diff != "" {
		t.Errorf("server list mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_MirrorProbeStopsAtFirstSuccess(t *testing.T) {
	var probed []string
	probe := func(_ context.Context, server string) bool {
		probed = append(probed, server)
		return server == "m2.example.org"
	}

	list, err := New(&fakeRunner{err: errors.New("no tool")}, probe).Resolve(context.Background(), Options{
		Repository: "software.eessi.io",
		ConfigDirs: []string{filepath.Join(t.TempDir(), "empty")},
		Mirrors:    []string{"m1.example.org", "m2.example.org", "m3.example.org"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"m2.example.org"}, hosts(list)); diff != "" {
		t.Errorf("server list mismatch (-want +got):\n%s", diff)
	}
	// Ordered fallback: m3 must never have been tried.
	if diff := cmp.Diff([]string{"m1.example.org", "m2.example.org"}, probed); diff != "" {
		t.Errorf("probe order mismatch (-want +got):\n%s", diff)
	}
	if !list.Servers()[0].Probed {
		t.Error("mirror-probe entries must be marked as probed")
	}
}

func TestResolve_MirrorProbeSkippedForPrivateRepos(t *testing.T) {
	probe := func(context.Context, string) bool {
		t.Fatal("probe must not run for non-public namespaces")
		return false
	}

	list, err := New(nil, probe).Resolve(context.Background(), Options{
		Repository: "internal.company.example",
		ConfigDirs: []string{filepath.Join(t.TempDir(), "empty")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if list.Servers()[0].Host != Placeholder {
		t.Errorf("expected placeholder, got %q", list.Servers()[0].Host)
	}
}

func TestResolve_PlaceholderLastResort(t *testing.T) {
	probe := func(context.Context, string) bool { return false }

	list, err := New(&fakeRunner{err: errors.New("no tool")}, probe).Resolve(context.Background(), Options{
		Repository: "software.eessi.io",
		ConfigDirs: []string{filepath.Join(t.TempDir(), "empty")},
		Mirrors:    []string{"m1.example.org"},
	})
	if err != nil {
		t.Fatal(err)
	}

	servers := list.Servers()
	if len(servers) != 1 || servers[0].Host != Placeholder {
		t.Fatalf("expected only the placeholder, got %v", hosts(list))
	}
	if servers[0].Source != domain.SourcePlaceholder || servers[0].Probed {
		t.Errorf("placeholder must be unprobed and flagged: %+v", servers[0])
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"s1.example.org", "s1.example.org"},
		{"http://s1.example.org/cvmfs/repo", "s1.example.org"},
		{"https://s1.example.org:8080/cvmfs/repo", "s1.example.org:8080"},
		{"  s1.example.org  ", "s1.example.org"},
		{"@fqrn@", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Hostname(tt.in); got != tt.want {
			t.Errorf("Hostname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
