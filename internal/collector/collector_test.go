package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// fakeRunner maps "name arg1 arg2" to canned output.
type fakeRunner struct {
	outputs map[string][]byte
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := name
	for _, a := range args {
		key += " " + a
	}
	out, ok := f.outputs[key]
	if !ok {
		return nil, errors.New("command not found")
	}
	return out, nil
}

const dfOutput = `Filesystem     1024-blocks     Used Available Capacity Mounted on
/dev/vda1         41152736 25051796  16084556      61% /srv
`

const serverInfoOutput = `Repository name: software.eessi.io
Revision: 42
Root hash: 86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b
Timestamp: 1712345678
`

func repoDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestSnapshot_MissingRepository(t *testing.T) {
	c := New(Config{
		Repository:     "software.eessi.io",
		RepositoryPath: filepath.Join(t.TempDir(), "does-not-exist"),
	}, &fakeRunner{})

	_, err := c.Snapshot(context.Background())
	if !errors.Is(err, domain.ErrRepositoryMissing) {
		t.Fatalf("expected ErrRepositoryMissing, got %v", err)
	}
}

func TestSnapshot_FullCollection(t *testing.T) {
	dir := repoDir(t, map[string]string{
		"data/aa/objectfile": "0123456789",
		"data/bb/otherfile":  "01234",
		".cvmfspublished":    "S41\nT1700000000\n--\n",
	})

	webLog := filepath.Join(t.TempDir(), "access_log")
	logLines := ""
	for i := 0; i < 3; i++ {
		logLines += fmt.Sprintf("10.0.0.%d - - [01/Mar/2025:12:00:00 +0000] \"GET /cvmfs/software.eessi.io/.cvmfspublished HTTP/1.1\" 200 480\n", i%2)
	}
	logLines += "10.0.0.9 - - [01/Mar/2025:12:00:01 +0000] \"GET /cvmfs/software.eessi.io/data/xx HTTP/1.1\" 404 196\n"
	logLines += "10.0.0.9 - - [01/Mar/2025:12:00:02 +0000] \"GET /other/path HTTP/1.1\" 200 100\n"
	if err := os.WriteFile(webLog, []byte(logLines), 0o644); err != nil {
		t.Fatal(err)
	}

	proxyLog := filepath.Join(t.TempDir(), "squid_log")
	proxyLines := "1712345678.000    12 10.0.0.1 TCP_HIT/200 480 GET http://s1/cvmfs/x - HIER_NONE/- application/octet-stream\n" +
		"1712345679.000    80 10.0.0.1 TCP_MISS/200 480 GET http://s1/cvmfs/y - HIER_DIRECT/s1 application/octet-stream\n" +
		"1712345680.000    11 10.0.0.2 TCP_MEM_HIT/200 480 GET http://s1/cvmfs/z - HIER_NONE/- application/octet-stream\n"
	if err := os.WriteFile(proxyLog, []byte(proxyLines), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{outputs: map[string][]byte{
		"cvmfs_server info software.eessi.io": []byte(serverInfoOutput),
		"df -P " + dir:                        []byte(dfOutput),
	}}

	c := New(Config{
		Repository:     "software.eessi.io",
		RepositoryPath: dir,
		WebLog:         webLog,
		ProxyLog:       proxyLog,
	}, runner)
	c.SetProbe(func(context.Context) bool { return true })

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}

	if snap.Size.SizeBytes != 15+int64(len("S41\nT1700000000\n--\n")) {
		t.Errorf("size bytes = %d", snap.Size.SizeBytes)
	}
	if snap.Size.FileCount != 3 {
		t.Errorf("file count = %d, want 3", snap.Size.FileCount)
	}

	// The tool answered, so the manifest fallback must not be used.
	if snap.Catalog.Revision != 42 {
		t.Errorf("catalog revision = %d, want 42 (from cvmfs_server)", snap.Catalog.Revision)
	}

	if !snap.Web.Reachable {
		t.Error("expected web server to be reachable")
	}
	if snap.Web.TotalRequests != 4 {
		t.Errorf("total requests = %d, want 4", snap.Web.TotalRequests)
	}
	if snap.Web.UniqueClients != 3 {
		t.Errorf("unique clients = %d, want 3", snap.Web.UniqueClients)
	}
	if snap.Web.Status2xx != 3 || snap.Web.Status404 != 1 {
		t.Errorf("status classes = %+v", snap.Web)
	}

	if snap.Proxy.TotalRequests != 3 || snap.Proxy.CacheHits != 2 || snap.Proxy.CacheMisses != 1 {
		t.Errorf("proxy stats = %+v", snap.Proxy)
	}

	if snap.Disk.UsedPercent != 61 {
		t.Errorf("disk used percent = %v, want 61", snap.Disk.UsedPercent)
	}

	if len(snap.Warnings) != 0 {
		t.Errorf("expected a clean pass, got warnings: %+v", snap.Warnings)
	}
}

func TestSnapshot_DegradesToUnknown(t *testing.T) {
	// Repository exists but is empty: no tool, no logs, no manifest.
	dir := t.TempDir()

	c := New(Config{
		Repository:     "software.eessi.io",
		RepositoryPath: dir,
		WebLog:         filepath.Join(dir, "missing_access_log"),
		ProxyLog:       filepath.Join(dir, "missing_squid_log"),
	}, &fakeRunner{})

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("a degraded pass must still succeed, got %v", err)
	}

	if snap.Catalog.RevisionKnown() {
		t.Errorf("expected unknown catalog revision, got %d", snap.Catalog.Revision)
	}
	if snap.Disk.UsedPercent != domain.UnknownLag {
		t.Errorf("expected unknown disk usage, got %v", snap.Disk.UsedPercent)
	}
	if len(snap.Warnings) == 0 {
		t.Error("expected warnings for the degraded collections")
	}
}

func TestCatalog_FallsBackToManifestFile(t *testing.T) {
	dir := repoDir(t, map[string]string{
		".cvmfspublished": "C86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b\nS41\nT1700000000\n--\n",
	})

	// cvmfs_server is not installed on this host.
	c := New(Config{Repository: "software.eessi.io", RepositoryPath: dir}, &fakeRunner{})

	snap, err := c.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Catalog.Revision != 41 {
		t.Errorf("catalog revision = %d, want 41 (from manifest file)", snap.Catalog.Revision)
	}
	if snap.Catalog.RootHash != "86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b" {
		t.Errorf("unexpected root hash %q", snap.Catalog.RootHash)
	}
}

func TestParseDF_Garbage(t *testing.T) {
	if _, ok := parseDF([]byte("nothing useful")); ok {
		t.Error("expected parseDF to reject garbage")
	}
}
