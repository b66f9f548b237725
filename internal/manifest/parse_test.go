package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// wellFormed is a representative .cvmfspublished header: tagged lines,
// terminator, then bytes standing in for the binary signature section.
const wellFormed = "C86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b\n" +
	"B131072\n" +
	"Rd41d8cd98f00b204e9800998ecf8427e\n" +
	"D240\n" +
	"S42\n" +
	"Gno\n" +
	"Ano\n" +
	"Nsoftware.eessi.io\n" +
	"X0b3c58b6c9c3d4e5f60718293a4b5c6d7e8f9a0b\n" +
	"H a1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e\n" +
	"T1712345678\n" +
	"--\n\x00\x01\x02binarysignature"

func TestParse_WellFormedHeader(t *testing.T) {
	got := Parse([]byte(wellFormed))
	want := domain.Manifest{
		Revision:    42,
		RootHash:    "86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b",
		PublishedAt: 1712345678,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Degraded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Manifest
	}{
		{
			name: "empty blob",
			raw:  "",
			want: domain.UnknownManifest(),
		},
		{
			name: "garbage bytes",
			raw:  "\x00\xff\xfe\x01not a manifest at all",
			want: domain.UnknownManifest(),
		},
		{
			name: "missing timestamp",
			raw:  "C86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b\nS42\n--\n",
			want: domain.Manifest{
				Revision:    42,
				RootHash:    "86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b",
				PublishedAt: domain.UnknownTime,
			},
		},
		{
			name: "missing hash",
			raw:  "S7\nT1712345678\n--\n",
			want: domain.Manifest{
				Revision:    7,
				RootHash:    "",
				PublishedAt: 1712345678,
			},
		},
		{
			name: "revision line garbled but token recoverable",
			raw:  "\x00\x01 86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b \x02 1712345678 \x03 42 \x04",
			want: domain.Manifest{
				Revision:    42,
				RootHash:    "86e1f4a9b2c3d4e5f60718293a4b5c6d7e8f9a0b",
				PublishedAt: 1712345678,
			},
		},
		{
			name: "non-numeric revision stays unknown",
			raw:  "Snot-a-number\n--\n",
			want: domain.UnknownManifest(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.raw))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_HeaderStopsAtTerminator(t *testing.T) {
	// A tagged line after the terminator belongs to the signature and
	// must not override the header values.
	raw := "S42\nT1712345678\n--\nS99\n"
	got := Parse([]byte(raw))
	if got.Revision != 42 {
		t.Errorf("expected revision 42 from header, got %d", got.Revision)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cvmfspublished")
	if err := os.WriteFile(path, []byte(wellFormed), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Revision != 42 {
		t.Errorf("expected revision 42, got %d", m.Revision)
	}
}

func TestReadFile_Missing(t *testing.T) {
	m, err := ReadFile(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if m.RevisionKnown() || m.HashKnown() || m.TimeKnown() {
		t.Errorf("expected a fully-unknown manifest, got %+v", m)
	}
}

func TestParse_Idempotent(t *testing.T) {
	raw := []byte(wellFormed)
	first := Parse(raw)
	for i := 0; i < 3; i++ {
		if got := Parse(raw); got != first {
			t.Fatalf("Parse is not deterministic: %+v vs %+v", got, first)
		}
	}
	if !strings.Contains(wellFormed, "S42") {
		t.Fatal("fixture lost its revision line")
	}
}
