package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/dilasgoi/eessi-monitor/internal/domain"
)

// htmlWidth is the chart width used in the static report; the document
// is self-contained, so no terminal width applies.
const htmlWidth = 100

type htmlData struct {
	Snapshot *domain.Snapshot
	Summary  domain.SyncSummary
	Charts   []htmlChart
}

type htmlChart struct {
	Title string
	Plot  string
}

var htmlFuncs = template.FuncMap{
	"bytes":   FormatBytes,
	"count":   FormatCount,
	"epoch":   FormatEpoch,
	"percent": FormatPercent,
	"lag":     FormatLag,
	"hash":    orUnknown,
	"statusClass": func(s domain.SyncStatus) string {
		switch s {
		case domain.StatusSynchronized:
			return "ok"
		case domain.StatusHashMismatch, domain.StatusUnreachable:
			return "bad"
		default:
			return "warn"
		}
	},
}

// HTML renders the snapshot and history into a self-contained static
// document. It is pure over its inputs and tolerates any field being
// unknown; an error is only possible if the embedded template itself is
// broken, which the tests pin.
func HTML(snap *domain.Snapshot, history History) ([]byte, error) {
	data := htmlData{
		Snapshot: snap,
		Summary:  snap.Summary(),
		Charts: []htmlChart{
			{Title: "Repository size (GB)", Plot: chart("size", history.SizeGB, htmlWidth)},
			{Title: "Requests per pass", Plot: chart("requests", history.Requests, htmlWidth)},
			{Title: "Synchronized upstreams", Plot: percentChart("synchronized", history.SyncHealthy, htmlWidth)},
		},
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("report: rendering HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the document and writes it to path, creating parent
// directories as needed.
func WriteHTML(path string, snap *domain.Snapshot, history History) error {
	doc, err := HTML(snap, history)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("report: failed to write %s: %w", path, err)
	}
	return nil
}
