package report

import (
	"github.com/dilasgoi/eessi-monitor/internal/tsstore"
)

// historyWindow is how many stored rows feed each chart.
const historyWindow = 48

// History holds the chart series read back from the time-series store.
// Slices may be empty when the store has no rows yet; charts over empty
// series render as "no data".
type History struct {
	// SizeGB is repository size per daily row, in gigabytes.
	SizeGB []float64

	// Requests is total web requests per hourly traffic row.
	Requests []float64

	// Clients is unique clients per hourly traffic row.
	Clients []float64

	// SyncHealthy is, per pass, the fraction of upstream comparisons
	// that came back synchronized (0..1).
	SyncHealthy []float64
}

// LoadHistory reads the chart series from the store tail. Store read
// errors degrade to empty series: rendering must proceed regardless.
func LoadHistory(store *tsstore.Store) History {
	var h History

	if rows, err := store.Tail(tsstore.Daily, tsstore.TableSize, historyWindow); err == nil {
		for _, row := range rows {
			if v, ok := row.Float(1); ok {
				h.SizeGB = append(h.SizeGB, v/(1<<30))
			}
		}
	}

	if rows, err := store.Tail(tsstore.Hourly, tsstore.TableTraffic, historyWindow); err == nil {
		for _, row := range rows {
			if v, ok := row.Float(2); ok {
				h.Requests = append(h.Requests, v)
			}
			if v, ok := row.Float(1); ok {
				h.Clients = append(h.Clients, v)
			}
		}
	}

	if rows, err := store.Tail(tsstore.Hourly, tsstore.TableSync, historyWindow*4); err == nil {
		h.SyncHealthy = syncRatios(rows)
	}

	return h
}

// syncRatios folds per-server sync rows into one healthy-fraction point
// per pass, grouping rows by their shared timestamp.
func syncRatios(rows []tsstore.Row) []float64 {
	var ratios []float64
	var healthy, total float64
	var last string

	flush := func() {
		if total > 0 {
			ratios = append(ratios, healthy/total)
		}
		healthy, total = 0, 0
	}

	for _, row := range rows {
		key := row.Timestamp.String()
		if key != last && last != "" {
			flush()
		}
		last = key
		total++
		if row.String(4) == "synchronized" {
			healthy++
		}
	}
	flush()

	return ratios
}
