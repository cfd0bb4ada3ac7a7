package subscription

import (
	"sort"
	"time"
)

// SortHistory orders entries newest first by created_at, falling back to the
// start date. Entries with neither sort last, keeping their input order.
func SortHistory(entries []HistoryRecord) []HistoryRecord {
	out := make([]HistoryRecord, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := historyKey(out[i])
		b, bok := historyKey(out[j])
		if aok != bok {
			return aok
		}
		return a.After(b)
	})
	return out
}

// Latest returns the most recent history entry.
func Latest(entries []HistoryRecord) (HistoryRecord, bool) {
	if len(entries) == 0 {
		return HistoryRecord{}, false
	}
	return SortHistory(entries)[0], true
}

func historyKey(h HistoryRecord) (time.Time, bool) {
	if h.CreatedAt != nil {
		return *h.CreatedAt, true
	}
	if h.StartDate != nil {
		return *h.StartDate, true
	}
	return time.Time{}, false
}
