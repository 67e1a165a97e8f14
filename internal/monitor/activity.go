package monitor

import (
	"sync"
	"time"

	"github.com/amazon11335/fraudwatch/internal/store"
)

const (
	activityStoreKey = "monitor_activity"
	activityCap      = 100
)

// ActivityEntry is one line of the capped activity log.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
}

// activityLog keeps the most recent entries first, hard-capped, and mirrors
// them to the store.
type activityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	st      store.Store
}

func newActivityLog(st store.Store) *activityLog {
	l := &activityLog{st: st}
	if st != nil {
		var persisted []ActivityEntry
		if ok, _ := st.Get(activityStoreKey, &persisted); ok {
			if len(persisted) > activityCap {
				persisted = persisted[:activityCap]
			}
			l.entries = persisted
		}
	}
	return l
}

// record prepends an entry, dropping the oldest past the cap.
func (l *activityLog) record(message, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]ActivityEntry{{
		Timestamp: time.Now(),
		Message:   message,
		Source:    source,
	}}, l.entries...)
	if len(l.entries) > activityCap {
		l.entries = l.entries[:activityCap]
	}

	if l.st != nil {
		// Best effort; the in-memory log is authoritative.
		_ = l.st.Put(activityStoreKey, l.entries)
	}
}

// snapshot returns a copy, most recent first.
func (l *activityLog) snapshot() []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
