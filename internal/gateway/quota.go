package gateway

import (
	"sync"
	"time"

	"github.com/amazon11335/fraudwatch/internal/store"
)

const quotaStoreKey = "remote_quota"

// quotaState is the persisted daily-usage record.
type quotaState struct {
	RequestCount  int    `json:"request_count"`
	MaxRequests   int    `json:"max_requests"`
	LastResetDate string `json:"last_reset_date"`
}

// Quota tracks the daily ceiling on remote classification calls. The count
// is loaded from the store at startup and reset to zero on the first check
// after a local calendar day boundary.
type Quota struct {
	mu    sync.Mutex
	st    store.Store
	state quotaState

	// now is swappable in tests.
	now func() time.Time
}

// NewQuota loads persisted state; a missing or malformed record starts the
// day fresh.
func NewQuota(st store.Store, maxRequests int) *Quota {
	q := &Quota{
		st:  st,
		now: time.Now,
	}
	if maxRequests <= 0 {
		maxRequests = 100
	}

	var persisted quotaState
	if st != nil {
		if ok, _ := st.Get(quotaStoreKey, &persisted); ok {
			q.state = persisted
		}
	}
	q.state.MaxRequests = maxRequests
	if q.state.LastResetDate == "" {
		q.state.LastResetDate = q.today()
	}
	return q
}

func (q *Quota) today() string {
	return q.now().Format("2006-01-02")
}

// rollDay resets the count exactly once when the local calendar date has
// moved past LastResetDate. Callers must hold q.mu.
func (q *Quota) rollDay() {
	today := q.today()
	if q.state.LastResetDate != today {
		q.state.RequestCount = 0
		q.state.LastResetDate = today
		q.persist()
	}
}

// Acquire reserves one remote call. It refuses once the ceiling is reached,
// so the count can never exceed MaxRequests even under concurrent callers.
func (q *Quota) Acquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollDay()
	if q.state.RequestCount >= q.state.MaxRequests {
		return false
	}
	q.state.RequestCount++
	q.persist()
	return true
}

// Release returns a reservation whose remote call failed, so only
// successful calls stay counted.
func (q *Quota) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state.RequestCount > 0 {
		q.state.RequestCount--
		q.persist()
	}
}

// Usage is a point-in-time snapshot for status reporting.
type Usage struct {
	RequestCount int `json:"request_count"`
	MaxRequests  int `json:"max_requests"`
	Remaining    int `json:"remaining"`
}

// Snapshot reports current usage, rolling the day first.
func (q *Quota) Snapshot() Usage {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollDay()
	remaining := q.state.MaxRequests - q.state.RequestCount
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		RequestCount: q.state.RequestCount,
		MaxRequests:  q.state.MaxRequests,
		Remaining:    remaining,
	}
}

func (q *Quota) persist() {
	if q.st != nil {
		// Best effort; quota survives in memory if the store is unavailable.
		_ = q.st.Put(quotaStoreKey, q.state)
	}
}
