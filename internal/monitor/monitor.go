// Package monitor drives the continuous observation sources: periodic
// clipboard polling, debounced input watching, structural content
// insertions and outbound URL interception. Captured candidates flow
// through the analysis gateway and surface as alerts.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amazon11335/fraudwatch/internal/audit"
	"github.com/amazon11335/fraudwatch/internal/gateway"
	"github.com/amazon11335/fraudwatch/internal/metrics"
	"github.com/amazon11335/fraudwatch/internal/policy"
	"github.com/amazon11335/fraudwatch/internal/store"
)

// Config holds scheduler tunables. Zero values fall back to defaults.
type Config struct {
	PollInterval    time.Duration // periodic source cycle
	DebounceWindow  time.Duration // quiet period for the input source
	MinInputLen     int           // shortest debounced candidate, in runes
	MinInsertLen    int           // shortest structural candidate, in runes
	MinCandidateLen int           // shortest text worth analyzing at all
	HighThreshold   float64       // riskScore above this raises a high alert
	MediumThreshold float64       // riskScore above this raises a medium alert
	LogThreshold    float64       // riskScore above this is logged
	QueueSize       int           // candidate channel depth
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.DebounceWindow == 0 {
		c.DebounceWindow = time.Second
	}
	if c.MinInputLen == 0 {
		c.MinInputLen = 10
	}
	if c.MinInsertLen == 0 {
		c.MinInsertLen = 20
	}
	if c.MinCandidateLen == 0 {
		c.MinCandidateLen = 5
	}
	if c.HighThreshold == 0 {
		c.HighThreshold = 70
	}
	if c.MediumThreshold == 0 {
		c.MediumThreshold = 40
	}
	if c.LogThreshold == 0 {
		c.LogThreshold = 20
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
}

// Monitor owns the observation sources and the alert queue.
type Monitor struct {
	cfg      Config
	gw       *gateway.Gateway
	engine   *policy.Engine
	notifier Notifier
	st       store.Store
	logger   *logrus.Logger

	mu       sync.Mutex
	running  bool
	settings Settings
	alerts   []Alert
	enabled  map[SourceKind]bool
	lastClip string

	clipReader TextReader
	auditLog   *audit.Logger

	candidates chan Candidate
	done       chan struct{}
	wg         sync.WaitGroup

	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	activity *activityLog
}

// New wires a monitor. engine and notifier may be nil; st may be nil for
// an ephemeral monitor.
func New(cfg Config, gw *gateway.Gateway, engine *policy.Engine, notifier Notifier, st store.Store, logger *logrus.Logger) *Monitor {
	cfg.applyDefaults()
	if logger == nil {
		logger = logrus.New()
	}
	return &Monitor{
		cfg:      cfg,
		gw:       gw,
		engine:   engine,
		notifier: notifier,
		st:       st,
		logger:   logger,
		settings: loadSettings(st),
		enabled: map[SourceKind]bool{
			SourceClipboard: true,
			SourceInput:     true,
			SourceContent:   true,
			SourceNetwork:   true,
		},
		debounce: make(map[string]*time.Timer),
		activity: newActivityLog(st),
	}
}

// SetClipboardReader registers the periodic capture primitive. Without a
// reader the clipboard source stays idle.
func (m *Monitor) SetClipboardReader(r TextReader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clipReader = r
}

// SetAuditLogger enables the per-alert audit trail.
func (m *Monitor) SetAuditLogger(l *audit.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditLog = l
}

// Start activates all sources. It is an idempotent no-op when already
// running.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.candidates = make(chan Candidate, m.cfg.QueueSize)
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.wg.Add(2)
	go m.run()
	go m.clipboardLoop()

	m.logger.Info("monitoring started")
	m.activity.record("monitoring started", "monitor")
}

// Stop deactivates every source and releases all timers so no further
// candidates are produced. An already-dispatched analysis may complete and
// its alert may still be delivered. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.done)
	m.mu.Unlock()

	m.debounceMu.Lock()
	for origin, timer := range m.debounce {
		timer.Stop()
		delete(m.debounce, origin)
	}
	m.debounceMu.Unlock()

	m.wg.Wait()

	m.logger.Info("monitoring stopped")
	m.activity.record("monitoring stopped", "monitor")
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// EnableSource re-activates one observation source.
func (m *Monitor) EnableSource(kind SourceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled[kind] = true
}

// DisableSource deactivates one observation source without stopping the
// monitor.
func (m *Monitor) DisableSource(kind SourceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled[kind] = false
}

func (m *Monitor) sourceActive(kind SourceKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running && m.enabled[kind]
}

// OnInputChange feeds the debounced source. Every change restarts the
// quiet-period timer; analysis fires once input has been idle past the
// window and the candidate is long enough.
func (m *Monitor) OnInputChange(origin, text string) {
	if !m.sourceActive(SourceInput) {
		return
	}

	m.debounceMu.Lock()
	defer m.debounceMu.Unlock()

	if timer, ok := m.debounce[origin]; ok {
		timer.Stop()
	}
	m.debounce[origin] = time.AfterFunc(m.cfg.DebounceWindow, func() {
		if !m.sourceActive(SourceInput) {
			return
		}
		if utf8.RuneCountInString(text) > m.cfg.MinInputLen {
			m.emit(Candidate{Source: SourceInput, Text: text, Origin: origin})
		}
	})
}

// OnContentInsert feeds the structural-change source. Insertions are
// already batched upstream, so qualifying text forwards immediately.
func (m *Monitor) OnContentInsert(text string) {
	if !m.sourceActive(SourceContent) {
		return
	}
	if utf8.RuneCountInString(text) > m.cfg.MinInsertLen {
		m.emit(Candidate{Source: SourceContent, Text: text})
	}
}

// OnOutboundRequest feeds the outbound-reference source. A suspicious URL
// scores as a flat medium-risk event without consulting the gateway.
func (m *Monitor) OnOutboundRequest(url string) {
	if !m.sourceActive(SourceNetwork) {
		return
	}
	if !suspiciousURL(url) {
		return
	}

	m.raise(AlertMedium, Candidate{Source: SourceNetwork, Text: url}, 60, false)
	if m.Settings().LogActivity {
		m.activity.record(fmt.Sprintf("suspicious URL detected: %s", snippet(url)), string(SourceNetwork))
	}
}

// emit hands a candidate to the run loop unless the monitor stopped.
func (m *Monitor) emit(c Candidate) {
	select {
	case <-m.done:
	case m.candidates <- c:
	}
}

func (m *Monitor) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case c := <-m.candidates:
			m.analyze(c)
		}
	}
}

func (m *Monitor) clipboardLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.pollClipboard()
		}
	}
}

// pollClipboard reads the capture primitive once. Read failures (typically
// permission denials) skip the cycle; the source stays active. Unchanged
// content is suppressed.
func (m *Monitor) pollClipboard() {
	m.mu.Lock()
	reader := m.clipReader
	m.mu.Unlock()

	if reader == nil || !m.sourceActive(SourceClipboard) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	text, err := reader(ctx)
	if err != nil || text == "" {
		return
	}

	m.mu.Lock()
	if text == m.lastClip {
		m.mu.Unlock()
		return
	}
	m.lastClip = text
	m.mu.Unlock()

	m.emit(Candidate{Source: SourceClipboard, Text: text})
}

// analyze routes a candidate through the gateway and buckets the verdict.
func (m *Monitor) analyze(c Candidate) {
	if utf8.RuneCountInString(c.Text) < m.cfg.MinCandidateLen {
		return
	}

	start := time.Now()
	defer func() {
		metrics.ScanLatency.Observe(time.Since(start).Seconds())
	}()
	metrics.ScansTotal.Inc()

	verdict := m.gw.Classify(context.Background(), c.Text)
	score := verdict.RiskScore

	switch {
	case score > m.cfg.HighThreshold:
		m.raise(AlertHigh, c, score, verdict.Offline)
	case score > m.cfg.MediumThreshold:
		m.raise(AlertMedium, c, score, verdict.Offline)
	}

	if m.Settings().LogActivity && score > m.cfg.LogThreshold {
		m.activity.record(fmt.Sprintf("%s content scored %.0f", c.Source, score), string(c.Source))
	}
}

// raise queues an alert and runs the best-effort dispositions: policy
// evaluated auto-block for high risk, sound and visual notification.
func (m *Monitor) raise(level AlertLevel, c Candidate, score float64, offline bool) {
	alert := Alert{
		ID:        uuid.New().String(),
		Level:     level,
		Source:    c.Source,
		Score:     score,
		Snippet:   snippet(c.Text),
		Timestamp: time.Now(),
		Origin:    c.Origin,
	}

	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	settings := m.settings
	auditLog := m.auditLog
	m.mu.Unlock()

	metrics.RecordAlert(string(level), string(c.Source))

	entry := audit.Entry{
		AlertID:   alert.ID,
		Source:    string(c.Source),
		Level:     string(level),
		RiskScore: score,
		Snippet:   alert.Snippet,
		Origin:    c.Origin,
		Offline:   offline,
	}

	if level == AlertHigh {
		blocked := settings.AutoBlock
		if m.engine != nil {
			result := m.engine.EvaluateAlert(policy.AlertContext{
				RiskScore: score,
				Level:     string(level),
				Source:    string(c.Source),
				AutoBlock: settings.AutoBlock,
				Offline:   offline,
			})
			blocked = result.Decision == policy.DENY
			entry.Decision = string(result.Decision)
			entry.PolicyID = result.PolicyID
			for _, ob := range result.Obligations {
				entry.Obligations = append(entry.Obligations, ob.Type)
			}
		}
		if blocked && c.Origin != "" {
			m.safeNotify(func() { m.notifier.Block(c.Origin) })
		}
	}

	if auditLog != nil {
		auditLog.Log(entry)
	}

	if level == AlertHigh || settings.VisualAlert {
		m.safeNotify(func() { m.notifier.Show(alert) })
	}
	if settings.SoundAlert {
		m.safeNotify(func() { m.notifier.Sound(level) })
	}
}

// safeNotify shields the pipeline from a misbehaving notifier.
func (m *Monitor) safeNotify(fn func()) {
	if m.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Warn("notifier panicked")
		}
	}()
	fn()
}

// Alerts returns a copy of the alert queue, oldest first.
func (m *Monitor) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Activity returns the capped activity log, most recent first.
func (m *Monitor) Activity() []ActivityEntry {
	return m.activity.snapshot()
}

// SourceStatus describes one observation source for status reporting.
type SourceStatus struct {
	Name   SourceKind `json:"name"`
	Active bool       `json:"active"`
}

// Stats is the monitor status snapshot.
type Stats struct {
	Active     bool           `json:"active"`
	AlertCount int            `json:"alert_count"`
	Sources    []SourceStatus `json:"sources"`
	Settings   Settings       `json:"settings"`
}

// Stats reports the current monitor state.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources := make([]SourceStatus, 0, len(m.enabled))
	for _, kind := range []SourceKind{SourceClipboard, SourceInput, SourceContent, SourceNetwork} {
		sources = append(sources, SourceStatus{Name: kind, Active: m.running && m.enabled[kind]})
	}
	return Stats{
		Active:     m.running,
		AlertCount: len(m.alerts),
		Sources:    sources,
		Settings:   m.settings,
	}
}
