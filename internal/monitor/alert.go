package monitor

import (
	"time"
)

// AlertLevel is the severity of a raised alert.
type AlertLevel string

const (
	AlertMedium AlertLevel = "medium"
	AlertHigh   AlertLevel = "high"
)

// SourceKind identifies the observation channel that produced a candidate.
type SourceKind string

const (
	SourceClipboard SourceKind = "clipboard"
	SourceInput     SourceKind = "input"
	SourceContent   SourceKind = "content"
	SourceNetwork   SourceKind = "network"
)

// Alert is one risk finding queued for the rendering collaborator. Alerts
// have no identity beyond the queue; the renderer time-boxes their display.
type Alert struct {
	ID        string     `json:"id"`
	Level     AlertLevel `json:"level"`
	Source    SourceKind `json:"source"`
	Score     float64    `json:"score"`
	Snippet   string     `json:"snippet"`
	Timestamp time.Time  `json:"timestamp"`
	// Origin is an opaque reference to the surface element that produced
	// the candidate, used for best-effort auto-blocking.
	Origin string `json:"origin,omitempty"`
}

const snippetLimit = 100

// snippet truncates text to the alert snippet budget, rune-safe.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit])
}
