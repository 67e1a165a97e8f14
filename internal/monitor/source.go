package monitor

import (
	"context"
	"regexp"
)

// Candidate is one piece of captured text awaiting analysis.
type Candidate struct {
	Source SourceKind
	Text   string
	Origin string
}

// TextReader is the capture primitive for the periodic source (e.g. a
// clipboard read). It may fail on permission denial; the cycle is then
// skipped silently.
type TextReader func(ctx context.Context) (string, error)

// Notifier is the rendering/notification collaborator. All calls are
// best-effort: a panicking or slow notifier must never block analysis.
type Notifier interface {
	// Show renders an alert.
	Show(alert Alert)
	// Sound plays the alert tone; high-risk uses a distinct tone.
	Sound(level AlertLevel)
	// Block applies the auto-block visual mutation to the originating
	// surface element.
	Block(origin string)
}

// Suspicion patterns for outbound URLs: credential-phishing lexical
// markers, anomalously long digit runs, anomalously long opaque
// alphabetic runs.
var urlSuspicionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)phishing`),
	regexp.MustCompile(`(?i)scam`),
	regexp.MustCompile(`(?i)fake`),
	regexp.MustCompile(`\d{10,}`),
	regexp.MustCompile(`[a-z]{20,}`),
}

// suspiciousURL reports whether a URL matches any suspicion pattern.
func suspiciousURL(url string) bool {
	for _, re := range urlSuspicionPatterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}
