// Package audit writes one JSON line per raised alert, giving operators a
// replayable record of what was flagged, how it scored and how policy
// disposed of it.
package audit

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Entry is one structured audit record.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	AlertID     string    `json:"alert_id"`
	Source      string    `json:"source"`
	Level       string    `json:"level"`
	RiskScore   float64   `json:"risk_score"`
	Snippet     string    `json:"snippet"`
	Origin      string    `json:"origin,omitempty"`
	Offline     bool      `json:"offline"`
	Decision    string    `json:"decision,omitempty"`
	PolicyID    string    `json:"policy_id,omitempty"`
	Obligations []string  `json:"obligations,omitempty"`
}

// Logger handles structured audit logging
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	encoder  *json.Encoder
	fallback *log.Logger
}

// NewLogger creates a new audit logger.
// If filePath is empty, records go to stdout in JSON format.
func NewLogger(filePath string) (*Logger, error) {
	var file *os.File
	var err error

	if filePath != "" {
		file, err = os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	} else {
		file = os.Stdout
	}

	return &Logger{
		file:     file,
		encoder:  json.NewEncoder(file),
		fallback: log.New(os.Stderr, "[AUDIT] ", log.LstdFlags),
	}, nil
}

// Log writes an audit entry
func (l *Logger) Log(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := l.encoder.Encode(entry); err != nil {
		l.fallback.Printf("Failed to write audit entry: %v, entry: %+v", err, entry)
	}
}

// Close closes the audit log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil && l.file != os.Stdout {
		return l.file.Close()
	}
	return nil
}
