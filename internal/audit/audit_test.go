package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesOneLinePerEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.jsonl")

	l, err := NewLogger(path)
	require.NoError(t, err)

	l.Log(Entry{AlertID: "a1", Source: "clipboard", Level: "high", RiskScore: 85, Decision: "DENY"})
	l.Log(Entry{AlertID: "a2", Source: "network", Level: "medium", RiskScore: 60})
	require.NoError(t, l.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "a1", entries[0].AlertID)
	assert.Equal(t, "DENY", entries[0].Decision)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, float64(60), entries[1].RiskScore)
}

func TestLoggerAppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.jsonl")

	first, err := NewLogger(path)
	require.NoError(t, err)
	first.Log(Entry{AlertID: "a1"})
	require.NoError(t, first.Close())

	second, err := NewLogger(path)
	require.NoError(t, err)
	second.Log(Entry{AlertID: "a2"})
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a1")
	assert.Contains(t, string(data), "a2")
}
