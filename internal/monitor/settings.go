package monitor

import (
	"github.com/amazon11335/fraudwatch/internal/store"
)

const settingsStoreKey = "monitor_settings"

// Settings controls alert handling. Persisted on every update.
type Settings struct {
	Sensitivity string `json:"sensitivity"`
	AutoBlock   bool   `json:"auto_block"`
	SoundAlert  bool   `json:"sound_alert"`
	VisualAlert bool   `json:"visual_alert"`
	LogActivity bool   `json:"log_activity"`
}

// DefaultSettings returns the shipped defaults.
func DefaultSettings() Settings {
	return Settings{
		Sensitivity: "medium",
		AutoBlock:   false,
		SoundAlert:  true,
		VisualAlert: true,
		LogActivity: true,
	}
}

// Settings returns a snapshot of the current settings.
func (m *Monitor) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings replaces the settings and persists them.
func (m *Monitor) UpdateSettings(s Settings) {
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()

	if m.st != nil {
		if err := m.st.Put(settingsStoreKey, s); err != nil {
			m.logger.WithError(err).Warn("failed to persist monitor settings")
		}
	}
}

func loadSettings(st store.Store) Settings {
	settings := DefaultSettings()
	if st != nil {
		var persisted Settings
		if ok, _ := st.Get(settingsStoreKey, &persisted); ok {
			settings = persisted
		}
	}
	return settings
}
