package taxonomy

import (
	"fmt"
	"sync"
)

// Category is a named cluster of trigger phrases sharing a fraud theme.
// Each phrase match contributes Weight points to the detection score.
type Category struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Weight  float64  `yaml:"weight" json:"weight"`
	Phrases []string `yaml:"phrases" json:"phrases"`
	// Advice is an optional category-specific suggestion surfaced to the
	// user when the category matches.
	Advice string `yaml:"advice,omitempty" json:"advice,omitempty"`
}

// Taxonomy holds the full category set plus the auxiliary flat word lists
// used by the keyword detector. Categories are immutable after load except
// for AddCustomPhrases.
type Taxonomy struct {
	mu         sync.RWMutex
	categories []*Category
	byID       map[string]*Category

	// Sensitive-action phrases (transfers, credentials) scored at a flat
	// per-match weight by the detector, without a category entry.
	sensitive []string
	// Urgency phrases scored the same way at a lower weight.
	urgency []string
}

// New creates a Taxonomy preloaded with the built-in fraud lexicon.
func New() *Taxonomy {
	t := &Taxonomy{
		byID:      make(map[string]*Category),
		sensitive: append([]string(nil), defaultSensitivePhrases...),
		urgency:   append([]string(nil), defaultUrgencyPhrases...),
	}
	for _, c := range defaultCategories() {
		t.categories = append(t.categories, c)
		t.byID[c.ID] = c
	}
	return t
}

// Categories returns the categories in load order. The returned slice is a
// copy but the Category values are shared, not duplicated.
func (t *Taxonomy) Categories() []*Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Category returns the category with the given ID, or nil.
func (t *Taxonomy) Category(id string) *Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.byID[id]
}

// SensitivePhrases returns the sensitive-action word list.
func (t *Taxonomy) SensitivePhrases() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.sensitive...)
}

// UrgencyPhrases returns the urgency word list.
func (t *Taxonomy) UrgencyPhrases() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.urgency...)
}

// AddCustomPhrases appends phrases to an existing category. This is the only
// mutation the taxonomy supports after load.
func (t *Taxonomy) AddCustomPhrases(categoryID string, phrases ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.byID[categoryID]
	if !ok {
		return fmt.Errorf("unknown category: %s", categoryID)
	}
	c.Phrases = append(c.Phrases, phrases...)
	return nil
}

// upsert replaces or appends a category. Used by the file loader.
func (t *Taxonomy) upsert(c *Category) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byID[c.ID]; ok {
		*existing = *c
		t.byID[c.ID] = existing
		return
	}
	t.categories = append(t.categories, c)
	t.byID[c.ID] = c
}

// CategoryStats describes one category for status reporting.
type CategoryStats struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	PhraseCount int     `json:"phrase_count"`
}

// Stats returns a summary of the loaded categories.
func (t *Taxonomy) Stats() []CategoryStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make([]CategoryStats, 0, len(t.categories))
	for _, c := range t.categories {
		stats = append(stats, CategoryStats{
			ID:          c.ID,
			Name:        c.Name,
			Weight:      c.Weight,
			PhraseCount: len(c.Phrases),
		})
	}
	return stats
}
