package detector

// suggestionsForLevel returns the overall-risk suggestions for a bucket.
func suggestionsForLevel(level RiskLevel) []string {
	switch level {
	case LevelCritical, LevelHigh:
		return []string{
			"High alert: this looks like fraud, stop the conversation immediately",
			"Call the 96110 anti-fraud hotline if in doubt",
			"Never transfer money or share personal information",
		}
	case LevelMedium:
		return []string{
			"Be careful: the content carries risk, verify it independently",
			"Confirm through official channels before acting",
		}
	case LevelLow:
		return []string{
			"Low risk, but stay vigilant",
		}
	default:
		return []string{
			"Content looks safe, keep your guard up anyway",
		}
	}
}

// buildSuggestions combines the level suggestions with one advice line per
// matched category, deduplicated, category-iteration order preserved.
func (d *Detector) buildSuggestions(result *DetectionResult) []string {
	suggestions := suggestionsForLevel(result.RiskLevel)

	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		seen[s] = true
	}
	for _, cm := range result.Categories {
		advice := cm.Category.Advice
		if advice == "" || seen[advice] {
			continue
		}
		suggestions = append(suggestions, advice)
		seen[advice] = true
	}
	return suggestions
}
