package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/review-generator/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemPrompt loads the system instruction sent with every completion
func (l *Loader) GetSystemPrompt() string {
	return strings.TrimSpace(string(embedded.SystemPromptTxt))
}

// GetLanguageInstructions returns the instruction block for language, matched
// case-insensitively. Unknown languages get no block.
func (l *Loader) GetLanguageInstructions(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "english":
		return strings.TrimSpace(string(embedded.LanguageEnglishTxt))
	case "gujarati", "gujarati romanized":
		return strings.TrimSpace(string(embedded.LanguageGujaratiTxt))
	case "hindi", "hindi romanized":
		return strings.TrimSpace(string(embedded.LanguageHindiTxt))
	default:
		return ""
	}
}
