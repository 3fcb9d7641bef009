package embedded

import (
	_ "embed"
)

// Embed all prompt data files
//
//go:embed data/prompts/system_prompt.txt
var SystemPromptTxt []byte

//go:embed data/prompts/language_english.txt
var LanguageEnglishTxt []byte

//go:embed data/prompts/language_gujarati.txt
var LanguageGujaratiTxt []byte

//go:embed data/prompts/language_hindi.txt
var LanguageHindiTxt []byte
