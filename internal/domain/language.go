package domain

import (
	"fmt"
	"strings"
)

// Language is a natural language code used to pick the prompt the model
// receives. Only a small fixed set is supported.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguagePolish  Language = "pl"

	// DefaultLanguage is used when detection yields no signal or a tie.
	DefaultLanguage = LanguageEnglish
)

// SupportedLanguages lists every language the pipeline can prompt in.
var SupportedLanguages = []Language{LanguageEnglish, LanguagePolish}

// IsSupported reports whether l is one of SupportedLanguages.
func (l Language) IsSupported() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// ParseLanguage normalizes a caller-supplied language code and checks it
// against the supported set.
func ParseLanguage(code string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	if !l.IsSupported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return l, nil
}
