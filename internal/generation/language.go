package generation

import (
	"strings"
	"unicode"

	"github.com/phrazzld/flashforge/internal/domain"
)

// languageSampleSize is the number of leading characters inspected by DetectLanguage.
const languageSampleSize = 500

const (
	diacriticWeight = 3
	markerWeight    = 1
)

// polishDiacritics are letters that only occur in Polish among the supported languages.
var polishDiacritics = map[rune]struct{}{
	'ą': {}, 'ć': {}, 'ę': {}, 'ł': {}, 'ń': {}, 'ó': {}, 'ś': {}, 'ź': {}, 'ż': {},
}

// markers are frequent function words. Words shared by both languages
// ("to", "do") are left out.
var markers = map[domain.Language]map[string]struct{}{
	domain.LanguagePolish: wordSet(
		"jest", "nie", "się", "że", "oraz", "jak", "dla", "przez", "jako", "które",
		"który", "która", "też", "tak", "ale", "czy", "może", "tego", "jego", "są",
		"na", "od", "po", "bardzo", "jednak", "gdy", "ich",
	),
	domain.LanguageEnglish: wordSet(
		"the", "and", "is", "are", "of", "in", "that", "with", "for", "this",
		"was", "which", "it", "as", "be", "by", "from", "have", "not", "or",
	),
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DetectLanguage guesses the language of sample from its first 500 characters.
//
// Each distinct Polish diacritic letter present scores 3 for Polish, and each
// distinct marker word present scores 1 for its language. Words are matched
// whole, so "nie" inside "niebo" does not count. The strictly higher score
// wins; a tie or no signal at all yields domain.DefaultLanguage. A wrong guess
// only means the model is prompted in the wrong language.
func DetectLanguage(sample string) domain.Language {
	runes := []rune(sample)
	if len(runes) > languageSampleSize {
		runes = runes[:languageSampleSize]
	}
	text := strings.ToLower(string(runes))

	scores := make(map[domain.Language]int, len(domain.SupportedLanguages))

	seenDiacritics := make(map[rune]struct{})
	for _, r := range text {
		if _, ok := polishDiacritics[r]; ok {
			seenDiacritics[r] = struct{}{}
		}
	}
	scores[domain.LanguagePolish] += diacriticWeight * len(seenDiacritics)

	words := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) })
	seenWords := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seenWords[w]; dup {
			continue
		}
		seenWords[w] = struct{}{}
		for lang, set := range markers {
			if _, ok := set[w]; ok {
				scores[lang] += markerWeight
			}
		}
	}

	best := domain.DefaultLanguage
	bestScore := scores[domain.DefaultLanguage]
	for _, lang := range domain.SupportedLanguages {
		if scores[lang] > bestScore {
			best, bestScore = lang, scores[lang]
		}
	}
	return best
}
