package generation

import (
	"strings"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sample string
		want   domain.Language
	}{
		{
			name:   "polish with diacritics",
			sample: "Fotosynteza jest procesem, w którym rośliny wytwarzają glukozę.",
			want:   domain.LanguagePolish,
		},
		{
			name:   "polish markers without diacritics",
			sample: "To jest tekst ktory nie ma polskich znakow ale jest po polsku",
			want:   domain.LanguagePolish,
		},
		{
			name:   "english",
			sample: "The mitochondria is the powerhouse of the cell and it produces energy.",
			want:   domain.LanguageEnglish,
		},
		{
			name:   "empty",
			sample: "",
			want:   domain.DefaultLanguage,
		},
		{
			name:   "no signal",
			sample: "12345 67890 !!!",
			want:   domain.DefaultLanguage,
		},
		{
			name:   "tie resolves to default",
			sample: "the nie",
			want:   domain.DefaultLanguage,
		},
		{
			name:   "markers must be whole words",
			sample: "Niebo jestem takiego",
			want:   domain.DefaultLanguage,
		},
		{
			name:   "uppercase diacritics count",
			sample: "ŁÓDŹ ŚWIĘTO",
			want:   domain.LanguagePolish,
		},
		{
			name:   "only the leading sample is inspected",
			sample: strings.Repeat("x ", 250) + "zażółć gęślą jaźń jest nie",
			want:   domain.DefaultLanguage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DetectLanguage(tc.sample))
		})
	}
}
