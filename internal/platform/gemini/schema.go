package gemini

import "google.golang.org/genai"

// flashcardSchema mirrors the array shape demanded by the system prompt.
func flashcardSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"front": {Type: genai.TypeString},
				"back":  {Type: genai.TypeString},
				"hint":  {Type: genai.TypeString},
				"difficulty": {
					Type: genai.TypeString,
					Enum: []string{"easy", "medium", "hard"},
				},
				"tags": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"front", "back", "difficulty", "tags"},
		},
	}
}
