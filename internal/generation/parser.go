package generation

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
)

// ExtractProposals recovers flashcard proposals from a model response.
//
// raw may be the response text (string or []byte), in which case the first
// balanced array or object that decodes is used, or an already decoded value
// such as []any or map[string]any. A candidate that fails to parse is cleaned
// once (control characters and a trailing comma before a closing bracket are
// removed) and parsed again before the search moves past it.
//
// A list keeps only entries that are objects with non-empty string "front"
// and "back" fields; other entries are dropped and logged at debug level, so
// a list of invalid entries yields an empty, non-nil slice. A single valid
// object yields one proposal. Every returned proposal has source
// domain.SourceAIFull and no other model-supplied fields.
//
// All failures are *ParseError values wrapping ErrNoJSONFound, ErrInvalidJSON
// or ErrInvalidShape.
func ExtractProposals(ctx context.Context, raw any) ([]domain.FlashcardProposal, error) {
	log := logger.FromContext(ctx)

	var parsed any
	switch v := raw.(type) {
	case string:
		value, err := parseCandidate(v)
		if err != nil {
			return nil, err
		}
		parsed = value
	case []byte:
		value, err := parseCandidate(string(v))
		if err != nil {
			return nil, err
		}
		parsed = value
	case json.RawMessage:
		value, err := parseCandidate(string(v))
		if err != nil {
			return nil, err
		}
		parsed = value
	default:
		parsed = normalizeStructured(v)
	}

	switch v := parsed.(type) {
	case []any:
		proposals := make([]domain.FlashcardProposal, 0, len(v))
		for i, entry := range v {
			proposal, ok := toProposal(entry)
			if !ok {
				log.DebugContext(ctx, "dropping invalid flashcard entry from model response",
					"index", i)
				continue
			}
			proposals = append(proposals, proposal)
		}
		return proposals, nil
	case map[string]any:
		proposal, ok := toProposal(v)
		if !ok {
			return nil, &ParseError{Kind: ErrInvalidShape}
		}
		return []domain.FlashcardProposal{proposal}, nil
	default:
		return nil, &ParseError{Kind: ErrInvalidShape}
	}
}

// parseCandidate decodes the first balanced bracketed span of text that is
// valid JSON, retrying each span once after cleanup. Spans that still fail
// are skipped as a whole.
func parseCandidate(text string) (any, error) {
	var firstErr error
	for start := 0; start < len(text); start++ {
		if text[start] != '[' && text[start] != '{' {
			continue
		}
		end := balancedEnd(text, start)
		if end < 0 {
			continue
		}

		value, err := decodeCandidate(text[start:end])
		if err == nil {
			return value, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		start = end - 1
	}

	if firstErr == nil {
		return nil, &ParseError{Kind: ErrNoJSONFound}
	}
	return nil, &ParseError{Kind: ErrInvalidJSON, Err: firstErr}
}

func decodeCandidate(candidate string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err == nil {
		return value, nil
	}

	cleaned := removeTrailingCommas(stripUnprintable(candidate))
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// balancedEnd returns the index just past the bracket closing the one at
// text[start], or -1 when it is never closed or closed by the wrong kind.
// Brackets inside string literals are ignored.
func balancedEnd(text string, start int) int {
	var (
		closers  []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			closers = append(closers, ']')
		case '{':
			closers = append(closers, '}')
		case ']', '}':
			if len(closers) == 0 || closers[len(closers)-1] != c {
				return -1
			}
			closers = closers[:len(closers)-1]
			if len(closers) == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// removeTrailingCommas drops a comma followed only by whitespace and a
// closing bracket. String literals are copied unchanged.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		if c == '"' {
			inString = true
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == ']' || s[j] == '}') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripUnprintable removes control and format characters and invalid UTF-8.
// Line breaks and tabs become spaces so raw newlines inside strings decode.
// Letters outside ASCII are kept.
func stripUnprintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case r == utf8.RuneError, unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			continue
		case !unicode.IsPrint(r) && !unicode.IsSpace(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeStructured converts typed values (for example []map[string]string)
// into the generic shapes produced by encoding/json.
func normalizeStructured(v any) any {
	switch v.(type) {
	case nil, []any, map[string]any:
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func toProposal(entry any) (domain.FlashcardProposal, bool) {
	obj, ok := entry.(map[string]any)
	if !ok {
		return domain.FlashcardProposal{}, false
	}

	front, ok := obj["front"].(string)
	if !ok || strings.TrimSpace(front) == "" {
		return domain.FlashcardProposal{}, false
	}
	back, ok := obj["back"].(string)
	if !ok || strings.TrimSpace(back) == "" {
		return domain.FlashcardProposal{}, false
	}

	return domain.FlashcardProposal{
		Front:  front,
		Back:   back,
		Source: domain.SourceAIFull,
	}, true
}
