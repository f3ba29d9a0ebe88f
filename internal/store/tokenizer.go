package store

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"
)

// MinTokenLength drops single-character fragments such as the "s" in "userS".
const MinTokenLength = 2

// Span is a token together with its byte offsets in the source text.
type Span struct {
	Term  string
	Start int
	End   int
}

// TokenizeCode splits text with identifier-aware rules.
// It handles camelCase, PascalCase, snake_case, and filters short tokens.
// All tokens are lowercased.
func TokenizeCode(text string) []string {
	spans := ScanCode(text)
	tokens := make([]string, len(spans))
	for i, s := range spans {
		tokens[i] = s.Term
	}
	return tokens
}

// ScanCode is TokenizeCode with byte offsets, as bleve needs them for
// highlighting and phrase positions.
func ScanCode(text string) []Span {
	var spans []Span

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		spans = appendWordSpans(spans, text[start:end], start)
		start = -1
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return spans
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// appendWordSpans splits one word on underscores and case changes.
func appendWordSpans(spans []Span, word string, offset int) []Span {
	pos := 0
	for _, part := range strings.Split(word, "_") {
		partStart := pos
		pos += len(part) + 1
		if part == "" {
			continue
		}
		sub := partStart
		for _, piece := range SplitCamelCase(part) {
			if utf8.RuneCountInString(piece) >= MinTokenLength {
				spans = append(spans, Span{
					Term:  strings.ToLower(piece),
					Start: offset + sub,
					End:   offset + sub + len(piece),
				})
			}
			sub += len(piece)
		}
	}
	return spans
}

// SplitCodeToken splits camelCase and snake_case identifiers.
func SplitCodeToken(token string) []string {
	var result []string
	for _, part := range strings.Split(token, "_") {
		if part != "" {
			result = append(result, SplitCamelCase(part)...)
		}
	}
	return result
}

// SplitCamelCase splits camelCase and PascalCase identifiers.
// Examples:
//   - "getUserById" -> ["get", "User", "By", "Id"]
//   - "HTTPHandler" -> ["HTTP", "Handler"]
//   - "parseHTTPRequest" -> ["parse", "HTTP", "Request"]
func SplitCamelCase(s string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevIsLower := unicode.IsLower(runes[i-1])
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			// Split if previous is lowercase OR next is lowercase (handles acronyms)
			if prevIsLower || nextIsLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

func init() {
	_ = registry.RegisterTokenizer(CodeTokenizerName, codeTokenizerConstructor)
}

func codeTokenizerConstructor(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	return codeTokenizer{}, nil
}

// codeTokenizer adapts ScanCode to bleve's analysis.Tokenizer.
type codeTokenizer struct{}

func (codeTokenizer) Tokenize(input []byte) analysis.TokenStream {
	spans := ScanCode(string(input))

	stream := make(analysis.TokenStream, 0, len(spans))
	for i, s := range spans {
		stream = append(stream, &analysis.Token{
			Term:     []byte(s.Term),
			Start:    s.Start,
			End:      s.End,
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
	}
	return stream
}
