package usecase

import (
	"regexp"
	"strings"

	"github.com/gondola/backend/internal/domain"
)

var (
	// bareNumberRegex matches a token that is only digits ("500")
	bareNumberRegex = regexp.MustCompile(`^\d+$`)

	// gluedSizeRegex matches a number immediately followed by a unit ("500g", "2l")
	gluedSizeRegex = regexp.MustCompile(`\d+(l|kg|g|ml)`)
)

// sizeUnits are the unit tokens accepted after a bare number
var sizeUnits = map[string]bool{
	"l":  true,
	"kg": true,
	"g":  true,
	"ml": true,
}

// SignatureExtractor reduces titles to signatures using a fixed vocabulary.
// It holds no mutable state and is safe for concurrent use.
type SignatureExtractor struct {
	baseProducts map[string]bool
	brands       []string
	types        []string
}

// NewSignatureExtractor creates an extractor over the given vocabulary
func NewSignatureExtractor(vocab Vocabulary) *SignatureExtractor {
	v := vocab.normalized()

	base := make(map[string]bool, len(v.BaseProducts))
	for _, p := range v.BaseProducts {
		base[p] = true
	}

	return &SignatureExtractor{
		baseProducts: base,
		brands:       v.Brands,
		types:        v.Types,
	}
}

var defaultExtractor = NewSignatureExtractor(DefaultVocabulary())

// ExtractSignature returns the rendered signature of a title using the
// built-in vocabulary
func ExtractSignature(title string) string {
	return defaultExtractor.Extract(title).String()
}

// Extract computes the four signature slots of a raw title
func (e *SignatureExtractor) Extract(title string) domain.Signature {
	normalized := Normalize(title)
	tokens := strings.Split(normalized, " ")

	return domain.Signature{
		BaseProduct: e.findBaseProduct(tokens),
		Brand:       firstContained(normalized, e.brands),
		Type:        firstContained(normalized, e.types),
		Size:        findSize(tokens),
	}
}

// findBaseProduct returns the first token that is a known base product.
// Token-exact on purpose: base product is the main clustering axis.
func (e *SignatureExtractor) findBaseProduct(tokens []string) string {
	for _, token := range tokens {
		if e.baseProducts[token] {
			return token
		}
	}
	return ""
}

// firstContained returns the first vocabulary entry occurring anywhere in text
func firstContained(text string, vocabulary []string) string {
	for _, entry := range vocabulary {
		if strings.Contains(text, entry) {
			return entry
		}
	}
	return ""
}

// findSize looks for "<number> <unit>" first and falls back to a glued
// "<number><unit>" token. A number followed by anything else yields no size.
func findSize(tokens []string) string {
	for i, token := range tokens {
		if !bareNumberRegex.MatchString(token) || i+1 >= len(tokens) {
			continue
		}
		unit := tokens[i+1]
		if isSizeUnit(unit) {
			return StandardizeUnit(token + " " + unit)
		}
	}

	for _, token := range tokens {
		if gluedSizeRegex.MatchString(token) {
			return token
		}
	}

	return ""
}

// isSizeUnit accepts exact units plus anything starting with "l" or "kg",
// which also admits "litros" and "lata". Tightening it would re-cluster.
func isSizeUnit(token string) bool {
	return sizeUnits[token] || strings.HasPrefix(token, "l") || strings.HasPrefix(token, "kg")
}
