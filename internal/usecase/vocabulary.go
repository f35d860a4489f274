package usecase

// Vocabulary is the fixed domain knowledge used to fill signature slots.
// Order matters for Brands and Types: the first entry found in a title wins.
type Vocabulary struct {
	BaseProducts []string
	Brands       []string
	Types        []string
}

var (
	defaultBaseProducts = []string{"leite", "arroz", "feijao"}

	defaultBrands = []string{"piracanjuba", "italac", "parmalat", "tio joao", "camil"}

	// "semi desnatado" sits after "desnatado", so a semi-skimmed title
	// resolves to "desnatado". Keep the order; it defines the clusters.
	defaultTypes = []string{"integral", "desnatado", "semi desnatado", "branco", "carioca"}
)

// DefaultVocabulary returns a copy of the built-in vocabulary
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		BaseProducts: append([]string(nil), defaultBaseProducts...),
		Brands:       append([]string(nil), defaultBrands...),
		Types:        append([]string(nil), defaultTypes...),
	}
}

// normalized returns a copy with every entry run through Normalize, so
// configured entries such as "Tio João" line up with normalized titles.
// Entries that normalize to nothing are dropped.
func (v Vocabulary) normalized() Vocabulary {
	return Vocabulary{
		BaseProducts: normalizeEntries(v.BaseProducts),
		Brands:       normalizeEntries(v.Brands),
		Types:        normalizeEntries(v.Types),
	}
}

func normalizeEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := Normalize(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
