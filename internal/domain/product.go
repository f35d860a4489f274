package domain

// ProductRecord is a single retail listing as supplied by a supermarket feed
type ProductRecord struct {
	Title       string `json:"title"`
	Supermarket string `json:"supermarket"`
}

// CategoryGroup holds every listing that reduced to the same signature.
// Category is the raw title of the first listing seen for that signature.
type CategoryGroup struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Products []ProductRecord `json:"products"`
}

// Signature is the canonical key of a listing. Empty slots stay empty so the
// rendered key always has four slots joined by three delimiters.
type Signature struct {
	BaseProduct string `json:"baseProduct"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
	Size        string `json:"size"`
}

// SignatureDelimiter separates the slots of a rendered signature
const SignatureDelimiter = "-"

// String renders the signature as "base-brand-type-size"
func (s Signature) String() string {
	return s.BaseProduct + SignatureDelimiter +
		s.Brand + SignatureDelimiter +
		s.Type + SignatureDelimiter +
		s.Size
}
