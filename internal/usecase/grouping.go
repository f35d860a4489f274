package usecase

import "github.com/gondola/backend/internal/domain"

// Group folds records into categories keyed by their signature under the
// built-in vocabulary
func Group(records []domain.ProductRecord) []domain.CategoryGroup {
	signatures := make([]string, len(records))
	for i, record := range records {
		signatures[i] = ExtractSignature(record.Title)
	}
	return GroupBySignature(records, signatures)
}

// GroupBySignature folds records left to right into one group per distinct
// signature. signatures[i] must belong to records[i]. Groups come out in
// first-seen order, members in input order, and each group is labelled with
// the raw title of its first member. Groups are never merged or re-keyed.
func GroupBySignature(records []domain.ProductRecord, signatures []string) []domain.CategoryGroup {
	groups := make([]domain.CategoryGroup, 0)
	index := make(map[string]int)

	for i, record := range records {
		sig := signatures[i]

		pos, seen := index[sig]
		if !seen {
			pos = len(groups)
			index[sig] = pos
			groups = append(groups, domain.CategoryGroup{Category: record.Title})
		}

		groups[pos].Products = append(groups[pos].Products, domain.ProductRecord{
			Title:       record.Title,
			Supermarket: record.Supermarket,
		})
		groups[pos].Count = len(groups[pos].Products)
	}

	return groups
}
