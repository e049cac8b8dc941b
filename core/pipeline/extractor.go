package pipeline

import (
	"regexp"
	"sort"

	"github.com/siherrmann/trailrag/model"
)

var capitalizedPattern = regexp.MustCompile(`[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*`)

// CapitalizedEntityExtractor creates a naive extractor that treats runs of
// capitalized words as entity surface forms. Every entity found in a passage
// is reported as related to every other entity of the same passage, each
// unordered pair exactly once (related forms are attached to the
// lexicographically smaller surface).
func CapitalizedEntityExtractor() ExtractFunc {
	return func(text string) ([]model.ExtractedEntity, error) {
		matches := capitalizedPattern.FindAllString(text, -1)
		if len(matches) == 0 {
			return nil, nil
		}

		seen := map[string]struct{}{}
		var surfaces []string
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			surfaces = append(surfaces, match)
		}
		sort.Strings(surfaces)

		extracted := make([]model.ExtractedEntity, 0, len(surfaces))
		for i, surface := range surfaces {
			entity := model.ExtractedEntity{Surface: surface}
			if i+1 < len(surfaces) {
				entity.Related = append(entity.Related, surfaces[i+1:]...)
			}
			extracted = append(extracted, entity)
		}

		return extracted, nil
	}
}
