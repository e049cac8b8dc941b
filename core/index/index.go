package index

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/siherrmann/trailrag/model"
)

// EmbedFunc generates a sparse weighted term vector for a text. It must be
// deterministic for the same text so corpus passages and live queries go
// through the same encoder.
type EmbedFunc func(text string) (model.Vector, error)

// Scored pairs a passage id with a similarity or blended score
type Scored struct {
	PassageID string
	Score     float64
}

// Index holds one vector per passage and computes pairwise similarity.
// It is immutable after construction and safe for concurrent readers.
//
// The default encoder is a TF-IDF weighting over the corpus vocabulary with
// document frequencies frozen at build time: idf = ln(1 + N/(1+df)) and
// tf = 0.5 + 0.5*count/maxCount. Out-of-vocabulary terms are dropped, so a
// query with no vocabulary overlap embeds to the zero vector, whose
// similarity to every passage is 0.0.
type Index struct {
	idf        map[string]float64
	vocabOrder []string
	vectors    map[string]model.Vector
	ids        []string
	embed      EmbedFunc
}

// Tokenize splits text into lowercase alphanumeric terms
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLower(r) && !unicode.IsDigit(r)
	})
}

// Build constructs an index over the given passages with the TF-IDF encoder
func Build(passages []*model.Passage) *Index {
	idx := &Index{
		idf:     map[string]float64{},
		vectors: map[string]model.Vector{},
	}

	// Document frequencies over the corpus
	df := map[string]int{}
	for _, passage := range passages {
		seen := map[string]struct{}{}
		for _, term := range Tokenize(passage.Text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	docCount := float64(len(passages))
	for term, containing := range df {
		idx.idf[term] = math.Log(1 + docCount/float64(1+containing))
		idx.vocabOrder = append(idx.vocabOrder, term)
	}
	sort.Strings(idx.vocabOrder)

	for _, passage := range passages {
		vector, _ := idx.Embed(passage.Text)
		idx.vectors[passage.ID] = vector
		idx.ids = append(idx.ids, passage.ID)
	}
	sort.Strings(idx.ids)

	return idx
}

// BuildWithEmbedder constructs an index using a custom encoder for both the
// passages and later queries. The vocabulary for dense materialization is the
// sorted union of term keys produced over the corpus.
func BuildWithEmbedder(passages []*model.Passage, embed EmbedFunc) (*Index, error) {
	idx := &Index{
		vectors: map[string]model.Vector{},
		embed:   embed,
	}

	vocab := map[string]struct{}{}
	for _, passage := range passages {
		vector, err := embed(passage.Text)
		if err != nil {
			return nil, err
		}
		idx.vectors[passage.ID] = vector
		idx.ids = append(idx.ids, passage.ID)
		for term := range vector {
			vocab[term] = struct{}{}
		}
	}
	sort.Strings(idx.ids)

	for term := range vocab {
		idx.vocabOrder = append(idx.vocabOrder, term)
	}
	sort.Strings(idx.vocabOrder)

	return idx, nil
}

// Embed encodes a text with the index encoder. With the default TF-IDF
// encoder an out-of-vocabulary-only text yields the zero vector.
func (idx *Index) Embed(text string) (model.Vector, error) {
	if idx.embed != nil {
		return idx.embed(text)
	}

	counts := map[string]int{}
	maxCount := 0
	for _, term := range Tokenize(text) {
		counts[term]++
		if counts[term] > maxCount {
			maxCount = counts[term]
		}
	}

	vector := model.Vector{}
	for term, count := range counts {
		idf, ok := idx.idf[term]
		if !ok {
			continue
		}
		tf := 0.5 + 0.5*float64(count)/float64(maxCount)
		vector[term] = tf * idf
	}

	return vector, nil
}

// Similarity computes the cosine similarity of two vectors in [-1, 1].
// Similarity involving a zero vector is defined as 0.0.
func (idx *Index) Similarity(a, b model.Vector) float64 {
	return model.CosineSimilarity(a, b)
}

// Scores computes the similarity of the query vector against every indexed
// passage, ordered by score descending with ties broken by passage id
// ascending for determinism.
func (idx *Index) Scores(query model.Vector) []Scored {
	scored := make([]Scored, 0, len(idx.ids))
	for _, id := range idx.ids {
		scored = append(scored, Scored{
			PassageID: id,
			Score:     model.CosineSimilarity(query, idx.vectors[id]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].PassageID < scored[j].PassageID
	})

	return scored
}

// TopK returns the k highest scoring passages for the query vector. If k
// exceeds the corpus size all passages are returned.
func (idx *Index) TopK(query model.Vector, k int) []Scored {
	scored := idx.Scores(query)
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// Vector returns the indexed vector for a passage
func (idx *Index) Vector(passageID string) (model.Vector, bool) {
	vector, ok := idx.vectors[passageID]
	return vector, ok
}

// Len returns the number of indexed passages
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Dimension returns the size of the frozen vocabulary, the length of vectors
// returned by Dense.
func (idx *Index) Dimension() int {
	return len(idx.vocabOrder)
}

// Dense materializes a passage vector over the frozen vocabulary order, for
// export into fixed-width vector columns.
func (idx *Index) Dense(passageID string) ([]float32, bool) {
	sparse, ok := idx.vectors[passageID]
	if !ok {
		return nil, false
	}

	dense := make([]float32, len(idx.vocabOrder))
	for i, term := range idx.vocabOrder {
		dense[i] = float32(sparse[term])
	}
	return dense, true
}
