package model

import "math"

// Vector is a sparse weighted term vector (term -> weight). The zero-length
// map is the zero vector.
type Vector map[string]float64

// IsZero reports whether the vector has no non-zero components.
func (v Vector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes the cosine similarity between two sparse vectors.
// Returns a value in [-1, 1]; similarity involving a zero vector is 0.0, not NaN.
func CosineSimilarity(a, b Vector) float64 {
	// Iterate over the smaller map
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}

	normA := a.Norm()
	normB := b.Norm()
	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (normA * normB)
}
