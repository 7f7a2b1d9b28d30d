package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Closest returns the candidate most similar to value and its score. An
// exact caseless match scores 1. Ties keep the earlier candidate so results
// follow registry order. ok is false when nothing shares a token with value.
func Closest(value string, candidates []string) (best string, score float64, ok bool) {
	target := NewFingerprint(value)
	for _, candidate := range candidates {
		var s float64
		if EqualFold(value, candidate) {
			s = 1
		} else {
			s = CosineSimilarity(target, NewFingerprint(candidate))
		}
		if s > score {
			best, score, ok = candidate, s, true
		}
	}
	return best, score, ok
}
