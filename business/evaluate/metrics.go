package evaluate

import "math"

// Ranking-quality metrics over a predicted id list and a relevant id set,
// truncated to the top k predictions. Relevance is binary.

func topK(predicted []uint64, k int) []uint64 {
	if k < len(predicted) {
		return predicted[:k]
	}
	return predicted
}

// PrecisionAtK = |topK ∩ relevant| / k.
func PrecisionAtK(predicted []uint64, relevant map[uint64]struct{}, k int) float64 {
	if k <= 0 {
		return 0
	}

	hits := 0
	for _, id := range topK(predicted, k) {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}

// RecallAtK = |topK ∩ relevant| / |relevant|, 0 when relevant is empty.
func RecallAtK(predicted []uint64, relevant map[uint64]struct{}, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}

	hits := 0
	for _, id := range topK(predicted, k) {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(relevant))
}

// NDCGAtK discounts each hit by 1/log2(rank+2) and normalizes by the ideal
// DCG for min(k, |relevant|) hits.
func NDCGAtK(predicted []uint64, relevant map[uint64]struct{}, k int) float64 {
	dcg := 0.0
	for i, id := range topK(predicted, k) {
		if _, ok := relevant[id]; ok {
			dcg += 1 / math.Log2(float64(i)+2)
		}
	}

	ideal := len(relevant)
	if k < ideal {
		ideal = k
	}
	idcg := 0.0
	for i := 0; i < ideal; i++ {
		idcg += 1 / math.Log2(float64(i)+2)
	}

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// MAPAtK is the mean of precision-at-each-hit-position over the top k.
func MAPAtK(predicted []uint64, relevant map[uint64]struct{}, k int) float64 {
	top := topK(predicted, k)
	if len(top) == 0 {
		return 0
	}

	sum := 0.0
	hits := 0
	for i, id := range top {
		if _, ok := relevant[id]; ok {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}

	return sum / float64(len(top))
}

// F1Score is the harmonic mean of precision and recall, 0 when both are 0.
func F1Score(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
