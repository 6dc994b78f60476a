package evaluate

import "testing"

func TestTitleSimilarityIdenticalAndDisjoint(t *testing.T) {
	if got := TitleSimilarity("Red Shoes", "red shoes"); got != 1 {
		t.Errorf("case-insensitive identical = %v, want 1", got)
	}
	if got := TitleSimilarity("red shoes", "xyzq"); got != 0 {
		t.Errorf("disjoint = %v, want 0", got)
	}
}

func TestTitleSimilarityIgnoresWhitespace(t *testing.T) {
	if got := TitleSimilarity("red  shoes", " redshoes "); got != 1 {
		t.Errorf("whitespace-normalized identical = %v, want 1", got)
	}
}

func TestTitleSimilarityEdgeCases(t *testing.T) {
	if got := TitleSimilarity("", ""); got != 0 {
		t.Errorf("both empty = %v, want 0", got)
	}
	if got := TitleSimilarity("a", "ab"); got != 0 {
		t.Errorf("single rune = %v, want 0", got)
	}
}

func TestTitleSimilarityKnownValue(t *testing.T) {
	// "night" and "nacht": bigrams {ni,ig,gh,ht} vs {na,ac,ch,ht},
	// one shared bigram: 2*1/(4+4) = 0.25.
	if got := TitleSimilarity("night", "nacht"); got != 0.25 {
		t.Errorf("dice(night, nacht) = %v, want 0.25", got)
	}
}

func TestTitleSimilarityMultisetBigrams(t *testing.T) {
	// Repeated bigrams only match as often as they occur on both sides.
	if got := TitleSimilarity("aaaa", "aa"); got != 2.0/4.0 {
		t.Errorf("dice(aaaa, aa) = %v, want 0.5", got)
	}
}

func TestTitleSimilaritySymmetric(t *testing.T) {
	ab := TitleSimilarity("wool winter scarf", "wool summer scarf")
	ba := TitleSimilarity("wool summer scarf", "wool winter scarf")
	if ab != ba {
		t.Errorf("not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 || ab >= 1 {
		t.Errorf("partial overlap = %v, want in (0,1)", ab)
	}
}
