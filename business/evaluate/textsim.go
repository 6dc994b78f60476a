package evaluate

import "strings"

// TitleSimilarity is the Sørensen–Dice coefficient over character bigrams of
// the whitespace-stripped, lower-cased titles. Identical titles score 1,
// disjoint ones 0.
func TitleSimilarity(a, b string) float64 {
	a = normalizeTitle(a)
	b = normalizeTitle(b)

	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := string(rb[i : i+2])
		if bigrams[bg] > 0 {
			bigrams[bg]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "")
}
