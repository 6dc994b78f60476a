package recommend

import "math/rand"

type Config struct {
	// Content similarity term weights.
	CategoryWeight  float64
	TitleWeight     float64
	AttributeWeight float64

	// Stage sizes for the hybrid ranker.
	ContentTake       int
	ContentPoolMin    int
	ComplementaryScan int
	ComplementaryTake int
	CollaborativeTake int

	// Collaborative scoring.
	SimilarUserLimit int
	CategoryBonus    float64

	// Per-candidate multiplicative jitter is drawn from [1.0, 1.0+JitterSpread).
	JitterSpread float64

	// User-history hybrid scoring.
	HistoryWeight     float64
	RelatedScoreFloor float64

	// Smart shuffle keeps this many leading entries fixed.
	ShufflePinned int

	DefaultLimit int

	// Rand, when set, supplies the per-call random source. Nil means a
	// time-seeded source per call.
	Rand func() *rand.Rand
}

const (
	defaultCategoryWeight  = 0.5
	defaultTitleWeight     = 0.3
	defaultAttributeWeight = 0.2

	defaultContentTake       = 4
	defaultContentPoolMin    = 8
	defaultComplementaryScan = 4
	defaultComplementaryTake = 2
	defaultCollaborativeTake = 3

	defaultSimilarUserLimit = 20
	defaultCategoryBonus    = 1.5
	defaultJitterSpread     = 0.2

	defaultHistoryWeight     = 2.0
	defaultRelatedScoreFloor = 0.5

	defaultShufflePinned = 2
	defaultLimit         = 10
)

func DefaultConfig() Config {
	return Config{
		CategoryWeight:  defaultCategoryWeight,
		TitleWeight:     defaultTitleWeight,
		AttributeWeight: defaultAttributeWeight,

		ContentTake:       defaultContentTake,
		ContentPoolMin:    defaultContentPoolMin,
		ComplementaryScan: defaultComplementaryScan,
		ComplementaryTake: defaultComplementaryTake,
		CollaborativeTake: defaultCollaborativeTake,

		SimilarUserLimit: defaultSimilarUserLimit,
		CategoryBonus:    defaultCategoryBonus,
		JitterSpread:     defaultJitterSpread,

		HistoryWeight:     defaultHistoryWeight,
		RelatedScoreFloor: defaultRelatedScoreFloor,

		ShufflePinned: defaultShufflePinned,
		DefaultLimit:  defaultLimit,
	}
}
