package recommend

import (
	"context"
	"math/rand"
	"testing"

	"shopRecs/domain"
)

func trendingCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, CategoryID: 1, Title: "alpha", SalesCount: 100},
		{ID: 2, CategoryID: 1, Title: "bravo", SalesCount: 90},
		{ID: 3, CategoryID: 2, Title: "charlie", SalesCount: 80},
		{ID: 4, CategoryID: 2, Title: "delta", SalesCount: 70},
		{ID: 5, CategoryID: 3, Title: "echo", SalesCount: 60},
		{ID: 6, CategoryID: 3, Title: "foxtrot", SalesCount: 50},
		{ID: 7, CategoryID: 4, Title: "golf", SalesCount: 40},
	}
}

func TestGetRecommendationsAnonymousFallsBackToTrending(t *testing.T) {
	s := newTestService(&fakeProductRepo{products: trendingCatalog()}, nil, nil, nil)

	d, err := s.GetRecommendations(context.Background(), 0, 0, 5)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if len(d.Items) != 5 {
		t.Fatalf("got %d items, want 5", len(d.Items))
	}
	// No anchor and no user: the whole page comes from trending, and the
	// pinned prefix keeps the two best sellers up front.
	if d.Items[0] != 1 || d.Items[1] != 2 {
		t.Fatalf("pinned prefix = %v, want [1 2 ...]", d.Items[:2])
	}
	wantSet := toSet([]uint64{1, 2, 3, 4, 5})
	for _, id := range d.Items {
		if _, ok := wantSet[id]; !ok {
			t.Errorf("unexpected item %d", id)
		}
		if d.Sources[id] != SourceTrending {
			t.Errorf("item %d tagged %q, want trending", id, d.Sources[id])
		}
	}
	if d.Meta.TrendingCount != 5 {
		t.Errorf("trending count = %d, want 5", d.Meta.TrendingCount)
	}
}

func TestGetRecommendationsNeverRepeatsOrIncludesAnchor(t *testing.T) {
	products := &fakeProductRepo{products: trendingCatalog()}
	interactions := &fakeInteractionRepo{
		purchases:    map[uint64][]uint64{10: {7}},
		similarUsers: []domain.UserCategoryCount{{UserID: 20, MatchCount: 2}},
		userProducts: trendingCatalog(),
	}
	s := newTestService(products, interactions, nil, nil)

	d, err := s.GetRecommendations(context.Background(), 10, 1, 6)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	seen := map[uint64]struct{}{}
	for _, id := range d.Items {
		if id == 1 {
			t.Fatal("anchor recommended to itself")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("item %d appears twice in %v", id, d.Items)
		}
		seen[id] = struct{}{}
		if d.Sources[id] == "" {
			t.Errorf("item %d has no source tag", id)
		}
	}
	if len(d.Items) != 6 {
		t.Fatalf("got %d items, want 6", len(d.Items))
	}
}

func TestGetRecommendationsStageComposition(t *testing.T) {
	products := &fakeProductRepo{products: trendingCatalog()}
	s := newTestService(products, nil, nil, nil)

	d, err := s.GetRecommendations(context.Background(), 0, 1, 7)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if d.Meta.ContentCount != s.cfg.ContentTake {
		t.Errorf("content count = %d, want %d", d.Meta.ContentCount, s.cfg.ContentTake)
	}
	// With the anchor and four content picks consumed, the complementary
	// stage still finds room; collaborative is skipped for userID 0 and
	// trending fills the rest.
	if d.Meta.CollaborativeCount != 0 {
		t.Errorf("collaborative count = %d, want 0 for anonymous request", d.Meta.CollaborativeCount)
	}
	total := d.Meta.ContentCount + d.Meta.ComplementaryCount + d.Meta.CollaborativeCount + d.Meta.TrendingCount
	if total != len(d.Items) {
		t.Errorf("meta counts sum to %d, items = %d", total, len(d.Items))
	}
}

func TestGetRecommendationsMissingAnchorDegrades(t *testing.T) {
	s := newTestService(&fakeProductRepo{products: trendingCatalog()}, nil, nil, nil)

	d, err := s.GetRecommendations(context.Background(), 0, 999, 4)
	if err != nil {
		t.Fatalf("GetRecommendations with missing anchor: %v", err)
	}
	if len(d.Items) != 4 {
		t.Fatalf("got %d items, want 4 from trending fallback", len(d.Items))
	}
	for _, id := range d.Items {
		if d.Sources[id] != SourceTrending {
			t.Errorf("item %d tagged %q, want trending", id, d.Sources[id])
		}
	}
}

func TestGetRecommendationsStoreUnavailableFailsFast(t *testing.T) {
	products := &fakeProductRepo{
		products:   trendingCatalog(),
		findAllErr: domain.ErrStoreUnavailable,
	}
	s := newTestService(products, nil, nil, nil)

	if _, err := s.GetRecommendations(context.Background(), 0, 1, 5); err == nil {
		t.Fatal("expected error when catalog load fails")
	}
}

func TestSmartShufflePermutesAndPreservesLength(t *testing.T) {
	s := newTestService(&fakeProductRepo{}, nil, nil, nil)

	items := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	original := toSet(items)

	s.smartShuffle(items, rand.New(rand.NewSource(7)))

	if len(items) != 8 {
		t.Fatalf("length changed to %d", len(items))
	}
	for _, id := range items {
		if _, ok := original[id]; !ok {
			t.Fatalf("shuffle invented item %d", id)
		}
		delete(original, id)
	}
	if len(original) != 0 {
		t.Fatalf("shuffle dropped items: %v", original)
	}
}

func TestSmartShuffleShortSlicesUntouched(t *testing.T) {
	s := newTestService(&fakeProductRepo{}, nil, nil, nil)

	items := []uint64{42}
	s.smartShuffle(items, rand.New(rand.NewSource(1)))
	if items[0] != 42 {
		t.Fatal("single-element slice reordered")
	}
}

func TestStageLabel(t *testing.T) {
	cases := []struct {
		userID, productID uint64
		want              string
	}{
		{10, 1, "hybrid"},
		{0, 1, "product"},
		{10, 0, "user"},
		{0, 0, "trending"},
	}
	for _, tc := range cases {
		d := Decision{UserID: tc.userID, ProductID: tc.productID}
		if got := stageLabel(d); got != tc.want {
			t.Errorf("stageLabel(user=%d, product=%d) = %q, want %q", tc.userID, tc.productID, got, tc.want)
		}
	}
}

func TestGetUserRecommendationsExcludesHistoryAndPaginates(t *testing.T) {
	products := &fakeProductRepo{products: trendingCatalog()}
	interactions := &fakeInteractionRepo{
		purchases: map[uint64][]uint64{10: {1}},
	}
	s := newTestService(products, interactions, nil, nil)

	page1, d, err := s.GetUserRecommendations(context.Background(), UserRecParams{UserID: 10, Limit: 3, Page: 1})
	if err != nil {
		t.Fatalf("GetUserRecommendations: %v", err)
	}
	if len(page1) == 0 || len(page1) > 3 {
		t.Fatalf("page 1 size = %d, want 1..3", len(page1))
	}
	for _, rec := range page1 {
		if rec.ProductID == 1 {
			t.Fatal("purchased product recommended back to the user")
		}
	}
	if len(d.Items) != len(page1) {
		t.Fatalf("decision items = %d, page = %d", len(d.Items), len(page1))
	}

	// Six candidates survive history filtering, so a 3-per-page split fills
	// two pages exactly.
	page2, _, err := s.GetUserRecommendations(context.Background(), UserRecParams{UserID: 10, Limit: 3, Page: 2})
	if err != nil {
		t.Fatalf("GetUserRecommendations page 2: %v", err)
	}
	if len(page2) != 3 {
		t.Fatalf("page 2 size = %d, want 3", len(page2))
	}
	for _, rec := range page2 {
		if rec.ProductID == 1 {
			t.Fatal("purchased product recommended back to the user")
		}
	}
}

func TestGetUserRecommendationsPageBeyondEnd(t *testing.T) {
	products := &fakeProductRepo{products: trendingCatalog()}
	interactions := &fakeInteractionRepo{
		purchases: map[uint64][]uint64{10: {1}},
	}
	s := newTestService(products, interactions, nil, nil)

	page, d, err := s.GetUserRecommendations(context.Background(), UserRecParams{UserID: 10, Limit: 10, Page: 50})
	if err != nil {
		t.Fatalf("GetUserRecommendations: %v", err)
	}
	if len(page) != 0 || len(d.Items) != 0 {
		t.Fatalf("far page returned %d recs, want 0", len(page))
	}
}

func TestGetUserRecommendationsScoresSortedDescending(t *testing.T) {
	products := &fakeProductRepo{products: trendingCatalog()}
	interactions := &fakeInteractionRepo{
		purchases: map[uint64][]uint64{10: {1, 3}},
	}
	s := newTestService(products, interactions, nil, nil)

	page, _, err := s.GetUserRecommendations(context.Background(), UserRecParams{UserID: 10, Limit: 10, Page: 1})
	if err != nil {
		t.Fatalf("GetUserRecommendations: %v", err)
	}
	for i := 1; i < len(page); i++ {
		if page[i].Score > page[i-1].Score {
			t.Fatalf("scores not descending at %d: %v then %v", i, page[i-1].Score, page[i].Score)
		}
	}
}

func TestHomeRecommendationsDeduplicatesAndLimits(t *testing.T) {
	s := newTestService(&fakeProductRepo{products: trendingCatalog()}, nil, nil, nil)

	got, err := s.HomeRecommendations(context.Background(), 5)
	if err != nil {
		t.Fatalf("HomeRecommendations: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d products, want 5", len(got))
	}
	seen := map[uint64]struct{}{}
	for _, p := range got {
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("product %d appears twice", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
}
