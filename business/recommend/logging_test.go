package recommend

import (
	"context"
	"testing"
)

func TestLogDecisionPersistsPredictions(t *testing.T) {
	logs := &fakeLogRepo{}
	s := newTestService(&fakeProductRepo{}, nil, nil, logs)

	d := Decision{UserID: 10, ProductID: 1, Items: []uint64{2, 3, 4}}
	s.LogDecision(context.Background(), d)

	if len(logs.appended) != 1 {
		t.Fatalf("appended %d logs, want 1", len(logs.appended))
	}

	rec := logs.appended[0]
	if rec.UserID == nil || *rec.UserID != 10 {
		t.Errorf("user id = %v, want 10", rec.UserID)
	}
	if rec.ProductID == nil || *rec.ProductID != 1 {
		t.Errorf("product id = %v, want 1", rec.ProductID)
	}

	ids, err := rec.PredictionIDs()
	if err != nil {
		t.Fatalf("PredictionIDs: %v", err)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 3 || ids[2] != 4 {
		t.Errorf("predictions = %v, want [2 3 4]", ids)
	}
}

func TestLogDecisionAnonymousStoresNulls(t *testing.T) {
	logs := &fakeLogRepo{}
	s := newTestService(&fakeProductRepo{}, nil, nil, logs)

	s.LogDecision(context.Background(), Decision{Items: []uint64{5}})

	if len(logs.appended) != 1 {
		t.Fatalf("appended %d logs, want 1", len(logs.appended))
	}
	if logs.appended[0].UserID != nil || logs.appended[0].ProductID != nil {
		t.Error("anonymous decision should store NULL user and product ids")
	}
}

func TestLogDecisionSkipsEmptyItems(t *testing.T) {
	logs := &fakeLogRepo{}
	s := newTestService(&fakeProductRepo{}, nil, nil, logs)

	s.LogDecision(context.Background(), Decision{UserID: 10})

	if len(logs.appended) != 0 {
		t.Fatalf("appended %d logs, want 0 for empty decision", len(logs.appended))
	}
}

func TestLogDecisionRetriesOnce(t *testing.T) {
	logs := &fakeLogRepo{failures: 1}
	s := newTestService(&fakeProductRepo{}, nil, nil, logs)

	s.LogDecision(context.Background(), Decision{Items: []uint64{1}})

	if len(logs.appended) != 1 {
		t.Fatalf("appended %d logs, want 1 after one retry", len(logs.appended))
	}
}

func TestLogDecisionGivesUpAfterRetry(t *testing.T) {
	logs := &fakeLogRepo{failures: 2}
	s := newTestService(&fakeProductRepo{}, nil, nil, logs)

	// Must not panic or block; a dead log store degrades to a warning.
	s.LogDecision(context.Background(), Decision{Items: []uint64{1}})

	if len(logs.appended) != 0 {
		t.Fatalf("appended %d logs, want 0 when every attempt fails", len(logs.appended))
	}
}
