package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Recommendation is one scored product returned to a caller.
type Recommendation struct {
	ProductID uint64  `json:"product_id"`
	Score     float64 `json:"score"`
}

// RecommendationLog persists one ranking decision for offline evaluation.
// Append-only: rows are created once and never updated. UserID and ProductID
// are both nullable (anonymous requests, user-only requests).
type RecommendationLog struct {
	ID          uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      *uint64        `gorm:"column:user_id" json:"user_id"`
	ProductID   *uint64        `gorm:"column:product_id" json:"product_id"`
	Predictions datatypes.JSON `gorm:"column:predictions;type:jsonb" json:"predictions"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationLog) TableName() string {
	return "recommendation_logs"
}

// NewRecommendationLog builds a log row. Zero user/product ids are stored as
// NULL so the evaluator can tell anonymous and anchorless events apart.
func NewRecommendationLog(userID, productID uint64, predictions []uint64) (RecommendationLog, error) {
	raw, err := json.Marshal(predictions)
	if err != nil {
		return RecommendationLog{}, fmt.Errorf("marshal predictions: %w", err)
	}

	rec := RecommendationLog{Predictions: datatypes.JSON(raw)}
	if userID != 0 {
		rec.UserID = &userID
	}
	if productID != 0 {
		rec.ProductID = &productID
	}

	return rec, nil
}

// PredictionIDs decodes the ordered predicted product id list.
func (l RecommendationLog) PredictionIDs() ([]uint64, error) {
	if len(l.Predictions) == 0 {
		return nil, nil
	}

	var ids []uint64
	if err := json.Unmarshal(l.Predictions, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal predictions: %w", err)
	}

	return ids, nil
}
