package domain

import "time"

const (
	InteractionView     = "view"
	InteractionPurchase = "purchase"
	InteractionCart     = "cart"
	InteractionRating   = "rating"
)

// Interaction is an append-only record of a user acting on a product.
// Rows are never updated or deleted by the recommendation subsystem.
type Interaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;not null" json:"user_id"`
	ProductID uint64    `gorm:"column:product_id;not null" json:"product_id"`
	Kind      string    `gorm:"column:kind;not null" json:"kind"`
	Value     *float64  `gorm:"column:value" json:"value,omitempty"`
	SessionID string    `gorm:"column:session_id;type:text" json:"session_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// UserCategoryCount is one "similar user" row: how many purchases the user
// made inside a given category set.
type UserCategoryCount struct {
	UserID     uint64 `gorm:"column:user_id" json:"user_id"`
	MatchCount int    `gorm:"column:match_count" json:"match_count"`
}
