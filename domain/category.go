package domain

import (
	"time"
)

// CREATE TABLE public.categories (
//     category_id  BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name         TEXT NOT NULL,
//     parent_id    BIGINT,
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	CategoryID uint64    `gorm:"primaryKey;column:category_id;autoIncrement" json:"category_id"`
	Name       string    `gorm:"column:name;type:text;not null" json:"name"`
	ParentID   *uint64   `gorm:"column:parent_id" json:"parent_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
