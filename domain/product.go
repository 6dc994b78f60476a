package domain

import (
	"time"

	"github.com/lib/pq"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     code            TEXT UNIQUE,
//     title           TEXT NOT NULL,
//     slug            TEXT UNIQUE,
//     category_id     BIGINT,
//     sizes           TEXT[],
//     original_price  NUMERIC,
//     sale_price      NUMERIC,
//     description     TEXT,
//     sales_count     BIGINT DEFAULT 0,
//     rating          NUMERIC DEFAULT 0,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string         `gorm:"column:code;type:text" json:"code"`
	Title         string         `gorm:"column:title;type:text;not null" json:"title"`
	Slug          string         `gorm:"column:slug;type:text" json:"slug"`
	CategoryID    uint64         `gorm:"column:category_id;default:0" json:"category_id"`
	Sizes         pq.StringArray `gorm:"column:sizes;type:text[]" json:"sizes"`
	OriginalPrice float64        `gorm:"column:original_price;type:numeric" json:"original_price"`
	SalePrice     float64        `gorm:"column:sale_price;type:numeric" json:"sale_price"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	SalesCount    int64          `gorm:"column:sales_count;default:0" json:"sales_count"`
	Rating        float64        `gorm:"column:rating;type:numeric;default:0" json:"rating"`
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
