package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with its current stock level.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CreatedAt     time.Time       `json:"createdAt"`
}
