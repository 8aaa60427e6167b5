// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string          `db:"id"`
	SKU            string          `db:"sku"`
	Name           string          `db:"name"`
	WholesalePrice decimal.Decimal `db:"wholesale_price"`
	StockQuantity  int             `db:"stock_quantity"`
	MinOrderQty    int             `db:"min_order_qty"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
