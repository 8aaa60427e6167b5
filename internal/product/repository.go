// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/wholesale-api/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(
		ctx context.Context,
		exec core.DBTX,
		ids []string,
	) (map[string]*Product, error)
	ReserveStock(ctx context.Context, exec core.DBTX, id string, qty int) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, sku, name, wholesale_price, stock_quantity,
	min_order_qty, is_active, created_at, updated_at`

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Product, error) {
	query := `SELECT` + productColumns + `
		FROM products
		WHERE id = $1`

	var p Product
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// GetByIDs runs on the supplied executor so order creation can read
// product rows inside its own transaction.
func (r *repository) GetByIDs(
	ctx context.Context,
	exec core.DBTX,
	ids []string,
) (map[string]*Product, error) {
	if len(ids) == 0 {
		return map[string]*Product{}, nil
	}

	query := `SELECT` + productColumns + `
		FROM products
		WHERE id = ANY($1)`

	var products []Product
	if err := exec.SelectContext(ctx, &products, query, ids); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[string]*Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	return byID, nil
}

// ReserveStock decrements stock in a single statement guarded by the
// remaining quantity. Zero rows affected means the product is missing,
// inactive, or short on stock.
func (r *repository) ReserveStock(
	ctx context.Context,
	exec core.DBTX,
	id string,
	qty int,
) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1
			AND is_active = true
			AND stock_quantity >= $2`

	result, err := exec.ExecContext(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("reserve stock %s: %w", id, core.ErrProductUnavailable)
	}

	return nil
}
