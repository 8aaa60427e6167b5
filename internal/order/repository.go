// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/product"
)

// ItemSpec is one requested order line before pricing.
type ItemSpec struct {
	ProductID string
	Quantity  int
}

type Repository interface {
	Create(ctx context.Context, o *Order, specs []ItemSpec) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
}

type repository struct {
	db       *sqlx.DB
	products product.Repository
}

func NewRepository(db *sqlx.DB, products product.Repository) Repository {
	return &repository{db: db, products: products}
}

const orderColumns = `
	id, order_number, customer_id, status, payment_status, payment_method,
	subtotal, discount_amount, tax_amount, shipping_amount, total_amount,
	shipping_address, billing_address, notes, created_by,
	created_at, updated_at`

const itemColumns = `
	id, order_id, product_id, sku, name, unit_price, quantity,
	line_total, created_at`

// Create assembles the whole order in one transaction: customer check,
// pricing reads, header insert, item inserts, and one guarded stock
// decrement per line. Any failure rolls everything back.
func (r *repository) Create(
	ctx context.Context,
	o *Order,
	specs []ItemSpec,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var customerExists bool
		err := tx.GetContext(ctx, &customerExists,
			`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`,
			o.CustomerID,
		)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !customerExists {
			return fmt.Errorf("customer %s: %w", o.CustomerID, core.ErrNotFound)
		}

		ids := make([]string, 0, len(specs))
		for _, spec := range specs {
			ids = append(ids, spec.ProductID)
		}

		products, err := r.products.GetByIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		o.Items = o.Items[:0]
		for _, spec := range specs {
			p, ok := products[spec.ProductID]
			if !ok || !p.IsActive {
				return core.ProductUnavailableError(spec.ProductID)
			}

			lineTotal := p.WholesalePrice.Mul(
				decimal.NewFromInt(int64(spec.Quantity)),
			)

			o.Items = append(o.Items, OrderItem{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: p.ID,
				SKU:       p.SKU,
				Name:      p.Name,
				UnitPrice: p.WholesalePrice,
				Quantity:  spec.Quantity,
				LineTotal: lineTotal,
			})

			o.Subtotal = o.Subtotal.Add(lineTotal)
		}

		o.TotalAmount = o.Subtotal.
			Sub(o.DiscountAmount).
			Add(o.TaxAmount).
			Add(o.ShippingAmount)

		insertHeader := `
			INSERT INTO orders (
				id, order_number, customer_id, status, payment_status,
				payment_method, subtotal, discount_amount, tax_amount,
				shipping_amount, total_amount, shipping_address,
				billing_address, notes, created_by
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
			)
			RETURNING created_at, updated_at`

		err = tx.QueryRowxContext(ctx, insertHeader,
			o.ID, o.OrderNumber, o.CustomerID, o.Status, o.PaymentStatus,
			o.PaymentMethod, o.Subtotal, o.DiscountAmount, o.TaxAmount,
			o.ShippingAmount, o.TotalAmount, o.ShippingAddress,
			o.BillingAddress, o.Notes, o.CreatedBy,
		).Scan(&o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		insertItem := `
			INSERT INTO order_items (
				id, order_id, product_id, sku, name, unit_price,
				quantity, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at`

		for i := range o.Items {
			item := &o.Items[i]

			if err := r.products.ReserveStock(
				ctx, tx, item.ProductID, item.Quantity,
			); err != nil {
				if errors.Is(err, core.ErrProductUnavailable) {
					return core.ProductUnavailableError(item.ProductID)
				}
				return err
			}

			err = tx.QueryRowxContext(ctx, insertItem,
				item.ID, item.OrderID, item.ProductID, item.SKU,
				item.Name, item.UnitPrice, item.Quantity, item.LineTotal,
			).Scan(&item.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `SELECT` + orderColumns + `
		FROM orders
		WHERE id = $1`

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemQuery := `SELECT` + itemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &o.Items, itemQuery, id); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}

	return &o, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	var conditions []string
	var args []any

	if params.Status != "" {
		args = append(args, params.Status)
		conditions = append(conditions,
			fmt.Sprintf("status = $%d", len(args)))
	}
	if params.CustomerID != "" {
		args = append(args, params.CustomerID)
		conditions = append(conditions,
			fmt.Sprintf("customer_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT` + orderColumns + `
		FROM orders` + where + `
		ORDER BY created_at DESC
		LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, params.PageSize, params.Offset())

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "update order status", query, id, status)
}

func (r *repository) UpdatePaymentStatus(
	ctx context.Context,
	id, paymentStatus string,
) error {
	query := `
		UPDATE orders
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execExpectingRow(
		ctx, "update payment status", query, id, paymentStatus)
}

func (r *repository) execExpectingRow(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
