package order

import (
	"database/sql"
	"encoding/json"

	"github.com/freshcart/fruit-shop-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `order_id, user_id, items, total_amount, delivery_address, payment_method, status, created_at, updated_at`

	getOrderByIDQuery = `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, order_id DESC
	`
	listAllOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, order_id DESC
	`
	updateOrderStatusQuery = `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE order_id = $1
		RETURNING ` + orderColumns + `
	`

	productForUpdateQuery = `
		SELECT product_id, product_name, price, stock, image, description, available, created_at, updated_at
		FROM products
		WHERE product_id = $1
		FOR UPDATE
	`
	txDecrementStockQuery = `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE product_id = $1 AND stock >= $2
	`
	insertOrderQuery = `
		INSERT INTO orders (user_id, items, total_amount, delivery_address, payment_method, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING order_id
	`
	txClearCartQuery = `UPDATE carts SET items = '[]'::jsonb, updated_at = $2 WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Begin() (Tx, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	return scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllOrdersQuery)
}

func (r *PostgresRepository) UpdateStatus(id int, status string, updatedAt string) (Order, error) {
	return scanOrder(r.db.QueryRow(updateOrderStatusQuery, id, status, updatedAt))
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var o Order
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.DeliveryAddress, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row *sql.Row) (Order, error) {
	var o Order
	var itemsJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.DeliveryAddress, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return Order{}, err
	}
	return o, nil
}

// postgresTx runs the placement inside one database transaction. Row locks
// from FOR UPDATE serialize concurrent placements on the same products, and
// the conditional decrement keeps stock non-negative even without the lock.
type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) ProductForUpdate(id int) (product.Product, error) {
	var p product.Product
	err := t.tx.QueryRow(productForUpdateQuery, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return product.Product{}, product.ErrNotFound
	}
	if err != nil {
		return product.Product{}, err
	}
	return p, nil
}

func (t *postgresTx) DecrementStock(id int, qty int, updatedAt string) error {
	res, err := t.tx.Exec(txDecrementStockQuery, id, qty, updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return product.ErrInsufficientStock
	}
	return nil
}

func (t *postgresTx) InsertOrder(o Order) (Order, error) {
	// order items persist without the resolved product attachment
	stored := make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		stored[i] = OrderItem{ProductID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity}
	}

	itemsJSON, err := json.Marshal(stored)
	if err != nil {
		return Order{}, err
	}

	err = t.tx.QueryRow(insertOrderQuery, o.UserID, itemsJSON, o.TotalAmount, o.DeliveryAddress, o.PaymentMethod, o.Status, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (t *postgresTx) ClearCart(userID int, updatedAt string) error {
	_, err := t.tx.Exec(txClearCartQuery, userID, updatedAt)
	return err
}

func (t *postgresTx) Commit() error {
	return t.tx.Commit()
}

func (t *postgresTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
