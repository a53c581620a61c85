package cart

import (
	"database/sql"
	"encoding/json"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `SELECT user_id, items, created_at, updated_at FROM carts WHERE user_id = $1`

	// first read creates the row so the cart exists from then on
	insertCartQuery = `
		INSERT INTO carts (user_id, items, created_at, updated_at)
		VALUES ($1, '[]'::jsonb, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	saveItemsQuery = `
		INSERT INTO carts (user_id, items, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = $3
	`
	clearCartQuery = `UPDATE carts SET items = '[]'::jsonb, updated_at = $2 WHERE user_id = $1`

	listCartsQuery = `SELECT user_id, items, created_at, updated_at FROM carts ORDER BY updated_at DESC`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(userID int) (Cart, error) {
	c, err := r.Fetch(userID)
	if err == ErrNotFound {
		now := time.Now().UTC().Format(time.RFC3339)
		if _, err := r.db.Exec(insertCartQuery, userID, now); err != nil {
			return Cart{}, err
		}
		return r.Fetch(userID)
	}
	return c, err
}

func (r *PostgresRepository) Fetch(userID int) (Cart, error) {
	var c Cart
	var itemsJSON []byte
	err := r.db.QueryRow(getCartQuery, userID).Scan(&c.UserID, &itemsJSON, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, err
	}
	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return Cart{}, err
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

func (r *PostgresRepository) SaveItems(userID int, items []Item, updatedAt string) error {
	// strip resolved product details; only the reference and quantity persist
	stored := make([]Item, len(items))
	for i, it := range items {
		stored[i] = Item{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	itemsJSON, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(saveItemsQuery, userID, itemsJSON, updatedAt)
	return err
}

func (r *PostgresRepository) Clear(userID int, updatedAt string) error {
	res, err := r.db.Exec(clearCartQuery, userID, updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListAll() ([]Cart, error) {
	rows, err := r.db.Query(listCartsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Cart, 0)
	for rows.Next() {
		var c Cart
		var itemsJSON []byte
		if err := rows.Scan(&c.UserID, &itemsJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
			return nil, err
		}
		if c.Items == nil {
			c.Items = []Item{}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
