package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, product_name, price, stock, image, description, available, created_at, updated_at`

	listAvailableQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE available = TRUE
		ORDER BY created_at DESC, product_id DESC
	`
	listAllQuery = `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC, product_id DESC
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = $1
	`
	listByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	insertProductQuery = `
		INSERT INTO products (product_name, price, stock, image, description, available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING product_id
	`
	deleteProductQuery = `DELETE FROM products WHERE product_id = $1`

	// decrement only when enough stock remains; a zero-row update means the
	// conditional failed and stock is untouched.
	decrementStockQuery = `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE product_id = $1 AND stock >= $2
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAvailable() []Product {
	return r.list(listAvailableQuery)
}

func (r *PostgresRepository) ListAll() []Product {
	return r.list(listAllQuery)
}

func (r *PostgresRepository) list(query string) []Product {
	rows, err := r.db.Query(query)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	var p Product
	err := r.db.QueryRow(getProductByIDQuery, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Image, &p.Description, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(insertProductQuery, p.Name, p.Price, p.Stock, p.Image, p.Description, p.Available, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, patch Patch, updatedAt string) (Product, error) {
	// read-modify-write so only the supplied fields change
	existing, err := r.GetByID(id)
	if err != nil {
		return Product{}, err
	}

	updated := patch.Apply(existing)
	updated.UpdatedAt = updatedAt

	_, err = r.db.Exec(`
		UPDATE products
		SET product_name = $1, price = $2, stock = $3, image = $4, description = $5, available = $6, updated_at = $7
		WHERE product_id = $8
	`, updated.Name, updated.Price, updated.Stock, updated.Image, updated.Description, updated.Available, updated.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteProductQuery, id)
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

func (r *PostgresRepository) DecrementStock(id int, qty int, updatedAt string) error {
	res, err := r.db.Exec(decrementStockQuery, id, qty, updatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish a missing product from a failed conditional
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}
