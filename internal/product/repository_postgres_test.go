package product

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDecrementStock_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").WithArgs(1, 2, "now").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DecrementStock(1, 2, "now"); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_Postgres_Insufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// the conditional update touches no rows when stock is short
	mock.ExpectExec("UPDATE products").WithArgs(1, 50, "now").WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"product_id", "product_name", "price", "stock", "image", "description", "available", "created_at", "updated_at"}).
		AddRow(1, "Banana", 1.5, 3, "", "", true, "t", "u")
	mock.ExpectQuery("FROM products").WithArgs(1).WillReturnRows(rows)

	if err := repo.DecrementStock(1, 50, "now"); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_Postgres_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").WithArgs(9, 1, "now").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM products").WithArgs(9).WillReturnError(sql.ErrNoRows)

	if err := repo.DecrementStock(9, 1, "now"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows([]string{"product_id", "product_name", "price", "stock", "image", "description", "available", "created_at", "updated_at"}).
		AddRow(4, "Papaya", 3.75, 12, "/img/papaya.png", "ripe", true, "t", "u")
	mock.ExpectQuery("FROM products").WithArgs(4).WillReturnRows(rows)

	p, err := repo.GetByID(4)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.Name != "Papaya" || p.Stock != 12 || p.Price != 3.75 {
		t.Fatalf("unexpected product %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
