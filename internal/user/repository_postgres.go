package user

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery = `
		SELECT user_id, name, email, password, role, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	getUserByEmailQuery = `
		SELECT user_id, name, email, password, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (name, email, password, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING user_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertUserQuery, u.Name, u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
