// Package users implements the users table repository over dbx.DBTX,
// so the same code runs against the connection pool or inside a transaction.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/dmitrijs2005/friendbook/internal/dbx"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
)

// userColumns is the column list every read path selects, in scanUser order.
const userColumns = `id, first_name, last_name, email, role, secret_code`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser maps one row selected with userColumns (plus password when
// withPassword is set) onto a User.
func scanUser(row rowScanner, withPassword bool) (*models.User, error) {
	u := &models.User{}
	dest := []any{&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.SecretCode}
	if withPassword {
		dest = append(dest, &u.Password)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return u, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrorStore, err)
}

// Create inserts user (Password must already be hashed) and returns the new id.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query :=
		`INSERT INTO users (first_name, last_name, email, password, role, secret_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.Password, user.Role, user.SecretCode).Scan(&id)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, common.ErrorAlreadyExists
		}
		return 0, dbError(err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, false, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, false, email)
}

// GetCredentials is GetByEmail plus the stored password hash.
func (r *PostgresRepository) GetCredentials(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + `, password FROM users WHERE email = $1`
	return r.getOne(ctx, query, true, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, withPassword bool, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...), withPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query :=
		`UPDATE users SET password = $1
		 WHERE id = $2
		 `
	return r.execOne(ctx, query, passwordHash, id)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int64, profile models.Profile) error {
	query :=
		`UPDATE users SET first_name = $1, last_name = $2, secret_code = $3
		 WHERE id = $4
		 `
	return r.execOne(ctx, query, profile.FirstName, profile.LastName, profile.SecretCode, id)
}

// execOne runs an UPDATE that must touch exactly one row; zero rows means the
// id does not exist.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, dbError(err)
	}
	return exists, nil
}

// ListNotFriends returns every user that has no friends edge with userID in
// either direction, ordered by id.
func (r *PostgresRepository) ListNotFriends(ctx context.Context, userID int64) ([]models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users u
		 WHERE NOT EXISTS (
		     SELECT 1 FROM friends f
		     WHERE (f.user1 = u.id AND f.user2 = $1)
		        OR (f.user2 = u.id AND f.user1 = $1)
		 )
		 ORDER BY u.id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, dbError(err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}

	return users, nil
}
