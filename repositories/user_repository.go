package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserConflict = errors.New("user id already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, nameFilter string) ([]models.User, error)
	// ListByIDs делает один пакетный запрос для снапшотов; порядок
	// результата не определён, отсутствующие id молча пропускаются.
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserConflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *postgresUserRepository) List(ctx context.Context, nameFilter string) ([]models.User, error) {
	query := `SELECT id, name, created_at FROM users`
	args := []interface{}{}
	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY id ASC`
	return r.queryUsers(ctx, query, args...)
}

func (r *postgresUserRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query := `SELECT id, name, created_at FROM users WHERE id = ANY($1)`
	return r.queryUsers(ctx, query, pq.Array(ids))
}

func (r *postgresUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&count)
	return count, err
}

func (r *postgresUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if scanErr := rows.Scan(&user.ID, &user.Name, &user.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
