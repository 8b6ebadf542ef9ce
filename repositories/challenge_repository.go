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
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeConflict = errors.New("challenge id already exists")
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.Challenge) error
	GetByID(ctx context.Context, id string) (*models.Challenge, error)
	List(ctx context.Context, nameFilter string) ([]models.Challenge, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Challenge, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresChallengeRepository struct {
	db *sql.DB
}

func NewPostgresChallengeRepository(db *sql.DB) ChallengeRepository {
	return &postgresChallengeRepository{db: db}
}

func (r *postgresChallengeRepository) Create(ctx context.Context, challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges (id, name)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, challenge.ID, challenge.Name).Scan(&challenge.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrChallengeConflict
		}
		return fmt.Errorf("failed to insert challenge: %w", err)
	}
	return nil
}

func (r *postgresChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM challenges WHERE id = $1`, id,
	).Scan(&challenge.ID, &challenge.Name, &challenge.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *postgresChallengeRepository) List(ctx context.Context, nameFilter string) ([]models.Challenge, error) {
	query := `SELECT id, name, created_at FROM challenges`
	args := []interface{}{}
	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY id ASC`
	return r.queryChallenges(ctx, query, args...)
}

func (r *postgresChallengeRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Challenge, error) {
	if len(ids) == 0 {
		return []models.Challenge{}, nil
	}
	query := `SELECT id, name, created_at FROM challenges WHERE id = ANY($1)`
	return r.queryChallenges(ctx, query, pq.Array(ids))
}

func (r *postgresChallengeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrChallengeNotFound)
}

func (r *postgresChallengeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM challenges`).Scan(&count)
	return count, err
}

func (r *postgresChallengeRepository) queryChallenges(ctx context.Context, query string, args ...interface{}) ([]models.Challenge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	challenges := make([]models.Challenge, 0)
	for rows.Next() {
		var challenge models.Challenge
		if scanErr := rows.Scan(&challenge.ID, &challenge.Name, &challenge.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		challenges = append(challenges, challenge)
	}
	return challenges, rows.Err()
}
