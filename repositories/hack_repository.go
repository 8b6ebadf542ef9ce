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
	ErrHackNotFound = errors.New("hack not found")
	ErrHackConflict = errors.New("hack id already exists")
)

type HackRepository interface {
	Create(ctx context.Context, hack *models.Hack) error
	GetByID(ctx context.Context, id string) (*models.Hack, error)
	List(ctx context.Context, nameFilter string) ([]models.Hack, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Hack, error)
	UpdateChallenges(ctx context.Context, id string, challenges []string) error
	Delete(ctx context.Context, id string) error
	// FindByChallenge возвращает хак, уже содержащий challengeID.
	FindByChallenge(ctx context.Context, challengeID string) (*models.Hack, error)
	Count(ctx context.Context) (int, error)
}

type postgresHackRepository struct {
	db *sql.DB
}

func NewPostgresHackRepository(db *sql.DB) HackRepository {
	return &postgresHackRepository{db: db}
}

func (r *postgresHackRepository) Create(ctx context.Context, hack *models.Hack) error {
	query := `
		INSERT INTO hacks (id, name, challenges)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, hack.ID, hack.Name, pq.Array(hack.Challenges)).Scan(&hack.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrHackConflict
		}
		return fmt.Errorf("failed to insert hack: %w", err)
	}
	return nil
}

func (r *postgresHackRepository) GetByID(ctx context.Context, id string) (*models.Hack, error) {
	hack, err := r.scanHack(r.db.QueryRowContext(ctx,
		`SELECT id, name, challenges, created_at FROM hacks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHackNotFound
		}
		return nil, err
	}
	return hack, nil
}

func (r *postgresHackRepository) List(ctx context.Context, nameFilter string) ([]models.Hack, error) {
	query := `SELECT id, name, challenges, created_at FROM hacks`
	args := []interface{}{}
	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY id ASC`
	return r.queryHacks(ctx, query, args...)
}

func (r *postgresHackRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Hack, error) {
	if len(ids) == 0 {
		return []models.Hack{}, nil
	}
	query := `SELECT id, name, challenges, created_at FROM hacks WHERE id = ANY($1)`
	return r.queryHacks(ctx, query, pq.Array(ids))
}

func (r *postgresHackRepository) UpdateChallenges(ctx context.Context, id string, challenges []string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hacks SET challenges = $1 WHERE id = $2`, pq.Array(challenges), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrHackNotFound)
}

func (r *postgresHackRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hacks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrHackNotFound)
}

func (r *postgresHackRepository) FindByChallenge(ctx context.Context, challengeID string) (*models.Hack, error) {
	hack, err := r.scanHack(r.db.QueryRowContext(ctx,
		`SELECT id, name, challenges, created_at FROM hacks WHERE $1 = ANY(challenges) LIMIT 1`, challengeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHackNotFound
		}
		return nil, err
	}
	return hack, nil
}

func (r *postgresHackRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM hacks`).Scan(&count)
	return count, err
}

func (r *postgresHackRepository) scanHack(row rowScanner) (*models.Hack, error) {
	var hack models.Hack
	err := row.Scan(&hack.ID, &hack.Name, pq.Array(&hack.Challenges), &hack.CreatedAt)
	if err != nil {
		return nil, err
	}
	if hack.Challenges == nil {
		hack.Challenges = []string{}
	}
	return &hack, nil
}

func (r *postgresHackRepository) queryHacks(ctx context.Context, query string, args ...interface{}) ([]models.Hack, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hacks := make([]models.Hack, 0)
	for rows.Next() {
		hack, scanErr := r.scanHack(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		hacks = append(hacks, *hack)
	}
	return hacks, rows.Err()
}
