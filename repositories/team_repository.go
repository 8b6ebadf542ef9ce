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
	ErrTeamNotFound = errors.New("team not found")
	ErrTeamConflict = errors.New("team id or name already exists")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context, nameFilter string) ([]models.Team, error)
	UpdateMotto(ctx context.Context, id string, motto string) error
	UpdateMembers(ctx context.Context, id string, members []string) error
	UpdateEntries(ctx context.Context, id string, entries []string) error
	UpdateLogoKey(ctx context.Context, id string, key *string) error
	Delete(ctx context.Context, id string) error
	// FindByMember возвращает команду, в members которой есть userID.
	// Инвариант "не больше одной команды" поддерживается сервисным слоем,
	// поэтому достаточно первой найденной строки.
	FindByMember(ctx context.Context, userID string) (*models.Team, error)
	FindByEntry(ctx context.Context, hackID string) (*models.Team, error)
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, motto, members, entries, logo_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, motto, members, entries)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.ID,
		team.Name,
		team.Motto,
		pq.Array(team.Members),
		pq.Array(team.Entries),
	).Scan(&team.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTeamConflict
		}
		return fmt.Errorf("failed to insert team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) List(ctx context.Context, nameFilter string) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	args := []interface{}{}
	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, scanErr := r.scanTeamRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateMotto(ctx context.Context, id string, motto string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET motto = $1 WHERE id = $2`, motto, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateMembers(ctx context.Context, id string, members []string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET members = $1 WHERE id = $2`, pq.Array(members), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateEntries(ctx context.Context, id string, entries []string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET entries = $1 WHERE id = $2`, pq.Array(entries), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id string, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) FindByMember(ctx context.Context, userID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE $1 = ANY(members) LIMIT 1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresTeamRepository) FindByEntry(ctx context.Context, hackID string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE $1 = ANY(entries) LIMIT 1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, hackID))
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM teams`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresTeamRepository) scanTeam(row rowScanner) (*models.Team, error) {
	team, err := r.scanTeamRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) scanTeamRow(row rowScanner) (*models.Team, error) {
	var team models.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Motto,
		pq.Array(&team.Members),
		pq.Array(&team.Entries),
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if team.Members == nil {
		team.Members = []string{}
	}
	if team.Entries == nil {
		team.Entries = []string{}
	}
	return &team, nil
}
