package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hackdays-io/hackathon-system/models"
)

var (
	ErrAttendeeNotFound = errors.New("attendee not found")
	ErrAttendeeConflict = errors.New("attendee id already exists")
)

type AttendeeRepository interface {
	Create(ctx context.Context, attendee *models.Attendee) error
	GetByID(ctx context.Context, id string) (*models.Attendee, error)
	GetBySlackID(ctx context.Context, slackID string) (*models.Attendee, error)
	List(ctx context.Context) ([]models.Attendee, error)
	// UpdateSlackID записывает кэш внешней идентичности; однажды записанный,
	// он больше не обновляется и не инвалидируется.
	UpdateSlackID(ctx context.Context, id, slackID string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresAttendeeRepository struct {
	db *sql.DB
}

func NewPostgresAttendeeRepository(db *sql.DB) AttendeeRepository {
	return &postgresAttendeeRepository{db: db}
}

func (r *postgresAttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	query := `
		INSERT INTO attendees (id, slackid)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, attendee.ID, attendee.SlackID).Scan(&attendee.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAttendeeConflict
		}
		return fmt.Errorf("failed to insert attendee: %w", err)
	}
	return nil
}

func (r *postgresAttendeeRepository) GetByID(ctx context.Context, id string) (*models.Attendee, error) {
	return r.scanAttendee(ctx, `SELECT id, slackid, created_at FROM attendees WHERE id = $1`, id)
}

func (r *postgresAttendeeRepository) GetBySlackID(ctx context.Context, slackID string) (*models.Attendee, error) {
	return r.scanAttendee(ctx, `SELECT id, slackid, created_at FROM attendees WHERE slackid = $1`, slackID)
}

func (r *postgresAttendeeRepository) List(ctx context.Context) ([]models.Attendee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, slackid, created_at FROM attendees ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]models.Attendee, 0)
	for rows.Next() {
		var attendee models.Attendee
		if scanErr := rows.Scan(&attendee.ID, &attendee.SlackID, &attendee.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		attendees = append(attendees, attendee)
	}
	return attendees, rows.Err()
}

func (r *postgresAttendeeRepository) UpdateSlackID(ctx context.Context, id, slackID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE attendees SET slackid = $1 WHERE id = $2`, slackID, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrAttendeeNotFound)
}

func (r *postgresAttendeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, ErrAttendeeNotFound)
}

func (r *postgresAttendeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM attendees`).Scan(&count)
	return count, err
}

func (r *postgresAttendeeRepository) scanAttendee(ctx context.Context, query string, arg interface{}) (*models.Attendee, error) {
	var attendee models.Attendee
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&attendee.ID, &attendee.SlackID, &attendee.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}
