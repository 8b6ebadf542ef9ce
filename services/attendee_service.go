package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/repositories"
)

type CreateAttendeeInput struct {
	ID      string  `json:"id"`
	SlackID *string `json:"slackid"`
}

type AttendeeService interface {
	CreateAttendee(ctx context.Context, input CreateAttendeeInput) (*models.Attendee, error)
	GetAttendeeByID(ctx context.Context, id string) (*models.Attendee, error)
	ListAttendees(ctx context.Context) ([]models.Attendee, error)
	DeleteAttendee(ctx context.Context, id string) error
}

type attendeeService struct {
	attendees repositories.AttendeeRepository
}

func NewAttendeeService(attendees repositories.AttendeeRepository) AttendeeService {
	return &attendeeService{attendees: attendees}
}

func (s *attendeeService) CreateAttendee(ctx context.Context, input CreateAttendeeInput) (*models.Attendee, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, ErrIDRequired
	}

	attendee := &models.Attendee{ID: input.ID, SlackID: input.SlackID}
	if err := s.attendees.Create(ctx, attendee); err != nil {
		if errors.Is(err, repositories.ErrAttendeeConflict) {
			return nil, ErrAttendeeConflict
		}
		return nil, err
	}
	return attendee, nil
}

func (s *attendeeService) GetAttendeeByID(ctx context.Context, id string) (*models.Attendee, error) {
	attendee, err := s.attendees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAttendeeNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, err
	}
	return attendee, nil
}

func (s *attendeeService) ListAttendees(ctx context.Context) ([]models.Attendee, error) {
	return s.attendees.List(ctx)
}

func (s *attendeeService) DeleteAttendee(ctx context.Context, id string) error {
	err := s.attendees.Delete(ctx, id)
	if errors.Is(err, repositories.ErrAttendeeNotFound) {
		return ErrAttendeeNotFound
	}
	return err
}
