package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

type AttendeeHandler struct {
	attendeeService services.AttendeeService
}

func NewAttendeeHandler(as services.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{attendeeService: as}
}

func (h *AttendeeHandler) CreateAttendee(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeAttendees)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	input := services.CreateAttendeeInput{ID: resource.ID}
	if slackID, ok := resource.Attributes["slackid"].(string); ok {
		input.SlackID = &slackID
	}

	attendee, err := h.attendeeService.CreateAttendee(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	attendeeResource := attendee.Resource()
	if err := writeJSON(w, http.StatusCreated, models.Document{Data: &attendeeResource}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *AttendeeHandler) GetAttendeeByID(w http.ResponseWriter, r *http.Request) {
	attendee, err := h.attendeeService.GetAttendeeByID(r.Context(), chi.URLParam(r, "attendeeID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resource := attendee.Resource()
	if err := writeJSON(w, http.StatusOK, models.Document{Data: &resource}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *AttendeeHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.attendeeService.ListAttendees(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resources := make([]models.Resource, 0, len(attendees))
	for i := range attendees {
		resources = append(resources, attendees[i].Resource())
	}

	if err := writeJSON(w, http.StatusOK, models.CollectionDocument{Data: resources}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *AttendeeHandler) DeleteAttendee(w http.ResponseWriter, r *http.Request) {
	if err := h.attendeeService.DeleteAttendee(r.Context(), chi.URLParam(r, "attendeeID")); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
