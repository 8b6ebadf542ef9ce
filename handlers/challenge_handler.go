package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(cs services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeChallenges)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	challenge, err := h.challengeService.CreateChallenge(r.Context(), services.CreateChallengeInput{
		Name: attrString(resource.Attributes, "name"),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	challengeResource := challenge.Resource()
	if err := writeJSON(w, http.StatusCreated, models.Document{Data: &challengeResource}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *ChallengeHandler) GetChallengeByID(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.challengeService.GetChallengeByID(r.Context(), chi.URLParam(r, "challengeID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resource := challenge.Resource()
	if err := writeJSON(w, http.StatusOK, models.Document{Data: &resource}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.ListChallenges(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resources := make([]models.Resource, 0, len(challenges))
	for i := range challenges {
		resources = append(resources, challenges[i].Resource())
	}

	if err := writeJSON(w, http.StatusOK, models.CollectionDocument{Data: resources}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := h.challengeService.DeleteChallenge(r.Context(), chi.URLParam(r, "challengeID")); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
