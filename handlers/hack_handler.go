package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

type HackHandler struct {
	hackService services.HackService
}

func NewHackHandler(hs services.HackService) *HackHandler {
	return &HackHandler{hackService: hs}
}

func (h *HackHandler) CreateHack(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeHacks)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	view, err := h.hackService.CreateHack(r.Context(), services.CreateHackInput{
		Name: attrString(resource.Attributes, "name"),
	})
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, hackViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *HackHandler) GetHackByID(w http.ResponseWriter, r *http.Request) {
	view, err := h.hackService.GetHackByID(r.Context(), chi.URLParam(r, "hackID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, hackViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *HackHandler) ListHacks(w http.ResponseWriter, r *http.Request) {
	hacks, err := h.hackService.ListHacks(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resources := make([]models.Resource, 0, len(hacks))
	for i := range hacks {
		resources = append(resources, hacks[i].Resource(
			refsToSnapshots(hacks[i].Challenges, models.TypeChallenges),
		))
	}

	if err := writeJSON(w, http.StatusOK, models.CollectionDocument{Data: resources}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *HackHandler) DeleteHack(w http.ResponseWriter, r *http.Request) {
	if err := h.hackService.DeleteHack(r.Context(), chi.URLParam(r, "hackID")); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func hackViewDocument(view *services.HackView) models.Document {
	resource := view.Hack.Resource(view.Challenges)
	return models.Document{Data: &resource, Included: snapshotsToResources(view.Challenges)}
}
