package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

// RelationHandler обслуживает один relationship-эндпоинт
// (/teams/{id}/members, /teams/{id}/entries, /hacks/{id}/challenges);
// вся логика в движке связей, здесь только разбор и формирование JSON:API.
type RelationHandler struct {
	svc            services.RelationService
	containerParam string // имя URL-параметра контейнера: "teamID" или "hackID"
}

func NewRelationHandler(svc services.RelationService, containerParam string) *RelationHandler {
	return &RelationHandler{svc: svc, containerParam: containerParam}
}

func (h *RelationHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.List(r.Context(), chi.URLParam(r, h.containerParam))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	doc := models.RelationshipDocument{
		Data:     snapshotsToIdentifiers(snaps),
		Included: snapshotsToResources(snaps),
	}
	if err := writeJSON(w, http.StatusOK, doc); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *RelationHandler) Add(w http.ResponseWriter, r *http.Request) {
	memberIDs, err := decodeRelationshipDocument(w, r, h.svc.Config().MemberType)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.svc.Add(r.Context(), chi.URLParam(r, h.containerParam), memberIDs); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RelationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	memberIDs, err := decodeRelationshipDocument(w, r, h.svc.Config().MemberType)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.svc.Remove(r.Context(), chi.URLParam(r, h.containerParam), memberIDs); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
