package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeTeams)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	input := services.CreateTeamInput{Name: attrString(resource.Attributes, "name")}
	if motto, ok := resource.Attributes["motto"].(string); ok {
		input.Motto = &motto
	}

	view, err := h.teamService.CreateTeam(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, teamViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TeamHandler) GetTeamByID(w http.ResponseWriter, r *http.Request) {
	view, err := h.teamService.GetTeamByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resources := make([]models.Resource, 0, len(teams))
	for i := range teams {
		team := &teams[i]
		resources = append(resources, team.Resource(
			refsToSnapshots(team.Members, models.TypeUsers),
			refsToSnapshots(team.Entries, models.TypeHacks),
		))
	}

	if err := writeJSON(w, http.StatusOK, models.CollectionDocument{Data: resources}); err != nil {
		serverErrorResponse(w, err)
	}
}

// UpdateTeam меняет только motto. Если поля нет в запросе, ничего не меняем.
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeTeams)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.UpdateTeamInput
	if motto, ok := resource.Attributes["motto"].(string); ok {
		input.Motto = &motto
	}

	view, err := h.teamService.UpdateTeam(r.Context(), chi.URLParam(r, "teamID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.DeleteTeam(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer file.Close()

	view, err := h.teamService.UploadLogo(r.Context(), chi.URLParam(r, "teamID"),
		header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamViewDocument(view)); err != nil {
		serverErrorResponse(w, err)
	}
}

func teamViewDocument(view *services.TeamView) models.Document {
	resource := view.Team.Resource(view.Members, view.Entries)
	included := snapshotsToResources(view.Members)
	included = append(included, snapshotsToResources(view.Entries)...)
	return models.Document{Data: &resource, Included: included}
}

// refsToSnapshots строит снапшоты без имён: для коллекционных ответов
// нужны только идентификаторы связей, included там не отдаётся.
func refsToSnapshots(refs []string, memberType string) []models.Snapshot {
	snaps := make([]models.Snapshot, 0, len(refs))
	for _, ref := range refs {
		snaps = append(snaps, models.Snapshot{Type: memberType, ID: ref})
	}
	return snaps
}
