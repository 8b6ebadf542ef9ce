package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackdays-io/hackathon-system/models"
	"github.com/hackdays-io/hackathon-system/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(us services.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	resource, err := decodeResourceDocument(w, r, models.TypeUsers)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	input := services.CreateUserInput{
		ID:   resource.ID,
		Name: attrString(resource.Attributes, "name"),
	}

	user, err := h.userService.CreateUser(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	userResource := user.Resource(nil)
	if err := writeJSON(w, http.StatusCreated, models.Document{Data: &userResource}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	view, err := h.userService.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resource := view.User.Resource(view.Team)
	doc := models.Document{Data: &resource}
	if view.Team != nil {
		doc.Included = []models.Resource{view.Team.Resource()}
	}

	if err := writeJSON(w, http.StatusOK, doc); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resources := make([]models.Resource, 0, len(users))
	for i := range users {
		resources = append(resources, users[i].Resource(nil))
	}

	if err := writeJSON(w, http.StatusOK, models.CollectionDocument{Data: resources}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
