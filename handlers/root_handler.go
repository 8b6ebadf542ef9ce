package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/hackdays-io/hackathon-system/repositories"
)

const apiVersion = "1.0"

// RootHandler отдаёт корневой документ API: ссылки на коллекции и
// счётчики ресурсов. Счётчики собираются параллельно.
type RootHandler struct {
	teams      repositories.TeamRepository
	users      repositories.UserRepository
	hacks      repositories.HackRepository
	challenges repositories.ChallengeRepository
	attendees  repositories.AttendeeRepository
}

func NewRootHandler(
	teams repositories.TeamRepository,
	users repositories.UserRepository,
	hacks repositories.HackRepository,
	challenges repositories.ChallengeRepository,
	attendees repositories.AttendeeRepository,
) *RootHandler {
	return &RootHandler{
		teams:      teams,
		users:      users,
		hacks:      hacks,
		challenges: challenges,
		attendees:  attendees,
	}
}

func (h *RootHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	var teamCount, userCount, hackCount, challengeCount, attendeeCount int

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		teamCount, err = h.teams.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		userCount, err = h.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		hackCount, err = h.hacks.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		challengeCount, err = h.challenges.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		attendeeCount, err = h.attendees.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		serverErrorResponse(w, err)
		return
	}

	doc := map[string]interface{}{
		"jsonapi": map[string]string{"version": apiVersion},
		"links": map[string]string{
			"teams":      "/teams",
			"users":      "/users",
			"hacks":      "/hacks",
			"challenges": "/challenges",
			"attendees":  "/attendees",
		},
		"meta": map[string]int{
			"teams":      teamCount,
			"users":      userCount,
			"hacks":      hackCount,
			"challenges": challengeCount,
			"attendees":  attendeeCount,
		},
	}
	if err := writeJSON(w, http.StatusOK, doc); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetHealth отвечает балансировщику, без проверки БД.
func (h *RootHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
