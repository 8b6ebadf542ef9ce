package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/hackdays-io/hackathon-system/handlers"
	"github.com/hackdays-io/hackathon-system/middleware"
)

type Handlers struct {
	Root           *handlers.RootHandler
	Teams          *handlers.TeamHandler
	Users          *handlers.UserHandler
	Hacks          *handlers.HackHandler
	Challenges     *handlers.ChallengeHandler
	Attendees      *handlers.AttendeeHandler
	TeamMembers    *handlers.RelationHandler
	TeamEntries    *handlers.RelationHandler
	HackChallenges *handlers.RelationHandler
	Events         *handlers.EventsHandler
}

func InitRoutes(h Handlers, auth *middleware.Auth) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	// Чтение открыто всем: дашборды и страницы хакатона ходят
	// прямо из браузера без авторизации.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/", h.Root.GetRoot)
	router.Get("/api", h.Root.GetHealth)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Teams.ListTeams)
		r.Get("/{teamID}", h.Teams.GetTeamByID)
		r.Get("/{teamID}/members", h.TeamMembers.List)
		r.Get("/{teamID}/entries", h.TeamEntries.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAttendee)

			r.Post("/", h.Teams.CreateTeam)
			r.Patch("/{teamID}", h.Teams.UpdateTeam)
			r.Delete("/{teamID}", h.Teams.DeleteTeam)
			r.Put("/{teamID}/logo", h.Teams.UploadLogo)

			r.Post("/{teamID}/members", h.TeamMembers.Add)
			r.Delete("/{teamID}/members", h.TeamMembers.Remove)
			r.Post("/{teamID}/entries", h.TeamEntries.Add)
			r.Delete("/{teamID}/entries", h.TeamEntries.Remove)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.Users.ListUsers)
		r.Get("/{userID}", h.Users.GetUserByID)

		r.With(auth.RequireAttendee).Post("/", h.Users.CreateUser)
		r.With(auth.RequireAttendee).Delete("/{userID}", h.Users.DeleteUser)
	})

	router.Route("/hacks", func(r chi.Router) {
		r.Get("/", h.Hacks.ListHacks)
		r.Get("/{hackID}", h.Hacks.GetHackByID)
		r.Get("/{hackID}/challenges", h.HackChallenges.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAttendee)

			r.Post("/", h.Hacks.CreateHack)
			r.Delete("/{hackID}", h.Hacks.DeleteHack)
			r.Post("/{hackID}/challenges", h.HackChallenges.Add)
			r.Delete("/{hackID}/challenges", h.HackChallenges.Remove)
		})
	})

	// Справочники правит только администратор.
	router.Route("/challenges", func(r chi.Router) {
		r.Get("/", h.Challenges.ListChallenges)
		r.Get("/{challengeID}", h.Challenges.GetChallengeByID)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/", h.Challenges.CreateChallenge)
			r.Delete("/{challengeID}", h.Challenges.DeleteChallenge)
		})
	})

	router.Route("/attendees", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/", h.Attendees.ListAttendees)
			r.Get("/{attendeeID}", h.Attendees.GetAttendeeByID)
			r.Post("/", h.Attendees.CreateAttendee)
			r.Delete("/{attendeeID}", h.Attendees.DeleteAttendee)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.With(auth.RequireAttendee).Get("/token", h.Events.GetToken)
		r.Get("/ws", h.Events.ServeWS)
	})

	return router
}
