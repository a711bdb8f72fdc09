package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(app.LogRequest)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	if app.metrics != nil {
		router.Handle(app.cfg.Metrics.Path, app.metrics.Handler())
	}
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/films", func(r chi.Router) {
			r.Get("/", app.listFilms)
			r.Post("/", app.createFilm)
			r.Put("/", app.updateFilm)
			r.Get("/popular", app.popularFilms)
			r.Get("/{id}", app.getFilm)
			r.Delete("/{id}", app.deleteFilm)
			r.Put("/{id}/like/{userId}", app.addLike)
			r.Delete("/{id}/like/{userId}", app.removeLike)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.listUsers)
			r.Post("/", app.createUser)
			r.Put("/", app.updateUser)
			r.Get("/{id}", app.getUser)
			r.Delete("/{id}", app.deleteUser)
			r.Get("/{id}/friends", app.listFriends)
			r.Put("/{id}/friends/{friendId}", app.addFriend)
			r.Delete("/{id}/friends/{friendId}", app.removeFriend)
			r.Get("/{id}/friends/common/{otherId}", app.commonFriends)
		})
		r.Get("/genres", app.listGenres)
		r.Get("/genres/{id}", app.getGenre)
		r.Get("/mpa", app.listRatings)
		r.Get("/mpa/{id}", app.getRating)
	})
	return router
}
