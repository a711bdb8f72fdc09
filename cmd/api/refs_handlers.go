package main

import "net/http"

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.services.Refs.ListGenres(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genres": genres}, "")
}

func (app *Application) getGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	genre, err := app.services.Refs.GetGenre(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "")
}

func (app *Application) listRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := app.services.Refs.ListRatings(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"mpa": ratings}, "")
}

func (app *Application) getRating(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	rating, err := app.services.Refs.GetRating(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"mpa": rating}, "")
}
