package main

import (
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/filters"
	"filmorate/proj/internal/domain/models"
	"net/http"
)

type filmInput struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name" validate:"notblank" errorMsg:"Film name must not be blank"`
	Description string            `json:"description" validate:"notblank,max=200"`
	ReleaseDate fields.Date       `json:"releaseDate" validate:"required"`
	Duration    int32             `json:"duration" validate:"gt=0"`
	Mpa         *models.RatingMpa `json:"mpa"`
	Genres      []models.Genre    `json:"genres"`
	Likes       []int64           `json:"likes"`
}

func (in filmInput) toFilm() models.Film {
	return models.Film{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		Duration:    in.Duration,
		Mpa:         in.Mpa,
		Genres:      in.Genres,
		Likes:       in.Likes,
	}
}

func (app *Application) listFilms(w http.ResponseWriter, r *http.Request) {
	films, err := app.services.Films.List(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"films": films}, "")
}

func (app *Application) getFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	film, err := app.services.Films.Get(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"film": film}, "")
}

func (app *Application) createFilm(w http.ResponseWriter, r *http.Request) {
	var input filmInput
	if !app.readValidJSON(w, r, &input) {
		return
	}
	film, err := app.services.Films.Create(r.Context(), input.toFilm())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"film": film}, "Film successfully created")
}

func (app *Application) updateFilm(w http.ResponseWriter, r *http.Request) {
	var input filmInput
	if !app.readValidJSON(w, r, &input) {
		return
	}
	film, err := app.services.Films.Update(r.Context(), input.toFilm())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"film": film}, "Film successfully updated")
}

func (app *Application) deleteFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	film, err := app.services.Films.Delete(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"film": film}, "Film successfully deleted")
}

func (app *Application) popularFilms(w http.ResponseWriter, r *http.Request) {
	var f filters.Popular
	if err := app.decoder.Decode(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	films, err := app.services.Films.Popular(r.Context(), f)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"films": films}, "")
}

func (app *Application) addLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := app.extractIDParam(w, r, "userId")
	if !ok {
		return
	}
	if err := app.services.Films.AddLike(r.Context(), filmID, userID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Like added")
}

func (app *Application) removeLike(w http.ResponseWriter, r *http.Request) {
	filmID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	userID, ok := app.extractIDParam(w, r, "userId")
	if !ok {
		return
	}
	if err := app.services.Films.RemoveLike(r.Context(), filmID, userID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Like removed")
}
