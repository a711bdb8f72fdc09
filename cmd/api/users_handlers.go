package main

import (
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"net/http"
)

type userInput struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email" validate:"required,email"`
	Login    string      `json:"login" validate:"required,nowhitespace" errorMsg:"Login must not be empty or contain whitespace"`
	Name     string      `json:"name"`
	Birthday fields.Date `json:"birthday" validate:"omitempty,notfuture"`
	Friends  []int64     `json:"friends"`
}

func (in userInput) toUser() models.User {
	return models.User{
		ID:       in.ID,
		Email:    in.Email,
		Login:    in.Login,
		Name:     in.Name,
		Birthday: in.Birthday,
		Friends:  in.Friends,
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := app.services.Users.List(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"users": users}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := app.services.Users.Get(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if !app.readValidJSON(w, r, &input) {
		return
	}
	user, err := app.services.Users.Create(r.Context(), input.toUser())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "User successfully created")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var input userInput
	if !app.readValidJSON(w, r, &input) {
		return
	}
	user, err := app.services.Users.Update(r.Context(), input.toUser())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "User successfully updated")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := app.services.Users.Delete(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "User successfully deleted")
}

func (app *Application) listFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	friends, err := app.services.Users.FriendsOf(r.Context(), id)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"friends": friends}, "")
}

func (app *Application) addFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	friendID, ok := app.extractIDParam(w, r, "friendId")
	if !ok {
		return
	}
	if err := app.services.Users.AddFriend(r.Context(), id, friendID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Friend added")
}

func (app *Application) removeFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	friendID, ok := app.extractIDParam(w, r, "friendId")
	if !ok {
		return
	}
	if err := app.services.Users.RemoveFriend(r.Context(), id, friendID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Friend removed")
}

func (app *Application) commonFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	otherID, ok := app.extractIDParam(w, r, "otherId")
	if !ok {
		return
	}
	friends, err := app.services.Users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"friends": friends}, "")
}
