package models

import (
	"filmorate/proj/internal/domain/fields"
	"slices"
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type RatingMpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type Film struct {
	ID          int64       `json:"id"`          // Assigned by the store on create
	Name        string      `json:"name"`        // Film title
	Description string      `json:"description"` // Up to 200 characters
	ReleaseDate fields.Date `json:"releaseDate"` // Not earlier than 1895-12-28
	Duration    int32       `json:"duration"`    // Runtime in minutes
	Mpa         *RatingMpa  `json:"mpa"`         // Optional rating classification
	Genres      []Genre     `json:"genres"`      // Deduplicated by id
	Likes       []int64     `json:"likes"`       // Ids of users who liked the film
}

func (f Film) GetID() int64 { return f.ID }

func (f Film) WithID(id int64) Film {
	f.ID = id
	return f
}

func (f Film) LikesCount() int {
	return len(f.Likes)
}

// Clone returns a copy that shares no slices or pointers with f.
func (f Film) Clone() Film {
	c := f
	if f.Mpa != nil {
		mpa := *f.Mpa
		c.Mpa = &mpa
	}
	c.Genres = slices.Clone(f.Genres)
	c.Likes = slices.Clone(f.Likes)
	return c
}

func (f Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

type User struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Login    string      `json:"login"`
	Name     string      `json:"name"`
	Birthday fields.Date `json:"birthday"`
	Friends  []int64     `json:"friends"`
}

func (u User) GetID() int64 { return u.ID }

func (u User) WithID(id int64) User {
	u.ID = id
	return u
}

func (u User) Clone() User {
	c := u
	c.Friends = slices.Clone(u.Friends)
	return c
}

type Like struct {
	FilmID int64 `json:"filmId"`
	UserID int64 `json:"userId"`
}

// Friendship is directed: UserID considers FriendID a friend.
type Friendship struct {
	UserID   int64 `json:"userId"`
	FriendID int64 `json:"friendId"`
}
