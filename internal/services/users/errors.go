package users

import "filmorate/proj/internal/domain/errs"

var (
	ErrUserNotFound       = errs.NotFound("user not found")
	ErrNoCommonFriends    = errs.NotFound("users have no common friends")
	ErrIDRequired         = errs.Validation("user id must be provided")
	ErrEmailTaken         = errs.Validation("user with that email already exists")
	ErrLoginTaken         = errs.Validation("user with that login already exists")
	ErrUserExists         = errs.Validation("user with that email or login already exists")
	ErrBirthdayInFuture   = errs.Validation("birthday must not be in the future")
	ErrSelfFriendship     = errs.Validation("user cannot add themselves as a friend")
	ErrAlreadyFriends     = errs.Conflict("users are already friends")
	ErrFriendshipNotFound = errs.Conflict("users are not friends")
)
