package cli

import (
	"errors"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
)

var errNotLoggedIn = errors.New("please login first")

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized, please login again"
	case errors.Is(err, client.ErrForbidden):
		return "this task belongs to someone else"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, client.ErrAlreadyExists):
		return "user already exists"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}
