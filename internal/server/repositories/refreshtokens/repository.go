// Package refreshtokens declares the store contract for server-side refresh
// tokens, with Postgres, MongoDB and in-memory implementations.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns the token metadata or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every token of the user.
	DeleteByUser(ctx context.Context, userID string) error
}
