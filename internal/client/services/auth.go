// Package services holds the CLI use cases on top of the API client and the
// local session store.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/client/repositories/metadata"
)

const (
	keyRefreshToken = "refresh_token"
	keyEmail        = "email"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	// Resume restores the session saved by a previous run. It returns
	// (nil, nil) when there is nothing to restore.
	Resume(ctx context.Context) (*models.User, error)
	// LastEmail is the email of the last signed-in account, if any.
	LastEmail(ctx context.Context) string
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	// Close saves the current refresh token and closes the connection.
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  metadata.Repository
}

func NewAuthService(c client.Client, store metadata.Repository) AuthService {
	return &authService{client: c, store: store}
}

func (s *authService) saveSession(ctx context.Context, email string) error {
	if err := s.store.Set(ctx, keyEmail, []byte(email)); err != nil {
		return err
	}
	return s.store.Set(ctx, keyRefreshToken, []byte(s.client.RefreshToken()))
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	u, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, u.Email); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.saveSession(ctx, u.Email); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Resume(ctx context.Context) (*models.User, error) {
	token, err := s.store.Get(ctx, keyRefreshToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	if err := s.client.Resume(ctx, string(token)); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			// revoked or expired
			_ = s.store.Delete(ctx, keyRefreshToken)
		}
		return nil, err
	}

	u, err := s.client.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, keyRefreshToken, []byte(s.client.RefreshToken())); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) LastEmail(ctx context.Context) string {
	v, _ := s.store.Get(ctx, keyEmail)
	return string(v)
}

// Logout revokes the session and always drops the stored token.
func (s *authService) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if derr := s.store.Delete(ctx, keyRefreshToken); err == nil {
		err = derr
	}
	return err
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	return s.client.Me(ctx)
}

func (s *authService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *authService) Close(ctx context.Context) error {
	var err error
	if token := s.client.RefreshToken(); token != "" {
		err = s.store.Set(ctx, keyRefreshToken, []byte(token))
	}
	return errors.Join(err, s.client.Close())
}
