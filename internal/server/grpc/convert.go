package grpc

import (
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
)

func taskToMap(t *models.Task) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"owner":       t.OwnerID,
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"createdAt":   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updatedAt":   t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func userToMap(u *models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"createdAt": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func sessionToMap(s *services.Session) map[string]any {
	return map[string]any{
		"user":         userToMap(s.User),
		"token":        s.AccessToken,
		"refreshToken": s.RefreshToken,
	}
}
