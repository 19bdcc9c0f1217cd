package client

import (
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"google.golang.org/protobuf/types/known/structpb"
)

func str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func timestamp(s *structpb.Struct, key string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, str(s, key))
	if err != nil {
		return time.Time{}
	}
	return t
}

func taskFromStruct(s *structpb.Struct) *models.Task {
	return &models.Task{
		ID:          str(s, "id"),
		Title:       str(s, "title"),
		Description: str(s, "description"),
		Status:      str(s, "status"),
		CreatedAt:   timestamp(s, "createdAt"),
		UpdatedAt:   timestamp(s, "updatedAt"),
	}
}

func userFromStruct(s *structpb.Struct) *models.User {
	return &models.User{
		ID:    str(s, "id"),
		Name:  str(s, "name"),
		Email: str(s, "email"),
	}
}

func patchToMap(id string, p models.TaskPatch) map[string]any {
	m := map[string]any{"id": id}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	return m
}
