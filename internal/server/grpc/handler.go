package grpc

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/rpc"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	name, err := rpc.String(in, "name")
	if err != nil {
		return nil, invalidArgument(err)
	}
	email, err := rpc.String(in, "email")
	if err != nil {
		return nil, invalidArgument(err)
	}
	password, err := rpc.String(in, "password")
	if err != nil {
		return nil, invalidArgument(err)
	}

	session, err := s.users.Register(ctx, name, email, password)
	if err != nil {
		return nil, s.toStatus(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", session.User.ID)
	return structpb.NewStruct(sessionToMap(session))
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email, err := rpc.String(in, "email")
	if err != nil {
		return nil, invalidArgument(err)
	}
	password, err := rpc.String(in, "password")
	if err != nil {
		return nil, invalidArgument(err)
	}

	session, err := s.users.Login(ctx, email, password)
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return structpb.NewStruct(sessionToMap(session))
}

func (s *GRPCServer) RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	token, err := rpc.String(in, "refreshToken")
	if err != nil {
		return nil, invalidArgument(err)
	}

	pair, err := s.users.RefreshToken(ctx, token)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh", err)
	}
	return structpb.NewStruct(map[string]any{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *GRPCServer) Ping(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"status": "OK"})
}

func (s *GRPCServer) Me(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Me(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, "me", err)
	}
	return structpb.NewStruct(userToMap(user))
}

func (s *GRPCServer) Logout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.Logout(ctx, uid); err != nil {
		return nil, s.toStatus(ctx, "logout", err)
	}
	return &structpb.Struct{}, nil
}

func (s *GRPCServer) ListTasks(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.tasks.List(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}

	items := make([]any, 0, len(list))
	for _, t := range list {
		items = append(items, taskToMap(t))
	}
	return structpb.NewStruct(map[string]any{"tasks": items})
}

func (s *GRPCServer) CreateTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	title, err := rpc.String(in, "title")
	if err != nil {
		return nil, invalidArgument(err)
	}
	description, err := rpc.String(in, "description")
	if err != nil {
		return nil, invalidArgument(err)
	}
	st, err := rpc.String(in, "status")
	if err != nil {
		return nil, invalidArgument(err)
	}

	task, err := s.tasks.Create(ctx, uid, title, description, models.TaskStatus(st))
	if err != nil {
		return nil, s.toStatus(ctx, "create", err)
	}
	return structpb.NewStruct(taskToMap(task))
}

func (s *GRPCServer) UpdateTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := rpc.String(in, "id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	var patch models.TaskPatch
	if v, ok, err := rpc.OptionalString(in, "title"); err != nil {
		return nil, invalidArgument(err)
	} else if ok {
		patch.Title = &v
	}
	if v, ok, err := rpc.OptionalString(in, "description"); err != nil {
		return nil, invalidArgument(err)
	} else if ok {
		patch.Description = &v
	}
	if v, ok, err := rpc.OptionalString(in, "status"); err != nil {
		return nil, invalidArgument(err)
	} else if ok {
		st := models.TaskStatus(v)
		patch.Status = &st
	}

	task, err := s.tasks.Update(ctx, uid, id, patch)
	if err != nil {
		return nil, s.toStatus(ctx, "update", err)
	}
	return structpb.NewStruct(taskToMap(task))
}

func (s *GRPCServer) DeleteTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := rpc.String(in, "id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	deleted, err := s.tasks.Delete(ctx, uid, id)
	if err != nil {
		return nil, s.toStatus(ctx, "delete", err)
	}
	return structpb.NewStruct(map[string]any{"id": deleted})
}

func (s *GRPCServer) AttachTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := rpc.String(in, "id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	key, url, err := s.tasks.Attach(ctx, uid, id)
	if err != nil {
		return nil, s.toStatus(ctx, "attach", err)
	}
	return structpb.NewStruct(map[string]any{"key": key, "url": url})
}

func (s *GRPCServer) GetAttachment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := rpc.String(in, "id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	url, err := s.tasks.Attachment(ctx, uid, id)
	if err != nil {
		return nil, s.toStatus(ctx, "attachment", err)
	}
	return structpb.NewStruct(map[string]any{"url": url})
}

func (s *GRPCServer) caller(ctx context.Context) (string, error) {
	uid, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return uid, nil
}
