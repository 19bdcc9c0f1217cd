package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// caller is the subset of rpc.TaskServiceClient used here.
type caller interface {
	Call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      caller

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

// HasSession reports whether the client holds a token pair.
func (s *GRPCClient) HasSession() bool {
	access, _ := s.tokens()
	return access != ""
}

// accessTokenInterceptor attaches the access token and, when the server
// answers "token expired", rotates the token pair once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) {
		return err
	}
	if method == rpc.FullMethod(rpc.MethodRefreshToken) || refresh == "" {
		return err
	}

	resp, rerr := s.client.Call(ctx, rpc.MethodRefreshToken, map[string]any{"refreshToken": refresh})
	if rerr != nil {
		s.setTokens("", "")
		return rerr
	}
	s.setTokens(str(resp, "token"), str(resp, "refreshToken"))

	ctx = withAccessToken(ctx, str(resp, "token"))
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewTaskTrackerClient dials endpointURL. timeout bounds every call; zero
// disables it.
func NewTaskTrackerClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewTaskServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := s.client.Call(ctx, method, in)
	if err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *GRPCClient) startSession(out *structpb.Struct) *models.User {
	s.setTokens(str(out, "token"), str(out, "refreshToken"))
	return userFromStruct(out.GetFields()["user"].GetStructValue())
}

func (s *GRPCClient) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	out, err := s.call(ctx, rpc.MethodRegister, map[string]any{"name": name, "email": email, "password": password})
	if err != nil {
		return nil, err
	}
	return s.startSession(out), nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	out, err := s.call(ctx, rpc.MethodLogin, map[string]any{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	return s.startSession(out), nil
}

// Logout revokes the server-side refresh tokens. Local tokens are dropped
// even when the call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, err := s.call(ctx, rpc.MethodLogout, nil)
	s.setTokens("", "")
	return err
}

func (s *GRPCClient) RefreshToken() string {
	_, refresh := s.tokens()
	return refresh
}

// Resume exchanges a stored refresh token for a fresh token pair.
func (s *GRPCClient) Resume(ctx context.Context, refreshToken string) error {
	out, err := s.call(ctx, rpc.MethodRefreshToken, map[string]any{"refreshToken": refreshToken})
	if err != nil {
		return err
	}
	s.setTokens(str(out, "token"), str(out, "refreshToken"))
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.User, error) {
	out, err := s.call(ctx, rpc.MethodMe, nil)
	if err != nil {
		return nil, err
	}
	return userFromStruct(out), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	out, err := s.call(ctx, rpc.MethodPing, nil)
	if err != nil {
		return err
	}
	if str(out, "status") != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	out, err := s.call(ctx, rpc.MethodListTasks, nil)
	if err != nil {
		return nil, err
	}
	values := out.GetFields()["tasks"].GetListValue().GetValues()
	tasks := make([]*models.Task, 0, len(values))
	for _, v := range values {
		tasks = append(tasks, taskFromStruct(v.GetStructValue()))
	}
	return tasks, nil
}

func (s *GRPCClient) CreateTask(ctx context.Context, title, description string) (*models.Task, error) {
	out, err := s.call(ctx, rpc.MethodCreateTask, map[string]any{"title": title, "description": description})
	if err != nil {
		return nil, err
	}
	return taskFromStruct(out), nil
}

func (s *GRPCClient) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	out, err := s.call(ctx, rpc.MethodUpdateTask, patchToMap(id, patch))
	if err != nil {
		return nil, err
	}
	return taskFromStruct(out), nil
}

func (s *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	_, err := s.call(ctx, rpc.MethodDeleteTask, map[string]any{"id": id})
	return err
}

// AttachTask returns a presigned upload URL for the task attachment.
func (s *GRPCClient) AttachTask(ctx context.Context, id string) (string, error) {
	out, err := s.call(ctx, rpc.MethodAttachTask, map[string]any{"id": id})
	if err != nil {
		return "", err
	}
	return str(out, "url"), nil
}

// GetAttachment returns a presigned download URL for the task attachment.
func (s *GRPCClient) GetAttachment(ctx context.Context, id string) (string, error) {
	out, err := s.call(ctx, rpc.MethodGetAttachment, map[string]any{"id": id})
	if err != nil {
		return "", err
	}
	return str(out, "url"), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
