package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/rpc"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type stubPresigner struct{}

func (stubPresigner) PresignPut(ctx context.Context, key string) (string, error) {
	return "http://s3/put/" + key, nil
}

func (stubPresigner) PresignGet(ctx context.Context, key string) (string, error) {
	return "http://s3/get/" + key, nil
}

func newTestServer(accessValidity time.Duration) *GRPCServer {
	m := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{
		SecretKey:                    "secret",
		AccessTokenValidityDuration:  accessValidity,
		RefreshTokenValidityDuration: time.Hour,
	}
	return NewGRPCServer("", nopLogger{}, services.NewUserService(m, cfg), services.NewTaskService(m, stubPresigner{}))
}

func dial(t *testing.T, s *GRPCServer) *rpc.TaskServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := s.newServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return rpc.NewTaskServiceClient(conn)
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func register(t *testing.T, c *rpc.TaskServiceClient, name, email string) string {
	t.Helper()
	out, err := c.Call(context.Background(), rpc.MethodRegister, map[string]any{
		"name": name, "email": email, "password": "hunter22",
	})
	require.NoError(t, err)
	return out.GetFields()["token"].GetStringValue()
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, nil, nil)
	require.Error(t, srv.Run(context.Background()))
}

func TestPing_IsPublic(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))

	out, err := c.Call(context.Background(), rpc.MethodPing, nil)
	require.NoError(t, err)
	assert.Equal(t, "OK", out.GetFields()["status"].GetStringValue())
}

func TestProtectedMethods_RequireToken(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))

	_, err := c.Call(context.Background(), rpc.MethodListTasks, nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.Call(withToken(context.Background(), "garbage"), rpc.MethodListTasks, nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, common.ErrInvalidToken.Error(), status.Convert(err).Message())
}

func TestExpiredToken_ReportsTokenExpired(t *testing.T) {
	c := dial(t, newTestServer(-time.Second))
	token := register(t, c, "Alice", "alice@example.com")

	_, err := c.Call(withToken(context.Background(), token), rpc.MethodListTasks, nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "token expired", status.Convert(err).Message())
}

func TestTaskScenario(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))
	alice := withToken(context.Background(), register(t, c, "Alice", "alice@example.com"))
	bob := withToken(context.Background(), register(t, c, "Bob", "bob@example.com"))

	created, err := c.Call(alice, rpc.MethodCreateTask, map[string]any{"title": "Buy milk"})
	require.NoError(t, err)
	id := created.GetFields()["id"].GetStringValue()
	assert.Equal(t, "pending", created.GetFields()["status"].GetStringValue())

	updated, err := c.Call(alice, rpc.MethodUpdateTask, map[string]any{"id": id, "status": "completed", "owner": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.GetFields()["status"].GetStringValue())
	assert.Equal(t, created.GetFields()["owner"].GetStringValue(), updated.GetFields()["owner"].GetStringValue())

	_, err = c.Call(bob, rpc.MethodDeleteTask, map[string]any{"id": id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	deleted, err := c.Call(alice, rpc.MethodDeleteTask, map[string]any{"id": id})
	require.NoError(t, err)
	assert.Equal(t, id, deleted.GetFields()["id"].GetStringValue())

	_, err = c.Call(alice, rpc.MethodDeleteTask, map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := c.Call(alice, rpc.MethodListTasks, nil)
	require.NoError(t, err)
	assert.Empty(t, list.GetFields()["tasks"].GetListValue().GetValues())
}

func TestCreateTask_InvalidInput(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))
	alice := withToken(context.Background(), register(t, c, "Alice", "alice@example.com"))

	_, err := c.Call(alice, rpc.MethodCreateTask, map[string]any{"title": ""})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Call(alice, rpc.MethodCreateTask, map[string]any{"title": 42.0})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Call(alice, rpc.MethodCreateTask, map[string]any{"title": "x", "status": "archived"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAuthFlow(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))
	ctx := context.Background()

	_, err := c.Call(ctx, rpc.MethodRegister, map[string]any{"name": "Alice", "email": "alice@example.com", "password": "hunter22"})
	require.NoError(t, err)

	_, err = c.Call(ctx, rpc.MethodRegister, map[string]any{"name": "Alice", "email": "alice@example.com", "password": "hunter22"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.Call(ctx, rpc.MethodLogin, map[string]any{"email": "alice@example.com", "password": "nope-nope"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	login, err := c.Call(ctx, rpc.MethodLogin, map[string]any{"email": "alice@example.com", "password": "hunter22"})
	require.NoError(t, err)

	refreshed, err := c.Call(ctx, rpc.MethodRefreshToken, map[string]any{"refreshToken": login.GetFields()["refreshToken"].GetStringValue()})
	require.NoError(t, err)
	token := refreshed.GetFields()["token"].GetStringValue()

	me, err := c.Call(withToken(ctx, token), rpc.MethodMe, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.GetFields()["email"].GetStringValue())

	_, err = c.Call(withToken(ctx, token), rpc.MethodLogout, nil)
	require.NoError(t, err)

	_, err = c.Call(ctx, rpc.MethodRefreshToken, map[string]any{"refreshToken": refreshed.GetFields()["refreshToken"].GetStringValue()})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAttachments(t *testing.T) {
	c := dial(t, newTestServer(time.Hour))
	alice := withToken(context.Background(), register(t, c, "Alice", "alice@example.com"))

	created, err := c.Call(alice, rpc.MethodCreateTask, map[string]any{"title": "Receipt"})
	require.NoError(t, err)
	id := created.GetFields()["id"].GetStringValue()

	_, err = c.Call(alice, rpc.MethodGetAttachment, map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))

	attached, err := c.Call(alice, rpc.MethodAttachTask, map[string]any{"id": id})
	require.NoError(t, err)
	key := attached.GetFields()["key"].GetStringValue()
	assert.Equal(t, "http://s3/put/"+key, attached.GetFields()["url"].GetStringValue())

	got, err := c.Call(alice, rpc.MethodGetAttachment, map[string]any{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "http://s3/get/"+key, got.GetFields()["url"].GetStringValue())
}

func TestInterceptor_PublicMethodSkipsValidation(t *testing.T) {
	s := &GRPCServer{logger: nopLogger{}}
	called := false
	h := func(ctx context.Context, req any) (any, error) {
		called = true
		_, ok := userIDFromContext(ctx)
		assert.False(t, ok)
		return &structpb.Struct{}, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(rpc.MethodLogin)}, h)
	require.NoError(t, err)
	assert.True(t, called)
}
