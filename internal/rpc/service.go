// Package rpc declares the TaskTracker gRPC service by hand. Requests and
// responses are google.protobuf.Struct values, so no generated code is needed
// on either side of the wire.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "tasktracker.TaskService"

// Method names.
const (
	MethodRegister      = "Register"
	MethodLogin         = "Login"
	MethodRefreshToken  = "RefreshToken"
	MethodPing          = "Ping"
	MethodMe            = "Me"
	MethodLogout        = "Logout"
	MethodListTasks     = "ListTasks"
	MethodCreateTask    = "CreateTask"
	MethodUpdateTask    = "UpdateTask"
	MethodDeleteTask    = "DeleteTask"
	MethodAttachTask    = "AttachTask"
	MethodGetAttachment = "GetAttachment"
)

// FullMethod returns the wire name of a method, e.g. "/tasktracker.TaskService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TaskServiceServer is implemented by the server transport.
type TaskServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTasks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AttachTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAttachment(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(TaskServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func method(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TaskServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TaskServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is registered with grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(MethodRegister, TaskServiceServer.Register),
		method(MethodLogin, TaskServiceServer.Login),
		method(MethodRefreshToken, TaskServiceServer.RefreshToken),
		method(MethodPing, TaskServiceServer.Ping),
		method(MethodMe, TaskServiceServer.Me),
		method(MethodLogout, TaskServiceServer.Logout),
		method(MethodListTasks, TaskServiceServer.ListTasks),
		method(MethodCreateTask, TaskServiceServer.CreateTask),
		method(MethodUpdateTask, TaskServiceServer.UpdateTask),
		method(MethodDeleteTask, TaskServiceServer.DeleteTask),
		method(MethodAttachTask, TaskServiceServer.AttachTask),
		method(MethodGetAttachment, TaskServiceServer.GetAttachment),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tasktracker.proto",
}

// RegisterTaskServiceServer attaches srv to s.
func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TaskServiceClient is the client stub.
type TaskServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskServiceClient(cc grpc.ClientConnInterface) *TaskServiceClient {
	return &TaskServiceClient{cc: cc}
}

// Call invokes method with the given payload. A nil payload sends an empty struct.
func (c *TaskServiceClient) Call(ctx context.Context, method string, in map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
