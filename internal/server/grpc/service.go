package grpc

import (
	"context"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Method names of friendbook.v1.UserService.
const (
	MethodPing            = "Ping"
	MethodRegister        = "Register"
	MethodLogin           = "Login"
	MethodRecoverPassword = "RecoverPassword"
	MethodGetProfile      = "GetProfile"
	MethodUpdateProfile   = "UpdateProfile"
	MethodChangePassword  = "ChangePassword"
	MethodListNonFriends  = "ListNonFriends"
	MethodUserExists      = "UserExists"
)

// protectedMethods require a valid access token.
var protectedMethods = map[string]bool{
	common.FullMethodName(MethodGetProfile):     true,
	common.FullMethodName(MethodUpdateProfile):  true,
	common.FullMethodName(MethodChangePassword): true,
	common.FullMethodName(MethodListNonFriends): true,
	common.FullMethodName(MethodUserExists):     true,
}

// userServiceServer is the method set registered under UserServiceName.
// Every request and response is a google.protobuf.Struct.
type userServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecoverPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListNonFriends(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UserExists(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(*GRPCServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, m structMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return m(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: common.FullMethodName(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return m(s, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var userServiceDesc = grpc.ServiceDesc{
	ServiceName: common.UserServiceName,
	HandlerType: (*userServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodPing, (*GRPCServer).Ping),
		methodDesc(MethodRegister, (*GRPCServer).Register),
		methodDesc(MethodLogin, (*GRPCServer).Login),
		methodDesc(MethodRecoverPassword, (*GRPCServer).RecoverPassword),
		methodDesc(MethodGetProfile, (*GRPCServer).GetProfile),
		methodDesc(MethodUpdateProfile, (*GRPCServer).UpdateProfile),
		methodDesc(MethodChangePassword, (*GRPCServer).ChangePassword),
		methodDesc(MethodListNonFriends, (*GRPCServer).ListNonFriends),
		methodDesc(MethodUserExists, (*GRPCServer).UserExists),
	},
	Metadata: "friendbook/v1/user_service.proto",
}
