// Package grpc exposes UserService over gRPC as friendbook.v1.UserService.
// Messages are google.protobuf.Struct values, so the service is registered
// from a hand-written ServiceDesc instead of generated stubs.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/friendbook/internal/logging"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
	"github.com/dmitrijs2005/friendbook/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the business API the handlers call.
type UserService interface {
	RegisterUser(ctx context.Context, candidate *models.User) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	RecoverPassword(ctx context.Context, email, secretCode, newPassword string) (string, error)
	GetOneAccountByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, profile models.Profile, id int64) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, newPassword string) (string, error)
	GetAllUsersNotFriends(ctx context.Context, id int64) ([]models.User, error)
	CheckUserExist(ctx context.Context, id int64) (bool, error)
}

type GRPCServer struct {
	address   string
	users     UserService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(address string, l logging.Logger, us UserService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&userServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
