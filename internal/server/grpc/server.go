// Package grpc exposes the registry and session services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/keyregistry/internal/logging"
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/dmitrijs2005/keyregistry/internal/server/services"
	"google.golang.org/grpc"
)

// registrySvc is the part of services.RegistryService the handlers use.
type registrySvc interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.Record, error)
	Lookup(ctx context.Context, username string, claimedSlot *registry.Pubkey) (*models.Record, error)
	Check(ctx context.Context, username string) (*services.Availability, error)
	Transfer(ctx context.Context, username string, newOwner, authorizer registry.Pubkey) (*models.Record, error)
	UpdateEncryptionKey(ctx context.Context, username string, key registry.EncryptionKey, authorizer registry.Pubkey) (*models.Record, error)
	Close(ctx context.Context, username string, authorizer registry.Pubkey) (*models.Refund, error)
	Events(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error)
}

// sessionSvc is the part of services.SessionService the handlers and the
// interceptor use.
type sessionSvc interface {
	Challenge(ctx context.Context, pubkey registry.Pubkey) (string, error)
	Login(ctx context.Context, pubkey registry.Pubkey, challenge string, signature []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authorize(accessToken string) (registry.Pubkey, error)
}

type GRPCServer struct {
	pb.UnimplementedKeyRegistryServiceServer
	address  string
	registry registrySvc
	sessions sessionSvc
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, rs registrySvc, ss sessionSvc) (*GRPCServer, error) {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		registry: rs,
		sessions: ss,
	}, nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.accessTokenInterceptor))

	// registers service
	pb.RegisterKeyRegistryServiceServer(srv, s)

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

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
