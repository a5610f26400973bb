package grpc

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const authorizerKey ctxKey = "authorizer"

// protectedMethods require an access token; the interceptor resolves it to
// the authorizer public key.
var protectedMethods = map[string]bool{
	pb.KeyRegistryService_RegisterUsername_FullMethodName:    true,
	pb.KeyRegistryService_TransferUsername_FullMethodName:    true,
	pb.KeyRegistryService_UpdateEncryptionKey_FullMethodName: true,
	pb.KeyRegistryService_CloseAccount_FullMethodName:        true,
	pb.KeyRegistryService_ListEvents_FullMethodName:          true,
}

// WithAuthorizer returns a context carrying the authenticated public key.
func WithAuthorizer(ctx context.Context, pubkey registry.Pubkey) context.Context {
	return context.WithValue(ctx, authorizerKey, pubkey)
}

// AuthorizerFromContext returns the public key placed by the interceptor.
func AuthorizerFromContext(ctx context.Context) (registry.Pubkey, bool) {
	pubkey, ok := ctx.Value(authorizerKey).(registry.Pubkey)
	return pubkey, ok
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if protectedMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		pubkey, err := s.sessions.Authorize(accessToken)
		if err != nil {
			// clients refresh on this exact message
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}

		ctx = WithAuthorizer(ctx, pubkey)
	}

	return handler(ctx, req)
}

// recoveryInterceptor turns a handler panic into codes.Internal.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", p, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, common.ErrInternal.Error())
		}
	}()
	return handler(ctx, req)
}
