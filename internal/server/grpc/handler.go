package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorCodes is matched in order; the sentinel's own message is sent so
// wrapped driver detail never reaches the client.
var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidUsernameLength, codes.InvalidArgument},
	{common.ErrInvalidUsernameCharacters, codes.InvalidArgument},
	{common.ErrInvalidEncryptionKey, codes.InvalidArgument},
	{common.ErrInvalidPublicKey, codes.InvalidArgument},
	{common.ErrUsernameTaken, codes.AlreadyExists},
	{common.ErrNotOwner, codes.PermissionDenied},
	{common.ErrNotFound, codes.NotFound},
	{common.ErrSlotMismatch, codes.FailedPrecondition},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidSignature, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrUnauthorized, codes.Unauthenticated},
	{context.Canceled, codes.Canceled},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
}

func (s *GRPCServer) mapError(ctx context.Context, method string, err error) error {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return status.Error(ec.code, ec.err.Error())
		}
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
	return status.Error(codes.Internal, common.ErrInternal.Error())
}

// authorizer is set by accessTokenInterceptor for every protected method.
func (s *GRPCServer) authorizer(ctx context.Context) (registry.Pubkey, error) {
	pubkey, ok := AuthorizerFromContext(ctx)
	if !ok {
		return registry.Pubkey{}, status.Error(codes.Unauthenticated, "missing token")
	}
	return pubkey, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) GetChallenge(ctx context.Context, req *pb.GetChallengeRequest) (*pb.GetChallengeResponse, error) {

	pubkey, err := registry.ParsePubkey(req.PublicKey)
	if err != nil {
		return nil, s.mapError(ctx, "GetChallenge", err)
	}

	challenge, err := s.sessions.Challenge(ctx, pubkey)
	if err != nil {
		return nil, s.mapError(ctx, "GetChallenge", err)
	}

	return &pb.GetChallengeResponse{Challenge: challenge}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {

	pubkey, err := registry.ParsePubkey(req.PublicKey)
	if err != nil {
		return nil, s.mapError(ctx, "Login", err)
	}

	tokens, err := s.sessions.Login(ctx, pubkey, req.Challenge, req.Signature)
	if err != nil {
		return nil, s.mapError(ctx, "Login", err)
	}

	return &pb.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {

	tokens, err := s.sessions.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.mapError(ctx, "RefreshToken", err)
	}

	return &pb.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

// RegisterUsername claims a username. The authenticated caller pays the
// deposit and, unless req.Owner names someone else, owns the record.
func (s *GRPCServer) RegisterUsername(ctx context.Context, req *pb.RegisterUsernameRequest) (*pb.RegisterUsernameResponse, error) {

	payer, err := s.authorizer(ctx)
	if err != nil {
		return nil, err
	}

	key, err := registry.ParseEncryptionKey(req.EncryptionKey)
	if err != nil {
		return nil, s.mapError(ctx, "RegisterUsername", err)
	}

	owner := payer
	if req.Owner != "" {
		if owner, err = registry.ParsePubkey(req.Owner); err != nil {
			return nil, s.mapError(ctx, "RegisterUsername", err)
		}
	}

	rec, err := s.registry.Register(ctx, services.RegisterParams{
		Username:      req.Username,
		EncryptionKey: key,
		Payer:         payer,
		Owner:         owner,
	})
	if err != nil {
		return nil, s.mapError(ctx, "RegisterUsername", err)
	}

	return &pb.RegisterUsernameResponse{Record: recordToProto(rec)}, nil

}

func (s *GRPCServer) LookupUsername(ctx context.Context, req *pb.LookupUsernameRequest) (*pb.LookupUsernameResponse, error) {

	var claimed *registry.Pubkey
	if req.Slot != "" {
		slot, err := registry.ParsePubkey(req.Slot)
		if err != nil {
			return nil, s.mapError(ctx, "LookupUsername", err)
		}
		claimed = &slot
	}

	rec, err := s.registry.Lookup(ctx, req.Username, claimed)
	if err != nil {
		return nil, s.mapError(ctx, "LookupUsername", err)
	}

	return &pb.LookupUsernameResponse{Record: recordToProto(rec)}, nil

}

func (s *GRPCServer) CheckUsername(ctx context.Context, req *pb.CheckUsernameRequest) (*pb.CheckUsernameResponse, error) {

	a, err := s.registry.Check(ctx, req.Username)
	if err != nil {
		return nil, s.mapError(ctx, "CheckUsername", err)
	}

	return &pb.CheckUsernameResponse{Username: a.Username, Slot: a.Slot.String(), Available: a.Available}, nil

}

func (s *GRPCServer) TransferUsername(ctx context.Context, req *pb.TransferUsernameRequest) (*pb.TransferUsernameResponse, error) {

	authorizer, err := s.authorizer(ctx)
	if err != nil {
		return nil, err
	}

	newOwner, err := registry.ParsePubkey(req.NewOwner)
	if err != nil {
		return nil, s.mapError(ctx, "TransferUsername", err)
	}

	rec, err := s.registry.Transfer(ctx, req.Username, newOwner, authorizer)
	if err != nil {
		return nil, s.mapError(ctx, "TransferUsername", err)
	}

	return &pb.TransferUsernameResponse{Record: recordToProto(rec)}, nil

}

func (s *GRPCServer) UpdateEncryptionKey(ctx context.Context, req *pb.UpdateEncryptionKeyRequest) (*pb.UpdateEncryptionKeyResponse, error) {

	authorizer, err := s.authorizer(ctx)
	if err != nil {
		return nil, err
	}

	key, err := registry.ParseEncryptionKey(req.EncryptionKey)
	if err != nil {
		return nil, s.mapError(ctx, "UpdateEncryptionKey", err)
	}

	rec, err := s.registry.UpdateEncryptionKey(ctx, req.Username, key, authorizer)
	if err != nil {
		return nil, s.mapError(ctx, "UpdateEncryptionKey", err)
	}

	return &pb.UpdateEncryptionKeyResponse{Record: recordToProto(rec)}, nil

}

func (s *GRPCServer) CloseAccount(ctx context.Context, req *pb.CloseAccountRequest) (*pb.CloseAccountResponse, error) {

	authorizer, err := s.authorizer(ctx)
	if err != nil {
		return nil, err
	}

	refund, err := s.registry.Close(ctx, req.Username, authorizer)
	if err != nil {
		return nil, s.mapError(ctx, "CloseAccount", err)
	}

	return &pb.CloseAccountResponse{RefundTo: refund.To.String(), Refund: refund.Amount}, nil

}

func (s *GRPCServer) ListEvents(ctx context.Context, req *pb.ListEventsRequest) (*pb.ListEventsResponse, error) {

	list, err := s.registry.Events(ctx, req.Username, req.AfterSeq, int(req.Limit))
	if err != nil {
		return nil, s.mapError(ctx, "ListEvents", err)
	}

	resp := &pb.ListEventsResponse{Events: make([]*pb.Event, 0, len(list))}
	for _, e := range list {
		resp.Events = append(resp.Events, eventToProto(e))
	}

	return resp, nil

}
