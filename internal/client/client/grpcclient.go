package client

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	"github.com/dmitrijs2005/keyregistry/internal/common"
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	client      pb.KeyRegistryServiceClient

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
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

// accessTokenInterceptor attaches the current access token. A call
// rejected with "token expired" is retried once after a token refresh.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.tokens()

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" || method == pb.KeyRegistryService_RefreshToken_FullMethodName {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (insecure transport and the token
// interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, dialOpts: opts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewKeyRegistryServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Authenticate signs a fresh server challenge with key and stores the
// issued token pair.
func (s *GRPCClient) Authenticate(ctx context.Context, key ed25519.PrivateKey) error {
	pubkey, err := registry.PubkeyFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}

	ch, err := s.client.GetChallenge(ctx, &pb.GetChallengeRequest{PublicKey: pubkey.String()})
	if err != nil {
		return s.mapError(err)
	}

	resp, err := s.client.Login(ctx, &pb.LoginRequest{
		PublicKey: pubkey.String(),
		Challenge: ch.Challenge,
		Signature: ed25519.Sign(key, []byte(ch.Challenge)),
	})
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Authenticated reports whether a token pair is held.
func (s *GRPCClient) Authenticated() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) requireAuth() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

// Register claims username for owner, or for the signed-in identity when
// owner is nil. The signed-in identity pays the deposit either way.
func (s *GRPCClient) Register(ctx context.Context, username string, key registry.EncryptionKey, owner *registry.Pubkey) (*models.Record, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	req := &pb.RegisterUsernameRequest{Username: username, EncryptionKey: key.Bytes()}
	if owner != nil {
		req.Owner = owner.String()
	}

	resp, err := s.client.RegisterUsername(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return recordFromProto(resp.Record)
}

// Lookup returns the record bound to username. A non-nil slot is checked
// by the server against the derived address.
func (s *GRPCClient) Lookup(ctx context.Context, username string, slot *registry.Pubkey) (*models.Record, error) {
	req := &pb.LookupUsernameRequest{Username: username}
	if slot != nil {
		req.Slot = slot.String()
	}

	resp, err := s.client.LookupUsername(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return recordFromProto(resp.Record)
}

func (s *GRPCClient) Check(ctx context.Context, username string) (*models.Availability, error) {
	resp, err := s.client.CheckUsername(ctx, &pb.CheckUsernameRequest{Username: username})
	if err != nil {
		return nil, s.mapError(err)
	}

	slot, err := parsePubkey("slot", resp.Slot)
	if err != nil {
		return nil, err
	}
	return &models.Availability{Username: resp.Username, Slot: slot, Available: resp.Available}, nil
}

func (s *GRPCClient) Transfer(ctx context.Context, username string, newOwner registry.Pubkey) (*models.Record, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	resp, err := s.client.TransferUsername(ctx, &pb.TransferUsernameRequest{Username: username, NewOwner: newOwner.String()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return recordFromProto(resp.Record)
}

func (s *GRPCClient) UpdateEncryptionKey(ctx context.Context, username string, key registry.EncryptionKey) (*models.Record, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	resp, err := s.client.UpdateEncryptionKey(ctx, &pb.UpdateEncryptionKeyRequest{Username: username, EncryptionKey: key.Bytes()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return recordFromProto(resp.Record)
}

func (s *GRPCClient) CloseAccount(ctx context.Context, username string) (*models.Refund, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	resp, err := s.client.CloseAccount(ctx, &pb.CloseAccountRequest{Username: username})
	if err != nil {
		return nil, s.mapError(err)
	}

	to, err := parsePubkey("refund_to", resp.RefundTo)
	if err != nil {
		return nil, err
	}
	return &models.Refund{To: to, Amount: resp.Refund}, nil
}

// Events pages through the audit journal of username in Seq order.
func (s *GRPCClient) Events(ctx context.Context, username string, afterSeq int64, limit int) ([]*models.Event, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}

	resp, err := s.client.ListEvents(ctx, &pb.ListEventsRequest{Username: username, AfterSeq: afterSeq, Limit: int64(limit)})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]*models.Event, 0, len(resp.Events))
	for _, e := range resp.Events {
		ev, err := eventFromProto(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	for _, sentinel := range serverErrors {
		if st.Message() == sentinel.Error() {
			return sentinel
		}
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
