package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "keyregistry.v1.KeyRegistryService"

const (
	KeyRegistryService_Ping_FullMethodName                = "/" + ServiceName + "/Ping"
	KeyRegistryService_GetChallenge_FullMethodName        = "/" + ServiceName + "/GetChallenge"
	KeyRegistryService_Login_FullMethodName               = "/" + ServiceName + "/Login"
	KeyRegistryService_RefreshToken_FullMethodName        = "/" + ServiceName + "/RefreshToken"
	KeyRegistryService_RegisterUsername_FullMethodName    = "/" + ServiceName + "/RegisterUsername"
	KeyRegistryService_LookupUsername_FullMethodName      = "/" + ServiceName + "/LookupUsername"
	KeyRegistryService_CheckUsername_FullMethodName       = "/" + ServiceName + "/CheckUsername"
	KeyRegistryService_TransferUsername_FullMethodName    = "/" + ServiceName + "/TransferUsername"
	KeyRegistryService_UpdateEncryptionKey_FullMethodName = "/" + ServiceName + "/UpdateEncryptionKey"
	KeyRegistryService_CloseAccount_FullMethodName        = "/" + ServiceName + "/CloseAccount"
	KeyRegistryService_ListEvents_FullMethodName          = "/" + ServiceName + "/ListEvents"
)

// KeyRegistryServiceClient is the client API for KeyRegistryService.
type KeyRegistryServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	GetChallenge(ctx context.Context, in *GetChallengeRequest, opts ...grpc.CallOption) (*GetChallengeResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	RegisterUsername(ctx context.Context, in *RegisterUsernameRequest, opts ...grpc.CallOption) (*RegisterUsernameResponse, error)
	LookupUsername(ctx context.Context, in *LookupUsernameRequest, opts ...grpc.CallOption) (*LookupUsernameResponse, error)
	CheckUsername(ctx context.Context, in *CheckUsernameRequest, opts ...grpc.CallOption) (*CheckUsernameResponse, error)
	TransferUsername(ctx context.Context, in *TransferUsernameRequest, opts ...grpc.CallOption) (*TransferUsernameResponse, error)
	UpdateEncryptionKey(ctx context.Context, in *UpdateEncryptionKeyRequest, opts ...grpc.CallOption) (*UpdateEncryptionKeyResponse, error)
	CloseAccount(ctx context.Context, in *CloseAccountRequest, opts ...grpc.CallOption) (*CloseAccountResponse, error)
	ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error)
}

type keyRegistryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewKeyRegistryServiceClient(cc grpc.ClientConnInterface) KeyRegistryServiceClient {
	return &keyRegistryServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keyRegistryServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, KeyRegistryService_Ping_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) GetChallenge(ctx context.Context, in *GetChallengeRequest, opts ...grpc.CallOption) (*GetChallengeResponse, error) {
	return invoke[GetChallengeResponse](ctx, c.cc, KeyRegistryService_GetChallenge_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, KeyRegistryService_Login_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, KeyRegistryService_RefreshToken_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) RegisterUsername(ctx context.Context, in *RegisterUsernameRequest, opts ...grpc.CallOption) (*RegisterUsernameResponse, error) {
	return invoke[RegisterUsernameResponse](ctx, c.cc, KeyRegistryService_RegisterUsername_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) LookupUsername(ctx context.Context, in *LookupUsernameRequest, opts ...grpc.CallOption) (*LookupUsernameResponse, error) {
	return invoke[LookupUsernameResponse](ctx, c.cc, KeyRegistryService_LookupUsername_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) CheckUsername(ctx context.Context, in *CheckUsernameRequest, opts ...grpc.CallOption) (*CheckUsernameResponse, error) {
	return invoke[CheckUsernameResponse](ctx, c.cc, KeyRegistryService_CheckUsername_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) TransferUsername(ctx context.Context, in *TransferUsernameRequest, opts ...grpc.CallOption) (*TransferUsernameResponse, error) {
	return invoke[TransferUsernameResponse](ctx, c.cc, KeyRegistryService_TransferUsername_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) UpdateEncryptionKey(ctx context.Context, in *UpdateEncryptionKeyRequest, opts ...grpc.CallOption) (*UpdateEncryptionKeyResponse, error) {
	return invoke[UpdateEncryptionKeyResponse](ctx, c.cc, KeyRegistryService_UpdateEncryptionKey_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) CloseAccount(ctx context.Context, in *CloseAccountRequest, opts ...grpc.CallOption) (*CloseAccountResponse, error) {
	return invoke[CloseAccountResponse](ctx, c.cc, KeyRegistryService_CloseAccount_FullMethodName, in, opts)
}

func (c *keyRegistryServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, KeyRegistryService_ListEvents_FullMethodName, in, opts)
}

// KeyRegistryServiceServer is the server API for KeyRegistryService.
// Implementations must embed UnimplementedKeyRegistryServiceServer.
type KeyRegistryServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	GetChallenge(context.Context, *GetChallengeRequest) (*GetChallengeResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	RegisterUsername(context.Context, *RegisterUsernameRequest) (*RegisterUsernameResponse, error)
	LookupUsername(context.Context, *LookupUsernameRequest) (*LookupUsernameResponse, error)
	CheckUsername(context.Context, *CheckUsernameRequest) (*CheckUsernameResponse, error)
	TransferUsername(context.Context, *TransferUsernameRequest) (*TransferUsernameResponse, error)
	UpdateEncryptionKey(context.Context, *UpdateEncryptionKeyRequest) (*UpdateEncryptionKeyResponse, error)
	CloseAccount(context.Context, *CloseAccountRequest) (*CloseAccountResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	mustEmbedUnimplementedKeyRegistryServiceServer()
}

// UnimplementedKeyRegistryServiceServer answers every method with
// codes.Unimplemented.
type UnimplementedKeyRegistryServiceServer struct{}

func (UnimplementedKeyRegistryServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedKeyRegistryServiceServer) GetChallenge(context.Context, *GetChallengeRequest) (*GetChallengeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChallenge not implemented")
}
func (UnimplementedKeyRegistryServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedKeyRegistryServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedKeyRegistryServiceServer) RegisterUsername(context.Context, *RegisterUsernameRequest) (*RegisterUsernameResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterUsername not implemented")
}
func (UnimplementedKeyRegistryServiceServer) LookupUsername(context.Context, *LookupUsernameRequest) (*LookupUsernameResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LookupUsername not implemented")
}
func (UnimplementedKeyRegistryServiceServer) CheckUsername(context.Context, *CheckUsernameRequest) (*CheckUsernameResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckUsername not implemented")
}
func (UnimplementedKeyRegistryServiceServer) TransferUsername(context.Context, *TransferUsernameRequest) (*TransferUsernameResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TransferUsername not implemented")
}
func (UnimplementedKeyRegistryServiceServer) UpdateEncryptionKey(context.Context, *UpdateEncryptionKeyRequest) (*UpdateEncryptionKeyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEncryptionKey not implemented")
}
func (UnimplementedKeyRegistryServiceServer) CloseAccount(context.Context, *CloseAccountRequest) (*CloseAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseAccount not implemented")
}
func (UnimplementedKeyRegistryServiceServer) ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEvents not implemented")
}
func (UnimplementedKeyRegistryServiceServer) mustEmbedUnimplementedKeyRegistryServiceServer() {}

func RegisterKeyRegistryServiceServer(s grpc.ServiceRegistrar, srv KeyRegistryServiceServer) {
	s.RegisterService(&KeyRegistryService_ServiceDesc, srv)
}

// unary adapts one typed server method to a grpc.MethodHandler.
func unary[Req any, PReq interface {
	*Req
	Message
}, Resp any](fullMethod string, call func(KeyRegistryServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(KeyRegistryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(KeyRegistryServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var KeyRegistryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KeyRegistryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(KeyRegistryService_Ping_FullMethodName, KeyRegistryServiceServer.Ping)},
		{MethodName: "GetChallenge", Handler: unary(KeyRegistryService_GetChallenge_FullMethodName, KeyRegistryServiceServer.GetChallenge)},
		{MethodName: "Login", Handler: unary(KeyRegistryService_Login_FullMethodName, KeyRegistryServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(KeyRegistryService_RefreshToken_FullMethodName, KeyRegistryServiceServer.RefreshToken)},
		{MethodName: "RegisterUsername", Handler: unary(KeyRegistryService_RegisterUsername_FullMethodName, KeyRegistryServiceServer.RegisterUsername)},
		{MethodName: "LookupUsername", Handler: unary(KeyRegistryService_LookupUsername_FullMethodName, KeyRegistryServiceServer.LookupUsername)},
		{MethodName: "CheckUsername", Handler: unary(KeyRegistryService_CheckUsername_FullMethodName, KeyRegistryServiceServer.CheckUsername)},
		{MethodName: "TransferUsername", Handler: unary(KeyRegistryService_TransferUsername_FullMethodName, KeyRegistryServiceServer.TransferUsername)},
		{MethodName: "UpdateEncryptionKey", Handler: unary(KeyRegistryService_UpdateEncryptionKey_FullMethodName, KeyRegistryServiceServer.UpdateEncryptionKey)},
		{MethodName: "CloseAccount", Handler: unary(KeyRegistryService_CloseAccount_FullMethodName, KeyRegistryServiceServer.CloseAccount)},
		{MethodName: "ListEvents", Handler: unary(KeyRegistryService_ListEvents_FullMethodName, KeyRegistryServiceServer.ListEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "keyregistry/v1/keyregistry.proto",
}
