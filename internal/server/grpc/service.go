package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "lostfound.LostFoundService"

// LostFoundServer is the server API of the service.
type LostFoundServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*WriteResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	SaveItem(context.Context, *SaveItemRequest) (*WriteResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	ListMyItems(context.Context, *ListMyItemsRequest) (*ListItemsResponse, error)
	ListCategories(context.Context, *ListValuesRequest) (*ListValuesResponse, error)
	ListLocations(context.Context, *ListValuesRequest) (*ListValuesResponse, error)
	SubmitClaim(context.Context, *SubmitClaimRequest) (*WriteResponse, error)
	AcceptClaim(context.Context, *AcceptClaimRequest) (*AcceptClaimResponse, error)
	RejectClaim(context.Context, *RejectClaimRequest) (*WriteResponse, error)
	ListClaimsForItem(context.Context, *ListClaimsForItemRequest) (*ListClaimsResponse, error)
	ListMyClaims(context.Context, *ListMyClaimsRequest) (*ListClaimsResponse, error)
	ListClaimsOnMyItems(context.Context, *ListMyClaimsRequest) (*ListClaimsResponse, error)
}

// FullMethod returns the "/service/method" path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](name string, call func(LostFoundServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(LostFoundServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes LostFoundService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LostFoundServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", LostFoundServer.Ping),
		unary("RegisterUser", LostFoundServer.RegisterUser),
		unary("Login", LostFoundServer.Login),
		unary("RefreshToken", LostFoundServer.RefreshToken),
		unary("SaveItem", LostFoundServer.SaveItem),
		unary("ListItems", LostFoundServer.ListItems),
		unary("ListMyItems", LostFoundServer.ListMyItems),
		unary("ListCategories", LostFoundServer.ListCategories),
		unary("ListLocations", LostFoundServer.ListLocations),
		unary("SubmitClaim", LostFoundServer.SubmitClaim),
		unary("AcceptClaim", LostFoundServer.AcceptClaim),
		unary("RejectClaim", LostFoundServer.RejectClaim),
		unary("ListClaimsForItem", LostFoundServer.ListClaimsForItem),
		unary("ListMyClaims", LostFoundServer.ListMyClaims),
		unary("ListClaimsOnMyItems", LostFoundServer.ListClaimsOnMyItems),
	},
	Streams: []grpc.StreamDesc{},
}

// Client calls LostFoundService over cc using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c, "Ping", in, opts...)
}

func (c *Client) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*WriteResponse, error) {
	return invoke[WriteResponse](ctx, c, "RegisterUser", in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "Login", in, opts...)
}

func (c *Client) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c, "RefreshToken", in, opts...)
}

func (c *Client) SaveItem(ctx context.Context, in *SaveItemRequest, opts ...grpc.CallOption) (*WriteResponse, error) {
	return invoke[WriteResponse](ctx, c, "SaveItem", in, opts...)
}

func (c *Client) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, "ListItems", in, opts...)
}

func (c *Client) ListMyItems(ctx context.Context, in *ListMyItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, "ListMyItems", in, opts...)
}

func (c *Client) ListCategories(ctx context.Context, in *ListValuesRequest, opts ...grpc.CallOption) (*ListValuesResponse, error) {
	return invoke[ListValuesResponse](ctx, c, "ListCategories", in, opts...)
}

func (c *Client) ListLocations(ctx context.Context, in *ListValuesRequest, opts ...grpc.CallOption) (*ListValuesResponse, error) {
	return invoke[ListValuesResponse](ctx, c, "ListLocations", in, opts...)
}

func (c *Client) SubmitClaim(ctx context.Context, in *SubmitClaimRequest, opts ...grpc.CallOption) (*WriteResponse, error) {
	return invoke[WriteResponse](ctx, c, "SubmitClaim", in, opts...)
}

func (c *Client) AcceptClaim(ctx context.Context, in *AcceptClaimRequest, opts ...grpc.CallOption) (*AcceptClaimResponse, error) {
	return invoke[AcceptClaimResponse](ctx, c, "AcceptClaim", in, opts...)
}

func (c *Client) RejectClaim(ctx context.Context, in *RejectClaimRequest, opts ...grpc.CallOption) (*WriteResponse, error) {
	return invoke[WriteResponse](ctx, c, "RejectClaim", in, opts...)
}

func (c *Client) ListClaimsForItem(ctx context.Context, in *ListClaimsForItemRequest, opts ...grpc.CallOption) (*ListClaimsResponse, error) {
	return invoke[ListClaimsResponse](ctx, c, "ListClaimsForItem", in, opts...)
}

func (c *Client) ListMyClaims(ctx context.Context, in *ListMyClaimsRequest, opts ...grpc.CallOption) (*ListClaimsResponse, error) {
	return invoke[ListClaimsResponse](ctx, c, "ListMyClaims", in, opts...)
}

func (c *Client) ListClaimsOnMyItems(ctx context.Context, in *ListMyClaimsRequest, opts ...grpc.CallOption) (*ListClaimsResponse, error) {
	return invoke[ListClaimsResponse](ctx, c, "ListClaimsOnMyItems", in, opts...)
}
