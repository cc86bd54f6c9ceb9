package grpc

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// AccessTokenHeader is the metadata key carrying the JWT access token.
const AccessTokenHeader = common.AccessTokenHeaderName

// publicMethods can be called without a token. A valid token still
// identifies the caller.
var publicMethods = map[string]bool{
	FullMethod("Ping"):           true,
	FullMethod("RegisterUser"):   true,
	FullMethod("Login"):          true,
	FullMethod("RefreshToken"):   true,
	FullMethod("ListItems"):      true,
	FullMethod("ListCategories"): true,
	FullMethod("ListLocations"):  true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(AccessTokenHeader); len(values) > 0 {
			accessToken = values[0]
		}
	}

	if publicMethods[info.FullMethod] {
		if accessToken != "" {
			if userID, err := s.svc.Accounts.Authenticate(accessToken); err == nil {
				ctx = context.WithValue(ctx, userIDKey, userID)
			}
		}
		return handler(ctx, req)
	}

	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	userID, err := s.svc.Accounts.Authenticate(accessToken)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

// userIDFrom returns the authenticated caller, or "" for anonymous calls.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
