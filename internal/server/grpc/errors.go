package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Failed sagas keep their
// message so the caller sees which store failed; unknown errors do not.
func toStatus(ctx context.Context, logger logging.Logger, err error) error {
	if err == nil {
		return nil
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrPersistenceFailed):
		logger.Error(ctx, "persistence failed", "error", err.Error())
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrDuplicateKey):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrConflict):
		code = codes.Aborted
	case errors.Is(err, common.ErrValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrSelfClaim), errors.Is(err, common.ErrItemNotClaimable):
		code = codes.FailedPrecondition
	case errors.Is(err, common.ErrConnectionUnavailable):
		code = codes.Unavailable
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorForbidden):
		code = codes.PermissionDenied
	default:
		logger.Error(ctx, "unexpected error", "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
