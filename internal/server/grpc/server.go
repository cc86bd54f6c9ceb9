// Package grpc exposes the lost & found services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"google.golang.org/grpc"
)

// MaxMessageSize leaves room for a full-size image plus its JSON encoding.
const MaxMessageSize = 2*models.MaxPayloadSize + 1024*1024

type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(accessToken string) (string, error)
}

type Writer interface {
	SaveItem(ctx context.Context, req services.SaveItemRequest) (*models.Item, error)
	SubmitClaim(ctx context.Context, req services.SubmitClaimRequest) (*models.Claim, error)
}

type Lifecycle interface {
	Accept(ctx context.Context, claimID, itemID string) (*services.AcceptResult, error)
	Reject(ctx context.Context, claimID string) error
	AuthorizeItemOwner(ctx context.Context, userID, itemID string) error
	AuthorizeClaimOwner(ctx context.Context, userID, claimID string) (*models.Claim, error)
}

type Reader interface {
	ListItems(ctx context.Context, viewerID string, filter models.ItemFilter) ([]models.ItemView, error)
	ListUserItems(ctx context.Context, ownerID string) ([]models.ItemView, error)
	ListClaimsForItem(ctx context.Context, itemID string) ([]models.ClaimView, error)
	ListClaimsByClaimant(ctx context.Context, claimantID string) ([]models.ClaimView, error)
	ListClaimsOnMyItems(ctx context.Context, ownerID string) ([]models.ClaimView, error)
	Categories(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
}

// HealthCheck reports whether a dependency answers.
type HealthCheck func(ctx context.Context) error

// Services is everything the server dispatches to.
type Services struct {
	Accounts  Accounts
	Writer    Writer
	Lifecycle Lifecycle
	Reader    Reader
	Checks    map[string]HealthCheck
}

type GRPCServer struct {
	address string
	svc     Services
	logger  logging.Logger
}

var _ LostFoundServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, svc Services) *GRPCServer {
	return &GRPCServer{
		address: address,
		svc:     svc,
		logger:  l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.MaxRecvMsgSize(MaxMessageSize),
		grpc.MaxSendMsgSize(MaxMessageSize),
	)
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
