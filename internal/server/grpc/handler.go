package grpc

import (
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *PingRequest) (*PingResponse, error) {
	resp := &PingResponse{Status: "OK"}
	for name, check := range s.svc.Checks {
		if resp.Checks == nil {
			resp.Checks = map[string]string{}
		}
		if err := check(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "check", name, "error", err.Error())
			resp.Checks[name] = err.Error()
			resp.Status = "DEGRADED"
			continue
		}
		resp.Checks[name] = "OK"
	}
	return resp, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*WriteResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.svc.Accounts.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	s.logger.Info(ctx, "Registered", "username", user.UserName)
	return &WriteResponse{Success: true, Message: "Registration successful", ID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, tokens, err := s.svc.Accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	return &LoginResponse{
		UserID:       user.ID,
		Username:     user.UserName,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	tokens, err := s.svc.Accounts.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) SaveItem(ctx context.Context, req *SaveItemRequest) (*WriteResponse, error) {
	item, err := s.svc.Writer.SaveItem(ctx, services.SaveItemRequest{
		OwnerID:     userIDFrom(ctx),
		Title:       req.Title,
		Category:    req.Category,
		Location:    req.Location,
		EventDate:   req.EventDate,
		Status:      models.ItemStatus(req.Status),
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &WriteResponse{Success: true, Message: "Item saved successfully", ID: item.ID}, nil
}

func (s *GRPCServer) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	views, err := s.svc.Reader.ListItems(ctx, userIDFrom(ctx), models.ItemFilter{
		Category:         req.Category,
		Location:         req.Location,
		IncludeRecovered: req.IncludeRecovered,
	})
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListItemsResponse{Items: itemsFromViews(views)}, nil
}

func (s *GRPCServer) ListMyItems(ctx context.Context, _ *ListMyItemsRequest) (*ListItemsResponse, error) {
	views, err := s.svc.Reader.ListUserItems(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListItemsResponse{Items: itemsFromViews(views)}, nil
}

func (s *GRPCServer) ListCategories(ctx context.Context, _ *ListValuesRequest) (*ListValuesResponse, error) {
	values, err := s.svc.Reader.Categories(ctx)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListValuesResponse{Values: values}, nil
}

func (s *GRPCServer) ListLocations(ctx context.Context, _ *ListValuesRequest) (*ListValuesResponse, error) {
	values, err := s.svc.Reader.Locations(ctx)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListValuesResponse{Values: values}, nil
}

func (s *GRPCServer) SubmitClaim(ctx context.Context, req *SubmitClaimRequest) (*WriteResponse, error) {
	claim, err := s.svc.Writer.SubmitClaim(ctx, services.SubmitClaimRequest{
		ItemID:     req.ItemID,
		ClaimantID: userIDFrom(ctx),
		Reason:     req.Reason,
		Evidence:   req.Evidence,
	})
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &WriteResponse{Success: true, Message: "Claim submitted successfully", ID: claim.ID}, nil
}

func (s *GRPCServer) AcceptClaim(ctx context.Context, req *AcceptClaimRequest) (*AcceptClaimResponse, error) {
	claim, err := s.svc.Lifecycle.AuthorizeClaimOwner(ctx, userIDFrom(ctx), req.ClaimID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}

	itemID := req.ItemID
	if itemID == "" {
		itemID = claim.ItemID
	}

	res, err := s.svc.Lifecycle.Accept(ctx, claim.ID, itemID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &AcceptClaimResponse{
		WriteResponse: WriteResponse{Success: true, Message: res.Message(), ID: res.ClaimID},
		RejectedCount: res.RejectedCount,
	}, nil
}

func (s *GRPCServer) RejectClaim(ctx context.Context, req *RejectClaimRequest) (*WriteResponse, error) {
	claim, err := s.svc.Lifecycle.AuthorizeClaimOwner(ctx, userIDFrom(ctx), req.ClaimID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	if err := s.svc.Lifecycle.Reject(ctx, claim.ID); err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &WriteResponse{Success: true, Message: "Claim " + claim.ID + " rejected.", ID: claim.ID}, nil
}

// ListClaimsForItem is restricted to the item's owner; claims carry the
// claimants' evidence.
func (s *GRPCServer) ListClaimsForItem(ctx context.Context, req *ListClaimsForItemRequest) (*ListClaimsResponse, error) {
	if err := s.svc.Lifecycle.AuthorizeItemOwner(ctx, userIDFrom(ctx), req.ItemID); err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	views, err := s.svc.Reader.ListClaimsForItem(ctx, req.ItemID)
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListClaimsResponse{Claims: claimsFromViews(views)}, nil
}

func (s *GRPCServer) ListMyClaims(ctx context.Context, _ *ListMyClaimsRequest) (*ListClaimsResponse, error) {
	views, err := s.svc.Reader.ListClaimsByClaimant(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListClaimsResponse{Claims: claimsFromViews(views)}, nil
}

func (s *GRPCServer) ListClaimsOnMyItems(ctx context.Context, _ *ListMyClaimsRequest) (*ListClaimsResponse, error) {
	views, err := s.svc.Reader.ListClaimsOnMyItems(ctx, userIDFrom(ctx))
	if err != nil {
		return nil, toStatus(ctx, s.logger, err)
	}
	return &ListClaimsResponse{Claims: claimsFromViews(views)}, nil
}

func itemsFromViews(views []models.ItemView) []Item {
	out := make([]Item, len(views))
	for i, v := range views {
		out[i] = Item{
			ID:              v.ID,
			OwnerID:         v.UserID,
			OwnerUsername:   v.OwnerUserName,
			Title:           v.Title,
			Category:        v.Category,
			Location:        v.Location,
			EventDate:       v.EventDate,
			Status:          v.Status.String(),
			Description:     v.Description,
			Image:           v.Image,
			DetailAvailable: v.DetailAvailable,
			Claimable:       v.Claimable,
			CreatedAt:       v.CreatedAt,
		}
	}
	return out
}

func claimsFromViews(views []models.ClaimView) []Claim {
	out := make([]Claim, len(views))
	for i, v := range views {
		out[i] = Claim{
			ID:                v.ID,
			ItemID:            v.ItemID,
			ItemTitle:         v.ItemTitle,
			ItemStatus:        v.ItemStatus.String(),
			ClaimantID:        v.ClaimantID,
			ClaimantUsername:  v.ClaimantUserName,
			Reason:            v.Reason,
			Status:            v.Status.String(),
			CreatedAt:         v.CreatedAt,
			EvidenceImage:     v.EvidenceImage,
			EvidenceAvailable: v.EvidenceAvailable,
			ItemDescription:   v.ItemDescription,
			ItemImage:         v.ItemImage,
		}
	}
	return out
}
