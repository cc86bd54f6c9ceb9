package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/saga"
	"github.com/dmitrijs2005/lostfound/internal/server/details"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
)

// Saga names, as reported to metrics.
const (
	SagaSaveItem    = "save_item"
	SagaSubmitClaim = "submit_claim"
)

// SaveItemRequest carries a new lost or found report.
type SaveItemRequest struct {
	OwnerID     string
	Title       string
	Category    string
	Location    string
	EventDate   time.Time
	Status      models.ItemStatus
	Description string
	Image       []byte
}

func (r *SaveItemRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
}

// Validate checks the request before anything is written.
func (r *SaveItemRequest) Validate() error {
	switch {
	case r.OwnerID == "":
		return common.Validationf("owner is required")
	case r.Title == "" || r.Location == "" || r.Description == "":
		return common.Validationf("title, location and description are required")
	case r.EventDate.IsZero():
		return common.Validationf("date is required")
	}
	if _, err := models.ParseItemStatus(string(r.Status)); err != nil {
		return err
	}
	if !r.Status.Claimable() {
		return common.Validationf("new items must be lost or found, not %s", r.Status)
	}
	return checkPayload("image", r.Image)
}

// SubmitClaimRequest carries a claim of ownership on an item.
type SubmitClaimRequest struct {
	ItemID     string
	ClaimantID string
	Reason     string
	Evidence   []byte
}

func (r *SubmitClaimRequest) Validate() error {
	switch {
	case r.ItemID == "":
		return common.Validationf("item is required")
	case r.ClaimantID == "":
		return common.Validationf("claimant is required")
	case strings.TrimSpace(r.Reason) == "":
		return common.Validationf("reason is required")
	}
	return checkPayload("evidence image", r.Evidence)
}

func checkPayload(name string, b []byte) error {
	if len(b) > models.MaxPayloadSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", common.ErrPayloadTooLarge, name, len(b), models.MaxPayloadSize)
	}
	return nil
}

// Coordinator performs the writes that span the relational and the detail
// store. The document goes first: an unreferenced document is harmless,
// a row pointing at a missing document is not, so a failed row insert
// deletes the document it would have referenced.
type Coordinator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	details     details.Store
	runner      *saga.Runner
	logger      logging.Logger
}

func NewCoordinator(db *sql.DB, m repomanager.RepositoryManager, store details.Store, runner *saga.Runner, logger logging.Logger) *Coordinator {
	return &Coordinator{
		db:          db,
		repomanager: m,
		details:     store,
		runner:      runner,
		logger:      logger.With("module", "coordinator"),
	}
}

// SaveItem stores the detail document, then the item row referencing it.
func (c *Coordinator) SaveItem(ctx context.Context, req SaveItemRequest) (*models.Item, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := saga.Run(ctx, c.runner, saga.TwoStep[models.DetailRef, *models.Item]{
		Name: SagaSaveItem,
		Attempt: func(ctx context.Context) (models.DetailRef, bool, error) {
			ref, err := c.details.InsertItemDetail(ctx, req.Description, req.Image)
			return ref, false, err
		},
		Commit: func(ctx context.Context, ref models.DetailRef) (*models.Item, error) {
			return c.repomanager.Items(c.db).Create(ctx, &models.Item{
				UserID:      req.OwnerID,
				Title:       req.Title,
				Category:    req.Category,
				Location:    req.Location,
				EventDate:   req.EventDate,
				Status:      req.Status,
				DetailRef:   ref,
				Description: req.Description,
			})
		},
		Compensate: func(ctx context.Context, ref models.DetailRef) error {
			return c.details.DeleteItemDetail(ctx, ref)
		},
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "item saved", "item_id", item.ID, "status", item.Status.String())
	return item, nil
}

// SubmitClaim checks that the item can be claimed by this user, stores the
// evidence document when there is one, then the pending claim row.
// The claimability check reads the item before the insert and is not
// atomic with it: a claim may land on an item accepted in between, and
// Lifecycle.Accept refuses it under the item row lock.
func (c *Coordinator) SubmitClaim(ctx context.Context, req SubmitClaimRequest) (*models.Claim, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := c.repomanager.Items(c.db).GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Status.Claimable() {
		return nil, fmt.Errorf("%w: item %s is %s", common.ErrItemNotClaimable, item.ID, item.Status)
	}
	if item.UserID == req.ClaimantID {
		return nil, common.ErrSelfClaim
	}

	claim, err := saga.Run(ctx, c.runner, saga.TwoStep[models.DetailRef, *models.Claim]{
		Name: SagaSubmitClaim,
		Attempt: func(ctx context.Context) (models.DetailRef, bool, error) {
			if len(req.Evidence) == 0 {
				return models.DetailRef{}, true, nil
			}
			note := fmt.Sprintf("Evidence for claim on item %s by user %s", req.ItemID, req.ClaimantID)
			ref, err := c.details.InsertClaimDetail(ctx, req.Evidence, note)
			return ref, false, err
		},
		Commit: func(ctx context.Context, ref models.DetailRef) (*models.Claim, error) {
			return c.repomanager.Claims(c.db).Create(ctx, &models.Claim{
				ItemID:     req.ItemID,
				ClaimantID: req.ClaimantID,
				Reason:     req.Reason,
				DetailRef:  ref,
			})
		},
		Compensate: func(ctx context.Context, ref models.DetailRef) error {
			return c.details.DeleteClaimDetail(ctx, ref)
		},
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "claim submitted", "claim_id", claim.ID, "item_id", claim.ItemID)
	return claim, nil
}
