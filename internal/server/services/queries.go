package services

import (
	"context"
	"database/sql"
	"sort"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/details"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// DefaultResolveConcurrency bounds parallel detail lookups per listing.
const DefaultResolveConcurrency = 8

// ResolutionObserver is told about every detail that could not be resolved.
type ResolutionObserver interface {
	DetailResolutionFailed(collection string)
}

// QueryAggregator joins relational rows with their detail documents for
// display. A detail that cannot be resolved never fails a listing; the
// entry gets models.DetailsUnavailable and no image instead.
type QueryAggregator struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	details     details.Store
	observer    ResolutionObserver
	logger      logging.Logger
	concurrency int
}

func NewQueryAggregator(db *sql.DB, m repomanager.RepositoryManager, store details.Store, observer ResolutionObserver, logger logging.Logger) *QueryAggregator {
	return &QueryAggregator{
		db:          db,
		repomanager: m,
		details:     store,
		observer:    observer,
		logger:      logger.With("module", "queries"),
		concurrency: DefaultResolveConcurrency,
	}
}

// ListItems lists items for the public board. viewerID may be empty; it
// only drives the advisory Claimable flag.
func (q *QueryAggregator) ListItems(ctx context.Context, viewerID string, filter models.ItemFilter) ([]models.ItemView, error) {
	rows, err := q.repomanager.Items(q.db).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return q.itemViews(ctx, viewerID, rows), nil
}

// ListUserItems lists everything ownerID posted, recovered items included.
func (q *QueryAggregator) ListUserItems(ctx context.Context, ownerID string) ([]models.ItemView, error) {
	rows, err := q.repomanager.Items(q.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return q.itemViews(ctx, ownerID, rows), nil
}

func (q *QueryAggregator) ListClaimsForItem(ctx context.Context, itemID string) ([]models.ClaimView, error) {
	rows, err := q.repomanager.Claims(q.db).ListForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return q.claimViews(ctx, rows, false), nil
}

// ListClaimsByClaimant lists claimantID's claims together with the detail
// of each claimed item.
func (q *QueryAggregator) ListClaimsByClaimant(ctx context.Context, claimantID string) ([]models.ClaimView, error) {
	rows, err := q.repomanager.Claims(q.db).ListByClaimant(ctx, claimantID)
	if err != nil {
		return nil, err
	}
	return q.claimViews(ctx, rows, true), nil
}

// ListClaimsOnMyItems collects the claims on every non-recovered item of
// ownerID, newest first.
func (q *QueryAggregator) ListClaimsOnMyItems(ctx context.Context, ownerID string) ([]models.ClaimView, error) {
	owned, err := q.repomanager.Items(q.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var active []*models.Item
	for _, it := range owned {
		if it.Status != models.ItemRecovered {
			active = append(active, it)
		}
	}

	perItem := make([][]*models.Claim, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.concurrency)
	for i, it := range active {
		i, it := i, it
		g.Go(func() error {
			claims, err := q.repomanager.Claims(q.db).ListForItem(gctx, it.ID)
			if err != nil {
				return err
			}
			for _, c := range claims {
				c.ItemTitle = it.Title
				c.ItemStatus = it.Status
			}
			perItem[i] = claims
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*models.Claim
	for _, claims := range perItem {
		all = append(all, claims...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	return q.claimViews(ctx, all, false), nil
}

// Categories returns the category filter options, "All Categories" first.
func (q *QueryAggregator) Categories(ctx context.Context) ([]string, error) {
	values, err := q.repomanager.Items(q.db).DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{models.AllCategories}, values...), nil
}

// Locations returns the location filter options, "All Locations" first.
func (q *QueryAggregator) Locations(ctx context.Context) ([]string, error) {
	values, err := q.repomanager.Items(q.db).DistinctLocations(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{models.AllLocations}, values...), nil
}

func (q *QueryAggregator) itemViews(ctx context.Context, viewerID string, rows []*models.Item) []models.ItemView {
	views := make([]models.ItemView, len(rows))

	var g errgroup.Group
	g.SetLimit(q.concurrency)
	for i, row := range rows {
		views[i] = models.ItemView{Item: *row, Claimable: CanClaim(viewerID, row)}
		i, row := i, row
		g.Go(func() error {
			views[i].Description, views[i].Image, views[i].DetailAvailable = q.resolveItem(ctx, row)
			return nil
		})
	}
	_ = g.Wait()

	return views
}

func (q *QueryAggregator) claimViews(ctx context.Context, rows []*models.Claim, withItem bool) []models.ClaimView {
	views := make([]models.ClaimView, len(rows))

	var g errgroup.Group
	g.SetLimit(q.concurrency)
	for i, row := range rows {
		views[i] = models.ClaimView{Claim: *row}
		i, row := i, row
		g.Go(func() error {
			v := &views[i]
			v.EvidenceImage, v.EvidenceAvailable = q.resolveEvidence(ctx, row)
			if withItem {
				v.ItemDescription, v.ItemImage, _ = q.resolveItem(ctx, &models.Item{
					ID:          row.ItemID,
					DetailRef:   row.ItemDetailRef,
					Description: row.ItemMirroredDescription,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	return views
}

// resolveItem returns the detail of item. An item without a reference
// shows its mirrored description.
func (q *QueryAggregator) resolveItem(ctx context.Context, item *models.Item) (string, []byte, bool) {
	if item.DetailRef.IsZero() {
		if item.Description != "" {
			return item.Description, nil, false
		}
		return models.DetailsUnavailable, nil, false
	}

	d, err := q.details.GetItemDetail(ctx, item.DetailRef)
	if err != nil {
		q.unresolved(ctx, details.ItemDetails, item.ID, item.DetailRef, err)
		return models.DetailsUnavailable, nil, false
	}
	return d.Description, d.Image, true
}

// resolveEvidence returns the evidence image of claim, if it has one.
func (q *QueryAggregator) resolveEvidence(ctx context.Context, claim *models.Claim) ([]byte, bool) {
	if claim.DetailRef.IsZero() {
		return nil, false
	}

	d, err := q.details.GetClaimDetail(ctx, claim.DetailRef)
	if err != nil {
		q.unresolved(ctx, details.ClaimDetails, claim.ID, claim.DetailRef, err)
		return nil, false
	}
	return d.EvidenceImage, true
}

func (q *QueryAggregator) unresolved(ctx context.Context, collection, rowID string, ref models.DetailRef, err error) {
	q.logger.Warn(ctx, "detail unavailable",
		"collection", collection, "row_id", rowID, "ref", ref.String(), "error", err.Error())
	if q.observer != nil {
		q.observer.DetailResolutionFailed(collection)
	}
}
