package details

import (
	"bytes"
	"context"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore is a read-through LRU in front of another Store. Documents
// never change after insert, so entries only leave the cache on eviction
// or delete. Callers get their own copy of every document.
type CachedStore struct {
	Store
	items  *lru.Cache[string, *models.ItemDetail]
	claims *lru.Cache[string, *models.ClaimDetail]
}

// NewCachedStore caches up to size documents per collection.
func NewCachedStore(next Store, size int) (*CachedStore, error) {
	items, err := lru.New[string, *models.ItemDetail](size)
	if err != nil {
		return nil, err
	}
	claims, err := lru.New[string, *models.ClaimDetail](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{Store: next, items: items, claims: claims}, nil
}

func (c *CachedStore) GetItemDetail(ctx context.Context, ref models.DetailRef) (*models.ItemDetail, error) {
	if d, ok := c.items.Get(ref.String()); ok {
		return cloneItem(d), nil
	}
	d, err := c.Store.GetItemDetail(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.items.Add(ref.String(), cloneItem(d))
	return d, nil
}

func (c *CachedStore) GetClaimDetail(ctx context.Context, ref models.DetailRef) (*models.ClaimDetail, error) {
	if d, ok := c.claims.Get(ref.String()); ok {
		return cloneClaim(d), nil
	}
	d, err := c.Store.GetClaimDetail(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.claims.Add(ref.String(), cloneClaim(d))
	return d, nil
}

func (c *CachedStore) DeleteItemDetail(ctx context.Context, ref models.DetailRef) error {
	c.items.Remove(ref.String())
	return c.Store.DeleteItemDetail(ctx, ref)
}

func (c *CachedStore) DeleteClaimDetail(ctx context.Context, ref models.DetailRef) error {
	c.claims.Remove(ref.String())
	return c.Store.DeleteClaimDetail(ctx, ref)
}

func cloneItem(d *models.ItemDetail) *models.ItemDetail {
	cp := *d
	cp.Image = bytes.Clone(d.Image)
	return &cp
}

func cloneClaim(d *models.ClaimDetail) *models.ClaimDetail {
	cp := *d
	cp.EvidenceImage = bytes.Clone(d.EvidenceImage)
	return &cp
}
