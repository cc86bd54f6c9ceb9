package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/dbx"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/claims"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/items"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// memDB is an in-memory stand-in for the relational store with the same
// guard semantics as the PostgreSQL repositories. It ignores the DBTX it
// is handed, so transactions only matter for the sqlmock expectations.
type memDB struct {
	mu     sync.Mutex
	seq    int
	clock  time.Time
	users  map[string]*models.User
	items  map[string]*models.Item
	claims map[string]*models.Claim
	tokens map[string]*models.RefreshToken

	itemCreateErr  error
	claimCreateErr error
	listErr        error
}

func newMemDB() *memDB {
	return &memDB{
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:  map[string]*models.User{},
		items:  map[string]*models.Item{},
		claims: map[string]*models.Claim{},
		tokens: map[string]*models.RefreshToken{},
	}
}

func (m *memDB) next(prefix string) (string, time.Time) {
	m.seq++
	m.clock = m.clock.Add(time.Second)
	return fmt.Sprintf("%s-%d", prefix, m.seq), m.clock
}

func (m *memDB) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *memDB) Users(dbx.DBTX) users.Repository                 { return memUsers{m} }
func (m *memDB) Items(dbx.DBTX) items.Repository                 { return memItems{m} }
func (m *memDB) Claims(dbx.DBTX) claims.Repository               { return memClaims{m} }
func (m *memDB) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m} }

func (m *memDB) item(id string) models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.items[id]
}

func (m *memDB) claim(id string) models.Claim {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.claims[id]
}

func (m *memDB) countItems() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// seedItem inserts an item row directly, bypassing the coordinator.
func (m *memDB) seedItem(owner, title, category string, status models.ItemStatus, day int, ref models.DetailRef) *models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, now := m.next("item")
	it := &models.Item{
		ID: id, UserID: owner, Title: title, Category: category, Location: "Library",
		EventDate: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Status:    status, DetailRef: ref, Description: title + " description", CreatedAt: now,
		OwnerUserName: owner,
	}
	m.items[id] = it
	cp := *it
	return &cp
}

func (m *memDB) seedClaim(itemID, claimant string, status models.ClaimStatus, ref models.DetailRef) *models.Claim {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, now := m.next("claim")
	c := &models.Claim{ID: id, ItemID: itemID, ClaimantID: claimant, Reason: "mine",
		Status: status, DetailRef: ref, CreatedAt: now, ClaimantUserName: claimant}
	m.claims[id] = c
	cp := *c
	return &cp
}

type memUsers struct{ m *memDB }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, users.ErrEmailTaken
		}
		if existing.UserName == u.UserName {
			return nil, users.ErrUserNameTaken
		}
	}
	u.ID, u.CreatedAt = r.m.next("user")
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r memUsers) GetByCredentials(_ context.Context, email, digest string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email && u.PasswordDigest == digest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

type memItems struct{ m *memDB }

func (r memItems) Create(_ context.Context, it *models.Item) (*models.Item, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.itemCreateErr != nil {
		return nil, r.m.itemCreateErr
	}
	it.ID, it.CreatedAt = r.m.next("item")
	cp := *it
	r.m.items[it.ID] = &cp
	return it, nil
}

func (r memItems) GetByID(_ context.Context, id string) (*models.Item, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if it, ok := r.m.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memItems) GetOwner(ctx context.Context, id string) (string, error) {
	it, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return it.UserID, nil
}

var statusRank = map[models.ItemStatus]int{models.ItemLost: 0, models.ItemFound: 1, models.ItemRecovered: 2}

func (r memItems) List(_ context.Context, f models.ItemFilter) ([]*models.Item, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.listErr != nil {
		return nil, r.m.listErr
	}
	var out []*models.Item
	for _, it := range r.m.items {
		if !f.IncludeRecovered && it.Status == models.ItemRecovered {
			continue
		}
		if c := f.CategoryFilter(); c != "" && it.Category != c {
			continue
		}
		if l := f.LocationFilter(); l != "" && it.Location != l {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if statusRank[a.Status] != statusRank[b.Status] {
			return statusRank[a.Status] < statusRank[b.Status]
		}
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.After(b.EventDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

func (r memItems) ListByOwner(_ context.Context, userID string) ([]*models.Item, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Item
	for _, it := range r.m.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memItems) distinct(get func(*models.Item) string) []string {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, it := range r.m.items {
		if v := get(it); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func (r memItems) DistinctCategories(context.Context) ([]string, error) {
	return r.distinct(func(it *models.Item) string { return it.Category }), nil
}

func (r memItems) DistinctLocations(context.Context) ([]string, error) {
	return r.distinct(func(it *models.Item) string { return it.Location }), nil
}

func (r memItems) LockStatus(ctx context.Context, id string) (models.ItemStatus, error) {
	it, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return it.Status, nil
}

func (r memItems) MarkRecovered(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	it, ok := r.m.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	next, err := it.Status.TransitionTo(models.ItemRecovered)
	if err != nil {
		return err
	}
	it.Status = next
	return nil
}

type memClaims struct{ m *memDB }

func (r memClaims) Create(_ context.Context, c *models.Claim) (*models.Claim, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.claimCreateErr != nil {
		return nil, r.m.claimCreateErr
	}
	c.ID, c.CreatedAt = r.m.next("claim")
	c.Status = models.ClaimPending
	cp := *c
	r.m.claims[c.ID] = &cp
	return c, nil
}

func (r memClaims) GetByID(_ context.Context, id string) (*models.Claim, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.claims[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memClaims) list(keep func(*models.Claim) bool) []*models.Claim {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Claim
	for _, c := range r.m.claims {
		if keep(c) {
			cp := *c
			if it, ok := r.m.items[c.ItemID]; ok {
				cp.ItemTitle, cp.ItemStatus, cp.ItemDetailRef = it.Title, it.Status, it.DetailRef
				cp.ItemMirroredDescription = it.Description
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memClaims) ListForItem(_ context.Context, itemID string) ([]*models.Claim, error) {
	return r.list(func(c *models.Claim) bool { return c.ItemID == itemID }), nil
}

func (r memClaims) ListByClaimant(_ context.Context, claimantID string) ([]*models.Claim, error) {
	return r.list(func(c *models.Claim) bool { return c.ClaimantID == claimantID }), nil
}

func (r memClaims) SetStatus(_ context.Context, id string, next models.ClaimStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.claims[id]
	if !ok {
		return false, common.ErrorNotFound
	}
	st, err := c.Status.TransitionTo(next)
	if err != nil {
		return false, err
	}
	changed := c.Status != st
	c.Status = st
	return changed, nil
}

func (r memClaims) Accept(ctx context.Context, claimID, itemID string) error {
	r.m.mu.Lock()
	c, ok := r.m.claims[claimID]
	r.m.mu.Unlock()
	if !ok || c.ItemID != itemID {
		return common.ErrorNotFound
	}
	_, err := r.SetStatus(ctx, claimID, models.ClaimAccepted)
	return err
}

func (r memClaims) RejectSiblings(_ context.Context, itemID, keepID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, c := range r.m.claims {
		if c.ItemID == itemID && c.ID != keepID && c.Status == models.ClaimPending {
			c.Status = models.ClaimRejected
			n++
		}
	}
	return n, nil
}

type memTokens struct{ m *memDB }

func (r memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t, ok := r.m.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.tokens, token)
	return nil
}

func (r memTokens) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for k, t := range r.m.tokens {
		if t.Expired(now) {
			delete(r.m.tokens, k)
			n++
		}
	}
	return n, nil
}

// newTxDB returns a sqlmock database for code paths that open transactions.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type transitions struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *transitions) ClaimTransitioned(status string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[status] += n
}

type unresolvedCounter struct {
	mu sync.Mutex
	n  map[string]int
}

func (o *unresolvedCounter) DetailResolutionFailed(collection string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.n == nil {
		o.n = map[string]int{}
	}
	o.n[collection]++
}
