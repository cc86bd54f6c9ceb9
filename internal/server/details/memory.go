package details

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

// MemoryStore keeps CBOR-encoded documents in process memory. It backs the
// "memory" detail driver and doubles as a fake with injectable failures.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	insertErr error
	getErr    error
	deleteErr error
	pingErr   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// FailInserts makes every following insert fail with err; nil restores.
func (m *MemoryStore) FailInserts(err error) { m.mu.Lock(); m.insertErr = err; m.mu.Unlock() }

func (m *MemoryStore) FailGets(err error) { m.mu.Lock(); m.getErr = err; m.mu.Unlock() }

func (m *MemoryStore) FailDeletes(err error) { m.mu.Lock(); m.deleteErr = err; m.mu.Unlock() }

func (m *MemoryStore) FailPing(err error) { m.mu.Lock(); m.pingErr = err; m.mu.Unlock() }

// Len returns the number of documents in collection.
func (m *MemoryStore) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	prefix := collection + "/"
	for k := range m.docs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Has reports whether ref names a document in collection.
func (m *MemoryStore) Has(collection string, ref models.DetailRef) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[objectKey(collection, ref)]
	return ok
}

func (m *MemoryStore) InsertItemDetail(_ context.Context, description string, image []byte) (models.DetailRef, error) {
	ref := models.NewDetailRef()
	data, err := encodeItem(ref, description, image)
	if err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreMemory, "insert item detail", err)
	}
	if err := m.insert(objectKey(ItemDetails, ref), data); err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreMemory, "insert item detail", err)
	}
	return ref, nil
}

func (m *MemoryStore) InsertClaimDetail(_ context.Context, evidence []byte, note string) (models.DetailRef, error) {
	ref := models.NewDetailRef()
	data, err := encodeClaim(ref, evidence, note)
	if err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreMemory, "insert claim detail", err)
	}
	if err := m.insert(objectKey(ClaimDetails, ref), data); err != nil {
		return models.DetailRef{}, common.WrapStore(common.StoreMemory, "insert claim detail", err)
	}
	return ref, nil
}

func (m *MemoryStore) GetItemDetail(_ context.Context, ref models.DetailRef) (*models.ItemDetail, error) {
	data, err := m.get(ItemDetails, ref)
	if err != nil {
		return nil, common.WrapStore(common.StoreMemory, "get item detail", err)
	}
	d, err := decodeItem(ref, data)
	return d, common.WrapStore(common.StoreMemory, "get item detail", err)
}

func (m *MemoryStore) GetClaimDetail(_ context.Context, ref models.DetailRef) (*models.ClaimDetail, error) {
	data, err := m.get(ClaimDetails, ref)
	if err != nil {
		return nil, common.WrapStore(common.StoreMemory, "get claim detail", err)
	}
	d, err := decodeClaim(ref, data)
	return d, common.WrapStore(common.StoreMemory, "get claim detail", err)
}

func (m *MemoryStore) DeleteItemDetail(_ context.Context, ref models.DetailRef) error {
	return common.WrapStore(common.StoreMemory, "delete item detail", m.delete(ItemDetails, ref))
}

func (m *MemoryStore) DeleteClaimDetail(_ context.Context, ref models.DetailRef) error {
	return common.WrapStore(common.StoreMemory, "delete claim detail", m.delete(ClaimDetails, ref))
}

func (m *MemoryStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return common.WrapStore(common.StoreMemory, "ping", m.pingErr)
}

func (m *MemoryStore) insert(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.docs[key] = data
	return nil
}

func (m *MemoryStore) get(collection string, ref models.DetailRef) ([]byte, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.docs[objectKey(collection, ref)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", common.ErrorNotFound, collection, ref)
	}
	return data, nil
}

func (m *MemoryStore) delete(collection string, ref models.DetailRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.docs, objectKey(collection, ref))
	return nil
}
