package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/LovationAdmin/finance-api/models"
)

// Memory is an in-process DocumentStore and UserStore.
type Memory struct {
	mu    sync.RWMutex
	docs  map[string]map[string]*memCollection // user -> collection
	users map[string]models.User
}

type memCollection struct {
	order []string
	items map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]map[string]*memCollection),
		users: make(map[string]models.User),
	}
}

func (m *Memory) List(_ context.Context, userID, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.docs[userID][collection]
	if col == nil {
		return nil, nil
	}
	out := make([]json.RawMessage, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, cloneRaw(col.items[id]))
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, userID, collection, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.docs[userID][collection]
	if col == nil {
		return nil, ErrNotFound
	}
	raw, ok := col.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRaw(raw), nil
}

func (m *Memory) Put(ctx context.Context, userID string, doc Document) error {
	return m.PutMany(ctx, userID, []Document{doc})
}

func (m *Memory) PutMany(_ context.Context, userID string, docs []Document) error {
	for _, d := range docs {
		if !json.Valid(d.Data) {
			return fmt.Errorf("document %s/%s: invalid JSON", d.Collection, d.ID)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cols := m.docs[userID]
	if cols == nil {
		cols = make(map[string]*memCollection)
		m.docs[userID] = cols
	}
	for _, d := range docs {
		col := cols[d.Collection]
		if col == nil {
			col = &memCollection{items: make(map[string]json.RawMessage)}
			cols[d.Collection] = col
		}
		if _, exists := col.items[d.ID]; !exists {
			col.order = append(col.order, d.ID)
		}
		col.items[d.ID] = cloneRaw(d.Data)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, userID, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col := m.docs[userID][collection]
	if col == nil {
		return ErrNotFound
	}
	if _, ok := col.items[id]; !ok {
		return ErrNotFound
	}
	delete(col.items, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) UserIDs(_ context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for userID, cols := range m.docs {
		if col := cols[collection]; col != nil && len(col.items) > 0 {
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicate
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) UpdateTOTP(_ context.Context, userID, secret string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.TOTPSecret = secret
	u.TOTPEnabled = enabled
	m.users[userID] = u
	return nil
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), raw...)
}
