package data

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryAccountStore is an in-process AccountStore. Email uniqueness is
// enforced under the same lock as the insert.
type MemoryAccountStore struct {
	mu      sync.RWMutex
	byEmail map[string]*Account
}

// NewMemoryAccountStore returns an empty MemoryAccountStore.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{byEmail: make(map[string]*Account)}
}

func (s *MemoryAccountStore) Create(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[a.Email]; ok {
		return ErrDuplicateEmail
	}
	a.ID = bson.NewObjectID()
	cp := *a
	s.byEmail[a.Email] = &cp
	return nil
}

func (s *MemoryAccountStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryAccountStore) Save(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for email, cur := range s.byEmail {
		if cur.ID == a.ID {
			cur.FullName = a.FullName
			if a.LastLogin != nil && (cur.LastLogin == nil || a.LastLogin.After(*cur.LastLogin)) {
				t := *a.LastLogin
				cur.LastLogin = &t
			}
			if cur.LastLogin != nil {
				t := *cur.LastLogin
				a.LastLogin = &t
			}
			s.byEmail[email] = cur
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryAccountStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byEmail)), nil
}

func (s *MemoryAccountStore) ListAll(context.Context) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Account, 0, len(s.byEmail))
	for _, a := range s.byEmail {
		cp := *a
		cp.Password = ""
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryAccountStore) DeleteAll(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.byEmail))
	s.byEmail = make(map[string]*Account)
	return n, nil
}

// MemoryContentStore is an in-process ContentStore.
type MemoryContentStore struct {
	mu    sync.RWMutex
	items []ContentItem
}

// NewMemoryContentStore returns a store seeded with items.
func NewMemoryContentStore(items ...ContentItem) *MemoryContentStore {
	return &MemoryContentStore{items: items}
}

// Add appends an item, assigning an ID when it has none.
func (s *MemoryContentStore) Add(item ContentItem) ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID.IsZero() {
		item.ID = bson.NewObjectID()
	}
	s.items = append(s.items, item)
	return item
}

func (s *MemoryContentStore) Latest(context.Context) (*ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *ContentItem
	for i := range s.items {
		if latest == nil || bytes.Compare(s.items[i].ID[:], latest.ID[:]) > 0 {
			latest = &s.items[i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}
