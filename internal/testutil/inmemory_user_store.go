package testutil

import (
	"context"
	"sync"

	"github.com/upassistify/upassistify/internal/domain/user"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// InMemoryProfileStore implements user.ProfileRepository
type InMemoryProfileStore struct {
	*InMemoryStore[*user.Profile]
	err error
}

func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		InMemoryStore: NewInMemoryStore[*user.Profile](),
	}
}

// FailWith makes every read return err until called with nil
func (s *InMemoryProfileStore) FailWith(err error) {
	s.err = err
}

func (s *InMemoryProfileStore) Create(ctx context.Context, p *user.Profile) error {
	copied := *p
	return s.InMemoryStore.Create(ctx, p.ID, &copied)
}

func (s *InMemoryProfileStore) Get(ctx context.Context, id string) (*user.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("profile not found").
			Mark(ierr.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func profileSortFn(i, j *user.Profile) bool {
	if i.CreatedAt.Equal(j.CreatedAt) {
		return i.ID < j.ID
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryProfileStore) List(ctx context.Context, filter *types.QueryFilter) ([]*user.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.InMemoryStore.List(ctx, filter, nil, profileSortFn)
}

func (s *InMemoryProfileStore) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.InMemoryStore.Count(ctx, nil, nil)
}

func (s *InMemoryProfileStore) ListRecipients(ctx context.Context) ([]*user.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *user.Profile, _ interface{}) bool {
		return p.Email != ""
	}, profileSortFn)
}

// InMemoryRoleStore implements user.RoleRepository
type InMemoryRoleStore struct {
	mu    sync.RWMutex
	roles map[string]map[string]bool
}

func NewInMemoryRoleStore() *InMemoryRoleStore {
	return &InMemoryRoleStore{roles: make(map[string]map[string]bool)}
}

func (s *InMemoryRoleStore) Grant(userID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[userID] == nil {
		s.roles[userID] = make(map[string]bool)
	}
	s.roles[userID][role] = true
}

func (s *InMemoryRoleStore) HasRole(_ context.Context, userID string, role string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[userID][role], nil
}

func (s *InMemoryRoleStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = make(map[string]map[string]bool)
}

// Clear removes every profile and any injected failure
func (s *InMemoryProfileStore) Clear() {
	s.err = nil
	s.InMemoryStore.Clear()
}
