package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
	"github.com/sirpyerre/secure-items-api/internal/infrastructure/security"
)

var discardLogger = zerolog.Nop()

func testHasher() *security.BcryptHasher {
	return security.NewBcryptHasher(bcrypt.MinCost)
}

// ---------------------------------------------------------------------------
// In-memory user repository; uniqueness mirrors the Mongo unique indexes.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	err    error // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append(domain.Roles(nil), u.Roles...)
	return &c
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == domain.ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameExists
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory item repository.
// ---------------------------------------------------------------------------

type stubItemRepo struct {
	items     map[string]*domain.Item
	nextID    int
	updateErr error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[string]*domain.Item)}
}

func cloneItem(i *domain.Item) *domain.Item {
	c := *i
	return &c
}

func (r *stubItemRepo) FindAll(_ context.Context) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, cloneItem(i))
	}
	return out, nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return cloneItem(i), nil
}

func (r *stubItemRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, i := range r.items {
		if i.OwnerID == ownerID {
			out = append(out, cloneItem(i))
		}
	}
	return out, nil
}

func (r *stubItemRepo) FindByNameContaining(_ context.Context, substring string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, i := range r.items {
		if strings.Contains(strings.ToLower(i.Name), strings.ToLower(substring)) {
			out = append(out, cloneItem(i))
		}
	}
	return out, nil
}

func (r *stubItemRepo) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	r.nextID++
	c := cloneItem(item)
	c.ID = fmt.Sprintf("i%d", r.nextID)
	r.items[c.ID] = c
	return cloneItem(c), nil
}

func (r *stubItemRepo) Update(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.items[item.ID]; !ok {
		return nil, domain.ErrItemNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return cloneItem(item), nil
}

func (r *stubItemRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory session store.
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	sessions  map[string]string
	next      int
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Create(_ context.Context, userID string, ttl time.Duration) (*ports.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.next++
	id := fmt.Sprintf("s%d", s.next)
	s.sessions[id] = userID
	return &ports.Session{ID: id, UserID: userID, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s *stubSessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	uid, ok := s.sessions[sessionID]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return uid, nil
}

func (s *stubSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}
