package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

var (
	alice = &domain.User{ID: "u-alice", Username: "alice", Email: "a@x.com", Roles: domain.Roles{domain.RoleUser}}
	bob   = &domain.User{ID: "u-bob", Username: "bob", Email: "b@x.com", Roles: domain.Roles{domain.RoleUser}}
	admin = &domain.User{ID: "u-admin", Username: "root", Email: "r@x.com", Roles: domain.Roles{domain.RoleUser, domain.RoleAdmin}}
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (*ports.Session, *domain.User, error)
	loggedOut []string
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(_ context.Context, sessionID string) error {
	s.loggedOut = append(s.loggedOut, sessionID)
	return nil
}

type stubUserService struct {
	usernames map[string]bool
	emails    map[string]bool
	users     map[string]*domain.User

	registerFn func(ctx context.Context, in ports.UserInput) (*domain.User, error)
	updateFn   func(ctx context.Context, id string, in ports.UserInput) (*domain.User, error)
	deleted    []string
}

func newStubUserService() *stubUserService {
	return &stubUserService{
		usernames: map[string]bool{},
		emails:    map[string]bool{},
		users:     map[string]*domain.User{},
	}
}

func (s *stubUserService) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserService) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) UsernameExists(_ context.Context, username string) (bool, error) {
	return s.usernames[username], nil
}

func (s *stubUserService) EmailExists(_ context.Context, email string) (bool, error) {
	return s.emails[email], nil
}

func (s *stubUserService) Register(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.users, id)
	return nil
}

func (s *stubUserService) ToOutput(u *domain.User) ports.UserOutput {
	return ports.UserOutput{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName, Roles: u.Roles.Strings()}
}

func (s *stubUserService) ToOutputList(users []*domain.User) []ports.UserOutput {
	out := make([]ports.UserOutput, len(users))
	for i, u := range users {
		out[i] = s.ToOutput(u)
	}
	return out
}

func (s *stubUserService) ToDomain(in ports.UserInput) (*domain.User, error) {
	return &domain.User{Username: in.Username, Email: in.Email, FullName: in.FullName, Roles: in.Roles}, nil
}

type stubItemService struct {
	items map[string]*domain.Item

	created  *domain.Item
	searched string
	updateFn func(id string, in ports.ItemInput, actor *domain.User) (ports.ItemResult, error)
	deleteFn func(id string, actor *domain.User) (ports.Outcome, error)
}

func newStubItemService() *stubItemService {
	return &stubItemService{items: map[string]*domain.Item{}}
}

func (s *stubItemService) FindAll(_ context.Context) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0, len(s.items))
	for _, i := range s.items {
		out = append(out, i)
	}
	return out, nil
}

func (s *stubItemService) FindByID(_ context.Context, id string) (*domain.Item, error) {
	if i, ok := s.items[id]; ok {
		return i, nil
	}
	return nil, domain.ErrItemNotFound
}

func (s *stubItemService) FindByOwner(_ context.Context, owner *domain.User) ([]*domain.Item, error) {
	out := []*domain.Item{}
	for _, i := range s.items {
		if i.OwnerID == owner.ID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *stubItemService) Search(_ context.Context, substring string) ([]*domain.Item, error) {
	s.searched = substring
	return []*domain.Item{}, nil
}

func (s *stubItemService) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if err := domain.ValidatePrice(item.Price); err != nil {
		return nil, err
	}
	created := *item
	created.ID = "i-new"
	created.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.created = &created
	return &created, nil
}

func (s *stubItemService) Update(_ context.Context, id string, in ports.ItemInput, actor *domain.User) (ports.ItemResult, error) {
	return s.updateFn(id, in, actor)
}

func (s *stubItemService) Delete(_ context.Context, id string, actor *domain.User) (ports.Outcome, error) {
	return s.deleteFn(id, actor)
}

func (s *stubItemService) ToOutput(item *domain.Item) ports.ItemOutput {
	return ports.ItemOutput{
		ID: item.ID, Name: item.Name, Description: item.Description, Price: item.Price,
		OwnerID: item.OwnerID, CreatedAt: item.CreatedAt, UpdatedAt: item.UpdatedAt,
	}
}

func (s *stubItemService) ToOutputList(items []*domain.Item) []ports.ItemOutput {
	out := make([]ports.ItemOutput, len(items))
	for i, item := range items {
		out[i] = s.ToOutput(item)
	}
	return out
}

func (s *stubItemService) ToDomain(in ports.ItemInput) *domain.Item {
	return &domain.Item{Name: in.Name, Description: in.Description, Price: in.Price}
}
