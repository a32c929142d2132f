package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/secure-items-api/internal/api/handler"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/service"
	redisdb "github.com/sirpyerre/secure-items-api/internal/infrastructure/db/redis"
	"github.com/sirpyerre/secure-items-api/internal/infrastructure/security"
)

// memUsers and memItems are minimal in-memory stores for exercising the full
// HTTP stack without MongoDB.
type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func (m *memUsers) FindAll(context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameExists
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	m.seq++
	c := *user
	c.ID = fmt.Sprintf("user-%d", m.seq)
	m.users[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *user
	m.users[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

type memItems struct {
	mu    sync.Mutex
	seq   int
	items map[string]*domain.Item
}

func (m *memItems) list(keep func(*domain.Item) bool) []*domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Item{}
	for _, i := range m.items {
		if keep(i) {
			c := *i
			out = append(out, &c)
		}
	}
	return out
}

func (m *memItems) FindAll(context.Context) ([]*domain.Item, error) {
	return m.list(func(*domain.Item) bool { return true }), nil
}

func (m *memItems) FindByID(_ context.Context, id string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.items[id]; ok {
		c := *i
		return &c, nil
	}
	return nil, domain.ErrItemNotFound
}

func (m *memItems) FindByOwner(_ context.Context, ownerID string) ([]*domain.Item, error) {
	return m.list(func(i *domain.Item) bool { return i.OwnerID == ownerID }), nil
}

func (m *memItems) FindByNameContaining(_ context.Context, substring string) ([]*domain.Item, error) {
	sub := strings.ToLower(substring)
	return m.list(func(i *domain.Item) bool { return strings.Contains(strings.ToLower(i.Name), sub) }), nil
}

func (m *memItems) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c := *item
	c.ID = fmt.Sprintf("item-%d", m.seq)
	m.items[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memItems) Update(_ context.Context, item *domain.Item) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return nil, domain.ErrItemNotFound
	}
	c := *item
	m.items[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memItems) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

type testServer struct {
	t      *testing.T
	srv    http.Handler
	users  *memUsers
	hasher *security.BcryptHasher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	users := &memUsers{users: map[string]*domain.User{}}
	items := &memItems{items: map[string]*domain.Item{}}
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	authService, err := service.NewAuthService(users, hasher, redisdb.NewSessionStore(rdb), time.Hour, log)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	e := NewRouter(Dependencies{
		Logger:      log,
		AuthService: authService,
		UserService: service.NewUserService(users, hasher, log),
		ItemService: service.NewItemService(items, log),
		Cookie:      handler.CookieConfig{Name: "SESSION"},
	})
	return &testServer{t: t, srv: e, users: users, hasher: hasher}
}

func (s *testServer) do(method, path, body, session string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "SESSION", Value: session})
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", fmt.Sprintf(`{"username":%q,"password":%q}`, username, password), "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %s: expected 200, got %d %s", username, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "SESSION" {
			return c.Value
		}
	}
	s.t.Fatalf("login %s: no session cookie", username)
	return ""
}

func (s *testServer) register(username string) {
	s.t.Helper()
	body := fmt.Sprintf(`{"username":%q,"password":"p@ss","email":"%s@x.com"}`, username, username)
	if rec := s.do(http.MethodPost, "/api/auth/register", body, ""); rec.Code != http.StatusCreated {
		s.t.Fatalf("register %s: expected 201, got %d %s", username, rec.Code, rec.Body.String())
	}
}

func (s *testServer) seedAdmin() {
	s.t.Helper()
	hash, err := s.hasher.Hash("root-pass")
	if err != nil {
		s.t.Fatalf("hash: %v", err)
	}
	_, err = s.users.Create(context.Background(), &domain.User{
		Username: "root", Email: "root@x.com", PasswordHash: hash,
		Roles: domain.Roles{domain.RoleUser, domain.RoleAdmin},
	})
	if err != nil {
		s.t.Fatalf("seed admin: %v", err)
	}
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestRouter_RegistrationAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	rec := s.do(http.MethodPost, "/api/auth/register", `{"username":"alice","password":"p@ss","email":"other@x.com"}`, "")
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "username already exists" {
		t.Fatalf("duplicate username: got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodPost, "/api/auth/register", `{"username":"alice2","password":"p@ss","email":"alice@x.com"}`, "")
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "email already exists" {
		t.Fatalf("duplicate email: got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodPost, "/api/auth/register", `{"username":"x"}`, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid payload: expected 422, got %d", rec.Code)
	}

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"nope"}`, "")
	unknownUser := s.do(http.MethodPost, "/api/auth/login", `{"username":"ghost","password":"nope"}`, "")
	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both failures, got %d and %d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}

	session := s.login("alice", "p@ss")
	rec = s.do(http.MethodGet, "/api/auth/me", "", session)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"roles":["USER"]`) {
		t.Fatalf("me: got %d %s", rec.Code, rec.Body.String())
	}

	if rec := s.do(http.MethodPost, "/api/auth/logout", "", session); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/auth/me", "", session); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_ItemOwnership(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	s.register("bob")
	s.seedAdmin()
	aliceSession := s.login("alice", "p@ss")
	bobSession := s.login("bob", "p@ss")
	adminSession := s.login("root", "root-pass")

	if rec := s.do(http.MethodGet, "/api/items", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("items without session: expected 401, got %d", rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/items", `{"name":"Desk Lamp","description":"brass","price":"12.50"}`, aliceSession)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	itemPath := "/api/items/" + created["id"].(string)

	rec = s.do(http.MethodPut, itemPath, `{"name":"Stolen","price":"1"}`, bobSession)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403, got %d", rec.Code)
	}
	rec = s.do(http.MethodGet, itemPath, "", bobSession)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Desk Lamp"`) {
		t.Fatalf("item must be unchanged after forbidden update: %s", rec.Body.String())
	}

	if rec := s.do(http.MethodDelete, "/api/items/does-not-exist", "", bobSession); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing by non-owner: expected 404, got %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, itemPath, "", bobSession); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: expected 403, got %d", rec.Code)
	}

	rec = s.do(http.MethodPut, itemPath, `{"name":"Desk Lamp","description":"brass","price":"11.00"}`, aliceSession)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodPut, itemPath, `{"name":"Moderated","price":"11"}`, adminSession)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/items?q=MODER", "", bobSession)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Moderated") {
		t.Fatalf("search: got %d %s", rec.Code, rec.Body.String())
	}
	rec = s.do(http.MethodGet, "/api/items/mine", "", bobSession)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("bob owns nothing: got %s", rec.Body.String())
	}

	if rec := s.do(http.MethodDelete, itemPath, "", adminSession); rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete: expected 204, got %d", rec.Code)
	}
}

func TestRouter_UserAdministration(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	s.seedAdmin()
	aliceSession := s.login("alice", "p@ss")
	adminSession := s.login("root", "root-pass")

	if rec := s.do(http.MethodGet, "/api/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no session: expected 401, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/users", "", aliceSession); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/users", "", adminSession)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("user listing leaks password data: %s", rec.Body.String())
	}

	alice, err := s.users.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find alice: %v", err)
	}

	rec = s.do(http.MethodPut, "/api/users/"+alice.ID, `{"email":"alice@x.com","full_name":"Alice","roles":["USER","ADMIN"]}`, adminSession)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	// Roles are re-read per request, so the promotion applies to the live session.
	if rec := s.do(http.MethodGet, "/api/users", "", aliceSession); rec.Code != http.StatusOK {
		t.Fatalf("promoted alice: expected 200, got %d", rec.Code)
	}
	// The password was omitted and must still work.
	s.login("alice", "p@ss")

	if rec := s.do(http.MethodDelete, "/api/users/"+alice.ID, "", adminSession); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/users/"+alice.ID, "", adminSession); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/api/auth/me", "", aliceSession); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user's session: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness without checks: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", rec.Code)
	}
}
