package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"todoweb/internal/config"
	"todoweb/internal/domain"
	"todoweb/internal/repository"
	"todoweb/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The handler tests run the real router, middleware and services on top of
// in-memory repositories, so they exercise the full HTTP contract without a
// database.

type memTodoRepo struct {
	mu     sync.Mutex
	nextID uint
	todos  map[uint]*domain.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: make(map[uint]*domain.Todo)}
}

func (m *memTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	todo.ID = m.nextID
	todo.CreatedAt = time.Unix(1700000000, 0).Add(time.Duration(m.nextID) * time.Second)
	todo.UpdatedAt = todo.CreatedAt
	clone := *todo
	m.todos[todo.ID] = &clone
	return nil
}

func (m *memTodoRepo) FindByID(_ context.Context, ownerID, id uint) (*domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok || todo.UserID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *todo
	return &clone, nil
}

func (m *memTodoRepo) List(_ context.Context, ownerID uint, f repository.TodoFilter) ([]domain.Todo, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []domain.Todo
	for _, todo := range m.todos {
		if todo.UserID != ownerID {
			continue
		}
		if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
			haystack := strings.ToLower(todo.Title)
			if todo.Description != nil {
				haystack += "\x00" + strings.ToLower(*todo.Description)
			}
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if f.Completed != nil && todo.Completed != *f.Completed {
			continue
		}
		matched = append(matched, *todo)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := min(f.Offset, len(matched))
	end := min(start+f.Limit, len(matched))
	return matched[start:end], total, nil
}

func (m *memTodoRepo) UpdateFields(_ context.Context, ownerID, id uint, fields map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok || todo.UserID != ownerID {
		return 0, nil
	}
	if v, ok := fields["title"]; ok {
		todo.Title = v.(string)
	}
	if v, ok := fields["description"]; ok {
		description := v.(string)
		todo.Description = &description
	}
	if v, ok := fields["completed"]; ok {
		todo.Completed = v.(bool)
	}
	todo.UpdatedAt = time.Now()
	return 1, nil
}

func (m *memTodoRepo) Delete(_ context.Context, ownerID, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok || todo.UserID != ownerID {
		return 0, nil
	}
	delete(m.todos, id)
	return 1, nil
}

type memUserRepo struct {
	mu      sync.Mutex
	nextID  uint
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	clone := *user
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) EnsureByEmail(ctx context.Context, user *domain.User) (bool, error) {
	if existing, err := m.FindByEmail(ctx, user.Email); err == nil {
		*user = *existing
		return false, nil
	}
	return true, m.Create(ctx, user)
}

// stubDBService satisfies database.Service for the health endpoint.
type stubDBService struct{}

func (stubDBService) Health() map[string]string { return map[string]string{"status": "up"} }
func (stubDBService) Close() error              { return nil }
func (stubDBService) GetDB() *gorm.DB           { return nil }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	todoRepo := newMemTodoRepo()
	userRepo := newMemUserRepo()
	cfg := &config.Config{Port: "8080", SessionSecret: "handler-test-secret"}
	srv := NewServer(cfg, service.NewTodoService(todoRepo), service.NewAuthService(userRepo, cfg.SessionSecret), stubDBService{})
	return srv.Handler
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func signUpAndIn(t *testing.T, handler http.Handler, email string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "name": "Tester", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			require.NotEmpty(t, cookie.Value)
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func TestTodosRequireSession(t *testing.T) {
	handler := newTestHandler(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodGet, "/todos/1"},
		{http.MethodPut, "/todos/1"},
		{http.MethodDelete, "/todos/1"},
	} {
		rec := doJSON(t, handler, tc.method, tc.path, nil, nil)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Contains(t, rec.Body.String(), "error")
	}
}

func TestPageRoutesRedirectWhenUnauthenticated(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTodoCRUDFlow(t *testing.T) {
	handler := newTestHandler(t)
	session := signUpAndIn(t, handler, "crud@example.com")

	// Create.
	rec := doJSON(t, handler, http.MethodPost, "/todos", map[string]any{
		"title": "Buy milk", "description": "Two liters",
	}, session)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.Completed)

	// Missing title.
	rec = doJSON(t, handler, http.MethodPost, "/todos", map[string]any{"description": "no title"}, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Fetch.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	// Partial update: completed only.
	rec = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), map[string]any{"completed": true}, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Two liters", *updated.Description)

	// Delete responds with a success flag.
	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/todos/%d", created.ID), nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	// Gone for good.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodoOwnershipAcrossSessions(t *testing.T) {
	handler := newTestHandler(t)
	alice := signUpAndIn(t, handler, "alice@example.com")
	mallory := signUpAndIn(t, handler, "mallory@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/todos", map[string]any{"title": "Alice's secret"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created service.TodoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	path := fmt.Sprintf("/todos/%d", created.ID)

	// The other account sees plain 404s, indistinguishable from absence.
	assert.Equal(t, http.StatusNotFound, doJSON(t, handler, http.MethodGet, path, nil, mallory).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, handler, http.MethodPut, path, map[string]any{"title": "stolen"}, mallory).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, handler, http.MethodDelete, path, nil, mallory).Code)

	// And the owner's row is untouched.
	rec = doJSON(t, handler, http.MethodGet, path, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice's secret")
}

func TestListQueryParams(t *testing.T) {
	handler := newTestHandler(t)
	session := signUpAndIn(t, handler, "list@example.com")

	titles := []string{"Buy milk", "Walk dog", "Buy bread"}
	ids := make(map[string]uint, len(titles))
	for _, title := range titles {
		rec := doJSON(t, handler, http.MethodPost, "/todos", map[string]any{"title": title}, session)
		require.Equal(t, http.StatusCreated, rec.Code)
		var created service.TodoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		ids[title] = created.ID
	}
	rec := doJSON(t, handler, http.MethodPut, fmt.Sprintf("/todos/%d", ids["Walk dog"]), map[string]any{"completed": true}, session)
	require.Equal(t, http.StatusOK, rec.Code)

	list := func(query string) service.TodoListResponse {
		rec := doJSON(t, handler, http.MethodGet, "/todos"+query, nil, session)
		require.Equal(t, http.StatusOK, rec.Code)
		var out service.TodoListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	all := list("")
	assert.Equal(t, int64(3), all.Pagination.Total)
	assert.Equal(t, 1, all.Pagination.TotalPages)
	assert.Equal(t, service.PageSize, all.Pagination.PageSize)

	search := list("?search=buy")
	require.Len(t, search.Data, 2)

	completedOnly := list("?completed=true")
	require.Len(t, completedOnly.Data, 1)
	assert.Equal(t, "Walk dog", completedOnly.Data[0].Title)

	both := list("?search=buy&completed=true")
	assert.Empty(t, both.Data)
	assert.Zero(t, both.Pagination.Total)

	// Garbage page values clamp to page one instead of erroring.
	clamped := list("?page=banana")
	assert.Equal(t, 1, clamped.Pagination.Page)
	assert.Len(t, clamped.Data, 3)

	negative := list("?page=-2")
	assert.Equal(t, 1, negative.Pagination.Page)
}

func TestLogoutClearsSession(t *testing.T) {
	handler := newTestHandler(t)
	session := signUpAndIn(t, handler, "logout@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
