package service

import (
	"context"
	"errors"
	"log"
	"time"

	"todoweb/internal/domain"
	"todoweb/internal/repository"

	"gorm.io/gorm"
)

// PageSize is the fixed number of todos per list page. It is a server
// constant, not a query parameter.
const PageSize = 10

// CreateTodoRequest holds the data needed to create a new todo. Description
// is a pointer so an omitted description is stored as NULL, not "".
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTodoRequest holds the fields of a partial update. Pointers distinguish
// a field that was omitted (left unchanged) from one explicitly set to its
// zero value: {"completed": false} must still apply.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ListTodosQuery carries the optional list filters. Completed is nil when the
// caller did not filter by completion state.
type ListTodosQuery struct {
	Page      int
	Search    string
	Completed *bool
}

// TodoResponse is the representation of a todo returned to clients.
type TodoResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	UserID      uint    `json:"user_id"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Pagination describes the full filtered set regardless of which page was
// requested, so a client can render "page X of Y" from a single response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type TodoListResponse struct {
	Data       []TodoResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// TodoService contains the business rules for managing todos. Every method
// takes the resolved owner id; rows belonging to other users are reported as
// not found, never as forbidden.
type TodoService interface {
	ListTodos(ctx context.Context, ownerID uint, q ListTodosQuery) (*TodoListResponse, error)
	GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error)
	CreateTodo(ctx context.Context, ownerID uint, req CreateTodoRequest) (*TodoResponse, error)
	UpdateTodo(ctx context.Context, ownerID, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, ownerID, id uint) error
}

type todoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) ListTodos(ctx context.Context, ownerID uint, q ListTodosQuery) (*TodoListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	filter := repository.TodoFilter{
		Search:    q.Search,
		Completed: q.Completed,
		Offset:    (page - 1) * PageSize,
		Limit:     PageSize,
	}

	todos, total, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		log.Printf("Error listing todos for user %d: %v", ownerID, err)
		return nil, errors.New("failed to retrieve todo items")
	}

	data := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		data = append(data, toResponse(&todos[i]))
	}

	totalPages := int((total + PageSize - 1) / PageSize)

	return &TodoListResponse{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   PageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *todoService) GetTodo(ctx context.Context, ownerID, id uint) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("Error fetching todo %d: %v", id, err)
		return nil, errors.New("failed to retrieve todo item")
	}
	resp := toResponse(todo)
	return &resp, nil
}

func (s *todoService) CreateTodo(ctx context.Context, ownerID uint, req CreateTodoRequest) (*TodoResponse, error) {
	if req.Title == "" {
		return nil, domain.ErrTitleRequired
	}

	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		UserID:      ownerID,
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		log.Printf("Error creating todo for user %d: %v", ownerID, err)
		return nil, errors.New("failed to create todo item")
	}

	resp := toResponse(todo)
	return &resp, nil
}

// UpdateTodo applies only the fields present in the request. The write is a
// single UPDATE scoped by id and owner, so there is no window between an
// ownership check and the mutation. Presence-check is the only validation:
// setting an empty title through update is allowed, unlike create.
func (s *todoService) UpdateTodo(ctx context.Context, ownerID, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	fields := make(map[string]any)
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}

	if len(fields) == 0 {
		// Nothing to change; still report the current row, or NotFound if
		// the id is missing or foreign-owned.
		return s.GetTodo(ctx, ownerID, id)
	}

	affected, err := s.repo.UpdateFields(ctx, ownerID, id, fields)
	if err != nil {
		log.Printf("Error updating todo %d: %v", id, err)
		return nil, errors.New("failed to update todo item")
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}

	return s.GetTodo(ctx, ownerID, id)
}

func (s *todoService) DeleteTodo(ctx context.Context, ownerID, id uint) error {
	affected, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		log.Printf("Error deleting todo %d: %v", id, err)
		return errors.New("failed to delete todo item")
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		UserID:      todo.UserID,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
}
