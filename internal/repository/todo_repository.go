package repository

import (
	"context"
	"strings"

	"todoweb/internal/domain"

	"gorm.io/gorm"
)

// TodoFilter narrows a List call. Zero values impose no restriction: an empty
// Search matches everything and a nil Completed matches both states.
type TodoFilter struct {
	Search    string
	Completed *bool
	Offset    int
	Limit     int
}

// TodoRepository defines the data operations for todos. Every method is scoped
// by the owner's user id; a row owned by someone else behaves exactly like a
// row that does not exist.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, ownerID, id uint) (*domain.Todo, error)
	List(ctx context.Context, ownerID uint, f TodoFilter) ([]domain.Todo, int64, error)
	// UpdateFields applies the given columns in a single conditional UPDATE
	// and reports how many rows matched. There is no separate ownership read,
	// so a concurrent delete cannot slip between check and write.
	UpdateFields(ctx context.Context, ownerID, id uint, fields map[string]any) (int64, error)
	// Delete removes the row permanently and reports how many rows matched.
	Delete(ctx context.Context, ownerID, id uint) (int64, error)
}

type gormTodoRepository struct {
	db *gorm.DB
}

func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, ownerID, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&todo)
	if result.Error != nil {
		return nil, result.Error
	}
	return &todo, nil
}

// List returns one page of the owner's todos plus the total count of rows
// matching the same filter, so the caller can compute page numbers without a
// second query round trip of its own.
func (r *gormTodoRepository) List(ctx context.Context, ownerID uint, f TodoFilter) ([]domain.Todo, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("user_id = ?", ownerID)

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			r.db.Where("title ILIKE ?", pattern).Or("description ILIKE ?", pattern),
		)
	}
	if f.Completed != nil {
		query = query.Where("completed = ?", *f.Completed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var todos []domain.Todo
	result := query.
		Order("created_at DESC, id DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&todos)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return todos, total, nil
}

func (r *gormTodoRepository) UpdateFields(ctx context.Context, ownerID, id uint, fields map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, ownerID, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Todo{})
	return result.RowsAffected, result.Error
}
