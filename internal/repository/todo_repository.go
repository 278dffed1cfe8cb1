package repository

import (
	"context"
	"errors"
	"net/url"

	"gorm.io/gorm"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/observability"
	"todo-admin-service/internal/query"
)

var ErrTodoNotFound = errors.New("todo not found")

// TodoQuery declares the request-facing query surface for todos: which
// fields free-text search touches, which may be sorted on, and the extra
// filter keys.
var TodoQuery = query.Definition{
	Searchable:       []string{"title", "description"},
	Sortable:         []string{"title", "created_at", "completed"},
	DefaultSort:      "created_at",
	DefaultDirection: query.DirectionDesc,
	Filters: map[string]query.FilterFunc{
		"completed": query.BoolEquals("completed"),
	},
}

type TodoListRequest struct {
	Params  query.Params
	Page    int
	PerPage int
	Path    string
	Query   url.Values
}

type TodoRepository interface {
	ListPaged(req TodoListRequest) (Page[domain.Todo], query.State, error)
	FindByID(id uint) (*domain.Todo, error)
	Create(todo *domain.Todo) error
	Update(todo *domain.Todo) error
	Delete(id uint) error
	BulkUpdateCompleted(ids []uint, all bool, filters query.Params, completed bool) (int64, error)
	BulkDelete(ids []uint, all bool, filters query.Params) (int64, error)
}

type GormTodoRepository struct{ db *gorm.DB }

func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

func (r *GormTodoRepository) ListPaged(req TodoListRequest) (Page[domain.Todo], query.State, error) {
	q, state := TodoQuery.Apply(r.db.Model(&domain.Todo{}), req.Params)
	page, err := Paginate[domain.Todo](q, req.Page, req.PerPage, req.Path, req.Query)
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "list", "error")
		return Page[domain.Todo]{}, state, err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "list", "success")
	return page, state, nil
}

func (r *GormTodoRepository) FindByID(id uint) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.First(&todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "not_found")
			return nil, ErrTodoNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "find_by_id", "success")
	return &todo, nil
}

func (r *GormTodoRepository) Create(todo *domain.Todo) error {
	if err := r.db.Create(todo).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "create", "success")
	return nil
}

func (r *GormTodoRepository) Update(todo *domain.Todo) error {
	res := r.db.Model(&domain.Todo{}).Where("id = ?", todo.ID).Updates(map[string]any{
		"title":       todo.Title,
		"description": todo.Description,
		"completed":   todo.Completed,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "todo", "update", "not_found")
		return ErrTodoNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "update", "success")
	return nil
}

func (r *GormTodoRepository) Delete(id uint) error {
	res := r.db.Delete(&domain.Todo{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "not_found")
		return ErrTodoNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "delete", "success")
	return nil
}

// bulkTarget narrows a transaction to the rows a bulk action operates on.
// With all set the filters are re-run at execution time, so the target is
// whatever matches right now rather than a snapshot captured at selection
// time. Ids pointing at missing or soft-deleted rows simply match nothing.
func bulkTarget(tx *gorm.DB, ids []uint, all bool, filters query.Params) *gorm.DB {
	target := tx.Model(&domain.Todo{})
	if all {
		// "Everything currently matching" with no filters set really does
		// mean every row, so the global-update guard must stand down.
		target = target.Session(&gorm.Session{AllowGlobalUpdate: true})
		target, _ = TodoQuery.Constrain(target, filters)
		return target
	}
	return target.Where("id IN ?", ids)
}

func (r *GormTodoRepository) BulkUpdateCompleted(ids []uint, all bool, filters query.Params, completed bool) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := bulkTarget(tx, ids, all, filters).Update("completed", completed)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "bulk_update", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "bulk_update", "success")
	return affected, nil
}

func (r *GormTodoRepository) BulkDelete(ids []uint, all bool, filters query.Params) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := bulkTarget(tx, ids, all, filters).Delete(&domain.Todo{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "todo", "bulk_delete", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(context.Background(), "todo", "bulk_delete", "success")
	return affected, nil
}
