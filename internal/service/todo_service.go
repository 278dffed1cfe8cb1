package service

import (
	"context"
	"fmt"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/observability"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
)

// TodoService implements the todo CRUD and bulk operations.
type TodoService struct {
	todos repository.TodoRepository
}

func NewTodoService(todos repository.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// TodoInput carries the writable todo fields.
type TodoInput struct {
	Title       string
	Description *string
	Completed   bool
}

func (s *TodoService) List(req repository.TodoListRequest) (repository.Page[domain.Todo], query.State, error) {
	return s.todos.ListPaged(req)
}

func (s *TodoService) Get(id uint) (*domain.Todo, error) {
	return s.todos.FindByID(id)
}

func (s *TodoService) Create(in TodoInput) (*domain.Todo, string, error) {
	todo := &domain.Todo{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}
	if err := s.todos.Create(todo); err != nil {
		return nil, "", err
	}
	return todo, "Todo created successfully.", nil
}

func (s *TodoService) Update(id uint, in TodoInput) (*domain.Todo, string, error) {
	todo, err := s.todos.FindByID(id)
	if err != nil {
		return nil, "", err
	}
	todo.Title = in.Title
	todo.Description = in.Description
	todo.Completed = in.Completed
	if err := s.todos.Update(todo); err != nil {
		return nil, "", err
	}
	return todo, "Todo updated successfully.", nil
}

func (s *TodoService) Delete(id uint) (string, error) {
	if err := s.todos.Delete(id); err != nil {
		return "", err
	}
	return "Todo deleted successfully.", nil
}

// BulkSelection identifies the rows a bulk operation targets: either an
// explicit ID list, or every row matching the given filters when All is set.
// Filters are re-applied at execution time, so rows created or modified after
// the client built its selection are included.
type BulkSelection struct {
	IDs     []uint
	All     bool
	Filters query.Params
}

func (s *TodoService) BulkUpdateCompleted(ctx context.Context, sel BulkSelection, completed bool) (int64, string, error) {
	count, err := s.todos.BulkUpdateCompleted(sel.IDs, sel.All, sel.Filters, completed)
	if err != nil {
		return 0, "", err
	}
	observability.RecordBulkAffected(ctx, "update", count)
	status := "uncompleted"
	if completed {
		status = "completed"
	}
	return count, fmt.Sprintf("%d items marked as %s", count, status), nil
}

func (s *TodoService) BulkDelete(ctx context.Context, sel BulkSelection) (int64, string, error) {
	count, err := s.todos.BulkDelete(sel.IDs, sel.All, sel.Filters)
	if err != nil {
		return 0, "", err
	}
	observability.RecordBulkAffected(ctx, "delete", count)
	return count, fmt.Sprintf("%d items deleted successfully", count), nil
}
