package repository

import (
	"errors"
	"net/url"
	"testing"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/query"
)

func TestTodoRepositoryCreateFetchRoundTrip(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	todo := &domain.Todo{Title: "Buy milk"}
	if err := repo.Create(todo); err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.ID == 0 {
		t.Fatal("expected generated id")
	}

	got, err := repo.FindByID(todo.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "Buy milk" || got.Description != nil || got.Completed {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected generated timestamps")
	}
}

func TestTodoRepositoryUpdateAndNotFound(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	todo := &domain.Todo{Title: "original"}
	if err := repo.Create(todo); err != nil {
		t.Fatalf("create: %v", err)
	}

	todo.Title = "updated"
	todo.Description = strptr("now with details")
	todo.Completed = true
	if err := repo.Update(todo); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(todo.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "updated" || got.Description == nil || *got.Description != "now with details" || !got.Completed {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.Update(&domain.Todo{ID: 999999, Title: "x"}); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
	if _, err := repo.FindByID(999999); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoRepositorySoftDeleteHidesRow(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	todo := &domain.Todo{Title: "ephemeral"}
	if err := repo.Create(todo); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected soft-deleted row to be invisible, got %v", err)
	}
	if err := repo.Delete(todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on double delete, got %v", err)
	}

	// Row still physically present, only flagged.
	var count int64
	if err := db.Unscoped().Model(&domain.Todo{}).Where("id = ?", todo.ID).Count(&count).Error; err != nil {
		t.Fatalf("unscoped count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected recoverable row, got count=%d", count)
	}
}

func TestTodoRepositoryListPagedFiltersAndEchoesState(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	for _, todo := range []*domain.Todo{
		{Title: "Buy milk"},
		{Title: "Walk dog"},
		{Title: "Buy more milk", Completed: true},
	} {
		if err := repo.Create(todo); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, state, err := repo.ListPaged(TodoListRequest{
		Params:  query.MapParams{"search": "milk", "sort": "title", "direction": "asc"},
		Page:    1,
		PerPage: 10,
		Path:    "/api/v1/todos",
		Query:   url.Values{"search": {"milk"}},
	})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if page.Total != 2 || len(page.Data) != 2 {
		t.Fatalf("unexpected search result: %+v", page)
	}
	if page.Data[0].Title != "Buy milk" || page.Data[1].Title != "Buy more milk" {
		t.Fatalf("unexpected order: %v, %v", page.Data[0].Title, page.Data[1].Title)
	}
	if state.Search != "milk" || state.Sort != "title" || state.Direction != "asc" {
		t.Fatalf("unexpected state echo: %+v", state)
	}

	page, _, err = repo.ListPaged(TodoListRequest{
		Params:  query.MapParams{"completed": "true"},
		Page:    1,
		PerPage: 10,
		Path:    "/api/v1/todos",
	})
	if err != nil {
		t.Fatalf("list paged completed: %v", err)
	}
	if page.Total != 1 || page.Data[0].Title != "Buy more milk" {
		t.Fatalf("unexpected completed filter result: %+v", page)
	}
}

func TestTodoRepositoryBulkUpdateAllMatchingFilters(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	for i, completed := range []bool{false, false, false, true, true} {
		if err := repo.Create(&domain.Todo{Title: "todo", Completed: completed}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	affected, err := repo.BulkUpdateCompleted(nil, true, query.MapParams{"completed": "false"}, true)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if affected != 3 {
		t.Fatalf("expected 3 affected rows, got %d", affected)
	}

	var remaining int64
	if err := db.Model(&domain.Todo{}).Where("completed = ?", false).Count(&remaining).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected every row completed, %d remain", remaining)
	}
}

func TestTodoRepositoryBulkDeleteByIDsSkipsMissing(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	a := &domain.Todo{Title: "a"}
	b := &domain.Todo{Title: "b"}
	for _, todo := range []*domain.Todo{a, b} {
		if err := repo.Create(todo); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Delete(b.ID); err != nil {
		t.Fatalf("pre-delete: %v", err)
	}

	// One live id, one soft-deleted, one that never existed.
	affected, err := repo.BulkDelete([]uint{a.ID, b.ID, 424242}, false, nil)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected row, got %d", affected)
	}
}

func TestTodoRepositoryBulkUpdateAllWithoutFilters(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewTodoRepository(db)

	for i := 0; i < 4; i++ {
		if err := repo.Create(&domain.Todo{Title: "todo"}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	affected, err := repo.BulkUpdateCompleted(nil, true, query.MapParams{}, true)
	if err != nil {
		t.Fatalf("bulk update all: %v", err)
	}
	if affected != 4 {
		t.Fatalf("expected every row affected, got %d", affected)
	}
}
