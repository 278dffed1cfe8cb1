package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/query"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/service"
)

type TodoHandler struct {
	todoSvc   *service.TodoService
	paginator repository.Paginator
}

func NewTodoHandler(todoSvc *service.TodoService, paginator repository.Paginator) *TodoHandler {
	return &TodoHandler{todoSvc: todoSvc, paginator: paginator}
}

func (h *TodoHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, state, err := h.todoSvc.List(repository.TodoListRequest{
		Params:  q,
		Page:    repository.ResolvePage(q.Get("page")),
		PerPage: h.paginator.ResolvePageSize(q.Get("per_page")),
		Path:    r.URL.Path,
		Query:   q,
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list todos", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listPayload{Items: page.Data, Pagination: page, Filters: state})
}

func (h *TodoHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	todo, err := h.todoSvc.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "todo not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load todo", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, todo)
}

type todoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func (req *todoRequest) validate() validationErrors {
	errs := validationErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.add("title", "The title field is required.")
	} else if utf8.RuneCountInString(req.Title) > 255 {
		errs.add("title", "The title field must not be greater than 255 characters.")
	}
	return errs
}

func (h *TodoHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate().write(w, r) {
		return
	}
	todo, msg, err := h.todoSvc.Create(service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create todo", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, messagePayload{Item: todo, Message: msg})
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req todoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate().write(w, r) {
		return
	}
	todo, msg, err := h.todoSvc.Update(id, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "todo not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update todo", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Item: todo, Message: msg})
}

func (h *TodoHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	msg, err := h.todoSvc.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "todo not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete todo", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Message: msg})
}

// bulkRequest selects the rows a bulk action targets. With all=true the
// filters are re-evaluated at execution time against the current table
// contents; an explicit id list is used verbatim otherwise.
type bulkRequest struct {
	IDs       []uint            `json:"ids"`
	All       bool              `json:"all"`
	Filters   map[string]string `json:"filters"`
	Completed *bool             `json:"completed"`
}

func (req *bulkRequest) selection() service.BulkSelection {
	return service.BulkSelection{
		IDs:     req.IDs,
		All:     req.All,
		Filters: query.MapParams(req.Filters),
	}
}

func (h *TodoHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := validationErrors{}
	if req.Completed == nil {
		errs.add("completed", "The completed field is required.")
	}
	if !req.All && len(req.IDs) == 0 {
		errs.add("ids", "The ids field is required when all is false.")
	}
	if errs.write(w, r) {
		return
	}
	count, msg, err := h.todoSvc.BulkUpdateCompleted(r.Context(), req.selection(), *req.Completed)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update todos", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, bulkPayload{Count: count, Message: msg})
}

func (h *TodoHandler) BulkDestroy(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := validationErrors{}
	if !req.All && len(req.IDs) == 0 {
		errs.add("ids", "The ids field is required when all is false.")
	}
	if errs.write(w, r) {
		return
	}
	count, msg, err := h.todoSvc.BulkDelete(r.Context(), req.selection())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete todos", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, bulkPayload{Count: count, Message: msg})
}
