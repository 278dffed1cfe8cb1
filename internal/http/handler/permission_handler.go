package handler

import (
	"net/http"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/service"
)

type PermissionHandler struct {
	permSvc   *service.PermissionService
	paginator repository.Paginator
}

func NewPermissionHandler(permSvc *service.PermissionService, paginator repository.Paginator) *PermissionHandler {
	return &PermissionHandler{permSvc: permSvc, paginator: paginator}
}

func (h *PermissionHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, state, err := h.permSvc.List(repository.PermissionListRequest{
		Params:  q,
		Page:    repository.ResolvePage(q.Get("page")),
		PerPage: h.paginator.ResolvePageSize(q.Get("per_page")),
		Path:    r.URL.Path,
		Query:   q,
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list permissions", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listPayload{Items: page.Data, Pagination: page, Filters: state})
}

// Groups serves the full catalog bucketed by group, for role edit forms.
func (h *PermissionHandler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.permSvc.Grouped()
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load permissions", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, groups)
}
