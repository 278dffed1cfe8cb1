package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/service"
)

type RoleHandler struct {
	roleSvc   *service.RoleService
	paginator repository.Paginator
}

func NewRoleHandler(roleSvc *service.RoleService, paginator repository.Paginator) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc, paginator: paginator}
}

func (h *RoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, state, err := h.roleSvc.List(repository.RoleListRequest{
		Params:  q,
		Page:    repository.ResolvePage(q.Get("page")),
		PerPage: h.paginator.ResolvePageSize(q.Get("per_page")),
		Path:    r.URL.Path,
		Query:   q,
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list roles", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listPayload{Items: page.Data, Pagination: page, Filters: state})
}

func (h *RoleHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	role, err := h.roleSvc.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "role not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load role", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, role)
}

type roleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (req *roleRequest) validate() validationErrors {
	errs := validationErrors{}
	if strings.TrimSpace(req.Name) == "" {
		errs.add("name", "The name field is required.")
	} else if utf8.RuneCountInString(req.Name) > 255 {
		errs.add("name", "The name field must not be greater than 255 characters.")
	}
	return errs
}

func (h *RoleHandler) writeRoleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrRoleNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "role not found", nil)
	case errors.Is(err, service.ErrRoleNameTaken):
		errs := validationErrors{}
		errs.add("name", "The name has already been taken.")
		errs.write(w, r)
	case errors.Is(err, service.ErrUnknownPermissions):
		errs := validationErrors{}
		errs.add("permissions", "The selected permissions are invalid.")
		errs.write(w, r)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to save role", nil)
	}
}

func (h *RoleHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate().write(w, r) {
		return
	}
	role, msg, err := h.roleSvc.Create(r.Context(), req.Name, req.Permissions)
	if err != nil {
		h.writeRoleError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, messagePayload{Item: role, Message: msg})
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate().write(w, r) {
		return
	}
	role, msg, err := h.roleSvc.Update(r.Context(), id, req.Name, req.Permissions)
	if err != nil {
		h.writeRoleError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Item: role, Message: msg})
}

func (h *RoleHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	msg, err := h.roleSvc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "role not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete role", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Message: msg})
}
