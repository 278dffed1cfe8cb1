package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/repository"
	"todo-admin-service/internal/service"
)

type UserHandler struct {
	userSvc   *service.UserService
	paginator repository.Paginator
}

func NewUserHandler(userSvc *service.UserService, paginator repository.Paginator) *UserHandler {
	return &UserHandler{userSvc: userSvc, paginator: paginator}
}

func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, state, err := h.userSvc.List(repository.UserListRequest{
		Params:  q,
		Page:    repository.ResolvePage(q.Get("page")),
		PerPage: h.paginator.ResolvePageSize(q.Get("per_page")),
		Path:    r.URL.Path,
		Query:   q,
	})
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list users", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, listPayload{Items: page.Data, Pagination: page, Filters: state})
}

func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	user, err := h.userSvc.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleIDs  []uint `json:"role_ids"`
}

func (req *userRequest) validate(passwordRequired bool) validationErrors {
	errs := validationErrors{}
	if strings.TrimSpace(req.Name) == "" {
		errs.add("name", "The name field is required.")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs.add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs.add("email", "The email field must be a valid email address.")
	}
	if passwordRequired && req.Password == "" {
		errs.add("password", "The password field is required.")
	}
	if req.Password != "" && len(req.Password) < 8 {
		errs.add("password", "The password field must be at least 8 characters.")
	}
	return errs
}

func (h *UserHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate(true).write(w, r) {
		return
	}
	user, msg, err := h.userSvc.Create(r.Context(), service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  req.RoleIDs,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			errs := validationErrors{}
			errs.add("email", "The email has already been taken.")
			errs.write(w, r)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to create user", nil)
		return
	}
	response.JSON(w, r, http.StatusCreated, messagePayload{Item: user, Message: msg})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.validate(false).write(w, r) {
		return
	}
	user, msg, err := h.userSvc.Update(r.Context(), id, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleIDs:  req.RoleIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		case errors.Is(err, service.ErrEmailTaken):
			errs := validationErrors{}
			errs.add("email", "The email has already been taken.")
			errs.write(w, r)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to update user", nil)
		}
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Item: user, Message: msg})
}

func (h *UserHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	msg, err := h.userSvc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to delete user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, messagePayload{Message: msg})
}
